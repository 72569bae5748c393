// Package auth implements the simulated login and signup forms.
//
// There is no account backend: a single configured credential pair is
// accepted, and signing up only validates the form.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/schedule"
	"github.com/amsmath/ams/internal/session"
)

var (
	ErrEmptyField         = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("required signup fields are missing")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrTermsNotAccepted   = errors.New("terms not accepted")
	ErrUnknownTab         = errors.New("unknown auth tab")
)

// userMessages holds the text shown in the auth panel for each error.
var userMessages = map[error]string{
	ErrEmptyField:         "Please enter both username and password.",
	ErrInvalidCredentials: "Invalid username or password.",
	ErrMissingFields:      "Please fill in all required fields.",
	ErrPasswordMismatch:   "Passwords do not match.",
	ErrTermsNotAccepted:   "You must agree to the terms and conditions.",
	ErrUnknownTab:         "Unknown form.",
}

// UserMessage returns the user-facing text for an auth error.
func UserMessage(err error) string {
	if msg, ok := Lookup(err); ok {
		return msg
	}
	return "Something went wrong. Please try again."
}

// Lookup returns the user-facing text for err and whether err is one of
// this package's input errors.
func Lookup(err error) (string, bool) {
	for target, msg := range userMessages {
		if errors.Is(err, target) {
			return msg, true
		}
	}
	return "", false
}

// Tab selects which of the two forms is shown.
type Tab string

const (
	TabLogin  Tab = "login"
	TabSignup Tab = "signup"
)

// Level classifies an auth panel message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is the status line shown under the active form.
type Message struct {
	Level Level  `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Credentials is the single accepted username/password pair.
type Credentials struct {
	Username string
	Password string
}

// SignupForm carries the signup fields.
type SignupForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	AgreedToTerms   bool   `json:"agreed_to_terms"`
}

// PanelCloser hides the auth panel once a login succeeds.
type PanelCloser interface {
	Close(id overlay.PanelID) error
}

// Options configures a Flow.
type Options struct {
	LoginCloseDelay   time.Duration
	SignupSwitchDelay time.Duration
	Scheduler         schedule.Scheduler
}

// Flow validates the auth forms and drives the session.
type Flow struct {
	mu      sync.Mutex
	sess    *session.State
	panels  PanelCloser
	creds   Credentials
	opts    Options
	tab     Tab
	msg     Message
	pending schedule.Task
	gen     uint64

	onChange func()
}

// NewFlow creates a Flow showing the login tab.
func NewFlow(sess *session.State, panels PanelCloser, creds Credentials, opts Options) *Flow {
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.Real{}
	}
	return &Flow{
		sess:   sess,
		panels: panels,
		creds:  creds,
		opts:   opts,
		tab:    TabLogin,
	}
}

// SetOnChange configures the callback for tab and message updates.
func (f *Flow) SetOnChange(fn func()) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Tab returns the active form.
func (f *Flow) Tab() Tab {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tab
}

// Message returns the current status line.
func (f *Flow) Message() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

// ActivateTab shows one form, hides the other and clears any message.
// A pending automatic tab switch is cancelled.
func (f *Flow) ActivateTab(tab Tab) error {
	if tab != TabLogin && tab != TabSignup {
		return ErrUnknownTab
	}
	f.mu.Lock()
	f.cancelPendingLocked()
	f.tab = tab
	f.msg = Message{}
	cb := f.onChange
	f.mu.Unlock()
	notify(cb)
	return nil
}

// SubmitLogin checks the credentials. On success the session is
// authenticated and the auth panel closes after LoginCloseDelay.
func (f *Flow) SubmitLogin(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return f.fail(ErrEmptyField)
	}
	if !f.matches(username, password) {
		return f.fail(ErrInvalidCredentials)
	}

	f.sess.Login(username)

	f.mu.Lock()
	f.msg = Message{Level: LevelSuccess, Text: "Login successful! Welcome, " + username + "."}
	gen := f.nextGenLocked()
	f.pending = f.opts.Scheduler.After(f.opts.LoginCloseDelay, func() {
		if !f.finishPending(gen, func() { f.msg = Message{} }) {
			return
		}
		if f.panels != nil {
			_ = f.panels.Close(overlay.PanelAuth)
		}
	})
	cb := f.onChange
	f.mu.Unlock()
	notify(cb)
	return nil
}

// SubmitSignup validates the signup form. A valid signup does not log the
// user in; it shows a confirmation and returns to the login tab after
// SignupSwitchDelay.
func (f *Flow) SubmitSignup(form SignupForm) error {
	if strings.TrimSpace(form.Username) == "" ||
		strings.TrimSpace(form.Email) == "" ||
		strings.TrimSpace(form.Password) == "" ||
		strings.TrimSpace(form.ConfirmPassword) == "" {
		return f.fail(ErrMissingFields)
	}
	if form.Password != form.ConfirmPassword {
		return f.fail(ErrPasswordMismatch)
	}
	if !form.AgreedToTerms {
		return f.fail(ErrTermsNotAccepted)
	}

	f.mu.Lock()
	f.msg = Message{Level: LevelSuccess, Text: "Account created successfully! Please log in."}
	gen := f.nextGenLocked()
	f.pending = f.opts.Scheduler.After(f.opts.SignupSwitchDelay, func() {
		f.finishPending(gen, func() {
			f.tab = TabLogin
			f.msg = Message{}
		})
	})
	cb := f.onChange
	f.mu.Unlock()
	notify(cb)
	return nil
}

// Logout ends the session. Feedback eligibility is reset with it.
func (f *Flow) Logout() {
	f.sess.Logout()
}

func (f *Flow) matches(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(f.creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(f.creds.Password)) == 1
	return userOK && passOK
}

func (f *Flow) fail(err error) error {
	f.mu.Lock()
	f.cancelPendingLocked()
	f.msg = Message{Level: LevelError, Text: UserMessage(err)}
	cb := f.onChange
	f.mu.Unlock()
	notify(cb)
	return err
}

// nextGenLocked cancels any pending follow-up and returns the generation
// the next one must carry.
func (f *Flow) nextGenLocked() uint64 {
	f.cancelPendingLocked()
	return f.gen
}

func (f *Flow) cancelPendingLocked() {
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
	}
	f.gen++
}

// finishPending applies a scheduled follow-up if it is still current.
func (f *Flow) finishPending(gen uint64, apply func()) bool {
	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return false
	}
	f.pending = nil
	apply()
	cb := f.onChange
	f.mu.Unlock()
	notify(cb)
	return true
}

func notify(cb func()) {
	if cb != nil {
		cb()
	}
}
