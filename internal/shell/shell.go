// Package shell coordinates the UI state of the solver front end: panels,
// session, authentication, feedback and the solve request lifecycle. Every
// front end (web, terminal, agent) drives one Shell.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/amsmath/ams/internal/auth"
	"github.com/amsmath/ams/internal/config"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/render"
	"github.com/amsmath/ams/internal/schedule"
	"github.com/amsmath/ams/internal/session"
	"github.com/amsmath/ams/internal/solve"
)

// Deps are the collaborators a Shell is built from.
type Deps struct {
	Solver    solve.Solver
	Feedback  *feedback.Store
	Scheduler schedule.Scheduler
	// Panels overrides overlay.DefaultPanels when set.
	Panels []overlay.Panel
}

// Shell owns every UI component and projects them into a View.
type Shell struct {
	panels   *overlay.Controller
	sess     *session.State
	auth     *auth.Flow
	feedback *feedback.Widget
	solver   *solve.Coordinator
	renderer *render.Renderer

	mu      sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds a shell. It fails with *MissingElementError when the surface
// lacks an element some component needs.
func New(cfg *config.Config, surface Surface, deps Deps) (*Shell, error) {
	if deps.Solver == nil {
		return nil, errors.New("shell: solver is required")
	}
	if deps.Feedback == nil {
		return nil, errors.New("shell: feedback store is required")
	}
	panels := deps.Panels
	if panels == nil {
		panels = overlay.DefaultPanels
	}
	if err := register(surface, panels); err != nil {
		return nil, err
	}
	if deps.Scheduler == nil {
		deps.Scheduler = schedule.Real{}
	}

	s := &Shell{
		sess:     session.New(),
		renderer: render.New(),
		subs:     make(map[int]func()),
	}
	s.panels = overlay.NewController(panels, overlay.Options{
		OpenDelay:  cfg.Panels.OpenDelay,
		CloseDelay: cfg.Panels.CloseDelay,
		Scheduler:  deps.Scheduler,
	})
	s.auth = auth.NewFlow(s.sess, s.panels, auth.Credentials{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
	}, auth.Options{
		LoginCloseDelay:   cfg.Auth.LoginCloseDelay,
		SignupSwitchDelay: cfg.Auth.SignupSwitchDelay,
		Scheduler:         deps.Scheduler,
	})
	s.feedback = feedback.NewWidget(s.sess, deps.Feedback)
	s.solver = solve.NewCoordinator(deps.Solver)

	s.panels.SetOnChange(func([]overlay.PanelState) { s.changed() })
	s.auth.SetOnChange(s.changed)
	s.feedback.SetOnChange(s.changed)
	s.solver.SetOnChange(s.changed)
	s.sess.Subscribe(func(session.Snapshot) { s.changed() })

	return s, nil
}

// Subscribe registers fn to run after any state change. fn runs on the
// goroutine that caused the change and must not block.
func (s *Shell) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Shell) changed() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Session returns the current session snapshot.
func (s *Shell) Session() session.Snapshot { return s.sess.Snapshot() }

// OpenPanel starts showing a panel.
func (s *Shell) OpenPanel(id overlay.PanelID) error {
	return s.act(s.panels.Open(id))
}

// ClosePanel starts hiding a panel.
func (s *Shell) ClosePanel(id overlay.PanelID) error {
	return s.act(s.panels.Close(id))
}

// ClickBackdrop handles a click on target inside panel id.
func (s *Shell) ClickBackdrop(id overlay.PanelID, target string) error {
	return s.act(s.panels.ClickBackdrop(id, target))
}

// PressNav handles a nav button. The auth button logs out when a session
// is active and opens the auth panel otherwise.
func (s *Shell) PressNav(button string) error {
	id, ok := navButtons[button]
	if !ok {
		return s.act(fmt.Errorf("%w: %s", overlay.ErrUnknownPanel, button))
	}
	if id == overlay.PanelAuth && s.sess.Authenticated() {
		s.Logout()
		return nil
	}
	return s.OpenPanel(id)
}

// ActivateTab switches the auth panel tab.
func (s *Shell) ActivateTab(tab auth.Tab) error {
	return s.act(s.auth.ActivateTab(tab))
}

// Login submits the login form.
func (s *Shell) Login(username, password string) error {
	return s.act(s.auth.SubmitLogin(username, password))
}

// Signup submits the signup form.
func (s *Shell) Signup(form auth.SignupForm) error {
	return s.act(s.auth.SubmitSignup(form))
}

// Logout ends the session.
func (s *Shell) Logout() {
	s.auth.Logout()
}

// SetRating selects a star rating.
func (s *Shell) SetRating(n int) error {
	return s.act(s.feedback.SetRating(n))
}

// HoverRating previews a star rating.
func (s *Shell) HoverRating(n int) { s.feedback.Hover(n) }

// LeaveRating ends a rating preview.
func (s *Shell) LeaveRating() { s.feedback.Leave() }

// SubmitFeedback posts a comment with the given rating. A zero rating
// uses the currently selected one.
func (s *Shell) SubmitFeedback(ctx context.Context, comment string, rating int) (*feedback.Entry, error) {
	if rating == 0 {
		rating = s.feedback.Rating()
	}
	e, err := s.feedback.Submit(ctx, comment, rating)
	if err != nil {
		return nil, s.act(err)
	}
	return e, nil
}

// Solve submits an expression to the solver.
func (s *Shell) Solve(ctx context.Context, expression string) (solve.Result, error) {
	res, err := s.solver.Solve(ctx, expression)
	if err != nil {
		return res, s.act(err)
	}
	if res.Kind == solve.KindNetworkError {
		log.Printf("shell: solve request failed: %s", res.Detail)
	}
	return res, nil
}

// act translates a component error into an *ActionError.
func (s *Shell) act(err error) error {
	if err == nil {
		return nil
	}
	msg, internal := userMessage(err)
	if internal {
		log.Printf("shell: %v", err)
	}
	return &ActionError{Err: err, Message: msg, Internal: internal}
}
