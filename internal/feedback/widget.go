// Package feedback implements the star-rating and comment widget.
//
// Only a logged-in user who has not yet left feedback may rate or comment.
// Entries are listed newest first.
package feedback

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/amsmath/ams/internal/session"
)

var (
	ErrNotAuthenticated = errors.New("log in to leave feedback")
	ErrAlreadySubmitted = errors.New("feedback already submitted")
	ErrEmptyInput       = errors.New("comment or rating required")
	ErrInvalidRating    = errors.New("rating out of range")
)

var userMessages = map[error]string{
	ErrNotAuthenticated: "Please log in to leave a comment or rating.",
	ErrAlreadySubmitted: "You have already submitted your feedback. Thank you!",
	ErrEmptyInput:       "Please write a comment or select a rating.",
	ErrInvalidRating:    "Please choose between 0 and 5 stars.",
}

// UserMessage returns the user-facing text for a feedback error.
func UserMessage(err error) string {
	if msg, ok := Lookup(err); ok {
		return msg
	}
	return "Could not save your feedback. Please try again."
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

// Widget coordinates rating, hover preview and submission.
type Widget struct {
	// submitMu serializes submissions so a double click stores one entry.
	submitMu sync.Mutex

	mu      sync.Mutex
	sess    *session.State
	store   *Store
	rating  int
	hover   int
	hovered bool

	onChange func()
}

// NewWidget creates a widget bound to a session. The widget resets its
// rating when the session logs out.
func NewWidget(sess *session.State, store *Store) *Widget {
	w := &Widget{sess: sess, store: store}
	sess.Subscribe(func(snap session.Snapshot) {
		if snap.Authenticated {
			w.changed()
			return
		}
		w.mu.Lock()
		w.rating, w.hover, w.hovered = 0, 0, false
		w.mu.Unlock()
		w.changed()
	})
	return w
}

// SetOnChange configures the callback for rating and list updates.
func (w *Widget) SetOnChange(fn func()) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// Enabled reports whether the widget accepts input.
func (w *Widget) Enabled() bool {
	return eligible(w.sess.Snapshot()) == nil
}

// Rating returns the persisted star selection.
func (w *Widget) Rating() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rating
}

// Highlight returns how many stars to light: the hover preview while the
// pointer is over a star, the persisted rating otherwise.
func (w *Widget) Highlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hovered {
		return w.hover
	}
	return w.rating
}

// SetRating persists a star selection.
func (w *Widget) SetRating(n int) error {
	if err := eligible(w.sess.Snapshot()); err != nil {
		return err
	}
	if n < 0 || n > MaxRating {
		return ErrInvalidRating
	}
	w.mu.Lock()
	w.rating = n
	w.mu.Unlock()
	w.changed()
	return nil
}

// Hover previews n stars. It is ignored while the widget is disabled.
func (w *Widget) Hover(n int) {
	if !w.Enabled() || n < 0 || n > MaxRating {
		return
	}
	w.mu.Lock()
	w.hover, w.hovered = n, true
	w.mu.Unlock()
	w.changed()
}

// Leave ends the hover preview.
func (w *Widget) Leave() {
	w.mu.Lock()
	was := w.hovered
	w.hover, w.hovered = 0, false
	w.mu.Unlock()
	if was {
		w.changed()
	}
}

// Submit stores a comment and rating for the logged-in user. A blank
// comment is accepted with a nonzero rating and vice versa.
func (w *Widget) Submit(ctx context.Context, comment string, rating int) (*Entry, error) {
	w.submitMu.Lock()
	defer w.submitMu.Unlock()

	if err := eligible(w.sess.Snapshot()); err != nil {
		return nil, err
	}
	if rating < 0 || rating > MaxRating {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)
	if comment == "" && rating == 0 {
		return nil, ErrEmptyInput
	}

	// Eligibility is claimed before the insert and released if it fails.
	snap, ok := w.sess.ClaimFeedback()
	if !ok {
		if err := eligible(snap); err != nil {
			return nil, err
		}
		return nil, ErrAlreadySubmitted
	}

	entry, err := w.store.Add(ctx, Entry{
		Author:  snap.DisplayName,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		w.sess.ReleaseFeedback(snap.DisplayName)
		return nil, err
	}

	loggedIn := w.sess.Authenticated()
	w.mu.Lock()
	if loggedIn {
		w.rating = rating
	}
	w.hover, w.hovered = 0, false
	w.mu.Unlock()
	w.changed()
	return entry, nil
}

// Entries returns all feedback, newest first.
func (w *Widget) Entries(ctx context.Context) ([]Entry, error) {
	return w.store.List(ctx)
}

func (w *Widget) changed() {
	w.mu.Lock()
	cb := w.onChange
	w.mu.Unlock()
	notify(cb)
}

func eligible(snap session.Snapshot) error {
	if !snap.Authenticated {
		return ErrNotAuthenticated
	}
	if snap.HasSubmittedFeedback {
		return ErrAlreadySubmitted
	}
	return nil
}

func notify(cb func()) {
	if cb != nil {
		cb()
	}
}
