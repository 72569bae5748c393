// Package session holds the client-local authentication and feedback
// eligibility flags shared by the auth flow and the feedback widget.
package session

import (
	"errors"
	"sync"
)

// ErrNotAuthenticated is returned when feedback is recorded without a
// logged-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Snapshot is a point-in-time copy of the session flags.
type Snapshot struct {
	Authenticated        bool   `json:"authenticated"`
	HasSubmittedFeedback bool   `json:"has_submitted_feedback"`
	DisplayName          string `json:"display_name"`
}

// State is the process-wide session. The auth flow calls Login/Logout and
// the feedback widget claims and releases feedback; everything else reads.
type State struct {
	mu          sync.Mutex
	snap        Snapshot
	subscribers map[int]func(Snapshot)
	nextSub     int
}

// New returns a logged-out session.
func New() *State {
	return &State{subscribers: make(map[int]func(Snapshot))}
}

// Snapshot returns the current flags.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Authenticated reports whether a user is logged in.
func (s *State) Authenticated() bool { return s.Snapshot().Authenticated }

// HasSubmittedFeedback reports whether the current user already left feedback.
func (s *State) HasSubmittedFeedback() bool { return s.Snapshot().HasSubmittedFeedback }

// DisplayName returns the logged-in user's name, or "" when logged out.
func (s *State) DisplayName() string { return s.Snapshot().DisplayName }

// Subscribe registers fn to receive every change. The returned function
// removes the subscription.
func (s *State) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Login marks the session authenticated as displayName.
func (s *State) Login(displayName string) {
	s.update(func(snap *Snapshot) {
		snap.Authenticated = true
		snap.DisplayName = displayName
	})
}

// Logout clears authentication. Feedback eligibility is reset too, so the
// next user to log in may leave feedback again.
func (s *State) Logout() {
	s.update(func(snap *Snapshot) {
		*snap = Snapshot{}
	})
}

// MarkFeedbackSubmitted records that the logged-in user left feedback.
func (s *State) MarkFeedbackSubmitted() error {
	var err error
	s.update(func(snap *Snapshot) {
		if !snap.Authenticated {
			err = ErrNotAuthenticated
			return
		}
		snap.HasSubmittedFeedback = true
	})
	return err
}

// ClaimFeedback marks feedback submitted if the session is logged in and
// has not submitted yet. It returns the flags as they were before the claim
// and whether the claim took effect.
func (s *State) ClaimFeedback() (Snapshot, bool) {
	var (
		before  Snapshot
		claimed bool
	)
	s.update(func(snap *Snapshot) {
		before = *snap
		if snap.Authenticated && !snap.HasSubmittedFeedback {
			snap.HasSubmittedFeedback = true
			claimed = true
		}
	})
	return before, claimed
}

// ReleaseFeedback undoes a claim by displayName. It does nothing once that
// user has logged out.
func (s *State) ReleaseFeedback(displayName string) {
	s.update(func(snap *Snapshot) {
		if snap.Authenticated && snap.DisplayName == displayName {
			snap.HasSubmittedFeedback = false
		}
	})
}

func (s *State) update(fn func(*Snapshot)) {
	s.mu.Lock()
	before := s.snap
	fn(&s.snap)
	after := s.snap
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	if before == after {
		return
	}
	for _, sub := range subs {
		sub(after)
	}
}
