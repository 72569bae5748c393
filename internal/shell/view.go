package shell

import (
	"context"
	"fmt"

	"github.com/amsmath/ams/internal/auth"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/session"
	"github.com/amsmath/ams/internal/solve"
)

// Nav button labels for the auth entry.
const (
	LoginLabel  = "Log in"
	LogoutLabel = "Log out"
)

// View is a render-ready snapshot of the whole shell.
type View struct {
	Panels   []overlay.PanelState `json:"panels"`
	Session  session.Snapshot     `json:"session"`
	Nav      NavView              `json:"nav"`
	Auth     AuthView             `json:"auth"`
	Feedback FeedbackView         `json:"feedback"`
	Solve    SolveView            `json:"solve"`
}

// NavView is the navigation bar.
type NavView struct {
	AuthLabel string `json:"auth_label"`
}

// AuthView is the auth panel.
type AuthView struct {
	Tab     auth.Tab     `json:"tab"`
	Message auth.Message `json:"message"`
}

// FeedbackView is the comment widget.
type FeedbackView struct {
	Enabled   bool        `json:"enabled"`
	Rating    int         `json:"rating"`
	Highlight int         `json:"highlight"`
	Stars     string      `json:"stars"`
	Entries   []EntryView `json:"entries"`
}

// EntryView is one posted comment.
type EntryView struct {
	feedback.Entry
	StarBar string `json:"stars"`
}

// SolveView is the input and results region.
type SolveView struct {
	State           solve.State `json:"state"`
	ResultsVisible  bool        `json:"results_visible"`
	ResultText      string      `json:"result_text"`
	ExplanationText string      `json:"explanation_text"`
	ExplanationHTML string      `json:"explanation_html,omitempty"`
	Prompt          string      `json:"prompt,omitempty"`
	Kind            solve.Kind  `json:"kind,omitempty"`
}

// Panel returns the visibility of one panel in the view.
func (v View) Panel(id overlay.PanelID) overlay.Visibility {
	for _, p := range v.Panels {
		if p.ID == id {
			return p.Visibility
		}
	}
	return ""
}

// View builds a snapshot of every component.
func (s *Shell) View(ctx context.Context) (View, error) {
	sess := s.sess.Snapshot()
	v := View{
		Panels:  s.panels.Snapshot(),
		Session: sess,
		Nav:     NavView{AuthLabel: LoginLabel},
		Auth: AuthView{
			Tab:     s.auth.Tab(),
			Message: s.auth.Message(),
		},
	}
	if sess.Authenticated {
		v.Nav.AuthLabel = LogoutLabel
	}

	highlight := s.feedback.Highlight()
	v.Feedback = FeedbackView{
		Enabled:   s.feedback.Enabled(),
		Rating:    s.feedback.Rating(),
		Highlight: highlight,
		Stars:     feedback.Stars(highlight),
	}
	entries, err := s.feedback.Entries(ctx)
	if err != nil {
		return View{}, fmt.Errorf("listing feedback: %w", err)
	}
	v.Feedback.Entries = make([]EntryView, 0, len(entries))
	for _, e := range entries {
		v.Feedback.Entries = append(v.Feedback.Entries, EntryView{Entry: e, StarBar: e.Stars()})
	}

	v.Solve = s.solveView()
	return v, nil
}

func (s *Shell) solveView() SolveView {
	st := s.solver.Status()
	d := st.Display()
	sv := SolveView{
		State:           st.State,
		ResultsVisible:  st.ResultsVisible(),
		ResultText:      d.ResultText,
		ExplanationText: d.ExplanationText,
		Prompt:          st.Prompt,
	}
	if st.Last != nil {
		sv.Kind = st.Last.Kind
	}
	if d.ExplanationText != "" {
		html, err := s.renderer.HTML(d.ExplanationText)
		if err == nil {
			sv.ExplanationHTML = html
		}
	}
	return sv
}
