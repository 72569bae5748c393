package shell

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amsmath/ams/internal/auth"
	"github.com/amsmath/ams/internal/config"
	"github.com/amsmath/ams/internal/db"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/schedule"
	"github.com/amsmath/ams/internal/solve"
)

type stubSolver struct {
	result solve.Result
	calls  atomic.Int32
}

func (s *stubSolver) Do(ctx context.Context, expression string) solve.Result {
	s.calls.Add(1)
	return s.result
}

func setupShell(t *testing.T, solver solve.Solver) (*Shell, *schedule.Manual) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sched := schedule.NewManual()
	sh, err := New(config.DefaultConfig(), DefaultSurface(), Deps{
		Solver:    solver,
		Feedback:  feedback.NewStore(database),
		Scheduler: sched,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sh, sched
}

func view(t *testing.T, sh *Shell) View {
	t.Helper()
	v, err := sh.View(context.Background())
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	return v
}

func TestNewMissingElement(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer database.Close()

	tests := []struct {
		element   string
		component string
	}{
		{"solveButton", "solve"},
		{"btnChat", "nav"},
		{"signupTerms", "auth"},
		{"starRating", "feedback"},
		{"closeVersions", "panel:versions"},
	}
	for _, tt := range tests {
		t.Run(tt.element, func(t *testing.T) {
			surface := DefaultSurface().Without(tt.element)
			_, err := New(config.DefaultConfig(), surface, Deps{
				Solver:   &stubSolver{},
				Feedback: feedback.NewStore(database),
			})
			var missing *MissingElementError
			if !errors.As(err, &missing) {
				t.Fatalf("expected MissingElementError, got %v", err)
			}
			if missing.Element != tt.element || missing.Component != tt.component {
				t.Errorf("got %+v, want component %q element %q", missing, tt.component, tt.element)
			}
		})
	}
}

func TestNewRequiresDeps(t *testing.T) {
	if _, err := New(config.DefaultConfig(), DefaultSurface(), Deps{}); err == nil {
		t.Fatal("expected error without a solver")
	}
}

func TestInitialView(t *testing.T) {
	sh, _ := setupShell(t, &stubSolver{})
	v := view(t, sh)

	if len(v.Panels) != len(overlay.DefaultPanels) {
		t.Fatalf("expected %d panels, got %d", len(overlay.DefaultPanels), len(v.Panels))
	}
	for _, p := range v.Panels {
		if p.Visibility != overlay.Hidden {
			t.Errorf("panel %s = %s, want hidden", p.ID, p.Visibility)
		}
	}
	if v.Nav.AuthLabel != LoginLabel {
		t.Errorf("AuthLabel = %q, want %q", v.Nav.AuthLabel, LoginLabel)
	}
	if v.Auth.Tab != auth.TabLogin {
		t.Errorf("Tab = %q, want login", v.Auth.Tab)
	}
	if v.Feedback.Enabled {
		t.Error("feedback should be disabled before login")
	}
	if v.Solve.ResultsVisible {
		t.Error("results should be hidden before the first solve")
	}
	if len(v.Feedback.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(v.Feedback.Entries))
	}
}

func TestPanelLifecycle(t *testing.T) {
	sh, sched := setupShell(t, &stubSolver{})

	if err := sh.OpenPanel(overlay.PanelInstructions); err != nil {
		t.Fatalf("OpenPanel: %v", err)
	}
	sched.Advance(config.DefaultConfig().Panels.OpenDelay)
	if got := view(t, sh).Panel(overlay.PanelInstructions); got != overlay.Visible {
		t.Fatalf("instructions = %s, want visible", got)
	}

	// A click on the panel content leaves it open.
	if err := sh.ClickBackdrop(overlay.PanelInstructions, "instructionsContent"); err != nil {
		t.Fatalf("ClickBackdrop: %v", err)
	}
	sched.Advance(time.Second)
	if got := view(t, sh).Panel(overlay.PanelInstructions); got != overlay.Visible {
		t.Fatalf("instructions = %s after content click, want visible", got)
	}

	if err := sh.ClickBackdrop(overlay.PanelInstructions, "instructionsSection"); err != nil {
		t.Fatalf("ClickBackdrop: %v", err)
	}
	sched.Advance(config.DefaultConfig().Panels.CloseDelay)
	if got := view(t, sh).Panel(overlay.PanelInstructions); got != overlay.Hidden {
		t.Fatalf("instructions = %s, want hidden", got)
	}
}

func TestUnknownPanel(t *testing.T) {
	sh, _ := setupShell(t, &stubSolver{})
	err := sh.OpenPanel("history")
	if !errors.Is(err, overlay.ErrUnknownPanel) {
		t.Fatalf("expected ErrUnknownPanel, got %v", err)
	}
	if UserMessage(err) != "Unknown panel." {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
	if err := sh.PressNav("btnHistory"); !errors.Is(err, overlay.ErrUnknownPanel) {
		t.Fatalf("expected ErrUnknownPanel for nav, got %v", err)
	}
}

func TestLoginFlow(t *testing.T) {
	sh, sched := setupShell(t, &stubSolver{})
	cfg := config.DefaultConfig()

	if err := sh.PressNav("btnAuth"); err != nil {
		t.Fatalf("PressNav: %v", err)
	}
	sched.Advance(cfg.Panels.OpenDelay)

	err := sh.Login("testuser", "wrong")
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if v := view(t, sh); v.Auth.Message.Level != auth.LevelError || v.Session.Authenticated {
		t.Fatalf("unexpected view after failed login: %+v", v.Auth)
	}

	if err := sh.Login("testuser", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	v := view(t, sh)
	if !v.Session.Authenticated || v.Nav.AuthLabel != LogoutLabel || !v.Feedback.Enabled {
		t.Fatalf("unexpected view after login: session=%+v nav=%+v", v.Session, v.Nav)
	}
	if v.Auth.Message.Level != auth.LevelSuccess {
		t.Errorf("expected success message, got %+v", v.Auth.Message)
	}

	sched.Advance(cfg.Auth.LoginCloseDelay + cfg.Panels.CloseDelay)
	if got := view(t, sh).Panel(overlay.PanelAuth); got != overlay.Hidden {
		t.Fatalf("auth panel = %s, want hidden", got)
	}

	// The auth button logs out while a session is active.
	if err := sh.PressNav("btnAuth"); err != nil {
		t.Fatalf("PressNav: %v", err)
	}
	v = view(t, sh)
	if v.Session.Authenticated || v.Nav.AuthLabel != LoginLabel || v.Feedback.Enabled {
		t.Fatalf("unexpected view after logout: %+v", v.Session)
	}
	if got := v.Panel(overlay.PanelAuth); got != overlay.Hidden {
		t.Errorf("logout should not open the auth panel, got %s", got)
	}
}

func TestSignupSwitchesToLogin(t *testing.T) {
	sh, sched := setupShell(t, &stubSolver{})

	if err := sh.ActivateTab(auth.TabSignup); err != nil {
		t.Fatalf("ActivateTab: %v", err)
	}
	err := sh.Signup(auth.SignupForm{Username: "ada", Email: "ada@example.com", Password: "x", ConfirmPassword: "y", AgreedToTerms: true})
	if !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if UserMessage(err) != "Passwords do not match." {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}

	form := auth.SignupForm{Username: "ada", Email: "ada@example.com", Password: "x", ConfirmPassword: "x", AgreedToTerms: true}
	if err := sh.Signup(form); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if view(t, sh).Session.Authenticated {
		t.Fatal("signup must not authenticate")
	}
	sched.Advance(config.DefaultConfig().Auth.SignupSwitchDelay)
	if tab := view(t, sh).Auth.Tab; tab != auth.TabLogin {
		t.Fatalf("Tab = %q, want login", tab)
	}
}

func TestFeedbackThroughShell(t *testing.T) {
	sh, _ := setupShell(t, &stubSolver{})
	ctx := context.Background()

	_, err := sh.SubmitFeedback(ctx, "nice", 4)
	if !errors.Is(err, feedback.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	var ae *ActionError
	if !errors.As(err, &ae) || ae.Internal {
		t.Fatalf("expected user-facing ActionError, got %#v", err)
	}

	if err := sh.Login("testuser", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := sh.SetRating(3); err != nil {
		t.Fatalf("SetRating: %v", err)
	}
	sh.HoverRating(5)
	if v := view(t, sh); v.Feedback.Highlight != 5 || v.Feedback.Rating != 3 {
		t.Fatalf("hover: got highlight %d rating %d", v.Feedback.Highlight, v.Feedback.Rating)
	}
	sh.LeaveRating()
	if v := view(t, sh); v.Feedback.Highlight != 3 {
		t.Fatalf("leave: highlight = %d, want 3", v.Feedback.Highlight)
	}

	e, err := sh.SubmitFeedback(ctx, "Great tool", 0)
	if err != nil {
		t.Fatalf("SubmitFeedback: %v", err)
	}
	if e.Rating != 3 || e.Author != "testuser" {
		t.Errorf("unexpected entry %+v", e)
	}

	v := view(t, sh)
	if len(v.Feedback.Entries) != 1 || v.Feedback.Entries[0].StarBar != "★★★☆☆" {
		t.Fatalf("unexpected entries %+v", v.Feedback.Entries)
	}
	if v.Feedback.Enabled || !v.Session.HasSubmittedFeedback {
		t.Error("feedback should be disabled after submitting")
	}

	_, err = sh.SubmitFeedback(ctx, "again", 5)
	if !errors.Is(err, feedback.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
}

func TestSolveSuccess(t *testing.T) {
	solver := &stubSolver{result: solve.Result{Kind: solve.KindSuccess, Result: "x = 2", Explanation: "Subtract **3** from both sides."}}
	sh, _ := setupShell(t, solver)

	res, err := sh.Solve(context.Background(), "  x + 3 = 5 ")
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Result != "x = 2" {
		t.Errorf("Result = %q", res.Result)
	}
	v := view(t, sh)
	if !v.Solve.ResultsVisible || v.Solve.ResultText != "x = 2" || v.Solve.State != solve.StateIdle {
		t.Fatalf("unexpected solve view %+v", v.Solve)
	}
	if !strings.Contains(v.Solve.ExplanationHTML, "<strong>3</strong>") {
		t.Errorf("ExplanationHTML = %q", v.Solve.ExplanationHTML)
	}
}

func TestSolveEmpty(t *testing.T) {
	solver := &stubSolver{}
	sh, _ := setupShell(t, solver)

	_, err := sh.Solve(context.Background(), "   ")
	if !errors.Is(err, solve.ErrEmptyExpression) {
		t.Fatalf("expected ErrEmptyExpression, got %v", err)
	}
	if solver.calls.Load() != 0 {
		t.Fatal("empty input must not reach the solver")
	}
	v := view(t, sh)
	if v.Solve.Prompt != solve.EmptyExpressionPrompt || v.Solve.ResultsVisible {
		t.Fatalf("unexpected solve view %+v", v.Solve)
	}
}

func TestSolveServerError(t *testing.T) {
	solver := &stubSolver{result: solve.Result{Kind: solve.KindServerError, Message: "Invalid syntax", Explanation: "Check the brackets."}}
	sh, _ := setupShell(t, solver)

	if _, err := sh.Solve(context.Background(), "(1+"); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	v := view(t, sh)
	if v.Solve.ResultText != "Error: Invalid syntax" || v.Solve.Kind != solve.KindServerError {
		t.Fatalf("unexpected solve view %+v", v.Solve)
	}
}

func TestSubscribe(t *testing.T) {
	sh, sched := setupShell(t, &stubSolver{})

	var n atomic.Int32
	cancel := sh.Subscribe(func() { n.Add(1) })

	if err := sh.OpenPanel(overlay.PanelChat); err != nil {
		t.Fatalf("OpenPanel: %v", err)
	}
	sched.Advance(time.Second)
	if n.Load() < 2 {
		t.Fatalf("expected notifications for opening and visible, got %d", n.Load())
	}

	cancel()
	before := n.Load()
	if err := sh.ClosePanel(overlay.PanelChat); err != nil {
		t.Fatalf("ClosePanel: %v", err)
	}
	sched.Advance(time.Second)
	if n.Load() != before {
		t.Fatalf("notified after cancel: %d -> %d", before, n.Load())
	}
}

func TestUserMessageInternal(t *testing.T) {
	if got := UserMessage(errors.New("disk on fire")); got != GenericMessage {
		t.Errorf("UserMessage = %q, want generic", got)
	}
}
