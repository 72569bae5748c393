package console

import (
	"strings"
	"testing"
	"time"

	"github.com/amsmath/ams/internal/config"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/session"
	"github.com/amsmath/ams/internal/shell"
)

func actions(items []menuItem) []action {
	out := make([]action, len(items))
	for i, it := range items {
		out[i] = it.action
	}
	return out
}

func hasAction(items []menuItem, a action) bool {
	for _, it := range items {
		if it.action == a {
			return true
		}
	}
	return false
}

func TestMenuItemsLoggedOut(t *testing.T) {
	v := shell.View{Nav: shell.NavView{AuthLabel: shell.LoginLabel}}
	items := menuItems(v)

	if !hasAction(items, actionLogin) || !hasAction(items, actionSignup) {
		t.Errorf("expected login and signup, got %v", actions(items))
	}
	if hasAction(items, actionLogout) || hasAction(items, actionFeedback) {
		t.Errorf("unexpected logout or feedback entry: %v", actions(items))
	}
	if items[len(items)-1].action != actionQuit {
		t.Error("quit should be the last entry")
	}
}

func TestMenuItemsLoggedIn(t *testing.T) {
	v := shell.View{
		Session:  session.Snapshot{Authenticated: true, DisplayName: "testuser"},
		Nav:      shell.NavView{AuthLabel: shell.LogoutLabel},
		Feedback: shell.FeedbackView{Enabled: true},
	}
	items := menuItems(v)

	if !hasAction(items, actionFeedback) || !hasAction(items, actionLogout) {
		t.Errorf("expected feedback and logout, got %v", actions(items))
	}
	if hasAction(items, actionLogin) {
		t.Error("login should be hidden while logged in")
	}
	for _, it := range items {
		if it.action == actionLogout && it.label != "Log out (testuser)" {
			t.Errorf("logout label = %q", it.label)
		}
	}

	v.Feedback.Enabled = false
	if hasAction(menuItems(v), actionFeedback) {
		t.Error("feedback entry should be hidden once submitted")
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		sv   shell.SolveView
		want string
	}{
		{"hidden", shell.SolveView{}, ""},
		{"prompt", shell.SolveView{Prompt: "Please enter a math expression or equation!"}, "Please enter a math expression or equation!"},
		{"result only", shell.SolveView{ResultsVisible: true, ResultText: "4"}, "4"},
		{"with explanation", shell.SolveView{ResultsVisible: true, ResultText: "x = 2", ExplanationText: "Divide by 2."}, "x = 2\n\nDivide by 2."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatResult(tt.sv); got != tt.want {
				t.Errorf("formatResult = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEntries(t *testing.T) {
	if got := formatEntries(nil); got != "No comments yet." {
		t.Errorf("empty = %q", got)
	}

	entries := []shell.EntryView{
		{Entry: feedback.Entry{Author: "ada", Rating: 4, Comment: "Great", CreatedAt: time.Now()}, StarBar: "★★★★☆"},
		{Entry: feedback.Entry{Author: "bob", Rating: 2, CreatedAt: time.Now()}, StarBar: "★★☆☆☆"},
	}
	got := formatEntries(entries)
	if !strings.Contains(got, "★★★★☆  ada") || !strings.Contains(got, "    Great") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if strings.Count(got, "\n") != 2 {
		t.Errorf("expected three lines, got:\n%s", got)
	}
}

func TestValidateRating(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"0", false},
		{" 5 ", false},
		{"6", true},
		{"-1", true},
		{"five", true},
	}
	for _, tt := range tests {
		if err := validateRating(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateRating(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestSettingsText(t *testing.T) {
	cfg := config.DefaultConfig()
	got := settingsText(cfg)
	if !strings.Contains(got, cfg.SolveURL()) || !strings.Contains(got, "8080") {
		t.Errorf("unexpected settings text:\n%s", got)
	}
	if settingsText(nil) == "" {
		t.Error("expected placeholder for nil config")
	}
	if versionsText("") != "ams dev" {
		t.Errorf("versionsText = %q", versionsText(""))
	}
}
