package console

import (
	"fmt"
	"strings"

	"github.com/amsmath/ams/internal/config"
	"github.com/amsmath/ams/internal/feedback"
	"github.com/amsmath/ams/internal/shell"
)

const maxRating = feedback.MaxRating

type action int

const (
	actionSolve action = iota
	actionInstructions
	actionVersions
	actionSettings
	actionComments
	actionFeedback
	actionLogin
	actionSignup
	actionLogout
	actionQuit
)

type menuItem struct {
	label  string
	action action
}

const instructionsText = `How to use ams:
  1. Choose "Solve an expression" and type an expression or equation,
     for example 2x + 3 = 7 or integrate x^2.
  2. The result and a step-by-step explanation are shown below it.
  3. Log in to rate the tool and leave a comment.`

// menuItems lists the actions available in the current view.
func menuItems(v shell.View) []menuItem {
	items := []menuItem{
		{"Solve an expression", actionSolve},
		{"Instructions", actionInstructions},
		{"Versions", actionVersions},
		{"Settings", actionSettings},
		{"Comments", actionComments},
	}
	if v.Feedback.Enabled {
		items = append(items, menuItem{"Leave feedback", actionFeedback})
	}
	if v.Session.Authenticated {
		items = append(items, menuItem{fmt.Sprintf("%s (%s)", v.Nav.AuthLabel, v.Session.DisplayName), actionLogout})
	} else {
		items = append(items,
			menuItem{v.Nav.AuthLabel, actionLogin},
			menuItem{"Sign up", actionSignup},
		)
	}
	return append(items, menuItem{"Quit", actionQuit})
}

func labels(items []menuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.label
	}
	return out
}

// formatResult renders the results region as plain text.
func formatResult(sv shell.SolveView) string {
	if sv.Prompt != "" {
		return sv.Prompt
	}
	if !sv.ResultsVisible {
		return ""
	}
	var b strings.Builder
	b.WriteString(sv.ResultText)
	if sv.ExplanationText != "" {
		b.WriteString("\n\n")
		b.WriteString(sv.ExplanationText)
	}
	return b.String()
}

// formatEntries renders posted comments, newest first.
func formatEntries(entries []shell.EntryView) string {
	if len(entries) == 0 {
		return "No comments yet."
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s  %s", e.StarBar, e.Author, e.CreatedAt.Local().Format("2006-01-02 15:04"))
		if e.Comment != "" {
			fmt.Fprintf(&b, "\n    %s", e.Comment)
		}
	}
	return b.String()
}

func versionsText(version string) string {
	if version == "" {
		version = "dev"
	}
	return "ams " + version
}

func settingsText(cfg *config.Config) string {
	if cfg == nil {
		return "No configuration loaded."
	}
	return fmt.Sprintf("Solver:       %s\nWeb port:     %d\nFeedback db:  %s",
		cfg.SolveURL(), cfg.Server.Port, cfg.Feedback.Database)
}
