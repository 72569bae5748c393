// Package console is the interactive terminal front end of the shell.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/amsmath/ams/internal/auth"
	"github.com/amsmath/ams/internal/config"
	"github.com/amsmath/ams/internal/overlay"
	"github.com/amsmath/ams/internal/progress"
	"github.com/amsmath/ams/internal/shell"
)

// Options configures a Console.
type Options struct {
	Version  string
	Config   *config.Config
	Stdin    io.ReadCloser
	Stdout   io.WriteCloser
	Reporter progress.Reporter
}

// Console drives a shell from promptui menus.
type Console struct {
	sh   *shell.Shell
	opts Options
	out  io.Writer
}

// New creates a console over sh.
func New(sh *shell.Shell, opts Options) *Console {
	var out io.Writer = os.Stdout
	if opts.Stdout != nil {
		out = opts.Stdout
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.NewReporter()
	}
	return &Console{sh: sh, opts: opts, out: out}
}

// Run shows the main menu until the user quits or interrupts.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "ams math solver. Pick an action; Ctrl+C quits.")
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		v, err := c.sh.View(ctx)
		if err != nil {
			return err
		}
		items := menuItems(v)
		sel := promptui.Select{
			Label:  "ams",
			Items:  labels(items),
			Size:   len(items),
			Stdin:  c.opts.Stdin,
			Stdout: c.opts.Stdout,
		}
		idx, _, err := sel.Run()
		if err != nil {
			if isExit(err) {
				return nil
			}
			return fmt.Errorf("menu: %w", err)
		}

		act := items[idx].action
		if act == actionQuit {
			return nil
		}
		if err := c.perform(ctx, act); err != nil {
			if isExit(err) {
				continue
			}
			return err
		}
	}
}

func (c *Console) perform(ctx context.Context, act action) error {
	switch act {
	case actionSolve:
		return c.solve(ctx)
	case actionInstructions:
		return c.showPanel(overlay.PanelInstructions, instructionsText)
	case actionVersions:
		return c.showPanel(overlay.PanelVersions, versionsText(c.opts.Version))
	case actionSettings:
		return c.showPanel(overlay.PanelSettings, settingsText(c.opts.Config))
	case actionComments:
		return c.comments(ctx)
	case actionFeedback:
		return c.feedback(ctx)
	case actionLogin:
		return c.login(ctx)
	case actionSignup:
		return c.signup(ctx)
	case actionLogout:
		c.sh.Logout()
		fmt.Fprintln(c.out, "Logged out.")
	}
	return nil
}

func (c *Console) solve(ctx context.Context) error {
	expr, err := c.prompt(promptui.Prompt{Label: "Expression"})
	if err != nil {
		return err
	}

	c.opts.Reporter.Start("Solving...")
	_, err = c.sh.Solve(ctx, expr)
	c.opts.Reporter.Finish()
	if err != nil {
		fmt.Fprintln(c.out, shell.UserMessage(err))
		return nil
	}

	v, err := c.sh.View(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, formatResult(v.Solve))
	return nil
}

func (c *Console) showPanel(id overlay.PanelID, body string) error {
	if err := c.sh.OpenPanel(id); err != nil {
		return err
	}
	defer c.sh.ClosePanel(id)

	fmt.Fprintln(c.out, body)
	_, err := c.prompt(promptui.Prompt{Label: "Press Enter to close"})
	return err
}

func (c *Console) comments(ctx context.Context) error {
	if err := c.sh.OpenPanel(overlay.PanelChat); err != nil {
		return err
	}
	defer c.sh.ClosePanel(overlay.PanelChat)

	v, err := c.sh.View(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, formatEntries(v.Feedback.Entries))
	if !v.Session.Authenticated {
		fmt.Fprintln(c.out, "Log in to leave a comment or rating.")
	}
	return nil
}

func (c *Console) feedback(ctx context.Context) error {
	if err := c.sh.OpenPanel(overlay.PanelChat); err != nil {
		return err
	}
	defer c.sh.ClosePanel(overlay.PanelChat)

	ratingStr, err := c.prompt(promptui.Prompt{
		Label:    fmt.Sprintf("Rating (0-%d, blank for none)", maxRating),
		Validate: validateRating,
	})
	if err != nil {
		return err
	}
	rating, _ := parseRating(ratingStr)
	if rating > 0 {
		if err := c.sh.SetRating(rating); err != nil {
			fmt.Fprintln(c.out, shell.UserMessage(err))
			return nil
		}
	}

	comment, err := c.prompt(promptui.Prompt{Label: "Comment"})
	if err != nil {
		return err
	}
	if _, err := c.sh.SubmitFeedback(ctx, comment, rating); err != nil {
		fmt.Fprintln(c.out, shell.UserMessage(err))
		return nil
	}
	fmt.Fprintln(c.out, "Thank you for your feedback!")
	return nil
}

func (c *Console) login(ctx context.Context) error {
	if err := c.sh.OpenPanel(overlay.PanelAuth); err != nil {
		return err
	}
	if err := c.sh.ActivateTab(auth.TabLogin); err != nil {
		return err
	}

	username, err := c.prompt(promptui.Prompt{Label: "Username"})
	if err != nil {
		c.sh.ClosePanel(overlay.PanelAuth)
		return err
	}
	password, err := c.prompt(promptui.Prompt{Label: "Password", Mask: '*'})
	if err != nil {
		c.sh.ClosePanel(overlay.PanelAuth)
		return err
	}

	if err := c.sh.Login(username, password); err != nil {
		fmt.Fprintln(c.out, shell.UserMessage(err))
		c.sh.ClosePanel(overlay.PanelAuth)
		return nil
	}
	return c.printAuthMessage(ctx)
}

func (c *Console) signup(ctx context.Context) error {
	if err := c.sh.OpenPanel(overlay.PanelAuth); err != nil {
		return err
	}
	defer c.sh.ClosePanel(overlay.PanelAuth)
	if err := c.sh.ActivateTab(auth.TabSignup); err != nil {
		return err
	}

	var form auth.SignupForm
	fields := []struct {
		label string
		mask  rune
		dst   *string
	}{
		{"Username", 0, &form.Username},
		{"Email", 0, &form.Email},
		{"Password", '*', &form.Password},
		{"Confirm password", '*', &form.ConfirmPassword},
	}
	for _, f := range fields {
		val, err := c.prompt(promptui.Prompt{Label: f.label, Mask: f.mask})
		if err != nil {
			return err
		}
		*f.dst = val
	}
	_, err := c.prompt(promptui.Prompt{Label: "Agree to the terms and conditions", IsConfirm: true})
	switch {
	case err == nil:
		form.AgreedToTerms = true
	case errors.Is(err, promptui.ErrAbort):
	default:
		return err
	}

	if err := c.sh.Signup(form); err != nil {
		fmt.Fprintln(c.out, shell.UserMessage(err))
		return nil
	}
	return c.printAuthMessage(ctx)
}

func (c *Console) printAuthMessage(ctx context.Context) error {
	v, err := c.sh.View(ctx)
	if err != nil {
		return err
	}
	if v.Auth.Message.Text != "" {
		fmt.Fprintln(c.out, v.Auth.Message.Text)
	}
	return nil
}

func (c *Console) prompt(p promptui.Prompt) (string, error) {
	p.Stdin = c.opts.Stdin
	p.Stdout = c.opts.Stdout
	return p.Run()
}

func isExit(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF)
}

func parseRating(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func validateRating(s string) error {
	n, err := parseRating(s)
	if err != nil {
		return errors.New("rating must be a number")
	}
	if n < 0 || n > maxRating {
		return fmt.Errorf("rating must be between 0 and %d", maxRating)
	}
	return nil
}
