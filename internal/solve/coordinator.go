// Package solve submits expressions to the external solving service and
// tracks the request lifecycle shown in the results region.
package solve

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrEmptyExpression is returned for blank input; no request is sent.
	ErrEmptyExpression = errors.New("empty expression")
	// ErrBusy is returned while a previous request is still pending.
	ErrBusy = errors.New("a solve request is already pending")
)

// Solver sends one request to the solving service.
type Solver interface {
	Do(ctx context.Context, expression string) Result
}

// State is the coordinator's request lifecycle stage.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
)

// Status is a point-in-time view of the coordinator.
type Status struct {
	State State `json:"state"`
	// Last is the most recent completed result, nil before the first.
	Last *Result `json:"last,omitempty"`
	// Prompt is the inline message shown after a rejected submission.
	Prompt string `json:"prompt,omitempty"`
}

// ResultsVisible reports whether the results region should be shown. It
// stays hidden until the first request completes.
func (s Status) ResultsVisible() bool { return s.Last != nil }

// Display returns the results region text.
func (s Status) Display() Display {
	if s.State == StatePending {
		return Result{Kind: KindPending}.Display()
	}
	if s.Last == nil {
		return Display{}
	}
	return s.Last.Display()
}

// Coordinator validates input and allows one request in flight.
type Coordinator struct {
	mu       sync.Mutex
	solver   Solver
	state    State
	last     *Result
	prompt   string
	onChange func()
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(solver Solver) *Coordinator {
	return &Coordinator{solver: solver, state: StateIdle}
}

// SetOnChange configures the callback for lifecycle updates.
func (c *Coordinator) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Status returns the current lifecycle snapshot.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{State: c.state, Prompt: c.prompt}
	if c.last != nil {
		last := *c.last
		st.Last = &last
	}
	return st
}

// State returns the lifecycle stage.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Last returns the most recent completed result, or false before the
// first one.
func (c *Coordinator) Last() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Result{}, false
	}
	return *c.last, true
}

// Solve submits expression. Blank input fails with ErrEmptyExpression and
// a submission while another is pending fails with ErrBusy; neither
// reaches the network. Server and transport failures are reported in the
// returned Result, not as errors.
func (c *Coordinator) Solve(ctx context.Context, expression string) (Result, error) {
	expression = strings.TrimSpace(expression)

	c.mu.Lock()
	if expression == "" {
		c.prompt = EmptyExpressionPrompt
		cb := c.onChange
		c.mu.Unlock()
		notify(cb)
		return Result{}, ErrEmptyExpression
	}
	if c.state == StatePending {
		c.mu.Unlock()
		return Result{}, ErrBusy
	}
	c.state = StatePending
	c.prompt = ""
	cb := c.onChange
	c.mu.Unlock()
	notify(cb)

	res := c.solver.Do(ctx, expression)

	c.mu.Lock()
	c.state = StateIdle
	c.last = &res
	cb = c.onChange
	c.mu.Unlock()
	notify(cb)

	return res, nil
}

func notify(cb func()) {
	if cb != nil {
		cb()
	}
}
