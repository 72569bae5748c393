// Package overlay controls the open/close lifecycle of dismissible panels.
//
// A panel moves hidden -> opening -> visible when opened and
// visible -> closing -> hidden when closed. Each transition completes after
// a fixed delay; re-triggering a panel mid-transition cancels the pending
// opposite transition.
package overlay

import (
	"errors"
	"sync"
	"time"

	"github.com/amsmath/ams/internal/schedule"
)

// ErrUnknownPanel is returned for panel ids that were never registered.
var ErrUnknownPanel = errors.New("unknown panel")

// PanelID names a dismissible panel.
type PanelID string

const (
	PanelVersions     PanelID = "versions"
	PanelInstructions PanelID = "instructions"
	PanelSettings     PanelID = "settings"
	PanelChat         PanelID = "chat"
	PanelAuth         PanelID = "auth"
)

// Visibility is the coarse lifecycle stage of a panel.
type Visibility string

const (
	Hidden  Visibility = "hidden"
	Opening Visibility = "opening"
	Visible Visibility = "visible"
	Closing Visibility = "closing"
)

const (
	DefaultOpenDelay  = 10 * time.Millisecond
	DefaultCloseDelay = 300 * time.Millisecond
)

// Panel describes a dismissible region and the elements it owns.
type Panel struct {
	ID PanelID
	// Element is the panel container; a click whose target is the
	// container itself (the dimmed background) closes the panel.
	Element string
	// CloseElement is the panel's designated close control.
	CloseElement string
}

// DefaultPanels are the panels every shell surface provides.
var DefaultPanels = []Panel{
	{ID: PanelVersions, Element: "versionsSection", CloseElement: "closeVersions"},
	{ID: PanelInstructions, Element: "instructionsSection", CloseElement: "closeInstructions"},
	{ID: PanelSettings, Element: "settingsSection", CloseElement: "closeSettings"},
	{ID: PanelChat, Element: "chatSection", CloseElement: "closeChat"},
	{ID: PanelAuth, Element: "authSection", CloseElement: "closeAuth"},
}

// PanelState is a point-in-time view of one panel.
type PanelState struct {
	ID         PanelID    `json:"id"`
	Visibility Visibility `json:"visibility"`
}

// Options configures a Controller.
type Options struct {
	OpenDelay  time.Duration
	CloseDelay time.Duration
	Scheduler  schedule.Scheduler
}

type panelEntry struct {
	Panel
	visibility Visibility
	task       schedule.Task
	// gen invalidates callbacks whose timer could not be stopped in time.
	gen uint64
}

// Controller owns the visibility state of every registered panel.
type Controller struct {
	mu         sync.Mutex
	panels     map[PanelID]*panelEntry
	order      []PanelID
	openDelay  time.Duration
	closeDelay time.Duration
	sched      schedule.Scheduler
	onChange   func([]PanelState)
}

// NewController creates a controller with every panel hidden.
func NewController(panels []Panel, opts Options) *Controller {
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.Real{}
	}
	c := &Controller{
		panels:     make(map[PanelID]*panelEntry, len(panels)),
		openDelay:  opts.OpenDelay,
		closeDelay: opts.CloseDelay,
		sched:      opts.Scheduler,
	}
	for _, p := range panels {
		if _, dup := c.panels[p.ID]; dup {
			continue
		}
		c.panels[p.ID] = &panelEntry{Panel: p, visibility: Hidden}
		c.order = append(c.order, p.ID)
	}
	return c
}

// SetOnChange configures the callback for visibility updates.
func (c *Controller) SetOnChange(fn func([]PanelState)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Panels returns the registered panel descriptors in registration order.
func (c *Controller) Panels() []Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Panel, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.panels[id].Panel)
	}
	return out
}

// Open starts showing a panel. Opening an already opening or visible
// panel is a no-op; opening a closing panel cancels the pending hide.
func (c *Controller) Open(id PanelID) error {
	return c.transition(id, Opening, Visible, c.openDelay)
}

// Close starts hiding a panel. Closing an already closing or hidden panel
// is a no-op; closing an opening panel cancels the pending show.
func (c *Controller) Close(id PanelID) error {
	return c.transition(id, Closing, Hidden, c.closeDelay)
}

// ClickBackdrop handles a click inside a panel. Only clicks whose target
// is the panel container itself close the panel.
func (c *Controller) ClickBackdrop(id PanelID, target string) error {
	c.mu.Lock()
	p, ok := c.panels[id]
	c.mu.Unlock()
	if !ok {
		return ErrUnknownPanel
	}
	if target != p.Element {
		return nil
	}
	return c.Close(id)
}

// State returns the visibility of a panel.
func (c *Controller) State(id PanelID) (Visibility, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[id]
	if !ok {
		return "", ErrUnknownPanel
	}
	return p.visibility, nil
}

// Snapshot returns every panel's state in registration order.
func (c *Controller) Snapshot() []PanelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// transition moves a panel to mid now and to final after delay. A panel
// already at mid or final is left alone.
func (c *Controller) transition(id PanelID, mid, final Visibility, delay time.Duration) error {
	c.mu.Lock()
	p, ok := c.panels[id]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownPanel
	}
	if p.visibility == mid || p.visibility == final {
		c.mu.Unlock()
		return nil
	}

	if p.task != nil {
		p.task.Stop()
		p.task = nil
	}
	p.gen++
	gen := p.gen
	p.visibility = mid
	p.task = c.sched.After(delay, func() { c.finish(id, gen, mid, final) })

	snapshot := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
	return nil
}

func (c *Controller) finish(id PanelID, gen uint64, mid, final Visibility) {
	c.mu.Lock()
	p := c.panels[id]
	if p.gen != gen || p.visibility != mid {
		c.mu.Unlock()
		return
	}
	p.visibility = final
	p.task = nil
	snapshot := c.snapshotLocked()
	cb := c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

func (c *Controller) snapshotLocked() []PanelState {
	out := make([]PanelState, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, PanelState{ID: id, Visibility: c.panels[id].visibility})
	}
	return out
}
