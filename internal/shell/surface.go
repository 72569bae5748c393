package shell

import (
	"fmt"
	"sort"

	"github.com/amsmath/ams/internal/overlay"
)

// Surface is whatever renders the shell: it either provides an element
// or it does not.
type Surface interface {
	Has(element string) bool
}

// Elements is a Surface listing the element ids it provides.
type Elements map[string]struct{}

// NewElements builds an Elements surface.
func NewElements(ids ...string) Elements {
	e := make(Elements, len(ids))
	for _, id := range ids {
		e[id] = struct{}{}
	}
	return e
}

// Has implements Surface.
func (e Elements) Has(element string) bool {
	_, ok := e[element]
	return ok
}

// Without returns a copy of e lacking the given ids.
func (e Elements) Without(ids ...string) Elements {
	out := make(Elements, len(e))
	for id := range e {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		delete(out, id)
	}
	return out
}

// MissingElementError reports a component whose element is absent from
// the surface.
type MissingElementError struct {
	Component string
	Element   string
}

func (e *MissingElementError) Error() string {
	return fmt.Sprintf("%s: missing element %q", e.Component, e.Element)
}

// component is a named group of elements that must all be present.
type component struct {
	name     string
	elements []string
}

// navButtons maps each nav button to the panel it opens.
var navButtons = map[string]overlay.PanelID{
	"btnVersions":     overlay.PanelVersions,
	"btnInstructions": overlay.PanelInstructions,
	"btnSettings":     overlay.PanelSettings,
	"btnChat":         overlay.PanelChat,
	"btnAuth":         overlay.PanelAuth,
}

func components(panels []overlay.Panel) []component {
	nav := make([]string, 0, len(navButtons))
	for id := range navButtons {
		nav = append(nav, id)
	}
	sort.Strings(nav)

	out := []component{
		{name: "solve", elements: []string{
			"mathExpressionInput", "solveButton", "resultsSection", "resultText", "explanationText",
		}},
		{name: "nav", elements: nav},
		{name: "auth", elements: []string{
			"loginTab", "signupTab", "authMessage",
			"loginForm", "loginUsername", "loginPassword",
			"signupForm", "signupUsername", "signupEmail", "signupPassword", "signupConfirmPassword", "signupTerms",
		}},
		{name: "feedback", elements: []string{
			"commentText", "starRating", "submitComment", "commentList",
		}},
	}
	for _, p := range panels {
		out = append(out, component{
			name:     "panel:" + string(p.ID),
			elements: []string{p.Element, p.CloseElement},
		})
	}
	return out
}

// register checks every component against the surface and fails on the
// first missing element.
func register(surface Surface, panels []overlay.Panel) error {
	for _, c := range components(panels) {
		for _, el := range c.elements {
			if !surface.Has(el) {
				return &MissingElementError{Component: c.name, Element: el}
			}
		}
	}
	return nil
}

// DefaultSurface lists every element the shell needs with the default
// panels. Front ends that render the full UI use it.
func DefaultSurface() Elements {
	var ids []string
	for _, c := range components(overlay.DefaultPanels) {
		ids = append(ids, c.elements...)
	}
	return NewElements(ids...)
}
