package display

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrOverlayNotFound is returned when a required overlay has no handle.
var ErrOverlayNotFound = errors.New("overlay not found")

// Instruction hint names.
const (
	LeftTriggerInstructions  = "LT Instructions"
	RightTriggerInstructions = "RT Instructions"
)

// HintNames is the fixed set of instruction hints.
var HintNames = []string{LeftTriggerInstructions, RightTriggerInstructions}

// Handle is a visual element that can be shown or hidden.
type Handle interface {
	SetActive(active bool)
}

// Registry owns the handle of every overlay in a fixed name set.
type Registry struct {
	names   []string
	handles map[string]Handle
}

// NewRegistry resolves every name to its handle and hides it. It fails with
// ErrOverlayNotFound, listing every missing name, if any handle is absent.
// Handles for names outside the set are ignored.
func NewRegistry(names []string, handles map[string]Handle) (*Registry, error) {
	missing := lo.Filter(names, func(name string, _ int) bool {
		return handles[name] == nil
	})
	if len(missing) > 0 {
		return nil, errors.Wrap(ErrOverlayNotFound, strings.Join(missing, ", "))
	}

	r := &Registry{
		names:   lo.Uniq(names),
		handles: lo.PickByKeys(handles, names),
	}
	for _, name := range r.names {
		r.handles[name].SetActive(false)
	}
	return r, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// SetActive shows or hides one overlay. It reports false for unknown names.
func (r *Registry) SetActive(name string, active bool) bool {
	h, ok := r.handles[name]
	if !ok {
		return false
	}
	h.SetActive(active)
	return true
}

// Apply sets every registered overlay that the snapshot carries. Others,
// such as Menu, are left untouched.
func (r *Registry) Apply(s GamepadSnapshot) {
	for _, ind := range Indicators(s, r.names) {
		r.handles[ind.Name].SetActive(ind.Active)
	}
}
