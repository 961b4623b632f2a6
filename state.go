package gamepads

import (
	"math"
	"sync"

	"github.com/samber/lo"
)

const axisMax = math.MaxInt16

// State is the last known level of every control of one joystick, keyed by
// Linux input code. One goroutine applies events, any number may read.
type State struct {
	mu      sync.RWMutex
	info    Gamepad
	buttons map[int]bool
	axes    map[int]float64
}

// NewState tracks the controls described by info.
func NewState(info Gamepad) *State {
	return &State{
		info:    info,
		buttons: make(map[int]bool, len(info.ButtonMap)),
		axes:    make(map[int]float64, len(info.AxesMap)),
	}
}

// Info returns the device the state belongs to.
func (s *State) Info() Gamepad {
	return s.info
}

// Apply folds one control event into the state. Events for indices the
// device maps did not announce are ignored.
func (s *State) Apply(ev ControlEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind() {
	case Button:
		if ev.Index < 0 || ev.Index >= len(s.info.ButtonMap) {
			return
		}
		s.buttons[s.info.ButtonMap[ev.Index]] = ev.Value != 0
	case Axes:
		if ev.Index < 0 || ev.Index >= len(s.info.AxesMap) {
			return
		}
		s.axes[s.info.AxesMap[ev.Index]] = normalizeAxis(ev.Value)
	}
}

// Button reports whether the button with the given BTN_* code is held.
// ok is false when the device has no such button.
func (s *State) Button(code int) (pressed, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pressed, ok = s.buttons[code]
	if !ok {
		ok = lo.Contains(s.info.ButtonMap, code)
	}
	return
}

// Axis returns the position of the axis with the given ABS_* code in [-1, 1].
// ok is false until the device has reported the axis. Not every axis rests at
// zero, so there is no position to assume before that.
func (s *State) Axis(code int) (value float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok = s.axes[code]
	return
}

func normalizeAxis(v int16) float64 {
	return math.Max(-1, math.Min(1, float64(v)/axisMax))
}
