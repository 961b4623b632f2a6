// Package display keeps a set of on-screen button overlays and the rumble
// motors of a gamepad in step with the device, one tick at a time.
package display

import (
	"math"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrDeviceUnavailable is returned by a Source when no gamepad is connected.
var ErrDeviceUnavailable = errors.New("no gamepad connected")

// Overlay names.
const (
	A     = "A"
	B     = "B"
	X     = "X"
	Y     = "Y"
	Back  = "Back"
	Start = "Start"

	DPadDown  = "DP_DOWN"
	DPadLeft  = "DP_LEFT"
	DPadRight = "DP_RIGHT"
	DPadUp    = "DP_UP"

	LeftStickDown  = "LA_DOWN"
	LeftStickLeft  = "LA_LEFT"
	LeftStickRight = "LA_RIGHT"
	LeftStickUp    = "LA_UP"

	RightStickDown  = "RA_DOWN"
	RightStickLeft  = "RA_LEFT"
	RightStickRight = "RA_RIGHT"
	RightStickUp    = "RA_UP"

	LB = "LB"
	LT = "LT"
	RB = "RB"
	RT = "RT"

	Menu = "Menu"
)

// OverlayNames is the fixed set of overlays.
var OverlayNames = []string{
	A, B, X, Y, Back,
	DPadDown, DPadLeft, DPadRight, DPadUp,
	LeftStickDown, LeftStickLeft, LeftStickRight, LeftStickUp,
	RightStickDown, RightStickLeft, RightStickRight, RightStickUp,
	LB, LT, RB, RT, Start, Menu,
}

// SignalNames are the overlays a device drives. Menu has no input signal and
// keeps whatever state it was given at startup.
var SignalNames = lo.Without(OverlayNames, Menu)

// DefaultPressThreshold is the analog value past which a stick direction or
// an analog trigger counts as pressed.
const DefaultPressThreshold = 0.5

// ButtonState is the level of one named signal on one tick.
type ButtonState struct {
	Name    string
	Pressed bool
}

// GamepadSnapshot is everything one tick works from: the device buttons plus
// the motor intensities and duration text entered by the operator.
type GamepadSnapshot struct {
	Buttons      []ButtonState
	LeftMotor    float64
	RightMotor   float64
	DurationText string
}

// Pressed reports whether the named button is held. Names missing from the
// snapshot are not held.
func (s GamepadSnapshot) Pressed(name string) bool {
	b, ok := lo.Find(s.Buttons, func(b ButtonState) bool { return b.Name == name })
	return ok && b.Pressed
}

// Has reports whether the snapshot carries the named button.
func (s GamepadSnapshot) Has(name string) bool {
	return lo.ContainsBy(s.Buttons, func(b ButtonState) bool { return b.Name == name })
}

// Indicator is the desired active flag of one overlay.
type Indicator struct {
	Name   string
	Active bool
}

// Indicators maps a snapshot onto the given overlay names. Names the snapshot
// does not carry produce no indicator.
func Indicators(s GamepadSnapshot, names []string) []Indicator {
	levels := lo.SliceToMap(s.Buttons, func(b ButtonState) (string, bool) {
		return b.Name, b.Pressed
	})
	return lo.FilterMap(names, func(name string, _ int) (Indicator, bool) {
		pressed, ok := levels[name]
		return Indicator{Name: name, Active: pressed}, ok
	})
}

// Buttons orders levels by SignalNames, dropping names that are not signals.
func Buttons(levels map[string]bool) []ButtonState {
	return lo.FilterMap(SignalNames, func(name string, _ int) (ButtonState, bool) {
		pressed, ok := levels[name]
		return ButtonState{Name: name, Pressed: pressed}, ok
	})
}

// Stick sets the four direction levels of a stick. y grows downwards.
func Stick(levels map[string]bool, down, left, right, up string, x, y, threshold float64) {
	levels[down] = y > threshold
	levels[up] = -y > threshold
	levels[left] = -x > threshold
	levels[right] = x > threshold
}

// Clamp01 limits a motor intensity to [0, 1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
