package display

import "unicode"

// SliderStep is how far one key press moves a motor slider.
const SliderStep = 0.05

const maxDurationLen = 12

// Panel holds the operator inputs next to the gamepad view: one slider per
// motor and the duration text field. It implements Controls.
type Panel struct {
	left, right float64
	duration    string
}

// NewPanel returns a panel with clamped slider values.
func NewPanel(left, right float64, duration string) *Panel {
	return &Panel{left: Clamp01(left), right: Clamp01(right), duration: duration}
}

// MotorIntensities implements Controls.
func (p *Panel) MotorIntensities() (float64, float64) {
	return p.left, p.right
}

// DurationText implements Controls.
func (p *Panel) DurationText() string {
	return p.duration
}

// AdjustLeft moves the left slider by delta.
func (p *Panel) AdjustLeft(delta float64) {
	p.left = Clamp01(p.left + delta)
}

// AdjustRight moves the right slider by delta.
func (p *Panel) AdjustRight(delta float64) {
	p.right = Clamp01(p.right + delta)
}

// TypeDuration appends typed characters to the duration field. Only digits
// and '.' are accepted.
func (p *Panel) TypeDuration(chars []rune) {
	for _, r := range chars {
		if len(p.duration) >= maxDurationLen {
			return
		}
		if unicode.IsDigit(r) || r == '.' {
			p.duration += string(r)
		}
	}
}

// BackspaceDuration removes the last character of the duration field.
func (p *Panel) BackspaceDuration() {
	if p.duration == "" {
		return
	}
	runes := []rune(p.duration)
	p.duration = string(runes[:len(runes)-1])
}
