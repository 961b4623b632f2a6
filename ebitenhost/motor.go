package ebitenhost

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hajimehoshi/ebiten/v2"
)

// vibrateFor is the length of one vibration request. Requests are renewed
// while the motors should keep running.
const vibrateFor = 10 * time.Second

// Motor vibrates the current gamepad of a Source through ebiten, which
// supports this in browsers only.
type Motor struct {
	source      *Source
	clock       clock.Clock
	left, right float64
	id          ebiten.GamepadID
	issued      time.Time
	running     bool
}

// NewMotor returns a motor bound to the gamepad source reads.
func NewMotor(source *Source, clk clock.Clock) *Motor {
	return &Motor{source: source, clock: clk}
}

// SetMotorSpeeds implements haptic.Motor. The left motor is the strong one.
func (m *Motor) SetMotorSpeeds(left, right float64) error {
	id, ok := m.source.current()
	if m.running && (!ok || id != m.id) {
		m.vibrate(m.id, 0, 0, 0)
	}
	m.left, m.right = left, right
	m.running = ok && (left > 0 || right > 0)
	if !ok {
		return nil
	}
	m.id = id
	if !m.running {
		m.vibrate(id, 0, 0, 0)
		return nil
	}
	m.vibrate(id, left, right, vibrateFor)
	return nil
}

// renew repeats the running request before it runs out.
func (m *Motor) renew() {
	if !m.running || m.clock.Since(m.issued) < vibrateFor/2 {
		return
	}
	m.vibrate(m.id, m.left, m.right, vibrateFor)
}

func (m *Motor) vibrate(id ebiten.GamepadID, strong, weak float64, d time.Duration) {
	m.issued = m.clock.Now()
	ebiten.VibrateGamepad(id, &ebiten.VibrateGamepadOptions{
		Duration:        d,
		StrongMagnitude: strong,
		WeakMagnitude:   weak,
	})
}
