package display

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/doingharm/gamepad-display/haptic"
)

// Source reads the buttons of the current gamepad. It returns
// ErrDeviceUnavailable when there is none.
type Source interface {
	Buttons(ctx context.Context) ([]ButtonState, error)
}

// Controls are the values the operator enters next to the gamepad view.
type Controls interface {
	MotorIntensities() (left, right float64)
	DurationText() string
}

// Synchronizer runs one tick of the display: it reads a snapshot, shows it
// on the overlays and hands the trigger edges to the haptic controller.
type Synchronizer struct {
	logger   *zap.SugaredLogger
	source   Source
	controls Controls
	overlays *Registry
	hints    *Registry
	haptics  *haptic.Controller

	// last snapshot applied, for edge detection across skipped ticks
	previous    GamepadSnapshot
	unavailable bool
}

// NewSynchronizer wires the tick. hints may be nil when the host shows no
// instructions.
func NewSynchronizer(
	logger *zap.SugaredLogger,
	source Source,
	controls Controls,
	overlays *Registry,
	hints *Registry,
	haptics *haptic.Controller,
) *Synchronizer {
	return &Synchronizer{
		logger:   logger,
		source:   source,
		controls: controls,
		overlays: overlays,
		hints:    hints,
		haptics:  haptics,
	}
}

// Tick runs one frame. Device errors are absorbed: the tick is skipped and
// nothing is touched. Only a done context is returned.
func (s *Synchronizer) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.skip(err)
		return nil
	}
	if s.unavailable {
		s.unavailable = false
		s.logger.Info("gamepad available")
	}

	s.overlays.Apply(snapshot)

	s.haptics.Update(haptic.Input{
		LeftTrigger:         snapshot.Pressed(LT),
		LeftTriggerReleased: Released(s.previous, snapshot, LT),
		RightTriggerPressed: PressedThisTick(s.previous, snapshot, RT),
		Left:                snapshot.LeftMotor,
		Right:               snapshot.RightMotor,
		DurationText:        snapshot.DurationText,
	})
	s.haptics.Poll()
	s.previous = snapshot

	if s.hints != nil {
		s.hints.SetActive(LeftTriggerInstructions, s.haptics.ShowLeftTriggerInstructions())
		s.hints.SetActive(RightTriggerInstructions, s.haptics.ShowRightTriggerInstructions())
	}
	return nil
}

// State is the haptic state after the last tick.
func (s *Synchronizer) State() haptic.State {
	return s.haptics.State()
}

func (s *Synchronizer) snapshot(ctx context.Context) (GamepadSnapshot, error) {
	buttons, err := s.source.Buttons(ctx)
	if err != nil {
		return GamepadSnapshot{}, err
	}
	left, right := s.controls.MotorIntensities()
	return GamepadSnapshot{
		Buttons:      buttons,
		LeftMotor:    Clamp01(left),
		RightMotor:   Clamp01(right),
		DurationText: s.controls.DurationText(),
	}, nil
}

// skip logs an unusable tick once per outage and quietly afterwards.
func (s *Synchronizer) skip(err error) {
	if s.unavailable {
		s.logger.Debugw("skipping tick", "error", err)
		return
	}
	s.unavailable = true
	if errors.Is(err, ErrDeviceUnavailable) {
		s.logger.Warn("no gamepad found")
		return
	}
	s.logger.Warnw("reading gamepad failed, skipping tick", "error", err)
}

// PressedThisTick reports a false to true transition of the named button.
func PressedThisTick(prev, cur GamepadSnapshot, name string) bool {
	return cur.Pressed(name) && !prev.Pressed(name)
}

// Released reports a true to false transition of the named button.
func Released(prev, cur GamepadSnapshot, name string) bool {
	return prev.Pressed(name) && !cur.Pressed(name)
}

// MotorLabels are the captions shown next to the two motor sliders.
func MotorLabels(left, right float64) (string, string) {
	return fmt.Sprintf("Left Motor: %.2f", left), fmt.Sprintf("Right Motor: %.2f", right)
}
