package ebitenhost

import (
	"context"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/doingharm/gamepad-display/display"
)

// standardButtons maps digital signals onto the standard gamepad layout.
var standardButtons = map[string]ebiten.StandardGamepadButton{
	display.A:         ebiten.StandardGamepadButtonRightBottom,
	display.B:         ebiten.StandardGamepadButtonRightRight,
	display.X:         ebiten.StandardGamepadButtonRightLeft,
	display.Y:         ebiten.StandardGamepadButtonRightTop,
	display.Back:      ebiten.StandardGamepadButtonCenterLeft,
	display.Start:     ebiten.StandardGamepadButtonCenterRight,
	display.LB:        ebiten.StandardGamepadButtonFrontTopLeft,
	display.RB:        ebiten.StandardGamepadButtonFrontTopRight,
	display.DPadDown:  ebiten.StandardGamepadButtonLeftBottom,
	display.DPadLeft:  ebiten.StandardGamepadButtonLeftLeft,
	display.DPadRight: ebiten.StandardGamepadButtonLeftRight,
	display.DPadUp:    ebiten.StandardGamepadButtonLeftTop,
}

// Source reads the most recently connected gamepad that has a standard
// layout. It must be used from the game loop.
type Source struct {
	logger    *zap.SugaredLogger
	threshold float64
	ids       []ebiten.GamepadID
	idsBuf    []ebiten.GamepadID
}

// NewSource returns a source with the given stick and trigger press point.
func NewSource(logger *zap.SugaredLogger, threshold float64) *Source {
	return &Source{logger: logger, threshold: threshold}
}

// update follows connects and disconnects. It runs once per frame.
func (s *Source) update() {
	s.idsBuf = inpututil.AppendJustConnectedGamepadIDs(s.idsBuf[:0])
	for _, id := range s.idsBuf {
		s.logger.Infow("gamepad connected", "id", id, "name", ebiten.GamepadName(id))
		s.ids = append(s.ids, id)
	}
	s.ids = slices.DeleteFunc(s.ids, func(id ebiten.GamepadID) bool {
		if inpututil.IsGamepadJustDisconnected(id) {
			s.logger.Infow("gamepad disconnected", "id", id)
			return true
		}
		return false
	})
}

// current returns the gamepad to read.
func (s *Source) current() (ebiten.GamepadID, bool) {
	for i := len(s.ids) - 1; i >= 0; i-- {
		if ebiten.IsStandardGamepadLayoutAvailable(s.ids[i]) {
			return s.ids[i], true
		}
	}
	return 0, false
}

// Buttons implements display.Source.
func (s *Source) Buttons(ctx context.Context) ([]display.ButtonState, error) {
	id, ok := s.current()
	if !ok {
		if len(s.ids) > 0 {
			return nil, errors.Wrap(display.ErrDeviceUnavailable, "no gamepad with a standard layout")
		}
		return nil, display.ErrDeviceUnavailable
	}

	levels := make(map[string]bool, len(display.SignalNames))
	for name, b := range standardButtons {
		levels[name] = ebiten.IsStandardGamepadButtonPressed(id, b)
	}
	levels[display.LT] = ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomLeft) > s.threshold
	levels[display.RT] = ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonFrontBottomRight) > s.threshold

	display.Stick(levels, display.LeftStickDown, display.LeftStickLeft, display.LeftStickRight, display.LeftStickUp,
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
		s.threshold)
	display.Stick(levels, display.RightStickDown, display.RightStickLeft, display.RightStickRight, display.RightStickUp,
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
		ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
		s.threshold)

	return display.Buttons(levels), nil
}
