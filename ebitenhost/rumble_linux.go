//go:build linux

package ebitenhost

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	gamepads "github.com/doingharm/gamepad-display"
	"github.com/doingharm/gamepad-display/haptic"
	"github.com/doingharm/gamepad-display/linuxhost"
)

// newRumble drives evdev force feedback of the newest joystick node. Ebiten
// does not vibrate gamepads on Linux.
func newRumble(ctx context.Context, logger *zap.SugaredLogger, source *Source, clk clock.Clock) (haptic.Motor, func() error) {
	bus, errCh, err := gamepads.New(logger.Named("bus"))
	if err != nil {
		logger.Warnw("cannot watch joystick devices, gamepad vibration is unsupported", "error", err)
		return NewMotor(source, clk), func() error { return nil }
	}
	m := linuxhost.Follow(ctx, logger, bus, errCh, linuxhost.NewMotor(logger.Named("rumble")))
	return m, m.Close
}
