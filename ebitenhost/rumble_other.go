//go:build !linux

package ebitenhost

import (
	"context"
	"runtime"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/doingharm/gamepad-display/haptic"
)

// newRumble vibrates through ebiten, which only does so in browsers.
func newRumble(ctx context.Context, logger *zap.SugaredLogger, source *Source, clk clock.Clock) (haptic.Motor, func() error) {
	if runtime.GOOS != "js" {
		logger.Warnw("gamepad vibration is unsupported on this platform", "os", runtime.GOOS)
	}
	return NewMotor(source, clk), func() error { return nil }
}
