package linuxhost

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gamepads "github.com/doingharm/gamepad-display"
	"github.com/doingharm/gamepad-display/display"
)

// FollowingMotor is a Motor kept attached to the most recently connected
// joystick of a bus. Hosts that read input through another library use it
// for rumble.
type FollowingMotor struct {
	*Motor
	source *Source
	bus    gamepads.Bus
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Follow attaches motor to the current joystick of bus until Close. It takes
// ownership of motor and bus.
func Follow(ctx context.Context, logger *zap.SugaredLogger, bus gamepads.Bus, errCh <-chan error, motor *Motor) *FollowingMotor {
	source := NewSource(logger.Named("devices"), display.DefaultPressThreshold)
	source.OnCurrentChange(motor.Attach)

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return drainErrors(gctx, logger, errCh)
	})
	g.Go(func() error {
		return Pump(gctx, logger, bus, source)
	})

	return &FollowingMotor{
		Motor:  motor,
		source: source,
		bus:    bus,
		cancel: cancel,
		group:  g,
	}
}

// Current returns the id of the joystick the motor follows.
func (f *FollowingMotor) Current() (string, bool) {
	return f.source.Current()
}

// Close stops following and releases the rumble device and the bus.
func (f *FollowingMotor) Close() error {
	f.cancel()
	err := f.group.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return multierr.Combine(err, f.Motor.Close(), f.bus.Close())
}
