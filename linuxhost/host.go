package linuxhost

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	gamepads "github.com/doingharm/gamepad-display"
	"github.com/doingharm/gamepad-display/display"
	"github.com/doingharm/gamepad-display/haptic"
)

// Config of the headless host.
type Config struct {
	FPS            int
	PressThreshold float64
	LeftMotor      float64
	RightMotor     float64
	DurationText   string
}

// Run ticks the display at cfg.FPS until ctx is done.
func Run(ctx context.Context, logger *zap.SugaredLogger, clk clock.Clock, cfg Config) (err error) {
	if cfg.FPS <= 0 {
		return errors.Errorf("fps must be positive, got %d", cfg.FPS)
	}

	overlays, err := display.NewRegistry(display.OverlayNames, logHandles(logger.Named("overlay"), display.OverlayNames))
	if err != nil {
		return err
	}
	hints, err := display.NewRegistry(display.HintNames, logHandles(logger.Named("hint"), display.HintNames))
	if err != nil {
		return err
	}

	bus, errCh, err := gamepads.New(logger.Named("bus"))
	if err != nil {
		return errors.Wrap(err, "starting gamepad bus")
	}

	source := NewSource(logger.Named("source"), cfg.PressThreshold)
	motor := NewMotor(logger.Named("rumble"))
	source.OnCurrentChange(motor.Attach)

	haptics := haptic.NewController(logger.Named("haptic"), clk, motor)
	synchronizer := display.NewSynchronizer(
		logger,
		source,
		display.NewPanel(cfg.LeftMotor, cfg.RightMotor, cfg.DurationText),
		overlays,
		hints,
		haptics,
	)

	defer func() {
		haptics.Close()
		err = multierr.Combine(err, motor.Close(), bus.Close())
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return drainErrors(gctx, logger, errCh)
	})
	g.Go(func() error {
		return Pump(gctx, logger, bus, source)
	})
	g.Go(func() error {
		ticker := clk.Ticker(time.Second / time.Duration(cfg.FPS))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := synchronizer.Tick(gctx); err != nil {
					return err
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// drainErrors logs device errors of a bus until ctx is done.
func drainErrors(ctx context.Context, logger *zap.SugaredLogger, errCh <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			logger.Warnw("gamepad device error", "error", err)
		}
	}
}
