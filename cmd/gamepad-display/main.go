// Package main shows the live state of a gamepad and exercises its rumble motors.
package main

import (
	"context"
	"image/color"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/doingharm/gamepad-display/display"
	"github.com/doingharm/gamepad-display/ebitenhost"
	"github.com/doingharm/gamepad-display/linuxhost"
)

const (
	flagDebug          = "debug"
	flagFPS            = "fps"
	flagStickThreshold = "stick-threshold"
	flagLeftMotor      = "left-motor"
	flagRightMotor     = "right-motor"
	flagDuration       = "duration"
	flagOverlayColor   = "overlay-color"
)

func envVar(name string) []string {
	return []string{"GAMEPAD_DISPLAY_" + name}
}

func main() {
	var logger *zap.SugaredLogger

	app := &cli.App{
		Name:  "gamepad-display",
		Usage: "show gamepad input and test its vibration motors",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
				EnvVars: envVar("DEBUG"),
			},
			&cli.Float64Flag{
				Name:    flagStickThreshold,
				Value:   display.DefaultPressThreshold,
				Usage:   "analog value past which a stick direction or trigger counts as pressed",
				EnvVars: envVar("STICK_THRESHOLD"),
			},
			&cli.Float64Flag{
				Name:    flagLeftMotor,
				Value:   0.5,
				Usage:   "initial left (strong) motor intensity, 0 to 1",
				EnvVars: envVar("LEFT_MOTOR"),
			},
			&cli.Float64Flag{
				Name:    flagRightMotor,
				Value:   0.5,
				Usage:   "initial right (weak) motor intensity, 0 to 1",
				EnvVars: envVar("RIGHT_MOTOR"),
			},
			&cli.StringFlag{
				Name:    flagDuration,
				Value:   "1",
				Usage:   "initial timed vibration length in seconds",
				EnvVars: envVar("DURATION"),
			},
		},
		Before: func(c *cli.Context) error {
			var zl *zap.Logger
			var err error
			if c.Bool(flagDebug) {
				zl, err = zap.NewDevelopment()
			} else {
				zl, err = zap.NewProduction()
			}
			if err != nil {
				return errors.Wrap(err, "creating logger")
			}
			logger = zl.Sugar().Named("gamepad-display")
			return nil
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "window",
				Usage: "draw the gamepad in a window",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    flagOverlayColor,
						Value:   "#e03c31",
						Usage:   "overlay tint as #rrggbb",
						EnvVars: envVar("OVERLAY_COLOR"),
					},
				},
				Action: func(c *cli.Context) error {
					tint, err := overlayColor(c.String(flagOverlayColor))
					if err != nil {
						return err
					}
					return ebitenhost.Run(c.Context, logger, clock.New(), ebitenhost.Config{
						PressThreshold: c.Float64(flagStickThreshold),
						LeftMotor:      c.Float64(flagLeftMotor),
						RightMotor:     c.Float64(flagRightMotor),
						DurationText:   c.String(flagDuration),
						OverlayColor:   tint,
					})
				},
			},
			{
				Name:  "headless",
				Usage: "log overlay changes and drive rumble from joystick device nodes (Linux)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    flagFPS,
						Value:   60,
						Usage:   "ticks per second",
						EnvVars: envVar("FPS"),
					},
				},
				Action: func(c *cli.Context) error {
					return linuxhost.Run(c.Context, logger, clock.New(), linuxhost.Config{
						FPS:            c.Int(flagFPS),
						PressThreshold: c.Float64(flagStickThreshold),
						LeftMotor:      c.Float64(flagLeftMotor),
						RightMotor:     c.Float64(flagRightMotor),
						DurationText:   c.String(flagDuration),
					})
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// overlayColor parses a hex color into an opaque RGBA.
func overlayColor(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s %q", flagOverlayColor, hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
