// Package ebitenhost runs the display in a window. Ebiten drives the frame
// loop and reads the standard gamepad layout.
package ebitenhost

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/doingharm/gamepad-display/display"
	"github.com/doingharm/gamepad-display/haptic"
)

// Config of the window host.
type Config struct {
	PressThreshold float64
	LeftMotor      float64
	RightMotor     float64
	DurationText   string
	OverlayColor   color.Color
}

var (
	outlineColor        = color.Gray{Y: 0x60}
	defaultOverlayColor = color.RGBA{R: 0xe0, G: 0x3c, B: 0x31, A: 0xff}
)

// sprite is an overlay drawn as a tinted box.
type sprite struct {
	name   string
	rect   image.Rectangle
	color  color.Color
	active bool
}

func (s *sprite) SetActive(active bool) {
	s.active = active
}

// hint is an instruction line.
type hint struct {
	text   string
	active bool
}

func (h *hint) SetActive(active bool) {
	h.active = active
}

// Game implements ebiten.Game.
type Game struct {
	ctx        context.Context
	logger     *zap.SugaredLogger
	panel      *display.Panel
	source     *Source
	motor      haptic.Motor
	closeMotor func() error
	haptics    *haptic.Controller
	sync       *display.Synchronizer
	sprites    []*sprite
	hints      []*hint
	chars      []rune
}

// NewGame builds the window host. ctx ends the game when done.
func NewGame(ctx context.Context, logger *zap.SugaredLogger, clk clock.Clock, cfg Config) (*Game, error) {
	g := &Game{
		ctx:    ctx,
		logger: logger,
		panel:  display.NewPanel(cfg.LeftMotor, cfg.RightMotor, cfg.DurationText),
		source: NewSource(logger.Named("source"), cfg.PressThreshold),
	}
	if cfg.OverlayColor == nil {
		cfg.OverlayColor = defaultOverlayColor
	}

	overlayHandles := make(map[string]display.Handle, len(overlayRects))
	for _, name := range display.OverlayNames {
		rect, ok := overlayRects[name]
		if !ok {
			continue
		}
		s := &sprite{name: name, rect: rect, color: cfg.OverlayColor}
		g.sprites = append(g.sprites, s)
		overlayHandles[name] = s
	}
	overlays, err := display.NewRegistry(display.OverlayNames, overlayHandles)
	if err != nil {
		return nil, err
	}

	hintHandles := make(map[string]display.Handle, len(hintTexts))
	for _, name := range display.HintNames {
		text, ok := hintTexts[name]
		if !ok {
			continue
		}
		h := &hint{text: text}
		g.hints = append(g.hints, h)
		hintHandles[name] = h
	}
	hints, err := display.NewRegistry(display.HintNames, hintHandles)
	if err != nil {
		return nil, err
	}

	g.motor, g.closeMotor = newRumble(ctx, logger, g.source, clk)
	g.haptics = haptic.NewController(logger.Named("haptic"), clk, g.motor)
	g.sync = display.NewSynchronizer(logger, g.source, g.panel, overlays, hints, g.haptics)
	return g, nil
}

// Update proceeds one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || g.ctx.Err() != nil {
		return ebiten.Termination
	}

	g.readPanel()
	g.source.update()
	if err := g.sync.Tick(g.ctx); err != nil {
		return ebiten.Termination
	}
	if m, ok := g.motor.(*Motor); ok {
		m.renew()
	}
	return nil
}

// readPanel applies slider and duration field keys.
func (g *Game) readPanel() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		g.panel.AdjustLeft(display.SliderStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.panel.AdjustLeft(-display.SliderStep)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.panel.AdjustRight(display.SliderStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.panel.AdjustRight(-display.SliderStep)
	}

	g.chars = ebiten.AppendInputChars(g.chars[:0])
	g.panel.TypeDuration(g.chars)
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.panel.BackspaceDuration()
	}
}

// Draw draws the overlays and the panel.
func (g *Game) Draw(screen *ebiten.Image) {
	for _, s := range g.sprites {
		x, y := float32(s.rect.Min.X), float32(s.rect.Min.Y)
		w, h := float32(s.rect.Dx()), float32(s.rect.Dy())
		if s.active {
			vector.DrawFilledRect(screen, x, y, w, h, s.color, false)
		}
		vector.StrokeRect(screen, x, y, w, h, 1, outlineColor, false)
		ebitenutil.DebugPrintAt(screen, s.name, s.rect.Min.X, s.rect.Max.Y+2)
	}

	left, right := g.panel.MotorIntensities()
	leftLabel, rightLabel := display.MotorLabels(left, right)
	ebitenutil.DebugPrintAt(screen, leftLabel, 20, 290)
	ebitenutil.DebugPrintAt(screen, rightLabel, 20, 306)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Duration (s): %s_", g.panel.DurationText()), 20, 322)

	y := 290
	for _, h := range lo.Filter(g.hints, func(h *hint, _ int) bool { return h.active }) {
		ebitenutil.DebugPrintAt(screen, h.text, 300, y)
		y += 16
	}

	status := g.haptics.State().String()
	if deadline, ok := g.haptics.Deadline(); ok {
		status = fmt.Sprintf("%s until %s", status, deadline.Format(time.TimeOnly))
	}
	ebitenutil.DebugPrintAt(screen, status, 300, 338)
	ebitenutil.DebugPrintAt(screen, helpText, 20, screenHeight-20)
}

// Layout keeps a fixed logical screen.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

// Close abandons a running timed vibration and releases the rumble device.
func (g *Game) Close() error {
	g.haptics.Close()
	return g.closeMotor()
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, logger *zap.SugaredLogger, clk clock.Clock, cfg Config) (err error) {
	game, err := NewGame(ctx, logger, clk, cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, game.Close())
	}()

	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("Gamepad Display")
	return ebiten.RunGame(game)
}
