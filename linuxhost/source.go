// Package linuxhost runs the display headless on Linux: input comes from the
// joystick device nodes, rumble goes through evdev force feedback, and
// overlays are reported as log lines.
package linuxhost

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	gamepads "github.com/doingharm/gamepad-display"
	"github.com/doingharm/gamepad-display/display"
)

// buttonCodes maps digital signals onto BTN_* codes, in order of preference.
var buttonCodes = map[string][]int{
	display.A:         {gamepads.BtnSouth},
	display.B:         {gamepads.BtnEast},
	display.X:         {gamepads.BtnWest},
	display.Y:         {gamepads.BtnNorth},
	display.Back:      {gamepads.BtnSelect},
	display.Start:     {gamepads.BtnStart},
	display.LB:        {gamepads.BtnTL},
	display.RB:        {gamepads.BtnTR},
	display.DPadDown:  {gamepads.BtnDpadDown},
	display.DPadLeft:  {gamepads.BtnDpadLeft},
	display.DPadRight: {gamepads.BtnDpadRight},
	display.DPadUp:    {gamepads.BtnDpadUp},
}

// Source tracks the most recently connected joystick and builds the button
// list of a tick from its state.
type Source struct {
	mu        sync.RWMutex
	logger    *zap.SugaredLogger
	threshold float64
	devices   []*gamepads.State
	onChange  func(id string)
}

// NewSource returns a source with no device. threshold is the press point of
// stick directions and axis triggers.
func NewSource(logger *zap.SugaredLogger, threshold float64) *Source {
	return &Source{logger: logger, threshold: threshold}
}

// OnCurrentChange registers a function called with the id of the new current
// device, or "" when none is left.
func (s *Source) OnCurrentChange(f func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = f
}

// Current returns the id of the device the source reads.
func (s *Source) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.devices) == 0 {
		return "", false
	}
	return s.devices[len(s.devices)-1].Info().ID, true
}

// Connect starts tracking a device and makes it current.
func (s *Source) Connect(info gamepads.Gamepad) {
	s.mu.Lock()
	if lo.ContainsBy(s.devices, func(d *gamepads.State) bool { return d.Info().ID == info.ID }) {
		s.mu.Unlock()
		return
	}
	s.devices = append(s.devices, gamepads.NewState(info))
	onChange := s.onChange
	s.mu.Unlock()

	s.logger.Infow("using gamepad", "id", info.ID, "model", info.Model)
	if onChange != nil {
		onChange(info.ID)
	}
}

// Disconnect forgets a device. The previous device, if any, becomes current.
func (s *Source) Disconnect(id string) {
	s.mu.Lock()
	wasCurrent := len(s.devices) > 0 && s.devices[len(s.devices)-1].Info().ID == id
	s.devices = lo.Reject(s.devices, func(d *gamepads.State, _ int) bool { return d.Info().ID == id })
	onChange := s.onChange
	s.mu.Unlock()

	if !wasCurrent || onChange == nil {
		return
	}
	next, _ := s.Current()
	onChange(next)
}

// Apply folds a control event of device id into its state.
func (s *Source) Apply(id string, ev gamepads.ControlEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := lo.Find(s.devices, func(d *gamepads.State) bool { return d.Info().ID == id }); ok {
		d.Apply(ev)
	}
}

// Buttons implements display.Source.
func (s *Source) Buttons(ctx context.Context) ([]display.ButtonState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.devices) == 0 {
		return nil, display.ErrDeviceUnavailable
	}
	current := s.devices[len(s.devices)-1]
	return display.Buttons(levels(current, s.threshold)), nil
}

// levels maps one device state onto the signal names.
func levels(st *gamepads.State, threshold float64) map[string]bool {
	out := make(map[string]bool, len(display.SignalNames))
	for name, codes := range buttonCodes {
		for _, code := range codes {
			if pressed, ok := st.Button(code); ok {
				out[name] = pressed
				break
			}
		}
	}

	out[display.LT] = trigger(st, gamepads.BtnTL2, gamepads.AbsZ, threshold)
	out[display.RT] = trigger(st, gamepads.BtnTR2, gamepads.AbsRZ, threshold)

	if _, ok := out[display.DPadUp]; !ok {
		hx, _ := st.Axis(gamepads.AbsHat0X)
		hy, _ := st.Axis(gamepads.AbsHat0Y)
		display.Stick(out, display.DPadDown, display.DPadLeft, display.DPadRight, display.DPadUp, hx, hy, threshold)
	}

	lx, _ := st.Axis(gamepads.AbsX)
	ly, _ := st.Axis(gamepads.AbsY)
	display.Stick(out, display.LeftStickDown, display.LeftStickLeft, display.LeftStickRight, display.LeftStickUp,
		lx, ly, threshold)

	rx, _ := st.Axis(gamepads.AbsRX)
	ry, _ := st.Axis(gamepads.AbsRY)
	display.Stick(out, display.RightStickDown, display.RightStickLeft, display.RightStickRight, display.RightStickUp,
		rx, ry, threshold)

	return out
}

// trigger prefers the analog axis of a trigger and falls back to its button.
// Axes rest at -1 and are fully pulled at +1. A trigger whose axis has not
// been reported yet reads as released.
func trigger(st *gamepads.State, button, axis int, threshold float64) bool {
	if v, ok := st.Axis(axis); ok {
		return (v+1)/2 > threshold
	}
	pressed, _ := st.Button(button)
	return pressed
}

// Pump feeds bus events into the source until ctx is done.
func Pump(ctx context.Context, logger *zap.SugaredLogger, bus gamepads.Bus, src *Source) error {
	ch := bus.NewEventChannel()
	if ch == nil {
		return gamepads.ErrNotifierNotInitialized
	}
	defer ch.CancelFunc()

	// devices found before the channel existed
	for _, gp := range bus.Gamepads() {
		connect(logger, bus, src, gp)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch.Ctx.Done():
			return nil
		case event := <-ch.Ch:
			switch event.Type {
			case gamepads.ConnectEventType:
				connect(logger, bus, src, event.Data.(gamepads.Gamepad))
			case gamepads.DisconnectEventType:
				src.Disconnect(event.ID)
			case gamepads.ControlEventType:
				src.Apply(event.ID, event.Data.(gamepads.ControlEvent))
			}
		}
	}
}

func connect(logger *zap.SugaredLogger, bus gamepads.Bus, src *Source, gp gamepads.Gamepad) {
	if err := bus.Subscribe(gp.ID); err != nil && !errors.Is(err, gamepads.ErrJoystickAlreadySubscribed) {
		logger.Warnw("subscribing to gamepad", "id", gp.ID, "error", err)
		return
	}
	src.Connect(gp)
}
