package display

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"
	"go.viam.com/test"

	"github.com/doingharm/gamepad-display/haptic"
)

type fakeHandle struct {
	active bool
	calls  int
}

func (h *fakeHandle) SetActive(active bool) {
	h.active = active
	h.calls++
}

func newHandles(names []string) (map[string]Handle, map[string]*fakeHandle) {
	handles := make(map[string]Handle, len(names))
	fakes := make(map[string]*fakeHandle, len(names))
	for _, name := range names {
		h := &fakeHandle{}
		handles[name] = h
		fakes[name] = h
	}
	return handles, fakes
}

type fakeSource struct {
	levels map[string]bool
	err    error
}

func (s *fakeSource) Buttons(ctx context.Context) ([]ButtonState, error) {
	if s.err != nil {
		return nil, s.err
	}
	return Buttons(s.levels), nil
}

func (s *fakeSource) set(name string, pressed bool) {
	s.levels[name] = pressed
}

type fakeControls struct {
	left, right float64
	text        string
}

func (c *fakeControls) MotorIntensities() (float64, float64) { return c.left, c.right }
func (c *fakeControls) DurationText() string { return c.text }

type speeds struct {
	left, right float64
}

type fakeMotor struct {
	calls []speeds
}

func (m *fakeMotor) SetMotorSpeeds(left, right float64) error {
	m.calls = append(m.calls, speeds{left, right})
	return nil
}

type setupResult struct {
	ctx      context.Context
	source   *fakeSource
	controls *fakeControls
	motor    *fakeMotor
	clock    *clock.Mock
	overlays map[string]*fakeHandle
	hints    map[string]*fakeHandle
	sync     *Synchronizer
}

func setup(t *testing.T) *setupResult {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()

	s := &setupResult{
		ctx:      context.Background(),
		source:   &fakeSource{levels: map[string]bool{}},
		controls: &fakeControls{text: "1"},
		motor:    &fakeMotor{},
		clock:    clock.NewMock(),
	}
	for _, name := range SignalNames {
		s.source.levels[name] = false
	}

	overlayHandles, overlays := newHandles(OverlayNames)
	hintHandles, hints := newHandles(HintNames)
	s.overlays, s.hints = overlays, hints

	overlayReg, err := NewRegistry(OverlayNames, overlayHandles)
	test.That(t, err, test.ShouldBeNil)
	hintReg, err := NewRegistry(HintNames, hintHandles)
	test.That(t, err, test.ShouldBeNil)

	haptics := haptic.NewController(logger, s.clock, s.motor)
	s.sync = NewSynchronizer(logger, s.source, s.controls, overlayReg, hintReg, haptics)
	return s
}

func (s *setupResult) tick(t *testing.T) {
	t.Helper()
	test.That(t, s.sync.Tick(s.ctx), test.ShouldBeNil)
}

func TestIndicators(t *testing.T) {
	snap := GamepadSnapshot{Buttons: []ButtonState{{A, true}, {B, false}}}
	test.That(t, Indicators(snap, []string{A, B, Menu}), test.ShouldResemble, []Indicator{{A, true}, {B, false}})
	test.That(t, Indicators(GamepadSnapshot{}, OverlayNames), test.ShouldBeEmpty)
}

func TestButtonsOrderAndMenu(t *testing.T) {
	buttons := Buttons(map[string]bool{RT: true, A: false, Menu: true, "bogus": true})
	test.That(t, buttons, test.ShouldResemble, []ButtonState{{A, false}, {RT, true}})
	test.That(t, len(SignalNames), test.ShouldEqual, 22)
	test.That(t, len(OverlayNames), test.ShouldEqual, 23)
}

func TestStick(t *testing.T) {
	levels := map[string]bool{}
	Stick(levels, LeftStickDown, LeftStickLeft, LeftStickRight, LeftStickUp, -0.8, 0.3, DefaultPressThreshold)
	test.That(t, levels, test.ShouldResemble, map[string]bool{
		LeftStickDown:  false,
		LeftStickLeft:  true,
		LeftStickRight: false,
		LeftStickUp:    false,
	})

	Stick(levels, LeftStickDown, LeftStickLeft, LeftStickRight, LeftStickUp, 0.5, -0.51, DefaultPressThreshold)
	test.That(t, levels[LeftStickUp], test.ShouldBeTrue)
	test.That(t, levels[LeftStickRight], test.ShouldBeFalse)
}

func TestClamp01(t *testing.T) {
	test.That(t, Clamp01(-1), test.ShouldEqual, 0.0)
	test.That(t, Clamp01(0.25), test.ShouldEqual, 0.25)
	test.That(t, Clamp01(3), test.ShouldEqual, 1.0)
}

func TestNewRegistryMissingOverlay(t *testing.T) {
	handles, _ := newHandles([]string{A, B})
	_, err := NewRegistry([]string{A, B, X, Menu}, handles)
	test.That(t, errors.Is(err, ErrOverlayNotFound), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "X, Menu")
}

func TestNewRegistryHidesOverlays(t *testing.T) {
	handles, fakes := newHandles(OverlayNames)
	fakes[Menu].active = true

	reg, err := NewRegistry(OverlayNames, handles)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reg.Names(), test.ShouldResemble, OverlayNames)
	for _, name := range OverlayNames {
		test.That(t, fakes[name].active, test.ShouldBeFalse)
	}
	test.That(t, reg.SetActive("nope", true), test.ShouldBeFalse)
	test.That(t, reg.SetActive(Menu, true), test.ShouldBeTrue)
	test.That(t, fakes[Menu].active, test.ShouldBeTrue)
}

func TestTickAppliesOverlays(t *testing.T) {
	s := setup(t)
	s.source.set(A, true)
	s.source.set(LeftStickUp, true)
	s.tick(t)

	test.That(t, s.overlays[A].active, test.ShouldBeTrue)
	test.That(t, s.overlays[LeftStickUp].active, test.ShouldBeTrue)
	test.That(t, s.overlays[B].active, test.ShouldBeFalse)

	s.source.set(A, false)
	s.tick(t)
	test.That(t, s.overlays[A].active, test.ShouldBeFalse)
}

func TestMenuNeverToggled(t *testing.T) {
	s := setup(t)
	for _, name := range SignalNames {
		s.source.set(name, true)
	}
	s.tick(t)
	for _, name := range SignalNames {
		s.source.set(name, false)
	}
	s.tick(t)

	test.That(t, s.overlays[Menu].active, test.ShouldBeFalse)
	// only the hide at startup
	test.That(t, s.overlays[Menu].calls, test.ShouldEqual, 1)
}

func TestTickWithoutDevice(t *testing.T) {
	s := setup(t)
	s.controls.left = 0.5

	s.source.err = errors.Wrap(ErrDeviceUnavailable, "js0 gone")
	for i := 0; i < 3; i++ {
		s.tick(t)
	}
	for _, name := range OverlayNames {
		test.That(t, s.overlays[name].calls, test.ShouldEqual, 1)
	}
	test.That(t, s.motor.calls, test.ShouldBeEmpty)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)

	s.source.err = errors.New("read failed")
	s.tick(t)
	test.That(t, s.motor.calls, test.ShouldBeEmpty)

	s.source.err = nil
	s.source.set(LT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.ContinuousVibrating)
}

func TestTimedVibrationNotCompletedWithoutDevice(t *testing.T) {
	s := setup(t)
	s.controls.left, s.controls.text = 0.3, "1"
	s.tick(t)
	s.source.set(RT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.TimedVibrating)

	s.source.err = ErrDeviceUnavailable
	s.clock.Add(2 * time.Second)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.TimedVibrating)
	test.That(t, len(s.motor.calls), test.ShouldEqual, 1)

	s.source.err = nil
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)
}

func TestContinuousVibration(t *testing.T) {
	s := setup(t)
	s.controls.left, s.controls.right = 0.4, 0.6

	s.source.set(LT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.ContinuousVibrating)
	test.That(t, s.motor.calls, test.ShouldResemble, []speeds{{0.4, 0.6}})
	test.That(t, s.hints[LeftTriggerInstructions].active, test.ShouldBeTrue)
	test.That(t, s.hints[RightTriggerInstructions].active, test.ShouldBeFalse)

	s.tick(t)
	test.That(t, len(s.motor.calls), test.ShouldEqual, 1)

	s.source.set(LT, false)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)
	test.That(t, s.motor.calls, test.ShouldResemble, []speeds{{0.4, 0.6}, {0, 0}})
	test.That(t, s.hints[RightTriggerInstructions].active, test.ShouldBeTrue)
}

func TestTimedVibration(t *testing.T) {
	s := setup(t)
	s.controls.left, s.controls.right, s.controls.text = 0.3, 0, "2.5"

	s.source.set(RT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.TimedVibrating)
	test.That(t, s.motor.calls, test.ShouldResemble, []speeds{{0.3, 0}})
	test.That(t, s.hints[LeftTriggerInstructions].active, test.ShouldBeFalse)
	test.That(t, s.hints[RightTriggerInstructions].active, test.ShouldBeFalse)

	// a held right trigger is not a new press
	s.clock.Add(2 * time.Second)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.TimedVibrating)

	s.clock.Add(500 * time.Millisecond)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)
	test.That(t, s.motor.calls, test.ShouldResemble, []speeds{{0.3, 0}, {0, 0}})

	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)
	test.That(t, len(s.motor.calls), test.ShouldEqual, 2)
}

func TestTimedVibrationDeclined(t *testing.T) {
	s := setup(t)
	s.controls.left, s.controls.text = 0.3, "abc"
	s.source.set(RT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)
	test.That(t, s.motor.calls, test.ShouldBeEmpty)

	s = setup(t)
	s.controls.text = "2"
	s.source.set(RT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.Idle)
	test.That(t, s.motor.calls, test.ShouldBeEmpty)
}

func TestRightTriggerIgnoredWhileContinuous(t *testing.T) {
	s := setup(t)
	s.controls.left, s.controls.text = 0.5, "1"
	s.source.set(LT, true)
	s.tick(t)
	s.source.set(RT, true)
	s.tick(t)
	test.That(t, s.sync.State(), test.ShouldEqual, haptic.ContinuousVibrating)
	test.That(t, len(s.motor.calls), test.ShouldEqual, 1)
}

func TestIntensitiesClamped(t *testing.T) {
	s := setup(t)
	s.controls.left, s.controls.right = 1.5, -2
	s.source.set(LT, true)
	s.tick(t)
	test.That(t, s.motor.calls, test.ShouldResemble, []speeds{{1, 0}})
}

func TestTickCanceled(t *testing.T) {
	s := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.sync.Tick(ctx)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestMotorLabels(t *testing.T) {
	l, r := MotorLabels(0.3, 1)
	test.That(t, l, test.ShouldEqual, "Left Motor: 0.30")
	test.That(t, r, test.ShouldEqual, "Right Motor: 1.00")
}
