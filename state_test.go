package gamepads

import (
	"math"
	"testing"

	"go.viam.com/test"
)

var testPad = Gamepad{
	ID:        "js0",
	ButtonMap: []int{BtnSouth, BtnEast},
	AxesMap:   []int{AbsX, AbsZ},
}

func TestStateApply(t *testing.T) {
	s := NewState(testPad)
	test.That(t, s.Info().ID, test.ShouldEqual, "js0")

	pressed, ok := s.Button(BtnSouth)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pressed, test.ShouldBeFalse)

	s.Apply(ControlEvent{Type: Button | InitialState, Index: 1, Value: 1})
	s.Apply(ControlEvent{Type: Axes, Index: 0, Value: math.MaxInt16})
	s.Apply(ControlEvent{Type: Axes, Index: 1, Value: math.MinInt16})

	pressed, ok = s.Button(BtnEast)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pressed, test.ShouldBeTrue)

	v, ok := s.Axis(AbsX)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 1.0)

	v, _ = s.Axis(AbsZ)
	test.That(t, v, test.ShouldEqual, -1.0)

	s.Apply(ControlEvent{Type: Button, Index: 1, Value: 0})
	pressed, _ = s.Button(BtnEast)
	test.That(t, pressed, test.ShouldBeFalse)
}

func TestStateAxisUnknownUntilReported(t *testing.T) {
	s := NewState(testPad)
	_, ok := s.Axis(AbsZ)
	test.That(t, ok, test.ShouldBeFalse)

	s.Apply(ControlEvent{Type: Axes | InitialState, Index: 1, Value: 0})
	v, ok := s.Axis(AbsZ)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, v, test.ShouldEqual, 0.0)
}

func TestStateIgnoresUnknownControls(t *testing.T) {
	s := NewState(testPad)
	s.Apply(ControlEvent{Type: Button, Index: 7, Value: 1})
	s.Apply(ControlEvent{Type: Axes, Index: -1, Value: 1})

	_, ok := s.Button(BtnNorth)
	test.That(t, ok, test.ShouldBeFalse)
	_, ok = s.Axis(AbsRZ)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestControlEventKind(t *testing.T) {
	test.That(t, ControlEvent{Type: Axes | InitialState}.Kind(), test.ShouldEqual, Axes)
	test.That(t, ControlEvent{Type: Button}.Kind(), test.ShouldEqual, Button)
}

func TestFilters(t *testing.T) {
	control := &Event{Type: ControlEventType, ID: "js1"}
	connect := &Event{Type: ConnectEventType, ID: "js0"}

	ch := &EventChannel{filters: []FilterFunc{ControlEventsOnly, ForGamepad("js1")}}
	test.That(t, ch.accepts(control), test.ShouldBeTrue)
	test.That(t, ch.accepts(connect), test.ShouldBeFalse)
	test.That(t, (&EventChannel{}).accepts(connect), test.ShouldBeTrue)
}

func TestEscapeString(t *testing.T) {
	test.That(t, escapeString([]byte{'j', 's', '0', 0, 0}), test.ShouldEqual, "js0")
}
