package gamepads

type EventType uint8

const (
	ConnectEventType EventType = iota
	DisconnectEventType
	ControlEventType
)

type Event struct {
	Type EventType
	ID   string
	Data any
}

type ControlType uint8

const (
	Button       ControlType = 0x01
	Axes         ControlType = 0x02
	InitialState ControlType = 0x80
)

// ControlEvent is one js_event read from the joystick node. Type may carry
// the InitialState flag for the synthetic events sent right after open.
type ControlEvent struct {
	Timestamp uint32
	Type      ControlType
	Index     int
	Value     int16
}

// Kind strips the InitialState flag.
func (c ControlEvent) Kind() ControlType {
	return c.Type &^ InitialState
}
