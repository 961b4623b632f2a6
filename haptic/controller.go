// Package haptic drives the two rumble motors of a gamepad from trigger input.
//
// Holding the left trigger vibrates for as long as it is held. A press of the
// right trigger vibrates for a requested number of seconds. Only one of the two
// can run at a time because the motor accepts a single intensity pair.
package haptic

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// State of the vibration state machine.
type State int

const (
	Idle State = iota
	ContinuousVibrating
	TimedVibrating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case ContinuousVibrating:
		return "ContinuousVibrating"
	case TimedVibrating:
		return "TimedVibrating"
	default:
		return "Unknown"
	}
}

// Motor is the haptic output of the device.
type Motor interface {
	SetMotorSpeeds(left, right float64) error
}

// Input is what the controller sees of one tick.
type Input struct {
	// LeftTrigger is the held level of the left trigger.
	LeftTrigger bool
	// LeftTriggerReleased is true on the tick the left trigger went up.
	LeftTriggerReleased bool
	// RightTriggerPressed is true on the tick the right trigger went down.
	RightTriggerPressed bool

	Left, Right  float64
	DurationText string
}

// scheduled is a deferred action that the owner polls for.
type scheduled struct {
	deadline time.Time
	action   func()
}

// Controller owns the vibration state. It is not safe for concurrent use;
// Update and Poll are called from the tick loop.
type Controller struct {
	logger *zap.SugaredLogger
	clock  clock.Clock
	motor  Motor

	state       State
	left, right float64
	pending     *scheduled
	closed      bool
}

// NewController returns an idle controller driving motor.
func NewController(logger *zap.SugaredLogger, clk clock.Clock, motor Motor) *Controller {
	return &Controller{
		logger: logger,
		clock:  clk,
		motor:  motor,
		state:  Idle,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Output returns the last intensities sent to the motor.
func (c *Controller) Output() (left, right float64) {
	return c.left, c.right
}

// Deadline returns when the running timed vibration ends.
func (c *Controller) Deadline() (time.Time, bool) {
	if c.pending == nil {
		return time.Time{}, false
	}
	return c.pending.deadline, true
}

// ShowLeftTriggerInstructions is true while holding the left trigger would
// have an effect or is having one.
func (c *Controller) ShowLeftTriggerInstructions() bool {
	return c.state != TimedVibrating
}

// ShowRightTriggerInstructions is true while a timed vibration can be started.
func (c *Controller) ShowRightTriggerInstructions() bool {
	return c.state == Idle
}

// Update applies one tick of input. A held left trigger wins over a right
// trigger press on the same tick.
func (c *Controller) Update(in Input) {
	if c.closed {
		return
	}

	switch c.state {
	case Idle:
		switch {
		case in.LeftTrigger:
			c.transition(ContinuousVibrating, in.Left, in.Right)
		case in.RightTriggerPressed:
			c.startTimed(in)
		}
	case ContinuousVibrating:
		if in.LeftTriggerReleased {
			c.transition(Idle, 0, 0)
		}
	case TimedVibrating:
		// runs to completion; see Poll
	}
}

// Poll runs the scheduled completion once its deadline has passed.
func (c *Controller) Poll() {
	if c.closed || c.pending == nil {
		return
	}
	if c.clock.Now().Before(c.pending.deadline) {
		return
	}
	action := c.pending.action
	c.pending = nil
	action()
}

// Close abandons a pending timed vibration. The motor is left as is.
func (c *Controller) Close() {
	if c.pending != nil {
		c.logger.Debugw("abandoning timed vibration", "deadline", c.pending.deadline)
	}
	c.pending = nil
	c.closed = true
}

func (c *Controller) startTimed(in Input) {
	duration, err := ParseDuration(in.DurationText)
	if err != nil {
		c.logger.Warnw("not starting timed vibration", "error", err)
		duration = 0
	}

	if duration <= 0 || (in.Left <= 0 && in.Right <= 0) {
		c.logger.Debugw("timed vibration declined",
			"duration", duration, "left", in.Left, "right", in.Right)
		return
	}

	c.transition(TimedVibrating, in.Left, in.Right)
	c.pending = &scheduled{
		deadline: c.clock.Now().Add(duration),
		action: func() {
			c.transition(Idle, 0, 0)
		},
	}
}

func (c *Controller) transition(to State, left, right float64) {
	c.logger.Debugw("haptic transition", "from", c.state, "to", to, "left", left, "right", right)
	c.state = to
	c.left, c.right = left, right
	if err := c.motor.SetMotorSpeeds(left, right); err != nil {
		c.logger.Warnw("setting motor speeds", "error", errors.Wrapf(err, "left %v right %v", left, right))
	}
}
