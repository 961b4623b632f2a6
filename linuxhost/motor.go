package linuxhost

import (
	"sync"

	"go.uber.org/zap"

	gamepads "github.com/doingharm/gamepad-display"
)

// rumbleDevice is the part of gamepads.Rumble the motor uses.
type rumbleDevice interface {
	SetMotorSpeeds(low, high float64) error
	Close() error
}

// Motor sends motor speeds to the rumble device of the current joystick.
// Without one, speeds are dropped.
type Motor struct {
	mu     sync.Mutex
	logger *zap.SugaredLogger
	open   func(id string) (rumbleDevice, error)
	id     string
	device rumbleDevice
}

// NewMotor returns a motor with no device attached.
func NewMotor(logger *zap.SugaredLogger) *Motor {
	return &Motor{
		logger: logger,
		open: func(id string) (rumbleDevice, error) {
			r, err := gamepads.OpenRumble(id)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	}
}

// Attach switches to the rumble device of joystick id. An empty id detaches.
func (m *Motor) Attach(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == m.id && m.device != nil {
		return
	}
	m.detach()
	m.id = id
	if id == "" {
		return
	}

	device, err := m.open(id)
	if err != nil {
		m.logger.Warnw("rumble unavailable, vibration is disabled", "id", id, "error", err)
		return
	}
	m.device = device
	m.logger.Debugw("rumble attached", "id", id)
}

// SetMotorSpeeds implements haptic.Motor.
func (m *Motor) SetMotorSpeeds(left, right float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return nil
	}
	return m.device.SetMotorSpeeds(left, right)
}

// Close releases the rumble device.
func (m *Motor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.detach()
}

func (m *Motor) detach() error {
	if m.device == nil {
		return nil
	}
	err := m.device.Close()
	if err != nil {
		m.logger.Debugw("closing rumble", "id", m.id, "error", err)
	}
	m.device = nil
	return err
}
