//go:build !linux

package gamepads

// Rumble is only available on Linux.
type Rumble struct{}

// OpenRumble always fails outside Linux.
func OpenRumble(id string) (*Rumble, error) {
	return nil, ErrOsNotSupported
}

// SetMotorSpeeds is a no-op outside Linux.
func (r *Rumble) SetMotorSpeeds(low, high float64) error {
	return ErrOsNotSupported
}

// Close is a no-op outside Linux.
func (r *Rumble) Close() error {
	return nil
}
