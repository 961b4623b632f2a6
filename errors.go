package gamepads

import "github.com/pkg/errors"

var (
	ErrNotifierNotInitialized      = errors.New("notifier not initialized")
	ErrOsNotSupported              = errors.New("os is not supported (yet)")
	ErrJoystickAlreadySubscribed   = errors.New("joystick is already subscribed")
	ErrJoystickAlreadyUnsubscribed = errors.New("joystick is already unsubscribed")
	ErrJoystickNotFound            = errors.New("joystick was not found")
	ErrRumbleUnsupported           = errors.New("joystick has no force feedback event node")
)
