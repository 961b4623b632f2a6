//go:build !linux

package gamepads

import (
	"context"

	"go.uber.org/zap"
)

func linuxNotifier(
	ctx context.Context,
	logger *zap.SugaredLogger,
	eventChannel chan *Event,
	errChannel chan error,
) (notify, error) {
	return nil, ErrOsNotSupported
}
