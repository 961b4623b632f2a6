package gamepads

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

type bus struct {
	sync.RWMutex
	logger       *zap.SugaredLogger
	ctx          context.Context
	cancelFunc   context.CancelFunc
	eventChannel chan *Event
	errChannel   chan error
	notifier     notify
	channels     []*EventChannel
	dispatchDone chan struct{}
}

// Bus fans out connect, disconnect and control events of every joystick
// device to the event channels created on it.
type Bus interface {
	NewEventChannel(filters ...FilterFunc) (dest *EventChannel)
	Gamepads() (gamepads []Gamepad)
	Subscribe(id string) (err error)
	Unsubscribe(id string) (err error)
	Close() error
}

// New starts watching the joystick devices. The returned error channel
// carries non-fatal device errors; it is never closed, so readers should
// stop on their own context.
func New(logger *zap.SugaredLogger) (b Bus, errCh <-chan error, err error) {
	dest := &bus{
		logger:       logger,
		eventChannel: make(chan *Event),
		errChannel:   make(chan error),
		dispatchDone: make(chan struct{}),
	}
	dest.ctx, dest.cancelFunc = context.WithCancel(context.Background())

	switch runtime.GOOS {
	case "linux":
		go dest.dispatch()
		if dest.notifier, err = linuxNotifier(dest.ctx, logger, dest.eventChannel, dest.errChannel); err != nil {
			dest.cancelFunc()
			<-dest.dispatchDone
			return nil, nil, err
		}
		return dest, dest.errChannel, nil
	default:
		dest.cancelFunc()
		return nil, nil, ErrOsNotSupported
	}
}

// dispatch copies every bus event to the channels whose filters accept it.
// Events with no interested channel are dropped.
func (b *bus) dispatch() {
	defer close(b.dispatchDone)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event := <-b.eventChannel:
			b.RLock()
			channels := append([]*EventChannel(nil), b.channels...)
			b.RUnlock()

			for _, channel := range channels {
				if !channel.accepts(event) {
					continue
				}
				select {
				case channel.Ch <- event:
				case <-channel.Ctx.Done():
				case <-b.ctx.Done():
					return
				}
			}
		}
	}
}

func (b *bus) NewEventChannel(filters ...FilterFunc) (dest *EventChannel) {
	if b.notifier == nil {
		return nil
	}

	ctx, cancelFunc := context.WithCancel(b.ctx)
	dest = &EventChannel{
		Ctx:        ctx,
		Ch:         make(chan *Event),
		CancelFunc: cancelFunc,
		filters:    filters,
	}

	b.Lock()
	b.channels = append(b.channels, dest)
	b.Unlock()

	go func() {
		<-ctx.Done()
		b.Lock()
		var clean []*EventChannel
		for _, channel := range b.channels {
			if channel != dest {
				clean = append(clean, channel)
			}
		}
		b.channels = clean
		b.Unlock()
	}()

	return dest
}

func (b *bus) Gamepads() (devices []Gamepad) {
	if b.notifier == nil {
		return nil
	}
	return b.notifier.gamepads()
}

func (b *bus) Subscribe(id string) (err error) {
	if b.notifier == nil {
		return ErrNotifierNotInitialized
	}
	return b.notifier.subscribe(id)
}

func (b *bus) Unsubscribe(id string) (err error) {
	if b.notifier == nil {
		return ErrNotifierNotInitialized
	}
	return b.notifier.unsubscribe(id)
}

func (b *bus) Close() error {
	if b.notifier == nil {
		return nil
	}

	err := b.notifier.stop()
	b.notifier = nil
	b.cancelFunc()
	<-b.dispatchDone
	b.logger.Debug("gamepad bus closed")
	return err
}
