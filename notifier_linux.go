package gamepads

import (
	"context"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// linuxEventType is an enumeration of possible event types on a Linux system.
type linuxEventType uint8

const (
	irrelevantEventType linuxEventType = iota
	gamepadEventType
)

const (
	inputPath = "/dev/input"
	// inotify reads are polled so that stop is noticed without a device event.
	pollTimeoutMs = 250
)

type notifyLinux struct {
	sync.RWMutex
	logger       *zap.SugaredLogger
	ctx          context.Context
	cancelFunc   context.CancelFunc
	waitNotify   sync.WaitGroup
	gp           []*gamepadLinux
	eventChannel chan *Event
	errChannel   chan error
}

// linuxNotifier creates a Linux-specific gamepad notification system.
func linuxNotifier(
	ctx context.Context,
	logger *zap.SugaredLogger,
	eventChannel chan *Event,
	errChannel chan error,
) (nn notify, err error) {
	nl := &notifyLinux{
		logger:       logger,
		eventChannel: eventChannel,
		errChannel:   errChannel,
	}
	nl.ctx, nl.cancelFunc = context.WithCancel(ctx)

	current, err := os.ReadDir(inputPath)
	if err != nil {
		nl.cancelFunc()
		return nil, errors.Wrapf(err, "reading %s", inputPath)
	}

	// Devices already plugged in are handled like create events.
	for _, entry := range current {
		nl.waitNotify.Add(1)
		go nl.handleEvent(unix.IN_CREATE, []byte(entry.Name()))
	}

	go nl.watch()

	return nl, nil
}

// watch follows create and delete events under inputPath until stop.
func (nl *notifyLinux) watch() {
	nl.waitNotify.Wait()

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		nl.report(errors.Wrap(err, "inotify init failed"))
		return
	}
	defer func() {
		if err := unix.Close(fd); err != nil {
			nl.report(errors.Wrap(err, "inotify close failed"))
		}
	}()

	wd, err := unix.InotifyAddWatch(fd, inputPath, unix.IN_CREATE|unix.IN_DELETE)
	if err != nil {
		nl.report(errors.Wrap(err, "inotify add watch failed"))
		return
	}
	defer func() {
		if _, err := unix.InotifyRmWatch(fd, uint32(wd)); err != nil {
			nl.logger.Debugw("inotify remove watch failed", "error", err)
		}
	}()

	buf := make([]byte, 4096)
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	for {
		select {
		case <-nl.ctx.Done():
			return
		default:
		}

		ready, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			nl.report(errors.Wrap(err, "inotify poll failed"))
			return
		}
		if ready == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			nl.report(errors.Wrap(err, "inotify read failed"))
			return
		}

		var offset uint32
		for n-int(offset) >= unix.SizeofInotifyEvent {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameBytes := buf[offset+unix.SizeofInotifyEvent : offset+unix.SizeofInotifyEvent+event.Len]
			nl.waitNotify.Add(1)
			nl.handleEvent(int(event.Mask), nameBytes)
			offset += unix.SizeofInotifyEvent + event.Len
		}
	}
}

// report hands a non-fatal error to the bus owner unless the notifier is stopping.
func (nl *notifyLinux) report(err error) {
	select {
	case nl.errChannel <- err:
	case <-nl.ctx.Done():
		nl.logger.Debugw("dropping error after stop", "error", err)
	}
}

// emit sends a bus event unless the notifier is stopping.
func (nl *notifyLinux) emit(e *Event) {
	select {
	case nl.eventChannel <- e:
	case <-nl.ctx.Done():
	}
}

// gamepads returns a list of connected gamepads.
func (nl *notifyLinux) gamepads() (devices []Gamepad) {
	nl.RLock()
	defer nl.RUnlock()
	for _, j := range nl.gp {
		devices = append(devices, j.info())
	}
	return
}

// stop stops the notification system.
func (nl *notifyLinux) stop() (err error) {
	nl.Lock()
	defer nl.Unlock()

	for _, gp := range nl.gp {
		if !gp.isSubscribed() {
			continue
		}
		if uerr := gp.unsubscribe(); uerr != nil && err == nil {
			err = uerr
		}
	}
	nl.gp = nil

	nl.cancelFunc()
	return
}

// subscribe subscribes to the gamepad with the given ID.
func (nl *notifyLinux) subscribe(id string) (err error) {
	nl.RLock()
	defer nl.RUnlock()

	for _, gp := range nl.gp {
		if gp.id != id {
			continue
		}
		return gp.subscribe(nl.ctx, nl.eventChannel)
	}

	return errors.Wrapf(ErrJoystickNotFound, "id %q", id)
}

// unsubscribe unsubscribes from the gamepad with the given ID.
func (nl *notifyLinux) unsubscribe(id string) (err error) {
	nl.RLock()
	defer nl.RUnlock()

	for _, gp := range nl.gp {
		if gp.id != id {
			continue
		}
		return gp.unsubscribe()
	}

	return errors.Wrapf(ErrJoystickNotFound, "id %q", id)
}

// handleEvent is called when a new event is received from the inotify system.
func (nl *notifyLinux) handleEvent(mask int, bt []byte) {
	defer nl.waitNotify.Done()

	t, name, ok := extractFromBytes(bt)
	if !ok || t != gamepadEventType {
		return
	}

	switch {
	case mask&unix.IN_CREATE != 0:
		nl.connectGamepad(name)
	case mask&unix.IN_DELETE != 0:
		nl.disconnectGamepad(name)
	default:
	}
}

// connectGamepad is called when a new gamepad device is connected.
func (nl *notifyLinux) connectGamepad(name string) {
	path := fmt.Sprintf("%s/%s", inputPath, name)

	newGp, err := newLinuxGamepad(name, path)
	if err != nil {
		nl.report(errors.Wrapf(err, "opening %s", path))
		return
	}

	nl.Lock()
	nl.gp = append(nl.gp, newGp)
	nl.Unlock()

	nl.logger.Infow("gamepad connected", "id", newGp.id, "model", newGp.devName)
	nl.emit(&Event{
		Type: ConnectEventType,
		ID:   newGp.id,
		Data: newGp.info(),
	})
}

// disconnectGamepad drops a removed device and stops its reader.
func (nl *notifyLinux) disconnectGamepad(name string) {
	nl.Lock()
	var kept []*gamepadLinux
	for _, gp := range nl.gp {
		if gp.id != name {
			kept = append(kept, gp)
			continue
		}
		if gp.isSubscribed() {
			_ = gp.unsubscribe()
		}
	}
	nl.gp = kept
	nl.Unlock()

	nl.logger.Infow("gamepad disconnected", "id", name)
	nl.emit(&Event{
		Type: DisconnectEventType,
		ID:   name,
	})
}
