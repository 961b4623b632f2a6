package gamepads

import (
	"context"
	"encoding/binary"
	"os"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	gpName       = 0x80006a13 + (128 << 16)
	gpAxes       = 0x80016a11 /* get number of axes */
	gpButtons    = 0x80016a12
	gpVersion    = 0x80046a01
	gpAxesMap    = 0x80406a32
	gpButtonsMap = 0x80406a34
	// gpCorrectionValues = 0x80406a22
)

type gamepadLinux struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	file       *os.File
	id         string
	path       string
	devName    string
	buttons    uint8
	buttonsMap [768]uint16
	axes       uint8
	axesMap    [64]uint8
	version    int32
	subscribed bool
}

type eventLinux struct {
	Timestamp uint32
	Value     int16
	Type      uint8
	Index     uint8
}

func newLinuxGamepad(name, path string) (*gamepadLinux, error) {
	f, err := openFilePersistent(path, os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	gp := &gamepadLinux{
		id:   name,
		path: path,
	}

	if err = ioctlStr(f, gpName, &gp.devName); err != nil {
		return nil, err
	}
	if err = ioctl(f, gpButtons, unsafe.Pointer(&gp.buttons)); err != nil {
		return nil, err
	}
	if err = ioctl(f, gpAxes, unsafe.Pointer(&gp.axes)); err != nil {
		return nil, err
	}
	if err = ioctl(f, gpVersion, unsafe.Pointer(&gp.version)); err != nil {
		return nil, err
	}
	if err = ioctl(f, gpButtonsMap, unsafe.Pointer(&gp.buttonsMap)); err != nil {
		return nil, err
	}
	if err = ioctl(f, gpAxesMap, unsafe.Pointer(&gp.axesMap)); err != nil {
		return nil, err
	}

	return gp, nil
}

func (g *gamepadLinux) info() Gamepad {
	return Gamepad{
		ID:        g.id,
		Model:     g.devName,
		Buttons:   int(g.buttons),
		ButtonMap: parseButtonsMap(g.buttonsMap, int(g.buttons)),
		Axes:      int(g.axes),
		AxesMap:   parseAxesMap(g.axesMap, int(g.axes)),
	}
}

func (g *gamepadLinux) isSubscribed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.subscribed
}

// subscribe starts forwarding the device's js events. The kernel replays the
// current state of every button and axis as InitialState events first.
func (g *gamepadLinux) subscribe(parent context.Context, eventChannel chan *Event) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.subscribed {
		return ErrJoystickAlreadySubscribed
	}

	if g.file, err = openFilePersistent(g.path, os.O_RDONLY); err != nil {
		return
	}

	var ctx context.Context
	ctx, g.cancelFunc = context.WithCancel(parent)
	g.subscribed = true

	go func(f *os.File) {
		defer func() { _ = f.Close() }()
		id := g.id
		for {
			var e eventLinux
			if binary.Read(f, binary.LittleEndian, &e) != nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case eventChannel <- &Event{
				Type: ControlEventType,
				ID:   id,
				Data: ControlEvent{
					Timestamp: e.Timestamp,
					Type:      ControlType(e.Type),
					Index:     int(e.Index),
					Value:     e.Value,
				},
			}:
			}
		}
	}(g.file)

	go func(f *os.File) {
		// an expired deadline unblocks the pending read on the pollable node
		<-ctx.Done()
		_ = f.SetReadDeadline(aLongTimeAgo)
	}(g.file)

	return
}

func (g *gamepadLinux) unsubscribe() (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.subscribed {
		return ErrJoystickAlreadyUnsubscribed
	}

	g.cancelFunc()
	g.subscribed = false
	return
}

func ioctl(f *os.File, infoType int, dest unsafe.Pointer) (err error) {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL,
		f.Fd(),
		uintptr(infoType),
		uintptr(dest),
	)
	if errno != 0 {
		return errors.Wrapf(errno, "ioctl 0x%x", infoType)
	}
	return
}

func ioctlStr(f *os.File, infoType int, dest *string) (err error) {
	info := make([]byte, 128)
	if err = ioctl(f, infoType, unsafe.Pointer(&info[0])); err != nil {
		return
	}
	*dest = escapeString(info)
	return
}
