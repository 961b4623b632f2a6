package gamepads

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sys/unix"
)

const (
	sysClassInput = "/sys/class/input"

	evFF     = 0x15
	ffRumble = 0x50

	// _IOW('E', 0x80, struct ff_effect) and _IOW('E', 0x81, int) on 64-bit.
	eviocsff  = 0x40304580
	eviocrmff = 0x40044581
)

// ffEffect mirrors struct ff_effect with the rumble member of its union.
type ffEffect struct {
	Type            uint16
	ID              int16
	Direction       uint16
	TriggerButton   uint16
	TriggerInterval uint16
	ReplayLength    uint16
	ReplayDelay     uint16
	_               uint16
	StrongMagnitude uint16
	WeakMagnitude   uint16
	_               [28]byte
}

type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Rumble drives the two rumble motors of a joystick through the force
// feedback interface of the evdev node that belongs to the same device.
type Rumble struct {
	mu      sync.Mutex
	file    *os.File
	effect  ffEffect
	playing bool
}

// OpenRumble finds the event node paired with joystick id (e.g. "js0") and
// uploads a silent rumble effect to it.
func OpenRumble(id string) (*Rumble, error) {
	matches, err := filepath.Glob(filepath.Join(sysClassInput, id, "device", "event*"))
	if err != nil {
		return nil, errors.Wrapf(err, "looking up event node of %s", id)
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrRumbleUnsupported, "id %q", id)
	}
	sort.Strings(matches)

	path := filepath.Join(inputPath, filepath.Base(matches[0]))
	f, err := openFilePersistent(path, os.O_RDWR)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	r := &Rumble{
		file:   f,
		effect: ffEffect{Type: ffRumble, ID: -1},
	}
	if err := r.upload(); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(ErrRumbleUnsupported, "%s: %v", path, err)
	}
	return r, nil
}

// SetMotorSpeeds sets the low frequency (left) and high frequency (right)
// motor. Values are clamped to [0, 1]; two zeros stop the effect.
func (r *Rumble) SetMotorSpeeds(low, high float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return os.ErrClosed
	}

	if low <= 0 && high <= 0 {
		if !r.playing {
			return nil
		}
		r.playing = false
		return r.play(0)
	}

	r.effect.StrongMagnitude = magnitude(low)
	r.effect.WeakMagnitude = magnitude(high)
	if err := r.upload(); err != nil {
		return err
	}
	if r.playing {
		return nil
	}
	r.playing = true
	return r.play(1)
}

// Close removes the effect from the device, which also stops it.
func (r *Rumble) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	var err error
	if r.effect.ID >= 0 {
		err = unix.IoctlSetInt(int(r.file.Fd()), eviocrmff, int(r.effect.ID))
	}
	err = multierr.Combine(err, r.file.Close())
	r.file = nil
	return err
}

func (r *Rumble) upload() error {
	return ioctl(r.file, eviocsff, unsafe.Pointer(&r.effect))
}

func (r *Rumble) play(value int32) error {
	ev := inputEvent{Type: evFF, Code: uint16(r.effect.ID), Value: value}
	return errors.Wrap(binary.Write(r.file, binary.LittleEndian, &ev), "writing force feedback event")
}

func magnitude(v float64) uint16 {
	v = math.Max(0, math.Min(1, v))
	return uint16(math.Round(v * math.MaxUint16))
}
