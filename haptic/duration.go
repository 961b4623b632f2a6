package haptic

import (
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// ErrDurationParse is returned for duration text that is not a finite number of seconds.
var ErrDurationParse = errors.New("invalid vibration duration")

// maxSeconds keeps the converted duration inside time.Duration.
var maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// ParseDuration reads a number of seconds such as "2.5". Surrounding space is
// ignored. Zero and negative values parse without error; callers decide
// whether they are usable. Positive values shorter than a nanosecond become
// one nanosecond.
func ParseDuration(text string) (time.Duration, error) {
	seconds, err := cast.ToFloat64E(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.Wrapf(ErrDurationParse, "%q: %v", text, err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || math.Abs(seconds) >= maxSeconds {
		return 0, errors.Wrapf(ErrDurationParse, "%q is out of range", text)
	}
	d := time.Duration(math.Round(seconds * float64(time.Second)))
	if d == 0 && seconds > 0 {
		d = time.Nanosecond
	}
	return d, nil
}
