package gamepads

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

var aLongTimeAgo = time.Unix(1, 0)

func escapeString(src []byte) string {
	n := 0
	for _, b := range src {
		if b != 0 {
			src[n] = b
			n++
		}
	}
	return string(src[:n])
}

// openFilePersistent retries permission errors for a short while: udev
// fixes up the mode of a fresh device node shortly after it appears.
func openFilePersistent(path string, flag int) (f *os.File, err error) {
	for i := 0; i < 5; i++ {
		if f, err = os.OpenFile(path, flag, 0); err != nil {
			if errors.Is(err, os.ErrPermission) {
				if i == 4 {
					return
				}
				timer := time.NewTimer(200 * time.Millisecond)
				<-timer.C
				timer.Stop()
				continue
			} else {
				return
			}
		}
		break
	}
	return
}
