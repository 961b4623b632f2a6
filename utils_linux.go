package gamepads

import "bytes"

var joystickPrefix = []byte("js")

func extractFromBytes(src []byte) (t linuxEventType, name string, ok bool) {
	switch {
	case bytes.HasPrefix(src, joystickPrefix):
		return gamepadEventType, escapeString(src), true
	default:
		return irrelevantEventType, "", false
	}
}

// parseButtonsMap keeps the first count entries, one BTN_* code per button index.
func parseButtonsMap(mp [768]uint16, count int) (dest []int) {
	count = min(count, len(mp))
	for _, m := range mp[:count] {
		dest = append(dest, int(m))
	}
	return
}

// parseAxesMap keeps the first count entries, one ABS_* code per axis index.
func parseAxesMap(mp [64]uint8, count int) (dest []int) {
	count = min(count, len(mp))
	for _, m := range mp[:count] {
		dest = append(dest, int(m))
	}
	return
}
