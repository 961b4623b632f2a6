package linuxhost

import (
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/doingharm/gamepad-display/display"
)

// logHandle reports overlay changes as log lines.
type logHandle struct {
	logger *zap.SugaredLogger
	name   string
	active bool
	set    bool
}

func (h *logHandle) SetActive(active bool) {
	if h.set && h.active == active {
		return
	}
	first := !h.set
	h.set, h.active = true, active
	if first && !active {
		return
	}
	h.logger.Infow("overlay", "name", h.name, "active", active)
}

func logHandles(logger *zap.SugaredLogger, names []string) map[string]display.Handle {
	return lo.SliceToMap(names, func(name string) (string, display.Handle) {
		return name, &logHandle{logger: logger, name: name}
	})
}
