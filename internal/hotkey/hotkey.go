// Package hotkey listens for a global key combination, so a live run can be
// stopped while another window has focus.
package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	gohook "github.com/robotn/gohook"
	"github.com/sirupsen/logrus"
)

// DefaultCombo stops the active run.
const DefaultCombo = "ctrl+shift+q"

var (
	// ErrEmptyCombo is returned for a combination with no keys.
	ErrEmptyCombo = errors.New("empty hotkey combination")
	// ErrListening is returned when a listener is already active.
	ErrListening = errors.New("hotkey listener already active")
)

// ParseCombo converts a combination like "Ctrl+Shift+Q" to gohook key names.
func ParseCombo(combo string) ([]string, error) {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "option":
			part = "alt"
		case "win", "super", "meta":
			part = "cmd"
		}
		keys = append(keys, part)
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyCombo, combo)
	}
	return keys, nil
}

var active atomic.Bool

// Listen calls fn each time combo is pressed until stop is called. Only one
// listener may be active at a time since gohook hooks are process-global.
func Listen(combo string, fn func(), logger logrus.FieldLogger) (stop func(), err error) {
	keys, err := ParseCombo(combo)
	if err != nil {
		return nil, err
	}

	if !active.CompareAndSwap(false, true) {
		return nil, ErrListening
	}

	gohook.Register(gohook.KeyDown, keys, func(gohook.Event) {
		logger.WithField("combo", combo).Info("Hotkey pressed")
		fn()
	})
	events := gohook.Start()
	processed := gohook.Process(events)
	logger.WithField("combo", combo).Debug("Hotkey listener started")

	var once sync.Once
	return func() {
		once.Do(func() {
			gohook.End()
			<-processed
			active.Store(false)
			logger.Debug("Hotkey listener stopped")
		})
	}, nil
}
