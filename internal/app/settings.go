package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/log"
)

// ErrInvalidSettings is returned for settings input that cannot be applied.
var ErrInvalidSettings = errors.New("invalid settings")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings are the session-scoped user settings. They are never persisted.
type Settings struct {
	CameraIndex int            `validate:"gte=0"`
	Scheme      control.Scheme `validate:"required,oneof=WASD Arrow Mouse"`
}

// DefaultSettings returns camera 0 with the WASD scheme.
func DefaultSettings() Settings {
	return Settings{CameraIndex: 0, Scheme: control.SchemeWASD}
}

func (s Settings) validate() (control.Mapping, error) {
	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	mapping, err := control.MappingFor(s.Scheme)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return mapping, nil
}

// ParseCameraIndex parses a camera index typed by the user.
func ParseCameraIndex(value string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: camera index %q is not an integer", ErrInvalidSettings, value)
	}
	if index < 0 {
		return 0, fmt.Errorf("%w: camera index %d is negative", ErrInvalidSettings, index)
	}
	return index, nil
}

// Settings returns the current settings.
func (a *App) Settings() Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// UpdateSettings applies user-entered settings. On error the previous
// settings are kept. Changes take effect on the next run.
func (a *App) UpdateSettings(cameraIndex, scheme string) error {
	index, err := ParseCameraIndex(cameraIndex)
	if err != nil {
		return err
	}
	parsed, err := control.ParseScheme(scheme)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	return a.ApplySettings(Settings{CameraIndex: index, Scheme: parsed})
}

// ApplySettings replaces the settings after validating them.
func (a *App) ApplySettings(s Settings) error {
	mapping, err := s.validate()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.settings = s
	a.mapping = mapping
	a.mu.Unlock()

	a.log.WithFields(log.Fields{
		"camera": s.CameraIndex,
		"scheme": s.Scheme,
	}).Info("Settings updated")
	return nil
}

func (a *App) currentMapping() control.Mapping {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mapping
}
