// Package app runs gesture detection over images, videos and the live camera
// and turns the recognized gestures into key presses.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/display"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/log"
	"github.com/ayusman/gesturectl/internal/store"
)

// ErrBusy is returned when a run is requested while another is active.
var ErrBusy = errors.New("a detection run is already active")

// Sources opens frame sources. Nil fields fall back to the capture package.
type Sources struct {
	Image  func(path string) capture.Source
	Video  func(path string) capture.Source
	Camera func(index int) capture.Source
}

// Config holds configuration options for the application.
type Config struct {
	// Detector is created once and reused by every run.
	Detector detector.Detector
	// Presser receives key presses in camera runs. Defaults to NopPresser.
	Presser control.KeyPresser
	// Store journals each run when set.
	Store    *store.Store
	Logger   logrus.FieldLogger
	Settings Settings

	Sources Sources
	// Surfaces opens a display surface with the given window title.
	Surfaces func(title string) display.Surface
	// OnLabel is called for every recognized label other than None.
	OnLabel func(label gesture.Label)
}

// App owns the landmark detector and the session settings.
type App struct {
	detector detector.Detector
	presser  control.KeyPresser
	store    *store.Store
	log      logrus.FieldLogger
	sources  Sources
	surfaces func(title string) display.Surface
	onLabel  func(label gesture.Label)

	settings Settings
	mapping  control.Mapping
	running  bool
	mu       sync.Mutex
}

// New creates an App. It fails when no detector is given or the initial
// settings are invalid.
func New(config Config) (*App, error) {
	if config.Detector == nil {
		return nil, errors.New("app: detector is required")
	}

	settings := config.Settings
	if settings.Scheme == "" {
		settings.Scheme = DefaultSettings().Scheme
	}
	mapping, err := settings.validate()
	if err != nil {
		return nil, err
	}

	a := &App{
		detector: config.Detector,
		presser:  config.Presser,
		store:    config.Store,
		log:      config.Logger,
		sources:  config.Sources,
		surfaces: config.Surfaces,
		onLabel:  config.OnLabel,
		settings: settings,
		mapping:  mapping,
	}

	if a.presser == nil {
		a.presser = control.NopPresser{}
	}
	if a.log == nil {
		a.log = log.Discard()
	}
	if a.sources.Image == nil {
		a.sources.Image = capture.NewImageSource
	}
	if a.sources.Video == nil {
		a.sources.Video = capture.NewVideoSource
	}
	if a.sources.Camera == nil {
		a.sources.Camera = capture.NewCameraSource
	}
	if a.surfaces == nil {
		a.surfaces = func(title string) display.Surface { return display.NewWindow(title) }
	}

	return a, nil
}

// Running reports whether a run is active.
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Close releases the landmark detector.
func (a *App) Close() error {
	if err := a.detector.Close(); err != nil {
		return fmt.Errorf("failed to close detector: %w", err)
	}
	return nil
}

func (a *App) acquire() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return ErrBusy
	}
	a.running = true
	return nil
}

func (a *App) release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = false
}

// journal records the run when a store is configured.
func (a *App) journal(result *RunResult, runErr error) {
	if a.store == nil {
		return
	}

	run := result.record()
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := a.store.Runs().Create(run); err != nil {
		a.log.WithError(err).Warn("Failed to journal run")
		return
	}
	result.ID = run.ID
}
