package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/config"
	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/gui"
	"github.com/ayusman/gesturectl/internal/hotkey"
	"github.com/ayusman/gesturectl/internal/log"
	"github.com/ayusman/gesturectl/internal/plugin"
	"github.com/ayusman/gesturectl/internal/store"
	"github.com/ayusman/gesturectl/internal/tray"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gesturectl:", err)
		os.Exit(1)
	}
}

func run() error {
	imagePath := flag.String("image", "", "detect gestures on an image and exit")
	videoPath := flag.String("video", "", "detect gestures on a video and exit")
	camera := flag.Bool("camera", false, "run live camera control without a front-end")
	runs := flag.Int("runs", 0, "print the last N journaled runs and exit")
	prune := flag.Duration("prune", 0, "delete journaled runs older than this (e.g. 720h) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logrus.InfoLevel
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	logger := log.NewLogger(log.Options{File: cfg.LogFile, Level: level})

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var journal *store.Store
	if cfg.Journal || *runs > 0 || *prune > 0 {
		journal, err = store.New(filepath.Join(cfg.DataDir, "gesturectl.db"))
		if err != nil {
			logger.WithError(err).Warn("Run journal unavailable")
			journal = nil
		} else {
			defer journal.Close()
		}
	}

	if *prune > 0 {
		return pruneRuns(journal, *prune)
	}
	if *runs > 0 {
		return printRuns(journal, *runs)
	}

	scheme, err := control.ParseScheme(cfg.Scheme)
	if err != nil {
		logger.WithError(err).Warn("Falling back to the WASD scheme")
		scheme = control.SchemeWASD
	}

	var tr *tray.Tray
	if cfg.UI == config.UITray {
		tr = tray.New(scheme)
	}

	a, err := app.New(app.Config{
		Detector: newDetector(cfg, logger),
		Presser:  newPresser(cfg, logger),
		Store:    journal,
		Logger:   logger,
		Settings: app.Settings{CameraIndex: cfg.CameraIndex, Scheme: scheme},
		OnLabel: func(l gesture.Label) {
			if tr != nil {
				tr.SetLastLabel(l)
			}
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *imagePath != "":
		return runHeadless(ctx, cfg, logger, func(ctx context.Context) (*app.RunResult, error) {
			return a.RunImage(ctx, *imagePath)
		})
	case *videoPath != "":
		return runHeadless(ctx, cfg, logger, func(ctx context.Context) (*app.RunResult, error) {
			return a.RunVideo(ctx, *videoPath)
		})
	case *camera:
		return runHeadless(ctx, cfg, logger, a.RunCamera)
	}

	if tr != nil {
		runTray(ctx, a, tr, cfg, logger)
		return nil
	}
	runWindow(ctx, a, cfg, logger)
	return nil
}

// newDetector prefers the MediaPipe service and falls back to a detector
// that never sees a hand.
func newDetector(cfg *config.Config, logger logrus.FieldLogger) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MaxHands = cfg.MaxHands
	dc.MinConfidence = cfg.MinConfidence
	dc.MinTrackingConf = cfg.MinTrackingConfidence

	mp, err := detector.NewMediaPipeDetector(dc, logger)
	if err != nil {
		logger.WithError(err).Warn("MediaPipe not available, using mock detector")
		return detector.NewMockDetector()
	}
	logger.Info("Using MediaPipe hand detection")
	return mp
}

func newPresser(cfg *config.Config, logger logrus.FieldLogger) control.KeyPresser {
	switch cfg.KeyBackend {
	case config.KeyBackendNone:
		return control.NopPresser{}
	case config.KeyBackendPlugin:
		manager := plugin.NewManager(cfg.PluginDir, logger)
		p, err := control.NewPluginPresser(manager, plugin.NewExecutor(plugin.DefaultTimeout))
		if err == nil {
			logger.WithFields(logrus.Fields{
				"dir":     manager.PluginDir(),
				"plugins": len(manager.List()),
			}).Info("Using keyboard plugin")
			return p
		}
		logger.WithError(err).Warn("Keyboard plugin unavailable, using robotgo")
	}
	return control.NewRobotgoPresser()
}

// listenCancel installs the global cancel hotkey. Failures only lose the
// hotkey; the q key in the detection window still works.
func listenCancel(cfg *config.Config, cancel func(), logger logrus.FieldLogger) func() {
	stop, err := hotkey.Listen(cfg.CancelHotkey, cancel, logger)
	if err != nil {
		logger.WithError(err).Warn("Cancel hotkey disabled")
		return func() {}
	}
	return stop
}

func runHeadless(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, fn func(context.Context) (*app.RunResult, error)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopHotkey := listenCancel(cfg, cancel, logger)
	defer stopHotkey()

	result, err := fn(ctx)
	if err != nil {
		return err
	}
	fmt.Println(result.Summary())
	return nil
}

func runWindow(ctx context.Context, a *app.App, cfg *config.Config, logger logrus.FieldLogger) {
	g := gui.New(a.Settings)
	d := app.NewDispatcher(a, g)
	g.Attach(d)
	d.Start(ctx)
	defer d.Stop()

	stopHotkey := listenCancel(cfg, func() { d.Cancel() }, logger)
	defer stopHotkey()

	g.Run()
}

// trayReporter logs command outcomes and resets the tray toggle.
type trayReporter struct {
	tray *tray.Tray
	log  logrus.FieldLogger
}

func (r trayReporter) Info(msg string) {
	r.tray.SetRunning(false)
	r.log.Info(msg)
}

func (r trayReporter) Error(err error) {
	r.tray.SetRunning(false)
	r.log.WithError(err).Error("Command failed")
}

func runTray(ctx context.Context, a *app.App, tr *tray.Tray, cfg *config.Config, logger logrus.FieldLogger) {
	d := app.NewDispatcher(a, trayReporter{tray: tr, log: logger})
	d.Start(ctx)
	defer d.Stop()

	tr.OnToggle(func(start bool) {
		if !start {
			d.Cancel()
			return
		}
		startCamera(d, tr, logger)
	})
	tr.OnScheme(func(s control.Scheme) {
		cmd := app.UpdateSettingsCmd{
			CameraIndex: strconv.Itoa(a.Settings().CameraIndex),
			Scheme:      string(s),
		}
		if err := d.Submit(cmd); err != nil {
			logger.WithError(err).Warn("Stop camera control before changing the scheme")
		}
	})
	tr.OnQuit(func() { d.Cancel() })

	stopHotkey := listenCancel(cfg, func() { d.Cancel() }, logger)
	defer stopHotkey()

	go func() {
		<-ctx.Done()
		tr.Quit()
	}()
	tr.Run()
}

// startCamera marks the tray running before submitting, so a report that
// arrives before Submit returns resets it rather than being overwritten.
func startCamera(d interface{ Submit(app.Command) error }, tr interface{ SetRunning(bool) }, logger logrus.FieldLogger) {
	tr.SetRunning(true)
	if err := d.Submit(app.RunCameraCmd{}); err != nil {
		tr.SetRunning(false)
		logger.WithError(err).Warn("Cannot start camera control")
	}
}

func pruneRuns(journal *store.Store, age time.Duration) error {
	if journal == nil {
		return errors.New("run journal unavailable")
	}

	n, err := journal.Runs().Prune(time.Now().Add(-age))
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}
	fmt.Printf("Removed %d run(s) older than %s\n", n, age)
	return nil
}

func printRuns(journal *store.Store, limit int) error {
	if journal == nil {
		return errors.New("run journal unavailable")
	}

	runs, err := journal.Runs().List(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tMODE\tSOURCE\tFRAMES\tOPEN\tFIST\tLEFT\tRIGHT\tKEYS\tDURATION\tERROR")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Mode, r.Source, r.Frames,
			r.OpenCount, r.FistCount, r.LeftCount, r.RightCount, r.KeyPresses,
			r.Duration().Round(time.Millisecond), r.Error)
	}
	return w.Flush()
}
