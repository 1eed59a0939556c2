package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrStopped is returned by Submit after the dispatcher has stopped.
var ErrStopped = errors.New("dispatcher stopped")

// Reporter receives the outcome of each command.
type Reporter interface {
	Info(msg string)
	Error(err error)
}

// Command is a request from a front-end.
type Command interface {
	execute(ctx context.Context, a *App) (string, error)
}

// RunImageCmd runs detection on a still image.
type RunImageCmd struct{ Path string }

// RunVideoCmd runs detection on a video file.
type RunVideoCmd struct{ Path string }

// RunCameraCmd starts live control on the configured camera.
type RunCameraCmd struct{}

// UpdateSettingsCmd applies user-entered settings.
type UpdateSettingsCmd struct {
	CameraIndex string
	Scheme      string
}

func (c RunImageCmd) execute(ctx context.Context, a *App) (string, error) {
	return summarize(a.RunImage(ctx, c.Path))
}

func (c RunVideoCmd) execute(ctx context.Context, a *App) (string, error) {
	return summarize(a.RunVideo(ctx, c.Path))
}

func (c RunCameraCmd) execute(ctx context.Context, a *App) (string, error) {
	return summarize(a.RunCamera(ctx))
}

func (c UpdateSettingsCmd) execute(_ context.Context, a *App) (string, error) {
	if err := a.UpdateSettings(c.CameraIndex, c.Scheme); err != nil {
		return "", err
	}
	s := a.Settings()
	return fmt.Sprintf("Settings saved: camera %d, scheme %s", s.CameraIndex, s.Scheme), nil
}

func summarize(result *RunResult, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return result.Summary(), nil
}

// Dispatcher executes front-end commands one at a time on a single
// goroutine locked to its OS thread, so the detector and the display
// windows are only ever touched from one thread.
type Dispatcher struct {
	app      *App
	reporter Reporter
	log      logrus.FieldLogger

	commands chan queued
	done     chan struct{}

	mu      sync.Mutex
	busy    bool
	started bool
	stopped bool
	cancel  context.CancelFunc
}

// queued is a submitted command with its own cancellation, so a Cancel or
// Stop that arrives before the loop picks it up still applies.
type queued struct {
	cmd    Command
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a dispatcher for app. Call Start to begin
// processing commands.
func NewDispatcher(app *App, reporter Reporter) *Dispatcher {
	return &Dispatcher{
		app:      app,
		reporter: reporter,
		log:      app.log,
		commands: make(chan queued, 1),
		done:     make(chan struct{}),
	}
}

// Start runs the command loop until ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.stopped {
		return
	}
	d.started = true
	go d.loop(ctx)
}

func (d *Dispatcher) loop(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(d.done)

	for {
		select {
		case <-ctx.Done():
			d.drain()
			return
		case q, ok := <-d.commands:
			if !ok {
				return
			}
			d.execute(ctx, q)
		}
	}
}

// drain releases a command still buffered when the loop exits.
func (d *Dispatcher) drain() {
	select {
	case q, ok := <-d.commands:
		if ok {
			d.finish(q)
		}
	default:
	}
}

func (d *Dispatcher) execute(parent context.Context, q queued) {
	stop := context.AfterFunc(parent, q.cancel)
	defer stop()

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()

	if stopped || parent.Err() != nil || q.ctx.Err() != nil {
		d.finish(q)
		d.log.Info("Command cancelled before it started")
		if !stopped {
			d.reporter.Info("Cancelled")
		}
		return
	}

	msg, err := q.cmd.execute(q.ctx, d.app)
	d.finish(q)

	if err != nil {
		d.log.WithError(err).Warn("Command failed")
		d.reporter.Error(err)
		return
	}
	d.reporter.Info(msg)
}

func (d *Dispatcher) finish(q queued) {
	q.cancel()

	d.mu.Lock()
	d.cancel = nil
	d.busy = false
	d.mu.Unlock()
}

// Submit queues cmd. It returns ErrBusy when a command is already queued
// or running.
func (d *Dispatcher) Submit(cmd Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}
	if d.busy {
		return ErrBusy
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.busy = true
	d.cancel = cancel
	d.commands <- queued{cmd: cmd, ctx: ctx, cancel: cancel}
	return nil
}

// Cancel stops the queued or active command; a run stops at its next
// frame. It reports whether there was anything to cancel.
func (d *Dispatcher) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel == nil {
		return false
	}
	d.cancel()
	return true
}

// Busy reports whether a command is queued or running.
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// Stop cancels the queued or active command, stops accepting commands and
// waits for the loop to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		if d.cancel != nil {
			d.cancel()
		}
		close(d.commands)
	}
	started := d.started
	d.mu.Unlock()

	if started {
		<-d.done
	}
}
