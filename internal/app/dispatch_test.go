package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/control"
)

func nextEvent(t *testing.T, r *recordingReporter) reportEvent {
	t.Helper()
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatcher report")
		return reportEvent{}
	}
}

func TestDispatcher_RunsImage(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.SingleShot, 1), nil)
	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Submit(RunImageCmd{Path: "hand.png"}))

	ev := nextEvent(t, reporter)
	require.NoError(t, ev.err)
	assert.Contains(t, ev.msg, "image run on")
	assert.False(t, d.Busy())
}

func TestDispatcher_ReportsFailure(t *testing.T) {
	src := capture.NewMockSource(capture.Unbounded, 1)
	src.SetOpenError(capture.ErrSourceUnavailable)
	f := newFixture(t, src, nil)
	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Submit(RunCameraCmd{}))

	ev := nextEvent(t, reporter)
	assert.True(t, errors.Is(ev.err, capture.ErrSourceUnavailable))
}

func TestDispatcher_BusyAndCancel(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.Unbounded, 100000), nil)
	started := make(chan struct{})
	var once sync.Once
	f.surface.OnWaitKey(func(int) { once.Do(func() { close(started) }) })

	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Submit(RunCameraCmd{}))
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("camera run did not start")
	}

	assert.True(t, d.Busy())
	assert.True(t, errors.Is(d.Submit(RunVideoCmd{Path: "b.mp4"}), ErrBusy))
	assert.True(t, d.Cancel())

	ev := nextEvent(t, reporter)
	require.NoError(t, ev.err)
	assert.Contains(t, ev.msg, "(stopped)")
	assert.Equal(t, 1, f.source.CloseCount())
	assert.False(t, d.Cancel(), "nothing left to cancel")
}

func TestDispatcher_UpdateSettings(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.Unbounded, 0), nil)
	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)
	d.Start(context.Background())
	defer d.Stop()

	require.NoError(t, d.Submit(UpdateSettingsCmd{CameraIndex: "1", Scheme: "Mouse"}))
	ev := nextEvent(t, reporter)
	require.NoError(t, ev.err)
	assert.Equal(t, "Settings saved: camera 1, scheme Mouse", ev.msg)
	assert.Equal(t, Settings{CameraIndex: 1, Scheme: control.SchemeMouse}, f.app.Settings())

	require.NoError(t, d.Submit(UpdateSettingsCmd{CameraIndex: "x", Scheme: "WASD"}))
	ev = nextEvent(t, reporter)
	assert.True(t, errors.Is(ev.err, ErrInvalidSettings))
	assert.Equal(t, control.SchemeMouse, f.app.Settings().Scheme)
}

func TestDispatcher_Stop(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.SingleShot, 1), nil)
	d := NewDispatcher(f.app, newRecordingReporter())
	d.Start(context.Background())

	d.Stop()
	d.Stop()

	assert.True(t, errors.Is(d.Submit(RunImageCmd{Path: "a.png"}), ErrStopped))
}

func TestDispatcher_StopWithoutStart(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.SingleShot, 1), nil)
	d := NewDispatcher(f.app, newRecordingReporter())

	d.Stop()
	assert.True(t, errors.Is(d.Submit(RunImageCmd{}), ErrStopped))
}

func TestDispatcher_CancelBeforePickup(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.Unbounded, 10), nil)
	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)
	defer d.Stop()

	require.NoError(t, d.Submit(RunCameraCmd{}))
	assert.True(t, d.Cancel(), "queued command can be cancelled")
	d.Start(context.Background())

	ev := nextEvent(t, reporter)
	require.NoError(t, ev.err)
	assert.Equal(t, "Cancelled", ev.msg)
	assert.Zero(t, f.source.OpenCount())
	assert.Zero(t, f.surfacesOpened())
	assert.False(t, d.Busy())
}

func TestDispatcher_StopDropsQueuedCommand(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.SingleShot, 1), nil)
	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)

	require.NoError(t, d.Submit(RunImageCmd{Path: "a.png"}))
	d.Stop()
	d.Start(context.Background())

	assert.Zero(t, f.source.OpenCount(), "queued command never runs")
	assert.True(t, errors.Is(d.Submit(RunImageCmd{Path: "b.png"}), ErrStopped))
	select {
	case ev := <-reporter.events:
		t.Fatalf("unexpected report after stop: %+v", ev)
	default:
	}
}

func TestDispatcher_StopWhileQueued(t *testing.T) {
	f := newFixture(t, capture.NewMockSource(capture.SingleShot, 1), nil)
	reporter := newRecordingReporter()
	d := NewDispatcher(f.app, reporter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, d.Submit(RunImageCmd{Path: "a.png"}))
	d.Start(ctx)
	d.Stop()

	assert.Zero(t, f.source.OpenCount())
	assert.False(t, d.Busy(), "drained command is released")
}
