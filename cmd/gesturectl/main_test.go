package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/log"
	"github.com/ayusman/gesturectl/internal/store"
)

type fakeTray struct{ states []bool }

func (f *fakeTray) SetRunning(running bool) { f.states = append(f.states, running) }

// fakeSubmitter optionally reports completion before Submit returns, the
// way a dispatcher can on a fast failure.
type fakeSubmitter struct {
	tray        *fakeTray
	err         error
	reportEarly bool
	sawRunning  bool
}

func (f *fakeSubmitter) Submit(app.Command) error {
	f.sawRunning = len(f.tray.states) > 0 && f.tray.states[len(f.tray.states)-1]
	if f.err != nil {
		return f.err
	}
	if f.reportEarly {
		f.tray.SetRunning(false)
	}
	return nil
}

func TestStartCamera(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		reportEarly bool
		want        bool
	}{
		{name: "accepted", want: true},
		{name: "busy", err: app.ErrBusy, want: false},
		{name: "finished before submit returned", reportEarly: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTray{}
			d := &fakeSubmitter{tray: tr, err: tt.err, reportEarly: tt.reportEarly}

			startCamera(d, tr, log.Discard())

			assert.True(t, d.sawRunning, "tray is marked running before submit")
			require.NotEmpty(t, tr.states)
			assert.Equal(t, tt.want, tr.states[len(tr.states)-1])
		})
	}
}

func TestPruneRuns(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	now := time.Now()
	require.NoError(t, s.Runs().Create(&store.Run{Mode: "image", Source: "a.png", StartedAt: now.Add(-72 * time.Hour), FinishedAt: now.Add(-72 * time.Hour)}))
	require.NoError(t, s.Runs().Create(&store.Run{Mode: "image", Source: "b.png", StartedAt: now, FinishedAt: now}))

	require.NoError(t, pruneRuns(s, 24*time.Hour))

	runs, err := s.Runs().List(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b.png", runs[0].Source)

	assert.Error(t, pruneRuns(nil, time.Hour))
}
