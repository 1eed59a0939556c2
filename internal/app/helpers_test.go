package app

import (
	"sync"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/display"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/store"
)

// fixture wires an App to mocks and records what each run touched.
type fixture struct {
	app      *App
	detector *detector.MockDetector
	presser  *control.RecordingPresser
	source   *capture.MockSource
	surface  *inspectSurface
	opened   []string
	surfaces int
	labels   []gesture.Label
	mu       sync.Mutex
}

type fixtureOption func(*Config)

func withStore(s *store.Store) fixtureOption {
	return func(c *Config) { c.Store = s }
}

func withSettings(s Settings) fixtureOption {
	return func(c *Config) { c.Settings = s }
}

func newFixture(t *testing.T, source *capture.MockSource, keys []int, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		detector: detector.NewMockDetector(),
		presser:  &control.RecordingPresser{},
		source:   source,
		surface:  &inspectSurface{Mock: display.NewMock(keys...)},
	}

	open := func(name string) capture.Source {
		f.mu.Lock()
		f.opened = append(f.opened, name)
		f.mu.Unlock()
		return f.source
	}

	config := Config{
		Detector: f.detector,
		Presser:  f.presser,
		Sources: Sources{
			Image:  func(path string) capture.Source { return open(path) },
			Video:  func(path string) capture.Source { return open(path) },
			Camera: func(int) capture.Source { return open("camera") },
		},
		Surfaces: func(string) display.Surface {
			f.mu.Lock()
			f.surfaces++
			f.mu.Unlock()
			return f.surface
		},
		OnLabel: func(l gesture.Label) {
			f.mu.Lock()
			f.labels = append(f.labels, l)
			f.mu.Unlock()
		},
	}
	for _, opt := range opts {
		opt(&config)
	}

	a, err := New(config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	f.app = a
	return f
}

func (f *fixture) surfacesOpened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.surfaces
}

func (f *fixture) seenLabels() []gesture.Label {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gesture.Label(nil), f.labels...)
}

// inspectSurface records how many non-black pixels each shown frame had
// and its top-row corner pixels.
type inspectSurface struct {
	*display.Mock
	mu     sync.Mutex
	marked []int
	edges  []detector.EdgeSample
}

func (s *inspectSurface) Show(frame *gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)

	s.mu.Lock()
	s.marked = append(s.marked, gocv.CountNonZero(gray))
	s.edges = append(s.edges, detector.SampleEdges(frame))
	s.mu.Unlock()

	s.Mock.Show(frame)
}

func (s *inspectSurface) markedPixels() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.marked...)
}

// recordingReporter collects dispatcher outcomes on a channel.
type recordingReporter struct {
	events chan reportEvent
}

type reportEvent struct {
	msg string
	err error
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{events: make(chan reportEvent, 8)}
}

func (r *recordingReporter) Info(msg string) { r.events <- reportEvent{msg: msg} }
func (r *recordingReporter) Error(err error) { r.events <- reportEvent{err: err} }

func (s *inspectSurface) shownEdges() []detector.EdgeSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]detector.EdgeSample(nil), s.edges...)
}
