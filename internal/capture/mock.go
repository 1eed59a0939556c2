package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource is a Source for testing that yields a fixed number of
// blank frames.
type MockSource struct {
	name    string
	kind    Kind
	frames  int
	width   int
	height  int
	openErr error
	readErr error
	left    *gocv.Scalar

	read       int
	open       bool
	openCount  int
	closeCount int
	mu         sync.Mutex
}

// NewMockSource creates a mock source producing the given number of
// 640x480 frames. Unbounded mocks still stop after frames reads so tests
// terminate.
func NewMockSource(kind Kind, frames int) *MockSource {
	return &MockSource{
		name:   "mock:" + kind.String(),
		kind:   kind,
		frames: frames,
		width:  DefaultWidth,
		height: DefaultHeight,
	}
}

// SetOpenError makes Open fail with err.
func (m *MockSource) SetOpenError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openErr = err
}

// SetReadError makes every Read fail with err.
func (m *MockSource) SetReadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// SetLeftHalf paints the left half of every frame with color; the rest
// stays black.
func (m *MockSource) SetLeftHalf(color gocv.Scalar) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.left = &color
}

func (m *MockSource) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.openCount++
	if m.openErr != nil {
		return m.openErr
	}
	m.open = true
	return nil
}

func (m *MockSource) Read() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.open {
		return nil, ErrNotOpen
	}
	if m.readErr != nil {
		return nil, m.readErr
	}
	if m.read >= m.frames {
		return nil, ErrEndOfStream
	}
	m.read++

	mat := gocv.NewMatWithSizeWithScalar(m.height, m.width, gocv.MatTypeCV8UC3, gocv.NewScalar(0, 0, 0, 0))
	if m.left != nil {
		half := mat.Region(image.Rect(0, 0, m.width/2, m.height))
		half.SetTo(*m.left)
		half.Close()
	}
	return &mat, nil
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.open = false
	m.closeCount++
	return nil
}

func (m *MockSource) Kind() Kind   { return m.kind }
func (m *MockSource) Name() string { return m.name }

// IsOpen reports whether the source is currently open.
func (m *MockSource) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Reads returns the number of frames handed out.
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read
}

// OpenCount returns how many times Open was called.
func (m *MockSource) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openCount
}

// CloseCount returns how many times Close was called.
func (m *MockSource) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount
}
