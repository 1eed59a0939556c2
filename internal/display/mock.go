package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// Mock is a Surface for testing. It counts shown frames and replays a
// scripted sequence of key presses.
type Mock struct {
	keys   []int
	shown  int
	delays []int
	closed bool
	onWait func(call int)
	mu     sync.Mutex
}

// NewMock creates a mock that returns keys in order from WaitKey, then
// NoKey once they run out.
func NewMock(keys ...int) *Mock {
	return &Mock{keys: keys}
}

// OnWaitKey registers fn to run on every WaitKey call with its index.
func (m *Mock) OnWaitKey(fn func(call int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWait = fn
}

func (m *Mock) Show(frame *gocv.Mat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown++
}

func (m *Mock) WaitKey(delayMs int) int {
	m.mu.Lock()
	call := len(m.delays)
	m.delays = append(m.delays, delayMs)
	fn := m.onWait
	key := NoKey
	if len(m.keys) > 0 {
		key = m.keys[0]
		m.keys = m.keys[1:]
	}
	m.mu.Unlock()

	if fn != nil {
		fn(call)
	}
	return key
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Shown returns the number of frames shown.
func (m *Mock) Shown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Delays returns the delay passed to each WaitKey call.
func (m *Mock) Delays() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.delays...)
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
