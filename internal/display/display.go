// Package display shows annotated frames and reads key presses.
package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// KeyQuit is the key that stops a streaming run.
const KeyQuit = 'q'

// NoKey is returned by WaitKey when no key was pressed.
const NoKey = -1

// Surface is where annotated frames are shown.
type Surface interface {
	Show(frame *gocv.Mat)
	// WaitKey waits delayMs for a key press; 0 waits indefinitely.
	WaitKey(delayMs int) int
	Close() error
}

// Window is a Surface backed by an OpenCV HighGUI window.
type Window struct {
	window *gocv.Window
	mu     sync.Mutex
}

// NewWindow opens a window with the given title. It must be called from
// the thread that will show frames.
func NewWindow(title string) *Window {
	return &Window{window: gocv.NewWindow(title)}
}

func (w *Window) Show(frame *gocv.Mat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == nil || frame == nil || frame.Empty() {
		return
	}
	w.window.IMShow(*frame)
}

func (w *Window) WaitKey(delayMs int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == nil {
		return NoKey
	}
	return w.window.WaitKey(delayMs)
}

func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}
