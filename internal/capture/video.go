package capture

import (
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default camera settings
const (
	DefaultWidth  = 640
	DefaultHeight = 480
)

// streamSource reads from a gocv.VideoCapture, either a file or a device.
type streamSource struct {
	name    string
	kind    Kind
	open    func() (*gocv.VideoCapture, error)
	capture *gocv.VideoCapture
	mu      sync.Mutex
}

// NewVideoSource returns a finite source for a video file.
func NewVideoSource(path string) Source {
	return &streamSource{
		name: path,
		kind: Finite,
		open: func() (*gocv.VideoCapture, error) {
			return gocv.VideoCaptureFile(path)
		},
	}
}

// NewCameraSource returns an unbounded source for a camera device. The
// resolution is set to 640x480 for detection speed.
func NewCameraSource(deviceID int) Source {
	return &streamSource{
		name: "camera:" + strconv.Itoa(deviceID),
		kind: Unbounded,
		open: func() (*gocv.VideoCapture, error) {
			capture, err := gocv.OpenVideoCapture(deviceID)
			if err != nil {
				return nil, err
			}
			capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
			capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
			return capture, nil
		},
	}
}

func (s *streamSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		return nil
	}

	capture, err := s.open()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, s.name, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("%w: %s", ErrSourceUnavailable, s.name)
	}

	s.capture = capture
	return nil
}

// Read returns the next frame. Any failed or empty read ends the stream.
func (s *streamSource) Read() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil, ErrNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}

	return &mat, nil
}

func (s *streamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	return err
}

func (s *streamSource) Kind() Kind   { return s.kind }
func (s *streamSource) Name() string { return s.name }
