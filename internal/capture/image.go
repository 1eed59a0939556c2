package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

type imageSource struct {
	path string
	img  gocv.Mat
	read bool
	open bool
	mu   sync.Mutex
}

// NewImageSource returns a single-shot source for an image file.
func NewImageSource(path string) Source {
	return &imageSource{path: path}
}

func (s *imageSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return nil
	}

	img := gocv.IMRead(s.path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return fmt.Errorf("%w: cannot read image %q", ErrSourceUnavailable, s.path)
	}

	s.img = img
	s.open = true
	s.read = false
	return nil
}

func (s *imageSource) Read() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil, ErrNotOpen
	}
	if s.read {
		return nil, ErrEndOfStream
	}
	s.read = true

	frame := s.img.Clone()
	return &frame, nil
}

func (s *imageSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false
	return s.img.Close()
}

func (s *imageSource) Kind() Kind   { return SingleShot }
func (s *imageSource) Name() string { return s.path }
