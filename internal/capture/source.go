// Package capture provides the frame sources a detection run reads from:
// a single image, a video file, or a live camera, all via GoCV (OpenCV).
package capture

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	// ErrSourceUnavailable is returned by Open when the image, video or
	// camera cannot be opened.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEndOfStream is returned by Read when no more frames are available,
	// including when a camera or video read fails mid-stream.
	ErrEndOfStream = errors.New("end of stream")

	// ErrNotOpen is returned when reading from a source that is not open.
	ErrNotOpen = errors.New("source is not open")
)

// Kind describes how many frames a source produces.
type Kind int

const (
	// SingleShot sources produce exactly one frame.
	SingleShot Kind = iota
	// Finite sources produce frames until exhausted.
	Finite
	// Unbounded sources produce frames until closed.
	Unbounded
)

func (k Kind) String() string {
	switch k {
	case SingleShot:
		return "image"
	case Finite:
		return "video"
	default:
		return "camera"
	}
}

// Source yields BGR frames. Read returns a Mat the caller must Close.
type Source interface {
	Open() error
	Read() (*gocv.Mat, error)
	Close() error
	Kind() Kind
	// Name identifies the source in logs and the run journal.
	Name() string
}
