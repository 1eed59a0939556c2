package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
// Implementations are not safe for concurrent use.
type Detector interface {
	// Detect analyzes an RGB frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// ModeSetter is implemented by detectors that tune themselves differently for
// still images and continuous streams.
type ModeSetter interface {
	SetStaticImageMode(static bool)
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (1 or 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// StaticImageMode disables cross-frame tracking inside the model.
	StaticImageMode bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.6,
		MinTrackingConf: 0.6,
	}
}
