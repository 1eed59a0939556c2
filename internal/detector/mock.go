package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
	seen     []EdgeSample
	static   []bool
	closed   bool
	mu       sync.Mutex
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hands = hands
	m.sequence = nil
}

// SetSequence makes the n-th Detect call return sequence[n]. Calls past the
// end of the sequence return no hands.
func (m *MockDetector) SetSequence(sequence [][]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sequence = sequence
	m.hands = nil
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++
	if frame != nil && !frame.Empty() {
		m.seen = append(m.seen, SampleEdges(frame))
	}

	if m.err != nil {
		return nil, m.err
	}
	if m.sequence != nil {
		if call < len(m.sequence) {
			return m.sequence[call], nil
		}
		return nil, nil
	}
	return m.hands, nil
}

// SetStaticImageMode records the requested mode.
func (m *MockDetector) SetStaticImageMode(static bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.static = append(m.static, static)
}

// ModeHistory returns every mode passed to SetStaticImageMode.
func (m *MockDetector) ModeHistory() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]bool(nil), m.static...)
}

// Seen returns the edge sample of every non-empty frame passed to Detect.
func (m *MockDetector) Seen() []EdgeSample {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]EdgeSample(nil), m.seen...)
}

// EdgeSample holds the first and last pixel of a frame's top row in the
// frame's own channel order.
type EdgeSample struct {
	Left, Right [3]uint8
}

// SampleEdges reads the top-row corner pixels of a 3-channel 8-bit frame.
func SampleEdges(frame *gocv.Mat) EdgeSample {
	var s EdgeSample
	copy(s.Left[:], frame.GetVecbAt(0, 0))
	copy(s.Right[:], frame.GetVecbAt(0, frame.Cols()-1))
	return s
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// OpenPalmLandmarks returns a right hand with all five fingers extended
// upward, wrist centred horizontally.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// FistLandmarks returns a right hand with every finger curled so each tip
// sits below its PIP joint.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.93,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.71, Z: -0.02}
	landmarks.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.68, Z: -0.04}
	landmarks.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.68, Z: -0.05}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.62, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.54, Y: 0.66, Z: -0.06}
	landmarks.Points[IndexTip] = Point3D{X: 0.53, Y: 0.69, Z: -0.04}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.65, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.61, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.49, Y: 0.65, Z: -0.06}
	landmarks.Points[MiddleTip] = Point3D{X: 0.49, Y: 0.68, Z: -0.04}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.66, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.62, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.45, Y: 0.66, Z: -0.06}
	landmarks.Points[RingTip] = Point3D{X: 0.45, Y: 0.69, Z: -0.04}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.68, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.65, Z: -0.04}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.41, Y: 0.68, Z: -0.05}
	landmarks.Points[PinkyTip] = Point3D{X: 0.41, Y: 0.71, Z: -0.04}

	return landmarks
}

// PointingLandmarks returns a hand with only the index finger extended and the
// wrist at the given horizontal position.
func PointingLandmarks(wristX float64) HandLandmarks {
	hand := FistLandmarks()
	hand.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.55, Z: 0.0}
	hand.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.45, Z: 0.0}
	hand.Points[IndexTip] = Point3D{X: 0.55, Y: 0.36, Z: 0.0}
	return hand.Shift(wristX - hand.Points[Wrist].X)
}
