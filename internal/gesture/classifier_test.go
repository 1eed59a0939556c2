package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/gesturectl/internal/detector"
)

// handWith builds a hand whose first `extended` fingers (index first) point
// up and the rest curl down, with the wrist at wristX.
func handWith(extended int, wristX float64) *detector.HandLandmarks {
	var h detector.HandLandmarks
	h.Points[detector.Wrist] = detector.Point3D{X: wristX, Y: 0.9}
	for i, tip := range detector.FingerTips {
		h.Points[tip-2] = detector.Point3D{X: wristX, Y: 0.5}
		if i < extended {
			h.Points[tip] = detector.Point3D{X: wristX, Y: 0.3}
		} else {
			h.Points[tip] = detector.Point3D{X: wristX, Y: 0.7}
		}
	}
	return &h
}

func TestClassify_AllExtendedIsOpen(t *testing.T) {
	for _, x := range []float64{0.0, 0.2, 0.4, 0.5, 0.6, 0.8, 1.0} {
		assert.Equal(t, Open, Classify(handWith(4, x)), "wrist x=%v", x)
	}
}

func TestClassify_NoneExtendedIsFist(t *testing.T) {
	for _, x := range []float64{0.0, 0.2, 0.4, 0.5, 0.6, 0.8, 1.0} {
		assert.Equal(t, Fist, Classify(handWith(0, x)), "wrist x=%v", x)
	}
}

func TestClassify_PartialByWristPosition(t *testing.T) {
	tests := []struct {
		name   string
		wristX float64
		want   Label
	}{
		{name: "left", wristX: 0.2, want: Left},
		{name: "right", wristX: 0.8, want: Right},
		{name: "centre", wristX: 0.5, want: None},
		{name: "left bound is ambiguous", wristX: 0.4, want: None},
		{name: "right bound is ambiguous", wristX: 0.6, want: None},
		{name: "just left of band", wristX: 0.3999, want: Left},
		{name: "just right of band", wristX: 0.6001, want: Right},
	}

	for _, tt := range tests {
		for extended := 1; extended <= 3; extended++ {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, Classify(handWith(extended, tt.wristX)), "extended=%d", extended)
			})
		}
	}
}

func TestClassify_EqualYIsNotExtended(t *testing.T) {
	h := handWith(4, 0.5)
	h.Points[detector.PinkyTip].Y = h.Points[detector.PinkyPIP].Y

	assert.Equal(t, 3, ExtendedFingers(h))
	assert.Equal(t, None, Classify(h))
}

func TestClassify_ThumbIgnored(t *testing.T) {
	h := handWith(0, 0.5)
	h.Points[detector.ThumbTip] = detector.Point3D{X: 0.5, Y: 0.0}
	h.Points[detector.ThumbMCP] = detector.Point3D{X: 0.5, Y: 0.8}

	assert.Equal(t, Fist, Classify(h))
}

func TestClassify_Idempotent(t *testing.T) {
	hands := []detector.HandLandmarks{
		detector.OpenPalmLandmarks(),
		detector.FistLandmarks(),
		detector.PointingLandmarks(0.2),
		detector.PointingLandmarks(0.5),
		detector.PointingLandmarks(0.8),
	}
	for _, h := range hands {
		before := h
		first := Classify(&h)
		assert.Equal(t, first, Classify(&h))
		assert.Equal(t, before, h, "Classify must not modify its input")
	}
}

func TestClassify_Presets(t *testing.T) {
	open := detector.OpenPalmLandmarks()
	fist := detector.FistLandmarks()
	left := detector.PointingLandmarks(0.2)
	right := detector.PointingLandmarks(0.8)
	centre := detector.PointingLandmarks(0.5)

	assert.Equal(t, Open, Classify(&open))
	assert.Equal(t, Fist, Classify(&fist))
	assert.Equal(t, Left, Classify(&left))
	assert.Equal(t, Right, Classify(&right))
	assert.Equal(t, None, Classify(&centre))
}

func TestClassify_Nil(t *testing.T) {
	assert.Equal(t, None, Classify(nil))
}

func TestLabel_String(t *testing.T) {
	assert.Equal(t, "OPEN", Open.String())
	assert.Equal(t, "FIST", Fist.String())
	assert.Equal(t, "LEFT", Left.String())
	assert.Equal(t, "RIGHT", Right.String())
	assert.Equal(t, "NONE", None.String())
	assert.Equal(t, "NONE", Label(42).String())
}
