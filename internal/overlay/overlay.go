// Package overlay draws hand skeletons and gesture labels onto frames.
package overlay

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/detector"
)

// Drawing colors, matching the MediaPipe drawing defaults for the skeleton.
var (
	ConnectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	LandmarkColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	LabelColor      = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

const (
	lineThickness  = 2
	landmarkRadius = 4
	labelScale     = 1.0
	labelThickness = 2
	labelX         = 10
	labelY         = 30
	labelSpacing   = 40
)

// ToPixel converts a normalized landmark to pixel coordinates in a frame
// of the given size.
func ToPixel(p detector.Point3D, width, height int) image.Point {
	return image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
}

// DrawHand draws the hand's connections and landmarks onto frame.
func DrawHand(frame *gocv.Mat, hand *detector.HandLandmarks) {
	if frame == nil || frame.Empty() || hand == nil {
		return
	}
	w, h := frame.Cols(), frame.Rows()

	for _, c := range detector.HandConnections {
		a := ToPixel(hand.Points[c[0]], w, h)
		b := ToPixel(hand.Points[c[1]], w, h)
		gocv.Line(frame, a, b, ConnectionColor, lineThickness)
	}
	for _, p := range hand.Points {
		gocv.Circle(frame, ToPixel(p, w, h), landmarkRadius, LandmarkColor, -1)
	}
}

// LabelOrigin returns where the label for the hand at index i is drawn,
// stacked downward so labels for multiple hands do not overlap.
func LabelOrigin(i int) image.Point {
	return image.Pt(labelX, labelY+i*labelSpacing)
}

// DrawLabel writes text for the hand at index i.
func DrawLabel(frame *gocv.Mat, text string, i int) {
	if frame == nil || frame.Empty() {
		return
	}
	gocv.PutText(frame, text, LabelOrigin(i), gocv.FontHersheySimplex, labelScale, LabelColor, labelThickness)
}
