package overlay

import (
	"image"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/detector"
)

func TestToPixel(t *testing.T) {
	tests := []struct {
		name string
		p    detector.Point3D
		want image.Point
	}{
		{"origin", detector.Point3D{X: 0, Y: 0}, image.Pt(0, 0)},
		{"center", detector.Point3D{X: 0.5, Y: 0.5}, image.Pt(320, 240)},
		{"corner", detector.Point3D{X: 1, Y: 1}, image.Pt(640, 480)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPixel(tt.p, 640, 480); got != tt.want {
				t.Errorf("ToPixel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLabelOrigin_Stacks(t *testing.T) {
	first, second := LabelOrigin(0), LabelOrigin(1)
	if first.X != second.X {
		t.Errorf("labels should share x, got %d and %d", first.X, second.X)
	}
	if second.Y <= first.Y {
		t.Errorf("second label should be below the first: %v, %v", first, second)
	}
}

func TestDrawHand_MarksFrame(t *testing.T) {
	frame := gocv.NewMatWithSizeWithScalar(100, 100, gocv.MatTypeCV8UC3, gocv.NewScalar(0, 0, 0, 0))
	defer frame.Close()

	hand := detector.OpenPalmLandmarks()
	DrawHand(&frame, &hand)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected drawn pixels on frame")
	}
}

func TestDrawLabel_MarksFrame(t *testing.T) {
	frame := gocv.NewMatWithSizeWithScalar(100, 200, gocv.MatTypeCV8UC3, gocv.NewScalar(0, 0, 0, 0))
	defer frame.Close()

	DrawLabel(&frame, "OPEN", 0)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected label pixels on frame")
	}
}

func TestDraw_NilSafe(t *testing.T) {
	DrawHand(nil, nil)
	DrawLabel(nil, "NONE", 0)

	empty := gocv.NewMat()
	defer empty.Close()
	DrawHand(&empty, nil)
}
