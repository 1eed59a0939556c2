// Package gesture classifies a single hand pose into one of four labels.
package gesture

import "github.com/ayusman/gesturectl/internal/detector"

// Label is the result of classifying one hand.
type Label int

const (
	// None means no confident classification.
	None Label = iota
	Open
	Fist
	Left
	Right
)

// Labels lists the four real labels in display order.
var Labels = []Label{Open, Fist, Left, Right}

// Horizontal wrist bounds. Wrist x strictly below LeftBound is LEFT, strictly
// above RightBound is RIGHT; the closed band between them is ambiguous.
const (
	LeftBound  = 0.4
	RightBound = 0.6
)

// String returns the overlay text for the label.
func (l Label) String() string {
	switch l {
	case Open:
		return "OPEN"
	case Fist:
		return "FIST"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// ExtendedFingers counts the non-thumb fingers whose tip is above (smaller y
// than) the joint two landmarks below it.
func ExtendedFingers(hand *detector.HandLandmarks) int {
	count := 0
	for _, tip := range detector.FingerTips {
		if hand.Points[tip].Y < hand.Points[tip-2].Y {
			count++
		}
	}
	return count
}

// Classify maps one hand to a label. The thumb is not counted, so a
// four-finger pose with a tucked thumb is still OPEN.
func Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return None
	}

	switch n := ExtendedFingers(hand); {
	case n >= 4:
		return Open
	case n == 0:
		return Fist
	}

	wristX := hand.Points[detector.Wrist].X
	switch {
	case wristX < LeftBound:
		return Left
	case wristX > RightBound:
		return Right
	default:
		return None
	}
}
