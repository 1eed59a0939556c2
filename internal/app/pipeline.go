package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/gesturectl/internal/capture"
	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/detector"
	"github.com/ayusman/gesturectl/internal/display"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/log"
	"github.com/ayusman/gesturectl/internal/overlay"
	"github.com/ayusman/gesturectl/internal/store"
)

// Mode identifies which kind of run produced a result.
type Mode string

const (
	ModeImage  Mode = "image"
	ModeVideo  Mode = "video"
	ModeCamera Mode = "camera"
)

// Title returns the display window title for the mode.
func (m Mode) Title() string {
	switch m {
	case ModeImage:
		return "Gesture Detection - Image"
	case ModeVideo:
		return "Gesture Detection - Video"
	default:
		return "Gesture Detection - Webcam"
	}
}

// RunResult summarizes one run.
type RunResult struct {
	// ID is the journal ID, empty when the run was not journaled.
	ID         string
	Mode       Mode
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Frames     int
	Counts     map[gesture.Label]int
	KeyPresses int
	// DetectErrors counts frames the detector failed on.
	DetectErrors int
	Cancelled    bool
}

func newRunResult(mode Mode, source string) *RunResult {
	return &RunResult{
		Mode:      mode,
		Source:    source,
		StartedAt: time.Now(),
		Counts:    make(map[gesture.Label]int, len(gesture.Labels)),
	}
}

// Summary is a one-line description of the result for the user.
func (r *RunResult) Summary() string {
	s := fmt.Sprintf("%s run on %s: %d frames", r.Mode, r.Source, r.Frames)
	if r.Mode == ModeCamera {
		s += fmt.Sprintf(", %d key presses", r.KeyPresses)
	}
	if r.Cancelled {
		s += " (stopped)"
	}
	return s
}

func (r *RunResult) record() *store.Run {
	return &store.Run{
		Mode:       string(r.Mode),
		Source:     r.Source,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Frames:     r.Frames,
		OpenCount:  r.Counts[gesture.Open],
		FistCount:  r.Counts[gesture.Fist],
		LeftCount:  r.Counts[gesture.Left],
		RightCount: r.Counts[gesture.Right],
		NoneCount:  r.Counts[gesture.None],
		KeyPresses: r.KeyPresses,
		Cancelled:  r.Cancelled,
	}
}

// RunImage detects gestures on a single image and waits for any key.
func (a *App) RunImage(ctx context.Context, path string) (*RunResult, error) {
	return a.run(ctx, ModeImage, a.sources.Image(path))
}

// RunVideo detects gestures on every frame of a video until it ends or
// the user quits.
func (a *App) RunVideo(ctx context.Context, path string) (*RunResult, error) {
	return a.run(ctx, ModeVideo, a.sources.Video(path))
}

// RunCamera runs live control on the configured camera: every recognized
// gesture presses its mapped key.
func (a *App) RunCamera(ctx context.Context) (*RunResult, error) {
	return a.run(ctx, ModeCamera, a.sources.Camera(a.Settings().CameraIndex))
}

func (a *App) run(ctx context.Context, mode Mode, src capture.Source) (result *RunResult, err error) {
	if err := a.acquire(); err != nil {
		return nil, err
	}
	defer a.release()

	logger := a.log.WithFields(log.Fields{"mode": mode, "source": src.Name()})
	result = newRunResult(mode, src.Name())
	defer func() {
		result.FinishedAt = time.Now()
		a.journal(result, err)
	}()

	if ctx.Err() != nil {
		result.Cancelled = true
		logger.Info("Run cancelled before start")
		return result, nil
	}

	a.setStaticImageMode(src.Kind() == capture.SingleShot)

	if err := src.Open(); err != nil {
		logger.WithError(err).Error("Cannot open source")
		return result, fmt.Errorf("%s: %w", mode, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close source")
		}
	}()

	surface := a.surfaces(mode.Title())
	defer func() {
		if err := surface.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close display")
		}
	}()

	var mapping control.Mapping
	if mode == ModeCamera {
		mapping = a.currentMapping()
	}

	logger.Info("Run started")
	for {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		frame, err := src.Read()
		if err != nil {
			if !errors.Is(err, capture.ErrEndOfStream) {
				logger.WithError(err).Warn("Frame read failed")
			}
			break
		}

		a.processFrame(frame, mapping, result, logger)
		surface.Show(frame)
		frame.Close()

		if src.Kind() == capture.SingleShot {
			surface.WaitKey(0)
			break
		}
		if key := surface.WaitKey(1); key != display.NoKey && key&0xFF == display.KeyQuit {
			result.Cancelled = true
			break
		}
	}

	logger.WithFields(log.Fields{
		"frames":      result.Frames,
		"key_presses": result.KeyPresses,
		"cancelled":   result.Cancelled,
	}).Info("Run finished")
	return result, nil
}

// processFrame mirrors the frame, detects hands on an RGB copy and draws
// the skeleton and label of every hand onto the frame. With a mapping, the
// first hand whose label maps to a key presses it; later hands in the same
// frame are drawn but press nothing.
func (a *App) processFrame(frame *gocv.Mat, mapping control.Mapping, result *RunResult, logger logrus.FieldLogger) {
	result.Frames++

	gocv.Flip(*frame, frame, 1)

	rgb := gocv.NewMat()
	defer rgb.Close()
	gocv.CvtColor(*frame, &rgb, gocv.ColorBGRToRGB)

	hands, err := a.detector.Detect(&rgb)
	if err != nil {
		result.DetectErrors++
		logger.WithError(err).Warn("Hand detection failed")
		return
	}

	pressed := false
	for i := range hands {
		hand := &hands[i]
		overlay.DrawHand(frame, hand)

		label := gesture.Classify(hand)
		result.Counts[label]++
		if label == gesture.None {
			continue
		}

		overlay.DrawLabel(frame, label.String(), i)
		if a.onLabel != nil {
			a.onLabel(label)
		}

		if mapping == nil || pressed {
			continue
		}
		key, ok := mapping.Key(label)
		if !ok {
			continue
		}
		pressed = true

		if err := a.presser.Press(key); err != nil {
			logger.WithError(err).WithField("key", key).Warn("Key press failed")
			continue
		}
		result.KeyPresses++
		logger.WithFields(log.Fields{"label": label, "key": key}).Debug("Key pressed")
	}
}

func (a *App) setStaticImageMode(static bool) {
	if ms, ok := a.detector.(detector.ModeSetter); ok {
		ms.SetStaticImageMode(static)
	}
}
