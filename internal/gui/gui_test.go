package gui

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"github.com/ayusman/gesturectl/internal/app"
)

type fakeSubmitter struct {
	commands []app.Command
	err      error
	cancels  int
}

func (f *fakeSubmitter) Submit(cmd app.Command) error {
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeSubmitter) Cancel() bool {
	f.cancels++
	return false
}

func newTestGUI(t *testing.T) (*GUI, *fakeSubmitter) {
	t.Helper()
	g := newWithApp(test.NewApp(), app.DefaultSettings)
	s := &fakeSubmitter{}
	g.Attach(s)
	return g, s
}

func TestCameraButton_SubmitsCameraRun(t *testing.T) {
	g, s := newTestGUI(t)

	test.Tap(g.cameraButton)

	assert.Equal(t, []app.Command{app.RunCameraCmd{}}, s.commands)
	assert.Contains(t, g.status.Text, "Running")
}

func TestSubmit_ShowsBusy(t *testing.T) {
	g, s := newTestGUI(t)
	s.err = app.ErrBusy

	test.Tap(g.cameraButton)

	assert.Empty(t, s.commands)
	assert.Contains(t, g.status.Text, app.ErrBusy.Error())
}

func TestSaveSettings(t *testing.T) {
	g, s := newTestGUI(t)

	g.saveSettings("2", "Arrow")

	assert.Equal(t, []app.Command{app.UpdateSettingsCmd{CameraIndex: "2", Scheme: "Arrow"}}, s.commands)
	assert.NotContains(t, g.status.Text, "Running", "settings are not a run")
	assert.Equal(t, "Saving settings...", g.status.Text)
}

func TestSaveSettings_RejectsNonInteger(t *testing.T) {
	g, s := newTestGUI(t)

	g.saveSettings("front", "WASD")

	assert.Empty(t, s.commands, "prior settings are kept")
}

func TestSubmitWithoutDispatcher(t *testing.T) {
	g := newWithApp(test.NewApp(), nil)

	test.Tap(g.cameraButton)

	assert.Equal(t, "Ready", g.status.Text)
}

func TestExtensions(t *testing.T) {
	assert.ElementsMatch(t, []string{".jpg", ".jpeg", ".png"}, ImageExtensions)
	assert.ElementsMatch(t, []string{".mp4", ".avi", ".mov"}, VideoExtensions)
}
