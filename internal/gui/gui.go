// Package gui provides the desktop window front-end: pick an image, pick a
// video, start the camera, or edit settings.
package gui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/control"
)

// File extensions offered by the open dialogs.
var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png"}
	VideoExtensions = []string{".mp4", ".avi", ".mov"}
)

// Submitter accepts commands for the detection pipeline.
type Submitter interface {
	Submit(cmd app.Command) error
	Cancel() bool
}

// GUI is the main window.
type GUI struct {
	fyneApp  fyne.App
	window   fyne.Window
	submit   Submitter
	settings func() app.Settings

	status       *widget.Label
	imageButton  *widget.Button
	videoButton  *widget.Button
	cameraButton *widget.Button
	exitButton   *widget.Button
}

// New creates the window. settings reports the current session settings
// for the settings dialog.
func New(settings func() app.Settings) *GUI {
	return newWithApp(fyneapp.NewWithID("com.ayusman.gesturectl"), settings)
}

func newWithApp(a fyne.App, settings func() app.Settings) *GUI {
	g := &GUI{
		fyneApp:  a,
		window:   a.NewWindow("AI Vision Detector"),
		settings: settings,
		status:   widget.NewLabel("Ready"),
	}

	g.imageButton = widget.NewButton("Detect from Image", g.pickImage)
	g.videoButton = widget.NewButton("Detect from Video", g.pickVideo)
	g.cameraButton = widget.NewButton("Detect from Webcam", func() { g.submitCommand(app.RunCameraCmd{}) })
	settingsButton := widget.NewButton("Settings", g.showSettings)
	g.exitButton = widget.NewButton("Exit", g.quit)
	g.exitButton.Importance = widget.DangerImportance

	title := widget.NewLabelWithStyle("Select Detection Mode", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	g.status.Wrapping = fyne.TextWrapWord

	g.window.SetContent(container.NewVBox(
		title,
		g.imageButton,
		g.videoButton,
		g.cameraButton,
		settingsButton,
		g.exitButton,
		g.status,
	))
	g.window.Resize(fyne.NewSize(350, 250))
	return g
}

// Attach connects the window to the dispatcher.
func (g *GUI) Attach(s Submitter) {
	g.submit = s
}

// Run shows the window and blocks until it is closed.
func (g *GUI) Run() {
	g.window.ShowAndRun()
}

// Info reports a finished command. Safe to call from any goroutine.
func (g *GUI) Info(msg string) {
	fyne.Do(func() { g.status.SetText(msg) })
}

// Error reports a failed command. Safe to call from any goroutine.
func (g *GUI) Error(err error) {
	fyne.Do(func() {
		g.status.SetText("Error: " + err.Error())
		dialog.ShowError(err, g.window)
	})
}

func (g *GUI) submitCommand(cmd app.Command) {
	if g.submit == nil {
		return
	}
	if err := g.submit.Submit(cmd); err != nil {
		g.status.SetText("Error: " + err.Error())
		return
	}
	switch cmd.(type) {
	case app.RunImageCmd, app.RunVideoCmd, app.RunCameraCmd:
		g.status.SetText("Running... press q in the detection window to stop")
	default:
		g.status.SetText("Saving settings...")
	}
}

func (g *GUI) pickImage() {
	g.pickFile(ImageExtensions, func(path string) { g.submitCommand(app.RunImageCmd{Path: path}) })
}

func (g *GUI) pickVideo() {
	g.pickFile(VideoExtensions, func(path string) { g.submitCommand(app.RunVideoCmd{Path: path}) })
}

// pickFile shows an open dialog; cancelling it does nothing.
func (g *GUI) pickFile(extensions []string, onPick func(path string)) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		onPick(path)
	}, g.window)
	d.SetFilter(storage.NewExtensionFileFilter(extensions))
	d.Show()
}

func (g *GUI) showSettings() {
	current := app.DefaultSettings()
	if g.settings != nil {
		current = g.settings()
	}

	camera := widget.NewEntry()
	camera.SetText(strconv.Itoa(current.CameraIndex))
	scheme := widget.NewSelect(control.SchemeNames(), nil)
	scheme.SetSelected(string(current.Scheme))

	dialog.ShowForm("Settings", "Save", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Camera index", camera),
		widget.NewFormItem("Control scheme", scheme),
	}, func(ok bool) {
		if ok {
			g.saveSettings(camera.Text, scheme.Selected)
		}
	}, g.window)
}

func (g *GUI) saveSettings(camera, scheme string) {
	if _, err := app.ParseCameraIndex(camera); err != nil {
		dialog.ShowError(errors.New("camera index must be a whole number"), g.window)
		return
	}
	g.submitCommand(app.UpdateSettingsCmd{CameraIndex: camera, Scheme: scheme})
}

func (g *GUI) quit() {
	if g.submit != nil {
		g.submit.Cancel()
	}
	g.fyneApp.Quit()
}
