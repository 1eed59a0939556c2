// Package tray provides a system tray front-end for gesture control.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/gesture"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(start bool)
	onScheme func(scheme control.Scheme)
	onQuit   func()
	running  bool
	scheme   control.Scheme
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuLastLabel *systray.MenuItem
	menuSchemes   map[control.Scheme]*systray.MenuItem
}

// New creates a new Tray showing the given scheme as selected.
func New(scheme control.Scheme) *Tray {
	return &Tray{scheme: scheme}
}

// OnToggle sets the callback for the start/stop camera item. It receives
// true when the user asks to start.
func (t *Tray) OnToggle(fn func(start bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnScheme sets the callback for selecting a control scheme.
func (t *Tray) OnScheme(fn func(scheme control.Scheme)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onScheme = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray event loop.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("gesturectl")
	systray.SetTooltip("Hand gesture keyboard control")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.running), "Start or stop camera control")
	systray.AddSeparator()

	t.menuLastLabel = systray.AddMenuItem(lastLabelTitle(gesture.None), "Last recognized gesture")
	t.menuLastLabel.Disable()
	systray.AddSeparator()

	menuScheme := systray.AddMenuItem("Control scheme", "Keys pressed for each gesture")
	t.menuSchemes = make(map[control.Scheme]*systray.MenuItem, len(control.Schemes))
	for _, s := range control.Schemes {
		t.menuSchemes[s] = menuScheme.AddSubMenuItemCheckbox(string(s), "Use the "+string(s)+" scheme", s == t.scheme)
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit gesturectl")
	schemes := t.menuSchemes
	t.mu.Unlock()

	for s, item := range schemes {
		go func(s control.Scheme, item *systray.MenuItem) {
			for range item.ClickedCh {
				t.handleScheme(s)
			}
		}(s, item)
	}

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle asks to start camera control when idle and to stop it when
// running. The running state itself changes through SetRunning.
func (t *Tray) handleToggle() {
	t.mu.RLock()
	start := !t.running
	callback := t.onToggle
	t.mu.RUnlock()

	if callback != nil {
		callback(start)
	}
}

func (t *Tray) handleScheme(s control.Scheme) {
	t.mu.Lock()
	t.scheme = s
	for other, item := range t.menuSchemes {
		if other == s {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	callback := t.onScheme
	t.mu.Unlock()

	if callback != nil {
		callback(s)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetRunning updates the toggle item for an active or finished run.
func (t *Tray) SetRunning(running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.running = running
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(running))
	}
}

// SetLastLabel updates the last gesture display in the menu.
func (t *Tray) SetLastLabel(label gesture.Label) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastLabel != nil {
		t.menuLastLabel.SetTitle(lastLabelTitle(label))
	}
}

func (t *Tray) isRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

func (t *Tray) currentScheme() control.Scheme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scheme
}

func toggleTitle(running bool) string {
	if running {
		return "■ Stop camera control"
	}
	return "▶ Start camera control"
}

func lastLabelTitle(label gesture.Label) string {
	if label == gesture.None {
		return "Last: none"
	}
	return "Last: " + label.String()
}
