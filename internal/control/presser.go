package control

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/gesturectl/internal/plugin"
)

// KeyPresser simulates a transient key press on the host.
type KeyPresser interface {
	Press(key string) error
}

// RobotgoPresser taps keys through robotgo.
type RobotgoPresser struct{}

// NewRobotgoPresser returns an in-process key presser.
func NewRobotgoPresser() *RobotgoPresser {
	return &RobotgoPresser{}
}

// Press taps the key once.
func (RobotgoPresser) Press(key string) error {
	return robotgo.KeyTap(key)
}

// PluginPresser sends keystrokes through the keyboard plugin executable.
type PluginPresser struct {
	manager  *plugin.Manager
	executor *plugin.Executor
	name     string
}

// KeyboardPlugin is the plugin name PluginPresser looks up.
const KeyboardPlugin = "keyboard"

// NewPluginPresser discovers plugins in the manager's directory.
func NewPluginPresser(manager *plugin.Manager, executor *plugin.Executor) (*PluginPresser, error) {
	if err := manager.Discover(); err != nil {
		return nil, fmt.Errorf("discover plugins: %w", err)
	}
	if _, err := manager.Get(KeyboardPlugin); err != nil {
		return nil, fmt.Errorf("%s plugin in %s (found: %s): %w",
			KeyboardPlugin, manager.PluginDir(), pluginNames(manager.List()), err)
	}
	return &PluginPresser{manager: manager, executor: executor, name: KeyboardPlugin}, nil
}

// Press runs the plugin's keystroke action.
func (p *PluginPresser) Press(key string) error {
	pl, err := p.manager.Get(p.name)
	if err != nil {
		return err
	}

	params, err := json.Marshal(map[string]string{"key": key})
	if err != nil {
		return err
	}

	resp, err := p.executor.Execute(pl, &plugin.Request{
		Action: "keystroke",
		Config: json.RawMessage(`{}`),
		Params: params,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("keyboard plugin: %s", resp.Error)
	}
	return nil
}

// NopPresser discards presses.
type NopPresser struct{}

// Press does nothing.
func (NopPresser) Press(string) error { return nil }

// RecordingPresser remembers every pressed key. Used by tests.
type RecordingPresser struct {
	mu   sync.Mutex
	keys []string
	Err  error
}

// Press records the key and returns Err.
func (r *RecordingPresser) Press(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return r.Err
}

// Keys returns a copy of the recorded keys.
func (r *RecordingPresser) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func pluginNames(plugins []*plugin.Plugin) string {
	if len(plugins) == 0 {
		return "none"
	}
	names := make([]string, len(plugins))
	for i, p := range plugins {
		names[i] = p.Manifest.Name
	}
	return strings.Join(names, ", ")
}
