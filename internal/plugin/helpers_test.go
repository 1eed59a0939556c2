package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/gesturectl/internal/log"
)

// writePlugin creates dir/name with a manifest and a shell-script executable.
func writePlugin(t *testing.T, dir, name, script string, actions ...string) *Plugin {
	t.Helper()

	pluginDir := filepath.Join(dir, name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifest := Manifest{
		Name:       name,
		Version:    "1.0.0",
		Executable: name + ".sh",
		Actions:    actions,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	scriptPath := filepath.Join(pluginDir, manifest.Executable)
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{Manifest: manifest, Path: pluginDir, Executable: scriptPath}
}

func newTestManager(dir string) *Manager {
	return NewManager(dir, log.Discard())
}
