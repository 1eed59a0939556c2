package log

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestBuild_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Out: &buf, Level: logrus.DebugLevel})

	l.WithFields(Fields{"mode": "camera"}).Debug("Run started")

	assert.Contains(t, buf.String(), "Run started")
	assert.Contains(t, buf.String(), "camera")
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
}

func TestBuild_DefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Out: &buf})

	l.Debug("hidden")

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Empty(t, buf.String())
}

func TestBuild_SkipsFileInTestEnv(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	file := filepath.Join(t.TempDir(), "gesturectl.log")

	var buf bytes.Buffer
	l := build(Options{Out: &buf, File: file})
	l.Info("hello")

	assert.DirExists(t, filepath.Dir(file))
	assert.NoFileExists(t, file)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("dropped")
	assert.NotNil(t, l)
}

func TestNewLogger_Singleton(t *testing.T) {
	first := NewLogger(Options{Out: &bytes.Buffer{}})
	second := NewLogger(Options{Level: logrus.DebugLevel})
	assert.Same(t, first, second)
}
