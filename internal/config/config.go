// Package config loads gesturectl settings from a .env file and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvFileVar points at an alternative .env file.
	EnvFileVar = "GESTURECTL_ENV"

	UIWindow = "window"
	UITray   = "tray"

	KeyBackendRobotgo = "robotgo"
	KeyBackendPlugin  = "plugin"
	KeyBackendNone    = "none"
)

// Config holds the startup configuration. Only CameraIndex and Scheme can be
// changed afterwards, and only in memory.
type Config struct {
	CameraIndex   int
	Scheme        string
	MaxHands      int
	MinConfidence float64
	// MinTrackingConfidence only applies to video and camera runs.
	MinTrackingConfidence float64
	KeyBackend            string
	PluginDir             string
	UI                    string
	CancelHotkey          string
	LogFile               string
	DataDir               string
	Journal               bool
	Debug                 bool
}

// Load reads .env beside the executable (or the file named by GESTURECTL_ENV)
// and then the process environment. Values already set in the environment win.
func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, err
		}
	}

	dataDir := getEnvWithDefault("GESTURECTL_DATA_DIR", defaultDataDir())

	cfg := &Config{
		CameraIndex:           getEnvInt("GESTURECTL_CAMERA_INDEX", 0),
		Scheme:                getEnvWithDefault("GESTURECTL_SCHEME", "WASD"),
		MaxHands:              getEnvInt("GESTURECTL_MAX_HANDS", 2),
		MinConfidence:         getEnvFloat("GESTURECTL_MIN_CONFIDENCE", 0.6),
		MinTrackingConfidence: getEnvFloat("GESTURECTL_MIN_TRACKING_CONFIDENCE", 0.6),
		KeyBackend:            resolveKeyBackend(os.Getenv("GESTURECTL_KEY_BACKEND")),
		PluginDir:             getEnvWithDefault("GESTURECTL_PLUGIN_DIR", filepath.Join(dataDir, "plugins")),
		UI:                    resolveUI(os.Getenv("GESTURECTL_UI")),
		CancelHotkey:          getEnvWithDefault("GESTURECTL_CANCEL_HOTKEY", "ctrl+shift+q"),
		LogFile:               os.Getenv("GESTURECTL_LOG_FILE"),
		DataDir:               dataDir,
		Journal:               getEnvBool("GESTURECTL_JOURNAL", true),
		Debug:                 getEnvBool("GESTURECTL_DEBUG", false),
	}

	// The camera index is a device number; negative values fall back to 0.
	if cfg.CameraIndex < 0 {
		cfg.CameraIndex = 0
	}
	if cfg.MaxHands < 1 || cfg.MaxHands > 2 {
		cfg.MaxHands = 2
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if alt := os.Getenv(EnvFileVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	return ""
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gesturectl"
	}
	return filepath.Join(home, ".gesturectl")
}

func resolveKeyBackend(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case KeyBackendPlugin:
		return KeyBackendPlugin
	case KeyBackendNone, "off":
		return KeyBackendNone
	default:
		return KeyBackendRobotgo
	}
}

func resolveUI(value string) string {
	if strings.ToLower(strings.TrimSpace(value)) == UITray {
		return UITray
	}
	return UIWindow
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 && f <= 1 {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultValue
}
