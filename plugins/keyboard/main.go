// Package main provides the keyboard plugin. It reads one JSON request on
// stdin, taps the requested key with robotgo and writes a JSON response.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-vgo/robotgo"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Config  json.RawMessage `json:"config"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams defines parameters for keystroke actions.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // ctrl, alt, shift, cmd
}

// modifierMap maps user-friendly modifier names to robotgo names.
var modifierMap = map[string]string{
	"command": "cmd",
	"cmd":     "cmd",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

type tapFunc func(key string, modifiers ...string) error

func robotgoTap(key string, modifiers ...string) error {
	args := make([]interface{}, len(modifiers))
	for i, m := range modifiers {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

func main() {
	resp := handle(os.Stdin, robotgoTap)
	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		os.Exit(1)
	}
}

func handle(r io.Reader, tap tapFunc) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return errorResponse(fmt.Sprintf("failed to decode request: %v", err))
	}

	switch req.Action {
	case "keystroke":
		if err := handleKeystroke(req.Params, tap); err != nil {
			return errorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		}
	default:
		return errorResponse(fmt.Sprintf("unknown action: %s", req.Action))
	}

	return Response{Success: true}
}

func handleKeystroke(params json.RawMessage, tap tapFunc) error {
	var p KeystrokeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	key := strings.ToLower(strings.TrimSpace(p.Key))
	if key == "" {
		return errors.New("key is required")
	}

	modifiers := make([]string, 0, len(p.Modifiers))
	for _, m := range p.Modifiers {
		mapped, ok := modifierMap[strings.ToLower(m)]
		if !ok {
			return fmt.Errorf("unknown modifier: %s", m)
		}
		modifiers = append(modifiers, mapped)
	}

	return tap(key, modifiers...)
}

func errorResponse(msg string) Response {
	return Response{Success: false, Error: msg}
}
