// Package control turns gesture labels into simulated key presses.
package control

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ayusman/gesturectl/internal/gesture"
)

// ErrUnknownScheme is returned for a control scheme name that has no mapping.
var ErrUnknownScheme = errors.New("unknown control scheme")

// Scheme names a control mapping.
type Scheme string

const (
	SchemeWASD  Scheme = "WASD"
	SchemeArrow Scheme = "Arrow"
	// SchemeMouse shows labels but maps no keys.
	SchemeMouse Scheme = "Mouse"
)

// Schemes lists the selectable schemes in menu order.
var Schemes = []Scheme{SchemeWASD, SchemeArrow, SchemeMouse}

// Mapping associates labels with key symbols. None is never mapped.
type Mapping map[gesture.Label]string

var mappings = map[Scheme]Mapping{
	SchemeWASD: {
		gesture.Open:  "w",
		gesture.Fist:  "s",
		gesture.Left:  "a",
		gesture.Right: "d",
	},
	SchemeArrow: {
		gesture.Open:  "up",
		gesture.Fist:  "down",
		gesture.Left:  "left",
		gesture.Right: "right",
	},
	SchemeMouse: {},
}

// ParseScheme resolves a scheme name case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range Schemes {
		if strings.EqualFold(strings.TrimSpace(name), string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// MappingFor returns a copy of the scheme's mapping.
func MappingFor(s Scheme) (Mapping, error) {
	m, ok := mappings[s]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, s)
	}
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, nil
}

// Key returns the key for a label, if any.
func (m Mapping) Key(l gesture.Label) (string, bool) {
	if l == gesture.None {
		return "", false
	}
	k, ok := m[l]
	return k, ok && k != ""
}

// SchemeNames lists the scheme names, for UI selectors.
func SchemeNames() []string {
	names := make([]string, len(Schemes))
	for i, s := range Schemes {
		names[i] = string(s)
	}
	return names
}
