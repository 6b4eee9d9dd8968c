// Package rounding defines the rounding policy shared by every operation that
// may lose information: division, right shifts, rounding to a multiple and
// base conversion.
package rounding

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how an inexact result is resolved to a representable value.
type Mode uint8

const (
	// Down rounds toward zero.
	Down Mode = iota
	// Up rounds away from zero.
	Up
	// Floor rounds toward negative infinity.
	Floor
	// Ceiling rounds toward positive infinity.
	Ceiling
	// Nearest rounds to the nearest value, ties to even.
	Nearest
	// Exact requires the result to be exact.
	Exact
)

// ErrInexact reports that Exact was requested for an inexact operation.
var ErrInexact = errors.New("inexact result")

var modeNames = [...]string{
	Down:    "Down",
	Up:      "Up",
	Floor:   "Floor",
	Ceiling: "Ceiling",
	Nearest: "Nearest",
	Exact:   "Exact",
}

// Modes returns every rounding mode in declaration order.
func Modes() []Mode {
	return []Mode{Down, Up, Floor, Ceiling, Nearest, Exact}
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode converts a case-insensitive mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	name := strings.TrimSpace(s)
	for i, n := range modeNames {
		if strings.EqualFold(name, n) {
			return Mode(i), nil //nolint:gosec // G115: index bounded by modeNames
		}
	}
	return Down, fmt.Errorf("invalid rounding mode %q (expected down|up|floor|ceiling|nearest|exact)", s)
}

// Neg returns the mode that rounds the negation of a value the same way m
// rounds the value itself. Floor and Ceiling swap; the rest are symmetric.
func (m Mode) Neg() Mode {
	switch m {
	case Floor:
		return Ceiling
	case Ceiling:
		return Floor
	default:
		return m
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, fmt.Errorf("invalid rounding mode %d", uint8(m))
	}
	return []byte(strings.ToLower(modeNames[m])), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
