package output

import (
	"fmt"
	"os"
	"strings"
)

// ColorMode decides when output is colored
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorDisable
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorDisable:
		return "disable"
	default:
		return "auto"
	}
}

// ParseColorMode parses always, auto or disable. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "disable":
		return ColorDisable, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (want always, auto or disable)", s)
	}
}

// Enabled reports whether to color output going to a terminal (or not)
func (m ColorMode) Enabled(isTerminal bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorDisable:
		return false
	default:
		_, noColor := os.LookupEnv("NO_COLOR")
		return isTerminal && !noColor
	}
}
