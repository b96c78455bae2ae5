package codec

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Mode selects how much the codec trusts its host environment.
type Mode int

const (
	// ModeModern assumes every preferred host facility exists and skips probes.
	ModeModern Mode = iota
	// ModeLegacy probes each facility, including vendor-prefixed fallbacks.
	ModeLegacy
)

func (m Mode) String() string {
	switch m {
	case ModeModern:
		return "modern"
	case ModeLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode converts a configuration value to a Mode. The empty string means modern.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "modern", "esm":
		return ModeModern, nil
	case "legacy":
		return ModeLegacy, nil
	default:
		return ModeModern, fmt.Errorf("unknown codec mode %q", s)
	}
}

var currentMode atomic.Int32

// SetMode sets the process-wide mode. Call it once during startup.
func SetMode(m Mode) {
	currentMode.Store(int32(m))
}

// CurrentMode returns the process-wide mode.
func CurrentMode() Mode {
	return Mode(currentMode.Load())
}
