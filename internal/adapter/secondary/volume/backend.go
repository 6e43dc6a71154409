package volume

import (
	"fmt"

	"volumectl/internal/domain"
)

// New returns the AudioControl for the named backend.
func New(settings domain.Settings) (domain.AudioControl, error) {
	switch settings.Backend {
	case "system", "":
		return NewSystemController(), nil
	case "osascript":
		return NewAppleScriptController(), nil
	case "memory":
		return NewMemoryController(settings.MemoryMaxLevel), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", settings.Backend)
	}
}
