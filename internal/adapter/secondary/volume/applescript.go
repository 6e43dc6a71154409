package volume

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"volumectl/internal/domain"
)

// osascriptMaxLevel is the upper bound of macOS volume settings.
const osascriptMaxLevel = 100

// AppleScriptController implements domain.AudioControl using macOS osascript.
// This is a secondary adapter.
type AppleScriptController struct {
	run func(script string) ([]byte, error)
}

// NewAppleScriptController creates a new AppleScript audio controller.
func NewAppleScriptController() *AppleScriptController {
	return &AppleScriptController{run: runOsascript}
}

func runOsascript(script string) ([]byte, error) {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("osascript failed: %w, output: %s", err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

func settingName(stream domain.Stream) (string, error) {
	switch stream {
	case domain.StreamMedia:
		return "output", nil
	case domain.StreamInput:
		return "input", nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
}

// ReadLevel returns the current output or input volume (0-100).
func (a *AppleScriptController) ReadLevel(stream domain.Stream) (int, error) {
	name, err := settingName(stream)
	if err != nil {
		return 0, err
	}
	output, err := a.run(fmt.Sprintf("%s volume of (get volume settings)", name))
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(output))
	level, err := strconv.Atoi(text)
	if err != nil {
		// "missing value" is reported when the device has no volume control.
		return 0, fmt.Errorf("unexpected %s volume %q", name, text)
	}
	return level, nil
}

// ReadMaxLevel returns 100; macOS volume settings are percentages.
func (a *AppleScriptController) ReadMaxLevel(stream domain.Stream) (int, error) {
	if _, err := settingName(stream); err != nil {
		return 0, err
	}
	return osascriptMaxLevel, nil
}

// WriteLevel sets the volume using osascript. Flags have no osascript equivalent.
func (a *AppleScriptController) WriteLevel(stream domain.Stream, level int, _ domain.WriteFlags) error {
	name, err := settingName(stream)
	if err != nil {
		return err
	}
	if level < 0 || level > osascriptMaxLevel {
		return fmt.Errorf("volume must be between 0 and %d, got %d", osascriptMaxLevel, level)
	}
	_, err = a.run(fmt.Sprintf("set volume %s volume %d", name, level))
	return err
}

// Platform reports the host tag.
func (a *AppleScriptController) Platform() string {
	return "darwin"
}
