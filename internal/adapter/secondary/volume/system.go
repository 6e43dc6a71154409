package volume

import (
	"fmt"
	"runtime"

	govolume "github.com/itchyny/volume-go"

	"volumectl/internal/domain"
)

const systemMaxLevel = 100

// SystemController implements domain.AudioControl with the host mixer
// (pactl/amixer, CoreAudio or WASAPI depending on GOOS).
// Only the media stream is addressable.
type SystemController struct {
	get func() (int, error)
	set func(int) error
}

// NewSystemController creates a controller bound to the default output device.
func NewSystemController() *SystemController {
	return &SystemController{
		get: govolume.GetVolume,
		set: govolume.SetVolume,
	}
}

func checkMedia(stream domain.Stream) error {
	if stream != domain.StreamMedia {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedStream, stream)
	}
	return nil
}

// ReadLevel returns the output volume (0-100).
func (s *SystemController) ReadLevel(stream domain.Stream) (int, error) {
	if err := checkMedia(stream); err != nil {
		return 0, err
	}
	return s.get()
}

// ReadMaxLevel returns 100.
func (s *SystemController) ReadMaxLevel(stream domain.Stream) (int, error) {
	if err := checkMedia(stream); err != nil {
		return 0, err
	}
	return systemMaxLevel, nil
}

// WriteLevel sets the output volume. The host mixer shows no UI for it.
func (s *SystemController) WriteLevel(stream domain.Stream, level int, _ domain.WriteFlags) error {
	if err := checkMedia(stream); err != nil {
		return err
	}
	if level < 0 || level > systemMaxLevel {
		return fmt.Errorf("volume must be between 0 and %d, got %d", systemMaxLevel, level)
	}
	return s.set(level)
}

// Platform reports runtime.GOOS.
func (s *SystemController) Platform() string {
	return runtime.GOOS
}
