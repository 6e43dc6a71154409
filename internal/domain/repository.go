package domain

// AudioControl is a secondary port that reads and writes a stream's level.
// This interface is defined in the domain layer and implemented by adapters.
type AudioControl interface {
	ReadLevel(stream Stream) (int, error)
	ReadMaxLevel(stream Stream) (int, error)
	WriteLevel(stream Stream, level int, flags WriteFlags) error
	// Platform returns the tag reported in volume info responses.
	Platform() string
}

// SettingsRepository is a secondary port that persists the tool configuration.
type SettingsRepository interface {
	Load() (Settings, error)
	Save(settings Settings) error
}
