package domain

import "math"

// MuteThreshold is the fraction below which a stream is reported as muted.
const MuteThreshold = 0.10

// Stream identifies the logical audio channel a service instance controls.
type Stream string

const (
	StreamMedia Stream = "media"
	StreamInput Stream = "input"
)

func (s Stream) String() string {
	return string(s)
}

// ParseStream converts user input into a Stream.
func ParseStream(s string) (Stream, error) {
	switch Stream(s) {
	case StreamMedia, "":
		return StreamMedia, nil
	case StreamInput:
		return StreamInput, nil
	default:
		return "", ErrUnsupportedStream
	}
}

// WriteFlags mirrors the platform's set-level flags (show UI, play sound).
type WriteFlags uint8

const (
	FlagNone      WriteFlags = 0
	FlagShowUI    WriteFlags = 1
	FlagPlaySound WriteFlags = 4
)

// VolumeSnapshot is a single reading of a stream's level.
// It is built per request and never stored.
type VolumeSnapshot struct {
	CurrentLevel int
	MaxLevel     int
}

// Fraction returns the level normalized to [0, 1]. A zero max yields 0.
func (v VolumeSnapshot) Fraction() float64 {
	return Fraction(v.CurrentLevel, v.MaxLevel)
}

// Percentage returns floor(fraction * 100).
func (v VolumeSnapshot) Percentage() int {
	return Percentage(v.Fraction())
}

// IsMuted reports whether the fraction is under MuteThreshold.
func (v VolumeSnapshot) IsMuted() bool {
	return IsMutedFraction(v.Fraction())
}

// MuteStatus is the result of a mute check.
type MuteStatus struct {
	Muted     bool
	Fraction  float64
	Threshold float64
}

// VolumeInfo combines a snapshot with its mute classification,
// the platform tag and the capture time in epoch milliseconds.
type VolumeInfo struct {
	Snapshot  VolumeSnapshot
	Muted     bool
	Threshold float64
	Platform  string
	Timestamp int64
}

// Settings is the persisted tool configuration. Volume state is not part of it.
type Settings struct {
	Backend        string `json:"backend" validate:"required,oneof=system osascript memory"`
	Stream         string `json:"stream" validate:"required,oneof=media input"`
	Addr           string `json:"addr" validate:"required,hostname_port"`
	LogLevel       string `json:"logLevel" validate:"required,oneof=error warn warning info debug trace"`
	MemoryMaxLevel int    `json:"memoryMaxLevel" validate:"gte=0,lte=1000"`
}

// DefaultSettings returns the configuration used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Backend:        "system",
		Stream:         string(StreamMedia),
		Addr:           "127.0.0.1:7070",
		LogLevel:       "warn",
		MemoryMaxLevel: 15,
	}
}

// Fraction normalizes current/max into [0, 1].
func Fraction(current, max int) float64 {
	if max <= 0 {
		return 0
	}
	return ClampFraction(float64(current) / float64(max))
}

// Percentage converts a fraction to a whole percentage, rounding down.
func Percentage(fraction float64) int {
	return int(math.Floor(fraction * 100))
}

// IsMutedFraction applies the level heuristic; it never consults a platform mute flag.
func IsMutedFraction(fraction float64) bool {
	return fraction < MuteThreshold
}

// ClampFraction limits f to [0, 1]. NaN maps to 0.
func ClampFraction(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// TargetLevel returns floor(clamp(fraction) * max).
func TargetLevel(fraction float64, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Floor(ClampFraction(fraction) * float64(max)))
}
