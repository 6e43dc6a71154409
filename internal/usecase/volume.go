package usecase

import (
	"errors"
	"time"

	"volumectl/internal/domain"
	"volumectl/internal/logging"
)

// VolumeUseCase is the primary port for volume operations.
type VolumeUseCase interface {
	GetVolume() (domain.VolumeSnapshot, error)
	SetVolume(fraction float64) error
	IsMuted() (domain.MuteStatus, error)
	GetVolumeInfo() (domain.VolumeInfo, error)
}

// volumeInteractor implements VolumeUseCase on top of an AudioControl.
// It keeps no state between calls and performs no locking.
type volumeInteractor struct {
	control domain.AudioControl
	stream  domain.Stream
	now     func() time.Time
	log     *logging.Logger
}

// Option customizes a volume use case.
type Option func(*volumeInteractor)

// WithClock overrides the time source used for info timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *volumeInteractor) {
		v.now = now
	}
}

// NewVolumeUseCase creates a volume use case for one stream.
// The control is injected and owned by the caller.
func NewVolumeUseCase(control domain.AudioControl, stream domain.Stream, opts ...Option) (VolumeUseCase, error) {
	if control == nil {
		return nil, errors.New("audio control is required")
	}
	if stream == "" {
		stream = domain.StreamMedia
	}
	v := &volumeInteractor{
		control: control,
		stream:  stream,
		now:     time.Now,
		log:     logging.Named("VolumeService"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

func (v *volumeInteractor) read(op string) (domain.VolumeSnapshot, error) {
	current, err := v.control.ReadLevel(v.stream)
	if err != nil {
		return domain.VolumeSnapshot{}, domain.NewPlatformError(op, err)
	}
	max, err := v.control.ReadMaxLevel(v.stream)
	if err != nil {
		return domain.VolumeSnapshot{}, domain.NewPlatformError(op, err)
	}
	return domain.VolumeSnapshot{CurrentLevel: current, MaxLevel: max}, nil
}

// GetVolume reads the current and maximum level of the stream.
func (v *volumeInteractor) GetVolume() (domain.VolumeSnapshot, error) {
	snap, err := v.read("getVolume")
	if err != nil {
		v.log.Errorf("Error getting volume: %v", err)
		return domain.VolumeSnapshot{}, err
	}
	v.log.Debugf("Current volume: %d/%d (%.1f%%)", snap.CurrentLevel, snap.MaxLevel, snap.Fraction()*100)
	return snap, nil
}

// SetVolume clamps fraction to [0, 1] and writes floor(fraction * max).
// The max level is read on every call.
func (v *volumeInteractor) SetVolume(fraction float64) error {
	fraction = domain.ClampFraction(fraction)

	max, err := v.control.ReadMaxLevel(v.stream)
	if err != nil {
		v.log.Errorf("Error setting volume: %v", err)
		return domain.NewPlatformError("setVolume", err)
	}
	target := domain.TargetLevel(fraction, max)

	if err := v.control.WriteLevel(v.stream, target, domain.FlagNone); err != nil {
		v.log.Errorf("Error setting volume: %v", err)
		return domain.NewPlatformError("setVolume", err)
	}

	v.log.Debugf("Volume set to: %d/%d (%.1f%%)", target, max, fraction*100)
	return nil
}

// IsMuted classifies the stream as muted when its fraction is below domain.MuteThreshold.
func (v *volumeInteractor) IsMuted() (domain.MuteStatus, error) {
	snap, err := v.read("isMuted")
	if err != nil {
		v.log.Errorf("Error checking mute status: %v", err)
		return domain.MuteStatus{}, err
	}
	status := domain.MuteStatus{
		Muted:     snap.IsMuted(),
		Fraction:  snap.Fraction(),
		Threshold: domain.MuteThreshold,
	}
	v.log.Debugf("Mute check: %t (volume: %.1f%%)", status.Muted, status.Fraction*100)
	return status, nil
}

// GetVolumeInfo returns every derived field from a single reading.
func (v *volumeInteractor) GetVolumeInfo() (domain.VolumeInfo, error) {
	snap, err := v.read("getVolumeInfo")
	if err != nil {
		v.log.Errorf("Error getting volume info: %v", err)
		return domain.VolumeInfo{}, err
	}
	info := domain.VolumeInfo{
		Snapshot:  snap,
		Muted:     snap.IsMuted(),
		Threshold: domain.MuteThreshold,
		Platform:  v.control.Platform(),
		Timestamp: v.now().UnixMilli(),
	}
	v.log.Debugf("Volume info: %d/%d (%.1f%%)", snap.CurrentLevel, snap.MaxLevel, snap.Fraction()*100)
	return info, nil
}
