package usecase_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"volumectl/internal/adapter/secondary/volume"
	"volumectl/internal/domain"
	"volumectl/internal/usecase"
)

func newUseCase(t *testing.T, control domain.AudioControl, opts ...usecase.Option) usecase.VolumeUseCase {
	t.Helper()
	uc, err := usecase.NewVolumeUseCase(control, domain.StreamMedia, opts...)
	if err != nil {
		t.Fatalf("NewVolumeUseCase: %v", err)
	}
	return uc
}

// writeFailer fails only on writes.
type writeFailer struct {
	*volume.MemoryController
	err error
}

func (w writeFailer) WriteLevel(domain.Stream, int, domain.WriteFlags) error {
	return w.err
}

// maxCounter counts max-level reads.
type maxCounter struct {
	*volume.MemoryController
	reads int
}

func (m *maxCounter) ReadMaxLevel(s domain.Stream) (int, error) {
	m.reads++
	return m.MemoryController.ReadMaxLevel(s)
}

func TestNewVolumeUseCase_RequiresControl(t *testing.T) {
	t.Parallel()
	if _, err := usecase.NewVolumeUseCase(nil, domain.StreamMedia); err == nil {
		t.Fatal("expected error for nil control")
	}
}

func TestGetVolume(t *testing.T) {
	t.Parallel()
	mem := volume.NewMemoryController(15)
	mem.SetLevel(domain.StreamMedia, 9)
	uc := newUseCase(t, mem)

	snap, err := uc.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume: %v", err)
	}
	if snap.CurrentLevel != 9 || snap.MaxLevel != 15 {
		t.Errorf("snapshot = %+v, want 9/15", snap)
	}
	if snap.Percentage() != 60 {
		t.Errorf("Percentage() = %d, want 60", snap.Percentage())
	}
}

func TestGetVolume_ZeroMax(t *testing.T) {
	t.Parallel()
	mem := volume.NewMemoryController(0)
	mem.SetLevel(domain.StreamMedia, 3)
	uc := newUseCase(t, mem)

	snap, err := uc.GetVolume()
	if err != nil {
		t.Fatalf("GetVolume: %v", err)
	}
	if snap.Fraction() != 0 || snap.Percentage() != 0 {
		t.Errorf("zero max should give 0, got fraction=%v percentage=%d", snap.Fraction(), snap.Percentage())
	}
}

func TestSetVolume_TargetsAndClamps(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		fraction float64
		want     int
	}{
		{"half", 0.5, 5},
		{"zero", 0, 0},
		{"negative behaves like zero", -0.5, 0},
		{"above one behaves like one", 1.7, 10},
		{"one", 1, 10},
		{"rounds down", 0.39, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mem := volume.NewMemoryController(10)
			mem.SetLevel(domain.StreamMedia, 7)
			uc := newUseCase(t, mem)

			if err := uc.SetVolume(tc.fraction); err != nil {
				t.Fatalf("SetVolume(%v): %v", tc.fraction, err)
			}
			snap, err := uc.GetVolume()
			if err != nil {
				t.Fatalf("GetVolume: %v", err)
			}
			if snap.CurrentLevel != tc.want {
				t.Errorf("level after SetVolume(%v) = %d, want %d", tc.fraction, snap.CurrentLevel, tc.want)
			}
			if mem.LastFlags() != domain.FlagNone {
				t.Errorf("flags = %v, want none", mem.LastFlags())
			}
		})
	}
}

func TestSetVolume_ReadsMaxEveryCall(t *testing.T) {
	t.Parallel()
	mem := &maxCounter{MemoryController: volume.NewMemoryController(10)}
	uc := newUseCase(t, mem)

	if err := uc.SetVolume(0.5); err != nil {
		t.Fatal(err)
	}
	mem.SetMaxLevel(20)
	if err := uc.SetVolume(0.5); err != nil {
		t.Fatal(err)
	}
	if mem.reads != 2 {
		t.Errorf("max level read %d times, want 2", mem.reads)
	}
	if level, _ := mem.ReadLevel(domain.StreamMedia); level != 10 {
		t.Errorf("level = %d, want 10 after max changed to 20", level)
	}
}

func TestIsMuted(t *testing.T) {
	t.Parallel()
	tests := []struct {
		level     int
		wantMuted bool
	}{
		{0, true},
		{9, true},
		{10, false},
		{55, false},
	}
	for _, tc := range tests {
		mem := volume.NewMemoryController(100)
		mem.SetLevel(domain.StreamMedia, tc.level)
		status, err := newUseCase(t, mem).IsMuted()
		if err != nil {
			t.Fatalf("IsMuted: %v", err)
		}
		if status.Muted != tc.wantMuted {
			t.Errorf("level %d: Muted = %t, want %t", tc.level, status.Muted, tc.wantMuted)
		}
		if status.Threshold != domain.MuteThreshold {
			t.Errorf("Threshold = %v, want %v", status.Threshold, domain.MuteThreshold)
		}
	}
}

func TestGetVolumeInfo_ConsistentWithOtherOperations(t *testing.T) {
	t.Parallel()
	mem := volume.NewMemoryController(15)
	mem.SetLevel(domain.StreamMedia, 1)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	uc := newUseCase(t, mem, usecase.WithClock(func() time.Time { return at }))

	info, err := uc.GetVolumeInfo()
	if err != nil {
		t.Fatalf("GetVolumeInfo: %v", err)
	}
	snap, _ := uc.GetVolume()
	status, _ := uc.IsMuted()

	if info.Snapshot != snap {
		t.Errorf("info snapshot %+v != GetVolume %+v", info.Snapshot, snap)
	}
	if info.Muted != status.Muted || info.Threshold != status.Threshold {
		t.Errorf("info mute (%t, %v) != IsMuted (%t, %v)", info.Muted, info.Threshold, status.Muted, status.Threshold)
	}
	if info.Platform != "memory" {
		t.Errorf("Platform = %q, want memory", info.Platform)
	}
	if info.Timestamp != at.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", info.Timestamp, at.UnixMilli())
	}
}

func TestGetVolumeInfo_TimestampTakenPerCall(t *testing.T) {
	t.Parallel()
	mem := volume.NewMemoryController(15)
	tick := time.UnixMilli(1000)
	uc := newUseCase(t, mem, usecase.WithClock(func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}))

	first, err := uc.GetVolumeInfo()
	if err != nil {
		t.Fatal(err)
	}
	second, err := uc.GetVolumeInfo()
	if err != nil {
		t.Fatal(err)
	}
	if second.Timestamp <= first.Timestamp {
		t.Errorf("timestamps not refreshed: %d then %d", first.Timestamp, second.Timestamp)
	}
}

func TestOperations_WrapPlatformFailures(t *testing.T) {
	t.Parallel()
	cause := errors.New("stream not supported")
	mem := volume.NewMemoryController(15)
	mem.FailWith(cause)
	uc := newUseCase(t, mem)

	calls := map[string]func() error{
		"GetVolume":     func() error { _, err := uc.GetVolume(); return err },
		"SetVolume":     func() error { return uc.SetVolume(0.3) },
		"IsMuted":       func() error { _, err := uc.IsMuted(); return err },
		"GetVolumeInfo": func() error { _, err := uc.GetVolumeInfo(); return err },
	}
	for name, call := range calls {
		err := call()
		if !domain.IsPlatformError(err) {
			t.Errorf("%s: expected PlatformError, got %v", name, err)
			continue
		}
		if !errors.Is(err, cause) {
			t.Errorf("%s: cause lost: %v", name, err)
		}
		if !strings.Contains(err.Error(), "stream not supported") {
			t.Errorf("%s: message %q lacks cause text", name, err)
		}
	}
}

func TestSetVolume_WriteFailure(t *testing.T) {
	t.Parallel()
	mem := writeFailer{MemoryController: volume.NewMemoryController(10), err: errors.New("value rejected")}
	uc := newUseCase(t, mem)

	err := uc.SetVolume(0.5)
	if !domain.IsPlatformError(err) || err.Error() != "value rejected" {
		t.Fatalf("expected PlatformError carrying the cause, got %v", err)
	}
}
