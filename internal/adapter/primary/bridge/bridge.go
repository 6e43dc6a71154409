// Package bridge routes named script requests to the volume use case and
// formats their results the way the script side expects them.
package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"volumectl/internal/domain"
	"volumectl/internal/logging"
	"volumectl/internal/usecase"
)

// Action names understood by the dispatcher.
const (
	ActionGetVolume     = "getVolume"
	ActionSetVolume     = "setVolume"
	ActionIsMuted       = "isMuted"
	ActionGetVolumeInfo = "getVolumeInfo"
)

// SetVolumeAck is the success payload of setVolume.
const SetVolumeAck = "Volume set successfully"

// ErrUnhandledAction is returned by Call for action names the dispatcher does not know.
var ErrUnhandledAction = errors.New("unhandled action")

// Actions lists every supported action in a stable order.
func Actions() []string {
	return []string{ActionGetVolume, ActionSetVolume, ActionIsMuted, ActionGetVolumeInfo}
}

// Callback receives the outcome of an executed action. Exactly one method is called.
type Callback interface {
	Success(result any)
	Error(message string)
}

// CallbackFuncs adapts two functions to Callback.
type CallbackFuncs struct {
	OnSuccess func(result any)
	OnError   func(message string)
}

func (c CallbackFuncs) Success(result any) {
	if c.OnSuccess != nil {
		c.OnSuccess(result)
	}
}

func (c CallbackFuncs) Error(message string) {
	if c.OnError != nil {
		c.OnError(message)
	}
}

// Failure is an action error carrying the message delivered to the script caller.
type Failure struct {
	Action  string
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// VolumeResult is the getVolume payload.
type VolumeResult struct {
	Volume           float64 `json:"volume"`
	VolumePercentage int     `json:"volumePercentage"`
	CurrentVolume    int     `json:"currentVolume"`
	MaxVolume        int     `json:"maxVolume"`
}

// MuteResult is the isMuted payload.
type MuteResult struct {
	IsMuted   bool    `json:"isMuted"`
	Volume    float64 `json:"volume"`
	Threshold float64 `json:"threshold"`
}

// InfoResult is the getVolumeInfo payload.
type InfoResult struct {
	Volume           float64 `json:"volume"`
	IsMuted          bool    `json:"isMuted"`
	VolumePercentage int     `json:"volumePercentage"`
	CurrentVolume    int     `json:"currentVolume"`
	MaxVolume        int     `json:"maxVolume"`
	Threshold        float64 `json:"threshold"`
	Platform         string  `json:"platform"`
	Timestamp        int64   `json:"timestamp"`
}

// NewVolumeResult converts a snapshot into its wire form.
func NewVolumeResult(snap domain.VolumeSnapshot) VolumeResult {
	return VolumeResult{
		Volume:           snap.Fraction(),
		VolumePercentage: snap.Percentage(),
		CurrentVolume:    snap.CurrentLevel,
		MaxVolume:        snap.MaxLevel,
	}
}

// NewMuteResult converts a mute status into its wire form.
func NewMuteResult(status domain.MuteStatus) MuteResult {
	return MuteResult{
		IsMuted:   status.Muted,
		Volume:    status.Fraction,
		Threshold: status.Threshold,
	}
}

// NewInfoResult converts volume info into its wire form.
func NewInfoResult(info domain.VolumeInfo) InfoResult {
	return InfoResult{
		Volume:           info.Snapshot.Fraction(),
		IsMuted:          info.Muted,
		VolumePercentage: info.Snapshot.Percentage(),
		CurrentVolume:    info.Snapshot.CurrentLevel,
		MaxVolume:        info.Snapshot.MaxLevel,
		Threshold:        info.Threshold,
		Platform:         info.Platform,
		Timestamp:        info.Timestamp,
	}
}

// Dispatcher translates action names and positional JSON arguments into use case calls.
type Dispatcher struct {
	usecase usecase.VolumeUseCase
	log     *logging.Logger
}

// NewDispatcher creates a dispatcher over uc.
func NewDispatcher(uc usecase.VolumeUseCase) *Dispatcher {
	return &Dispatcher{
		usecase: uc,
		log:     logging.Named("Bridge"),
	}
}

// Execute runs action and reports the outcome through cb.
// It returns false, without calling cb, when the action is not recognized.
func (d *Dispatcher) Execute(action string, args json.RawMessage, cb Callback) bool {
	result, err := d.Call(action, args)
	if errors.Is(err, ErrUnhandledAction) {
		d.log.Warnf("unhandled action %q", action)
		return false
	}
	if err != nil {
		cb.Error(err.Error())
		return true
	}
	cb.Success(result)
	return true
}

// Call runs action synchronously. Errors other than ErrUnhandledAction are *Failure.
func (d *Dispatcher) Call(action string, args json.RawMessage) (any, error) {
	d.log.Tracef("dispatch %s args=%s", action, string(args))
	switch action {
	case ActionGetVolume:
		snap, err := d.usecase.GetVolume()
		if err != nil {
			return nil, fail(action, "Failed to get volume", err)
		}
		return NewVolumeResult(snap), nil
	case ActionSetVolume:
		fraction, err := FloatArg(args, 0)
		if err != nil {
			return nil, fail(action, "Failed to set volume", err)
		}
		if err := d.usecase.SetVolume(fraction); err != nil {
			return nil, fail(action, "Failed to set volume", err)
		}
		return SetVolumeAck, nil
	case ActionIsMuted:
		status, err := d.usecase.IsMuted()
		if err != nil {
			return nil, fail(action, "Failed to check mute status", err)
		}
		return NewMuteResult(status), nil
	case ActionGetVolumeInfo:
		info, err := d.usecase.GetVolumeInfo()
		if err != nil {
			return nil, fail(action, "Failed to get volume info", err)
		}
		return NewInfoResult(info), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnhandledAction, action)
	}
}

func fail(action, prefix string, err error) error {
	return &Failure{
		Action:  action,
		Message: prefix + ": " + err.Error(),
		Err:     err,
	}
}

// FloatArg reads the positional argument at index from a JSON array.
// Numbers and numeric strings are accepted.
func FloatArg(args json.RawMessage, index int) (float64, error) {
	var list []json.RawMessage
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return 0, fmt.Errorf("arguments must be a JSON array: %w", err)
		}
	}
	if index >= len(list) {
		return 0, domain.ArgumentError(index, domain.ErrMissingArgument)
	}

	raw := bytes.TrimSpace(list[index])
	if bytes.Equal(raw, []byte("null")) {
		return 0, domain.ArgumentError(index, domain.ErrInvalidArgument)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return 0, domain.ArgumentError(index, domain.ErrInvalidArgument)
}
