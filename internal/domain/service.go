package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SettingsService provides pure validation logic for the tool configuration.
type SettingsService struct {
	validate *validator.Validate
}

// NewSettingsService creates a new settings service.
func NewSettingsService() *SettingsService {
	return &SettingsService{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateAndNormalize fills empty fields from DefaultSettings and validates the result.
func (s *SettingsService) ValidateAndNormalize(settings Settings) (Settings, error) {
	def := DefaultSettings()
	if settings.Backend == "" {
		settings.Backend = def.Backend
	}
	if settings.Stream == "" {
		settings.Stream = def.Stream
	}
	if settings.Addr == "" {
		settings.Addr = def.Addr
	}
	if settings.LogLevel == "" {
		settings.LogLevel = def.LogLevel
	}
	settings.Backend = strings.ToLower(settings.Backend)
	settings.LogLevel = strings.ToLower(settings.LogLevel)

	if err := s.validate.Struct(settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, describeValidation(err))
	}
	return settings, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "hostname_port":
		return field + " must be host:port"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation '%s'", field, fe.Tag())
	}
}
