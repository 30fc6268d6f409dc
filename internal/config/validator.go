package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers planit-specific config rules.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("min_duration", validateMinDuration); err != nil {
		return fmt.Errorf("failed to register min_duration validator: %w", err)
	}
	return nil
}

// validateMinDuration checks a time.Duration field against a duration param.
func validateMinDuration(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.Int64 {
		return false
	}
	floor, err := time.ParseDuration(fl.Param())
	if err != nil {
		return false
	}
	return time.Duration(fl.Field().Int()) >= floor
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustomValidators(v); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if c.ScheduleRefreshInterval > c.TripPollInterval && c.TripPollInterval > 0 {
		return errors.New("schedule_refresh_interval must not exceed trip_poll_interval")
	}
	return nil
}

func formatValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatSingleValidationError(e))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "min_duration":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
