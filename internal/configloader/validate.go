package configloader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/gosyntax/pkg/config"
	"github.com/yaklabco/gosyntax/pkg/store"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "store.level").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// Validate checks a configuration and returns every problem found joined
// into one error, or nil.
func Validate(cfg *config.Config) error {
	var errs []error

	switch cfg.Flavor {
	case config.FlavorCommonMark, config.FlavorGFM:
	default:
		errs = append(errs, invalid("flavor", cfg.Flavor, "must be commonmark or gfm"))
	}

	if !store.ValidLevel(cfg.Store.Level) {
		errs = append(errs, invalid("store.level", cfg.Store.Level, "must be fastest, default, better or best"))
	}

	switch cfg.Color {
	case config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		errs = append(errs, invalid("color", cfg.Color, "must be auto, always or never"))
	}

	switch cfg.Format {
	case config.FormatTree, config.FormatYAML:
	default:
		errs = append(errs, invalid("format", cfg.Format, "must be tree or yaml"))
	}

	return errors.Join(errs...)
}

func invalid(field string, value any, msg string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("invalid value %q: %s", fmt.Sprint(value), msg),
	}
}
