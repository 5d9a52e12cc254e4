package hips

import (
	"errors"
	"fmt"
)

var (
	// ErrSurveyNotFound is returned when no survey has the requested URL.
	ErrSurveyNotFound = errors.New("hips: survey not found")

	// ErrLayerNotFound is returned when no layer has the requested name.
	ErrLayerNotFound = errors.New("hips: layer not found")
)

// ConfigError describes an invalid layer list or layer setting.
// No state is modified when a ConfigError is returned.
type ConfigError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("hips: invalid %s: %s", e.Field, e.Reason)
}
