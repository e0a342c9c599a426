package config

import "errors"

// Error kinds surfaced by the top-level driver (§7). Each is a distinct
// sentinel so callers can classify failures with errors.Is instead of
// string matching, the defect spec.md calls out in the source this
// project was distilled from.
var (
	// ErrCorpusUnreadable is returned when the corpus file cannot be
	// opened or read.
	ErrCorpusUnreadable = errors.New("corpus unreadable")

	// ErrPropertyMismatch is returned when a query session's processor
	// configuration disagrees with the properties an index was built
	// with.
	ErrPropertyMismatch = errors.New("index properties mismatch")
)

// ConfigurationError reports an invalid configuration value caught at
// parse time. It is always fatal.
type ConfigurationError struct {
	Field string
	Value any
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Field + ": " + e.Msg
}

// NewConfigurationError builds a ConfigurationError.
func NewConfigurationError(field string, value any, msg string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Msg: msg}
}
