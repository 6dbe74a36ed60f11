package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHex       = errors.New("hex outside board bounds")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrUnitDead         = errors.New("unit is dead")
	ErrNotOwned         = errors.New("unit not owned by player")
	ErrEpisodeOver      = errors.New("episode is over")
	ErrInvalidPlayer    = errors.New("invalid player ID")
	ErrHexOccupied      = errors.New("hex already occupied")
	ErrEmptyHexPool     = errors.New("deployment hex pool is empty")
	ErrObjectiveUnknown = errors.New("objective not found")
)

// ConfigError reports a required key or field absent from loaded data.
// Configuration errors are fatal at the point of first use and are never
// defaulted away.
type ConfigError struct {
	Field   string
	Context string
}

func (e *ConfigError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("missing required config field %q", e.Field)
	}
	return fmt.Sprintf("missing required config field %q (%s)", e.Field, e.Context)
}

// MissingField builds a ConfigError with surrounding context
func MissingField(field, context string) error {
	return &ConfigError{Field: field, Context: context}
}
