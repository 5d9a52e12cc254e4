package tilecache

import "errors"

// Sentinel errors for the tilecache package.
var (
	// ErrAtlasFull is returned by Push when every slot is protected from
	// eviction. The tile is dropped.
	ErrAtlasFull = errors.New("tilecache: every slot is protected, tile dropped")

	// ErrPayloadMismatch is returned when a payload does not fit the atlas
	// slot size or texel format.
	ErrPayloadMismatch = errors.New("tilecache: payload does not match atlas layout")

	// ErrNotResident is returned when no resident tile covers a position.
	ErrNotResident = errors.New("tilecache: no resident tile")
)

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "tilecache: invalid config." + e.Field + ": " + e.Reason
}
