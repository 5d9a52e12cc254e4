package tile

import "github.com/gogpu/hips/healpix"

// Config describes the tiles of one survey.
type Config struct {
	// URL is the survey root. It identifies the survey.
	URL string

	// TileSize is the width and height of a tile in texels.
	TileSize int

	// MinDepth is the shallowest depth the survey provides tiles for.
	MinDepth uint8

	// MaxDepth is the deepest depth the survey provides tiles for.
	MaxDepth uint8

	// Format is the storage format of the tiles.
	Format Format

	// LongitudeReversed is set when longitudes grow to the right on screen.
	LongitudeReversed bool

	// FITS holds the scaling of FITS surveys. It is refreshed from every
	// FITS tile received.
	FITS FITSMeta
}

// DefaultConfig returns a 512 texel PNG survey at url, 3 levels deep.
func DefaultConfig(url string) Config {
	return Config{
		URL:      url,
		TileSize: 512,
		MaxDepth: 3,
		Format:   FormatRGBA8,
		FITS:     DefaultFITSMeta(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.URL == "" {
		return &ConfigError{Field: "URL", Reason: "must not be empty"}
	}
	if c.TileSize < 8 {
		return &ConfigError{Field: "TileSize", Reason: "must be at least 8"}
	}
	if c.TileSize > 4096 {
		return &ConfigError{Field: "TileSize", Reason: "must be at most 4096"}
	}
	if c.TileSize&(c.TileSize-1) != 0 {
		return &ConfigError{Field: "TileSize", Reason: "must be power of 2"}
	}
	if c.MaxDepth > healpix.MaxDepth {
		return &ConfigError{Field: "MaxDepth", Reason: "must be at most 29"}
	}
	if c.MinDepth > c.MaxDepth {
		return &ConfigError{Field: "MinDepth", Reason: "must be at most MaxDepth"}
	}
	if c.Format < FormatRGBA8 || c.Format > FormatR8UI {
		return &ConfigError{Field: "Format", Reason: "unknown format"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "tile: invalid config." + e.Field + ": " + e.Reason
}
