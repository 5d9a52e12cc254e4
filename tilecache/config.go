package tilecache

import (
	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/tile"
)

// Config describes the layout of an atlas.
type Config struct {
	// TileSize is the width and height of one slot in texels.
	TileSize int

	// PageSize is the width and height of one page in texels.
	// Must be a multiple of TileSize.
	PageSize int

	// Pages is the number of pages (texture array layers).
	Pages int

	// Format is the texel format of every page.
	Format tile.Format
}

// DefaultConfig returns an atlas of 3 pages holding 64 tiles each.
func DefaultConfig(tileSize int, f tile.Format) Config {
	return Config{
		TileSize: tileSize,
		PageSize: tileSize * 8,
		Pages:    3,
		Format:   f,
	}
}

// Capacity returns the number of slots the atlas holds.
func (c *Config) Capacity() int {
	if c.TileSize <= 0 {
		return 0
	}
	perSide := c.PageSize / c.TileSize
	return perSide * perSide * c.Pages
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TileSize < 1 {
		return &ConfigError{Field: "TileSize", Reason: "must be positive"}
	}
	if c.PageSize < c.TileSize {
		return &ConfigError{Field: "PageSize", Reason: "must be at least TileSize"}
	}
	if c.PageSize > 8192 {
		return &ConfigError{Field: "PageSize", Reason: "must be at most 8192"}
	}
	if c.PageSize%c.TileSize != 0 {
		return &ConfigError{Field: "PageSize", Reason: "must be a multiple of TileSize"}
	}
	if c.Pages < 1 {
		return &ConfigError{Field: "Pages", Reason: "must be at least 1"}
	}
	if c.Pages > 256 {
		return &ConfigError{Field: "Pages", Reason: "must be at most 256"}
	}
	if c.Capacity() <= healpix.NumBaseCells {
		return &ConfigError{Field: "Pages", Reason: "atlas must hold more than the 12 base cells"}
	}
	return nil
}
