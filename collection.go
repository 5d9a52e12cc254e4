package hips

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/projection"
	"github.com/gogpu/hips/render"
	"github.com/gogpu/hips/tile"
	"github.com/gogpu/hips/tilecache"
	"github.com/gogpu/hips/view"
)

// Collection is an ordered stack of layers drawn from a set of surveys.
// Several layers may show the same survey; each survey URL has one atlas.
//
// A Collection is not safe for concurrent use. Tiles resolved on other
// goroutines are handed over with AddResolvedTiles and SetAvailableTiles
// from the frame loop.
type Collection struct {
	opts options

	surveys map[string]*Survey
	order   []string // survey URLs in first-use order

	layers []string
	meta   map[string]LayerMeta
	urls   map[string]string

	mostPrecise string

	proj      projection.Projection
	rayTracer *render.RayTracer
	modes     *render.ModeSwitch

	rtVertices []byte
	rtIndices  []byte
	rtBuilds   int
	rtDirty    bool

	frames uint64
}

// NewCollection creates an empty collection.
func NewCollection(opts ...Option) *Collection {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection{
		opts:      o,
		surveys:   make(map[string]*Survey),
		meta:      make(map[string]LayerMeta),
		urls:      make(map[string]string),
		proj:      o.projection,
		rayTracer: render.NewRayTracer(o.projection),
		modes:     render.NewModeSwitch(),
	}
}

func (c *Collection) logger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}

// cacheLogger is the logger handed to the tile caches. Without an explicit
// logger it follows SetLogger.
func (c *Collection) cacheLogger() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return sharedLogger()
}

// SetImageSurveys replaces the layer stack.
//
// Surveys no longer referenced are released, surveys still referenced keep
// their tiles, and new ones start empty. The URLs of the new surveys are
// returned in layer order, so their base tiles can be requested.
//
// The whole list is checked first. On a *ConfigError nothing changes.
func (c *Collection) SetImageSurveys(specs []LayerSpec) ([]string, error) {
	names := make([]string, len(specs))
	seen := make(map[string]struct{}, len(specs))
	configs := make(map[string]tile.Config)
	for i, spec := range specs {
		name := NormalizeLayer(spec.Layer)
		if name == "" {
			return nil, &ConfigError{Field: "layer", Reason: fmt.Sprintf("layer %d has an empty name", i)}
		}
		if _, dup := seen[name]; dup {
			return nil, &ConfigError{Field: "layer", Reason: fmt.Sprintf("%q is used by more than one layer", name)}
		}
		seen[name] = struct{}{}
		names[i] = name

		cfg := spec.Survey
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigError{Field: "survey", Reason: fmt.Sprintf("layer %q: %v", name, err)}
		}
		if err := spec.Meta.Validate(cfg.Format); err != nil {
			return nil, &ConfigError{Field: "meta", Reason: fmt.Sprintf("layer %q: %v", name, err)}
		}
		if prev, ok := configs[cfg.URL]; ok && !sameSurvey(prev, cfg) {
			return nil, &ConfigError{Field: "survey", Reason: fmt.Sprintf("%s is declared with two configurations", cfg.URL)}
		}
		configs[cfg.URL] = cfg
	}

	// Build the new surveys before touching any state.
	order := make([]string, 0, len(configs))
	created := make(map[string]*Survey)
	for _, spec := range specs {
		url := spec.Survey.URL
		if slices.Contains(order, url) {
			continue
		}
		order = append(order, url)
		if old, ok := c.surveys[url]; ok && sameLayout(old.cfg, spec.Survey) {
			continue
		}
		s, err := newSurvey(spec.Survey, &c.opts, c.cacheLogger())
		if err != nil {
			return nil, &ConfigError{Field: "survey", Reason: fmt.Sprintf("%s: %v", url, err)}
		}
		created[url] = s
	}

	for _, url := range c.order {
		if _, ok := configs[url]; ok {
			if _, replaced := created[url]; !replaced {
				continue
			}
		}
		delete(c.surveys, url)
		c.logger().Info("hips: survey removed", slog.String("url", url))
	}

	var added []string
	for _, url := range order {
		if s, ok := created[url]; ok {
			c.surveys[url] = s
			added = append(added, url)
			c.logger().Info("hips: survey created",
				slog.String("url", url),
				slog.Int("tile_size", s.cfg.TileSize),
				slog.String("format", s.cfg.Format.String()),
				slog.Int("max_depth", int(s.cfg.MaxDepth)))
			continue
		}
		// Kept surveys take the new depth range and orientation; the
		// FITS metadata comes from their tiles.
		s := c.surveys[url]
		fits := s.cfg.FITS
		s.cfg = configs[url]
		s.cfg.FITS = fits
	}
	c.order = order

	c.layers = names
	clear(c.meta)
	clear(c.urls)
	c.mostPrecise = ""
	var best uint8
	for i, spec := range specs {
		c.meta[names[i]] = spec.Meta
		c.urls[names[i]] = spec.Survey.URL
		if c.mostPrecise == "" || spec.Survey.MaxDepth > best {
			c.mostPrecise = spec.Survey.URL
			best = spec.Survey.MaxDepth
		}
	}
	return added, nil
}

// sameSurvey reports whether two declarations of a URL agree.
func sameSurvey(a, b tile.Config) bool {
	a.FITS, b.FITS = tile.FITSMeta{}, tile.FITSMeta{}
	return a == b
}

// sameLayout reports whether a survey's atlas can hold tiles of b.
func sameLayout(a, b tile.Config) bool {
	return a.TileSize == b.TileSize && a.Format == b.Format
}

// Layers returns the layer names, bottom first.
func (c *Collection) Layers() []string {
	return slices.Clone(c.layers)
}

// URLs returns the survey URLs in the order of their first layer.
func (c *Collection) URLs() []string {
	return slices.Clone(c.order)
}

// Survey returns the survey at url.
func (c *Collection) Survey(url string) (*Survey, bool) {
	s, ok := c.surveys[url]
	return s, ok
}

// Last returns the survey of the top layer.
func (c *Collection) Last() (*Survey, bool) {
	if len(c.layers) == 0 {
		return nil, false
	}
	return c.Survey(c.urls[c.layers[len(c.layers)-1]])
}

// MostPrecise returns the survey with the deepest tiles. The first one
// wins ties.
func (c *Collection) MostPrecise() (*Survey, bool) {
	return c.Survey(c.mostPrecise)
}

// View returns the cells in view of the most precise survey.
func (c *Collection) View() (*view.CellsInView, bool) {
	s, ok := c.MostPrecise()
	if !ok {
		return nil, false
	}
	return s.view, true
}

// IsReady reports whether every survey has its base tiles. An empty
// collection is ready.
func (c *Collection) IsReady() bool {
	for _, s := range c.surveys {
		if !s.IsReady() {
			return false
		}
	}
	return true
}

// LayerMeta returns the display state of layer.
func (c *Collection) LayerMeta(layer string) (LayerMeta, error) {
	m, ok := c.meta[NormalizeLayer(layer)]
	if !ok {
		return LayerMeta{}, fmt.Errorf("%w: %q", ErrLayerNotFound, layer)
	}
	return m, nil
}

// SetLayerMeta replaces the display state of layer.
func (c *Collection) SetLayerMeta(layer string, m LayerMeta) error {
	name := NormalizeLayer(layer)
	url, ok := c.urls[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrLayerNotFound, layer)
	}
	if err := m.Validate(c.surveys[url].cfg.Format); err != nil {
		return &ConfigError{Field: "meta", Reason: fmt.Sprintf("layer %q: %v", name, err)}
	}
	c.meta[name] = m
	return nil
}

// Projection returns the projection of the last frame.
func (c *Collection) Projection() projection.Projection {
	return c.proj
}

// SetProjection changes the projection and rebuilds the ray-trace grid.
func (c *Collection) SetProjection(p projection.Projection) {
	c.proj = p
	if c.rayTracer.SetProjection(p) {
		c.logger().Debug("hips: ray tracer rebuilt", slog.String("projection", p.Name()))
	}
}

// RefreshViews recomputes the cells in view of every survey for cam.
func (c *Collection) RefreshViews(cam *view.Camera) {
	for _, url := range c.order {
		c.surveys[url].refresh(cam)
	}
}

// ResetFrame clears the new-cells flag of every view. Call it once per
// frame after Draw.
func (c *Collection) ResetFrame() {
	for _, s := range c.surveys {
		s.view.ResetFrame()
	}
}

// TilesToRequest returns the tiles every survey still needs and marks them
// in flight.
func (c *Collection) TilesToRequest() []tile.Key {
	var keys []tile.Key
	for _, url := range c.order {
		keys = append(keys, c.surveys[url].TilesToRequest()...)
	}
	return keys
}

// SetAvailableTiles records tiles the resolver already delivered. Keys of
// unknown surveys are ignored.
func (c *Collection) SetAvailableTiles(keys []tile.Key) {
	for _, k := range keys {
		s, ok := c.surveys[k.URL]
		if !ok {
			continue
		}
		s.registerAvailable(k.Cell)
	}
}

// AddResolvedTiles pushes resolved tiles into their atlas. Missing tiles
// get the placeholder of their survey format. Tiles of unknown surveys
// are dropped.
//
// Tiles are pushed coarsest first, so a full atlas drops the deepest ones.
func (c *Collection) AddResolvedTiles(tiles map[tile.Key]tile.Resolved) {
	keys := make([]tile.Key, 0, len(tiles))
	for k := range tiles {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)

	for _, k := range keys {
		s, ok := c.surveys[k.URL]
		if !ok {
			c.logger().Debug("hips: tile of unknown survey dropped", slog.String("tile", k.String()))
			continue
		}
		err := s.push(k.Cell, tiles[k])
		switch {
		case err == nil:
		case errors.Is(err, tilecache.ErrAtlasFull), errors.Is(err, tilecache.ErrPayloadMismatch):
			// Logged where it happened.
		default:
			c.logger().Warn("hips: tile not stored",
				slog.String("tile", k.String()), slog.String("error", err.Error()))
		}
	}
}

func compareKeys(a, b tile.Key) int {
	switch {
	case a.Cell.Depth != b.Cell.Depth:
		return int(a.Cell.Depth) - int(b.Cell.Depth)
	case a.URL != b.URL:
		return strings.Compare(a.URL, b.URL)
	case a.Cell.Index < b.Cell.Index:
		return -1
	case a.Cell.Index > b.Cell.Index:
		return 1
	}
	return 0
}

// ReadPixel returns the texel under p in the survey at url, from the
// deepest resident tile at or above the current view depth.
func (c *Collection) ReadPixel(p healpix.LonLat, url string) (tile.Pixel, error) {
	s, ok := c.surveys[url]
	if !ok {
		return tile.Pixel{}, fmt.Errorf("%w: %s", ErrSurveyNotFound, url)
	}
	px, _, err := s.cache.ReadPixel(p, s.view.Depth())
	return px, err
}
