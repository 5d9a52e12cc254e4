package hips

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/render"
	"github.com/gogpu/hips/tile"
	"github.com/gogpu/hips/tilecache"
	"github.com/gogpu/hips/view"
)

// ancestorLevels is how many levels above the view depth are requested
// along with the visible cells.
const ancestorLevels = 3

// maxPageSize bounds the side of an atlas page for large tiles.
const maxPageSize = 8192

// Survey is the rendering state of one tile source: its atlas, the cells
// in view and the geometry built from them.
//
// A Survey is owned by its Collection and shares its goroutine.
type Survey struct {
	cfg   tile.Config
	cache *tilecache.Cache
	view  *view.CellsInView
	mesh  *render.Mesh
	lut   render.RaytraceLUT

	inflight map[healpix.Cell]struct{}
	logger   *slog.Logger

	// deferred holds cells dropped by a full atlas. They are not requested
	// again until the cells in view change.
	deferred map[healpix.Cell]struct{}

	// Encoded geometry, valid until the next rebuild. The dirty flags are
	// cleared once a sink has received the new bytes.
	vertices  []byte
	indices   []byte
	meshDirty bool

	lutBytes []byte
	lutStale bool
	lutDirty bool

	// prepared is the last frame the survey was drawn in.
	prepared uint64
}

func newSurvey(cfg tile.Config, o *options, logger *slog.Logger) (*Survey, error) {
	cc := tilecache.DefaultConfig(cfg.TileSize, cfg.Format)
	cc.PageSize = min(cc.PageSize, maxPageSize)
	if o.pages > 0 {
		cc.Pages = o.pages
	}
	for cc.Capacity() <= healpix.NumBaseCells {
		cc.Pages++
	}
	copts := []tilecache.Option{
		tilecache.WithLogger(logger.With(slog.String("survey", cfg.URL))),
		tilecache.WithClock(o.clock),
	}
	if o.restartBlend {
		copts = append(copts, tilecache.WithRestartBlendOnOverwrite())
	}
	c, err := tilecache.New(cc, copts...)
	if err != nil {
		return nil, err
	}
	return &Survey{
		cfg:      cfg,
		cache:    c,
		view:     view.NewCellsInView(),
		mesh:     render.NewMesh(),
		inflight: make(map[healpix.Cell]struct{}),
		deferred: make(map[healpix.Cell]struct{}),
		logger:   logger,
		lutStale: true,
	}, nil
}

// URL returns the root URL of the survey.
func (s *Survey) URL() string { return s.cfg.URL }

// Config returns the survey configuration, with the FITS metadata of the
// most recent tile.
func (s *Survey) Config() tile.Config { return s.cfg }

// Cache returns the tile atlas.
func (s *Survey) Cache() *tilecache.Cache { return s.cache }

// View returns the cells in view.
func (s *Survey) View() *view.CellsInView { return s.view }

// Mesh returns the raster geometry of the last rebuild.
func (s *Survey) Mesh() *render.Mesh { return s.mesh }

// LUT returns the ray-trace lookup table of the last rebuild.
func (s *Survey) LUT() *render.RaytraceLUT { return &s.lut }

// IsReady reports whether the 12 base tiles are resident.
func (s *Survey) IsReady() bool { return s.cache.IsReady() }

// InFlight returns the number of requested tiles not yet resolved.
func (s *Survey) InFlight() int { return len(s.inflight) }

// TilesToRequest returns the cells the survey still needs, coarsest first,
// and marks them in flight.
//
// Until the survey is ready the base cells come first. The visible cells
// are then requested together with their ancestors up to three levels
// above the view depth. Cells that are resident, registered as available,
// already in flight or dropped by a full atlas since the view last changed
// are skipped.
func (s *Survey) TilesToRequest() []tile.Key {
	want := make(map[healpix.Cell]struct{})
	for _, root := range healpix.BaseCells() {
		want[root] = struct{}{}
	}
	depth := s.view.Depth()
	floor := uint8(0)
	if depth > ancestorLevels {
		floor = depth - ancestorLevels
	}
	floor = max(floor, s.cfg.MinDepth)
	for _, cell := range s.view.Cells() {
		for d := cell.Depth; ; d-- {
			if d < floor {
				break
			}
			want[cell.Ancestor(d)] = struct{}{}
			if d == 0 {
				break
			}
		}
	}

	cells := make([]healpix.Cell, 0, len(want))
	for cell := range want {
		if s.cache.Contains(cell) || s.cache.IsAvailable(cell) {
			continue
		}
		if _, ok := s.inflight[cell]; ok {
			continue
		}
		if _, ok := s.deferred[cell]; ok {
			continue
		}
		cells = append(cells, cell)
	}
	slices.SortFunc(cells, func(a, b healpix.Cell) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})

	keys := make([]tile.Key, len(cells))
	for i, cell := range cells {
		s.inflight[cell] = struct{}{}
		keys[i] = tile.Key{URL: s.cfg.URL, Cell: cell}
	}
	return keys
}

// refresh recomputes the cells in view and protects them from eviction.
func (s *Survey) refresh(cam *view.Camera) {
	s.view.Refresh(s.cfg.TileSize, s.cfg.MaxDepth, cam)
	s.cache.SetVisible(s.view.Cells())
	if s.view.NewCells() {
		clear(s.deferred)
	}
}

// registerAvailable records that the tile of cell was resolved earlier.
func (s *Survey) registerAvailable(cell healpix.Cell) {
	delete(s.inflight, cell)
	s.cache.RegisterAvailable(cell)
}

// push stores a resolved tile. Missing tiles and tiles that do not fit the
// atlas are replaced by the placeholder of the survey format.
func (s *Survey) push(cell healpix.Cell, r tile.Resolved) error {
	delete(s.inflight, cell)

	if r.Status == tile.StatusMissing {
		return s.cache.Push(cell, tile.Placeholder(s.cfg.Format, s.cfg.TileSize), r.RequestedAt, true)
	}
	err := s.cache.Push(cell, r.Payload, r.RequestedAt, false)
	if errors.Is(err, tilecache.ErrPayloadMismatch) {
		s.logger.Warn("hips: tile does not fit the atlas, using placeholder",
			slog.String("survey", s.cfg.URL),
			slog.String("cell", cell.String()),
			slog.String("error", err.Error()))
		if perr := s.cache.Push(cell, tile.Placeholder(s.cfg.Format, s.cfg.TileSize), r.RequestedAt, true); perr != nil {
			return perr
		}
		return err
	}
	if errors.Is(err, tilecache.ErrAtlasFull) {
		s.deferred[cell] = struct{}{}
	}
	if err == nil && s.cfg.Format.IsFITS() {
		s.cfg.FITS = r.Payload.FITS
	}
	return err
}
