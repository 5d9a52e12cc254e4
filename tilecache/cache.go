package tilecache

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gogpu/hips/healpix"
	"github.com/gogpu/hips/internal/cache"
	"github.com/gogpu/hips/tile"
)

// SlotRef is the index of a slot in its Cache.
// A SlotRef is valid until the next call to Push.
type SlotRef int

// Slot is the metadata of one atlas slot.
type Slot struct {
	// Cell is the cell whose tile the slot holds.
	Cell healpix.Cell

	// RequestedAt is when the tile was requested.
	RequestedAt time.Time

	// StartTime is when the tile arrived. The renderer blends towards the
	// tile over time elapsed since StartTime.
	StartTime time.Time

	// Missing is set when the slot holds a placeholder for a tile that could
	// not be obtained.
	Missing bool

	// Page is the atlas page holding the texels.
	Page int

	// X, Y is the texel origin of the slot on its page.
	X, Y int
}

// Cache maps HEALPix cells to atlas slots.
type Cache struct {
	cfg  Config
	opts options

	pages [][]byte
	slots []Slot
	nodes []*cache.Node[SlotRef]

	index     map[healpix.Cell]SlotRef
	free      []SlotRef
	lru       *cache.List[SlotRef]
	available map[healpix.Cell]struct{}
	visible   map[healpix.Cell]struct{}
	dirty     map[SlotRef]struct{}

	changed bool
	epoch   time.Time
}

// New creates an empty cache with the given atlas layout.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache{
		cfg:       cfg,
		opts:      o,
		pages:     make([][]byte, cfg.Pages),
		slots:     make([]Slot, 0, cfg.Capacity()),
		index:     make(map[healpix.Cell]SlotRef),
		lru:       cache.NewList[SlotRef](),
		available: make(map[healpix.Cell]struct{}),
		visible:   make(map[healpix.Cell]struct{}),
		dirty:     make(map[SlotRef]struct{}),
		epoch:     o.clock(),
	}
	bpt := cfg.Format.BytesPerTexel()
	for p := range c.pages {
		c.pages[p] = make([]byte, cfg.PageSize*cfg.PageSize*bpt)
		alloc := newGridAllocator(cfg.PageSize, cfg.TileSize)
		for {
			x, y, ok := alloc.Allocate()
			if !ok {
				break
			}
			c.slots = append(c.slots, Slot{Page: p, X: x, Y: y})
		}
	}
	c.nodes = make([]*cache.Node[SlotRef], len(c.slots))
	c.free = make([]SlotRef, 0, len(c.slots))
	for i := len(c.slots) - 1; i >= 0; i-- {
		c.free = append(c.free, SlotRef(i))
	}
	return c, nil
}

// Config returns the atlas layout.
func (c *Cache) Config() Config {
	return c.cfg
}

// Capacity returns the number of slots.
func (c *Cache) Capacity() int {
	return len(c.slots)
}

// Len returns the number of resident cells.
func (c *Cache) Len() int {
	return len(c.index)
}

// Epoch returns the creation time of the cache. Blend start times are
// expressed relative to it on the GPU.
func (c *Cache) Epoch() time.Time {
	return c.epoch
}

// Contains reports whether cell has a slot, placeholder or not.
func (c *Cache) Contains(cell healpix.Cell) bool {
	_, ok := c.index[cell]
	return ok
}

// Get returns the slot bound to cell.
func (c *Cache) Get(cell healpix.Cell) (SlotRef, bool) {
	ref, ok := c.index[cell]
	return ref, ok
}

// Slot returns the metadata of ref.
func (c *Cache) Slot(ref SlotRef) Slot {
	return c.slots[ref]
}

// NearestParent returns the closest resident ancestor of cell, or cell
// itself if it is a base cell.
//
// It panics when no ancestor is resident, which cannot happen once IsReady
// reports true.
func (c *Cache) NearestParent(cell healpix.Cell) healpix.Cell {
	if cell.IsRoot() {
		return cell
	}
	p := cell.Parent()
	for !c.Contains(p) {
		if p.IsRoot() {
			panic(fmt.Sprintf("tilecache: no resident ancestor for %s, base cell %s missing", cell, p))
		}
		p = p.Parent()
	}
	return p
}

// IsReady reports whether all 12 base cells are resident.
func (c *Cache) IsReady() bool {
	for _, root := range healpix.BaseCells() {
		if !c.Contains(root) {
			return false
		}
	}
	return true
}

// TakeChanged reports whether a slot changed since the previous call and
// resets the flag.
func (c *Cache) TakeChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}

// RegisterAvailable marks cell as already fetched by the resolver without
// pushing any texel data.
func (c *Cache) RegisterAvailable(cell healpix.Cell) {
	c.available[cell] = struct{}{}
}

// IsAvailable reports whether cell was registered as available.
func (c *Cache) IsAvailable(cell healpix.Cell) bool {
	_, ok := c.available[cell]
	return ok
}

// SetVisible replaces the set of on-screen cells. Visible cells are never
// evicted, and the resident ones are marked as recently used.
func (c *Cache) SetVisible(cells []healpix.Cell) {
	clear(c.visible)
	for _, cell := range cells {
		c.visible[cell] = struct{}{}
		if ref, ok := c.index[cell]; ok {
			c.lru.MoveToFront(c.nodes[ref])
		}
	}
}

// Push stores the payload of cell, overwriting its slot if it is resident.
//
// When no slot is free, the least recently used slot whose cell is neither
// visible nor a base cell is reassigned. If there is none, the tile is
// dropped and ErrAtlasFull is returned.
func (c *Cache) Push(cell healpix.Cell, p tile.Payload, requestedAt time.Time, missing bool) error {
	if p.Size != c.cfg.TileSize || p.Format.BytesPerTexel() != c.cfg.Format.BytesPerTexel() {
		return fmt.Errorf("%w: %s tile of %d texels into %s slots of %d",
			ErrPayloadMismatch, p.Format, p.Size, c.cfg.Format, c.cfg.TileSize)
	}
	now := c.opts.clock()

	ref, resident := c.index[cell]
	if resident {
		s := &c.slots[ref]
		if c.opts.restartBlend {
			s.StartTime = now
		}
		s.RequestedAt = requestedAt
		s.Missing = missing
		c.lru.MoveToFront(c.nodes[ref])
	} else {
		var ok bool
		if ref, ok = c.acquire(); !ok {
			c.opts.logger.Warn("tilecache: atlas full, dropping tile",
				slog.String("cell", cell.String()),
				slog.Int("capacity", len(c.slots)))
			return ErrAtlasFull
		}
		s := &c.slots[ref]
		s.Cell = cell
		s.RequestedAt = requestedAt
		s.StartTime = now
		s.Missing = missing
		c.index[cell] = ref
		c.nodes[ref] = c.lru.PushFront(ref)
	}

	c.write(ref, p.Data)
	c.changed = true
	return nil
}

// acquire returns a free slot, evicting one if needed.
func (c *Cache) acquire() (SlotRef, bool) {
	if n := len(c.free); n > 0 {
		ref := c.free[n-1]
		c.free = c.free[:n-1]
		return ref, true
	}
	node := c.lru.OldestFunc(func(ref SlotRef) bool {
		cell := c.slots[ref].Cell
		_, onScreen := c.visible[cell]
		return !onScreen && !cell.IsRoot()
	})
	if node == nil {
		return 0, false
	}
	ref := node.Key
	evicted := c.slots[ref].Cell
	c.lru.Remove(node)
	c.nodes[ref] = nil
	delete(c.index, evicted)
	delete(c.available, evicted)
	c.opts.logger.Debug("tilecache: evicted tile", slog.String("cell", evicted.String()))
	return ref, true
}

// write copies a dense tile into the slot's page mirror.
func (c *Cache) write(ref SlotRef, data []byte) {
	s := c.slots[ref]
	bpt := c.cfg.Format.BytesPerTexel()
	row := c.cfg.TileSize * bpt
	stride := c.cfg.PageSize * bpt
	page := c.pages[s.Page]
	for y := range c.cfg.TileSize {
		off := (s.Y+y)*stride + s.X*bpt
		copy(page[off:off+row], data[y*row:(y+1)*row])
	}
	c.dirty[ref] = struct{}{}
}

// Cells returns the resident cells ordered by depth, then index.
func (c *Cache) Cells() []healpix.Cell {
	cells := make([]healpix.Cell, 0, len(c.index))
	for cell := range c.index {
		cells = append(cells, cell)
	}
	slices.SortFunc(cells, func(a, b healpix.Cell) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return cells
}

// PageData returns the CPU mirror of page p.
func (c *Cache) PageData(p int) []byte {
	return c.pages[p]
}

// Texel returns the texel at column x, row y of the tile held by ref.
func (c *Cache) Texel(ref SlotRef, x, y int) tile.Pixel {
	s := c.slots[ref]
	bpt := c.cfg.Format.BytesPerTexel()
	off := ((s.Y+y)*c.cfg.PageSize + s.X + x) * bpt
	return tile.DecodeTexel(c.cfg.Format, c.pages[s.Page][off:])
}

// ReadPixel returns the texel at p from the deepest resident tile at or
// above depth.
func (c *Cache) ReadPixel(p healpix.LonLat, depth uint8) (tile.Pixel, Slot, error) {
	cell := healpix.Hash(depth, p)
	for !c.Contains(cell) {
		if cell.IsRoot() {
			return tile.Pixel{}, Slot{}, fmt.Errorf("%w at %s", ErrNotResident, healpix.Hash(depth, p))
		}
		cell = cell.Parent()
	}
	ref := c.index[cell]
	_, dx, dy := healpix.HashWithOffsets(cell.Depth, p)
	n := c.cfg.TileSize
	x := min(int(dx*float64(n)), n-1)
	y := min(int(dy*float64(n)), n-1)
	return c.Texel(ref, x, y), c.slots[ref], nil
}
