package view

import (
	"math"
	"slices"

	"github.com/gogpu/hips/healpix"
)

// MaxCellsToDraw bounds the number of cells a view selects. Deeper levels
// that would exceed it are not used.
const MaxCellsToDraw = 768

// CellsInView is the set of cells, at one depth, that intersect the camera.
type CellsInView struct {
	depth    uint8
	cells    []healpix.Cell
	set      map[healpix.Cell]struct{}
	newCells bool
	action   UserAction
}

// NewCellsInView returns an empty view.
func NewCellsInView() *CellsInView {
	return &CellsInView{set: make(map[healpix.Cell]struct{})}
}

// Depth returns the depth of the cells.
func (v *CellsInView) Depth() uint8 { return v.depth }

// Cells returns the cells in view, ordered by index. The slice must not be
// modified.
func (v *CellsInView) Cells() []healpix.Cell { return v.cells }

// Len returns the number of cells in view.
func (v *CellsInView) Len() int { return len(v.cells) }

// Contains reports whether cell is in view.
func (v *CellsInView) Contains(cell healpix.Cell) bool {
	_, ok := v.set[cell]
	return ok
}

// LastAction returns the camera motion observed by the last Refresh.
func (v *CellsInView) LastAction() UserAction { return v.action }

// NewCells reports whether the last Refresh changed the cell set.
func (v *CellsInView) NewCells() bool { return v.newCells }

// ResetFrame clears the change flag without recomputing the cells.
func (v *CellsInView) ResetFrame() { v.newCells = false }

// Refresh recomputes the depth from the camera resolution and the cells
// intersecting the camera at that depth.
func (v *CellsInView) Refresh(tileSize int, maxDepth uint8, cam *Camera) {
	v.action = cam.LastAction()
	target := DepthFor(tileSize, cam.PixelAngle(), maxDepth)
	depth, cells := cellsAt(target, cam.Center(), cam.Radius())

	v.newCells = depth != v.depth || !slices.Equal(cells, v.cells)
	if !v.newCells {
		return
	}
	v.depth = depth
	v.cells = cells
	clear(v.set)
	for _, c := range cells {
		v.set[c] = struct{}{}
	}
}

// DepthFor returns the shallowest depth whose tiles of tileSize texels have
// a texel no larger than pixelAngle, clamped to [0, maxDepth].
func DepthFor(tileSize int, pixelAngle float64, maxDepth uint8) uint8 {
	if tileSize <= 0 || pixelAngle <= 0 {
		return maxDepth
	}
	// A cell at depth d spans about sqrt(pi/3) / 2^d radians.
	d := math.Ceil(math.Log2(math.Sqrt(math.Pi/3) / (float64(tileSize) * pixelAngle)))
	switch {
	case d <= 0:
		return 0
	case d >= float64(maxDepth):
		return maxDepth
	default:
		return uint8(d)
	}
}

// cellsAt descends from the base cells towards target, keeping the cells
// whose bounding cone meets the view cone. It stops early when the next
// level would hold more than MaxCellsToDraw cells.
func cellsAt(target uint8, center healpix.LonLat, radius float64) (uint8, []healpix.Cell) {
	var level []healpix.Cell
	for _, c := range healpix.BaseCells() {
		if intersects(c, center, radius) {
			level = append(level, c)
		}
	}
	depth := uint8(0)
	for depth < target {
		next := make([]healpix.Cell, 0, 4*len(level))
		for _, c := range level {
			for _, child := range c.Children() {
				if intersects(child, center, radius) {
					next = append(next, child)
				}
			}
		}
		if len(next) > MaxCellsToDraw {
			break
		}
		level = next
		depth++
	}
	slices.SortFunc(level, func(a, b healpix.Cell) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		default:
			return 0
		}
	})
	return depth, level
}

func intersects(c healpix.Cell, center healpix.LonLat, radius float64) bool {
	if radius >= math.Pi {
		return true
	}
	return healpix.Center(c).AngularDistance(center) <= radius+healpix.BoundingRadius(c)
}
