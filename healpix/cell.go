package healpix

import "fmt"

// MaxDepth is the deepest supported depth. Indices must fit in 64 bits.
const MaxDepth = 29

// NumBaseCells is the number of cells at depth 0.
const NumBaseCells = 12

// Cell identifies a HEALPix cell in the nested scheme.
//
// Cell is a comparable value and can be used as a map key.
type Cell struct {
	Depth uint8
	Index uint64
}

// NewCell returns the cell with the given depth and index.
// It panics if the pair does not name a valid cell.
func NewCell(depth uint8, index uint64) Cell {
	c := Cell{Depth: depth, Index: index}
	if !c.Valid() {
		panic(fmt.Sprintf("healpix: invalid cell %s", c))
	}
	return c
}

// NSide returns the number of cells along a base cell edge at depth.
func NSide(depth uint8) uint64 {
	return 1 << depth
}

// NumCells returns the number of cells at depth, 12*4^depth.
func NumCells(depth uint8) uint64 {
	return NumBaseCells << (2 * uint64(depth))
}

// BaseCells returns the 12 cells of depth 0.
func BaseCells() [NumBaseCells]Cell {
	var cells [NumBaseCells]Cell
	for i := range cells {
		cells[i] = Cell{Depth: 0, Index: uint64(i)}
	}
	return cells
}

// Valid reports whether the depth is supported and the index is in range.
func (c Cell) Valid() bool {
	return c.Depth <= MaxDepth && c.Index < NumCells(c.Depth)
}

// IsRoot reports whether c is one of the 12 base cells.
func (c Cell) IsRoot() bool {
	return c.Depth == 0
}

// Face returns the base cell containing c.
func (c Cell) Face() uint8 {
	return uint8(c.Index >> (2 * uint64(c.Depth)))
}

// Parent returns the cell one depth up that contains c.
// Calling Parent on a base cell is a programming error and panics.
func (c Cell) Parent() Cell {
	if c.Depth == 0 {
		panic("healpix: parent of a depth 0 cell")
	}
	return Cell{Depth: c.Depth - 1, Index: c.Index >> 2}
}

// Ancestor returns the cell at depth that contains c.
// It panics if depth is deeper than c.
func (c Cell) Ancestor(depth uint8) Cell {
	if depth > c.Depth {
		panic(fmt.Sprintf("healpix: ancestor at depth %d of %s", depth, c))
	}
	shift := 2 * uint64(c.Depth-depth)
	return Cell{Depth: depth, Index: c.Index >> shift}
}

// Children returns the four cells one depth down that partition c.
func (c Cell) Children() [4]Cell {
	first := c.Index << 2
	return [4]Cell{
		{Depth: c.Depth + 1, Index: first},
		{Depth: c.Depth + 1, Index: first + 1},
		{Depth: c.Depth + 1, Index: first + 2},
		{Depth: c.Depth + 1, Index: first + 3},
	}
}

// Contains reports whether other is c or one of its descendants.
func (c Cell) Contains(other Cell) bool {
	if other.Depth < c.Depth {
		return false
	}
	return other.Ancestor(c.Depth) == c
}

// XY returns the cell coordinates inside its base cell.
func (c Cell) XY() (x, y uint64) {
	mask := NSide(c.Depth)*NSide(c.Depth) - 1
	return deinterleave(c.Index & mask)
}

// OffsetIn returns the position of c inside the footprint of ancestor.
// The footprint is an nside x nside grid of cells at c's depth; x runs along
// the local X axis and y along the local Y axis.
// It panics if ancestor does not contain c.
func (c Cell) OffsetIn(ancestor Cell) (x, y, nside uint64) {
	if !ancestor.Contains(c) {
		panic(fmt.Sprintf("healpix: %s is not an ancestor of %s", ancestor, c))
	}
	delta := c.Depth - ancestor.Depth
	nside = NSide(delta)
	x, y = deinterleave(c.Index & (nside*nside - 1))
	return x, y, nside
}

// Less orders cells by depth, then by index.
func (c Cell) Less(other Cell) bool {
	if c.Depth != other.Depth {
		return c.Depth < other.Depth
	}
	return c.Index < other.Index
}

// String implements fmt.Stringer.
func (c Cell) String() string {
	return fmt.Sprintf("%d/%d", c.Depth, c.Index)
}

func fromFaceXY(depth uint8, face uint8, x, y uint64) Cell {
	return Cell{
		Depth: depth,
		Index: uint64(face)<<(2*uint64(depth)) | interleave(x, y),
	}
}

// interleave spreads x over the even bits and y over the odd bits.
func interleave(x, y uint64) uint64 {
	return spread(x) | spread(y)<<1
}

func deinterleave(v uint64) (x, y uint64) {
	return compact(v), compact(v >> 1)
}

func spread(v uint64) uint64 {
	v &= 0x00000000FFFFFFFF
	v = (v | v<<16) & 0x0000FFFF0000FFFF
	v = (v | v<<8) & 0x00FF00FF00FF00FF
	v = (v | v<<4) & 0x0F0F0F0F0F0F0F0F
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}

func compact(v uint64) uint64 {
	v &= 0x5555555555555555
	v = (v | v>>1) & 0x3333333333333333
	v = (v | v>>2) & 0x0F0F0F0F0F0F0F0F
	v = (v | v>>4) & 0x00FF00FF00FF00FF
	v = (v | v>>8) & 0x0000FFFF0000FFFF
	v = (v | v>>16) & 0x00000000FFFFFFFF
	return v
}
