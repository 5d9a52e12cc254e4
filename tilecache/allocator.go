package tilecache

// gridAllocator lays out square slots on a square page, row by row.
type gridAllocator struct {
	cellSize int
	cols     int
	rows     int
	next     int
}

func newGridAllocator(pageSize, cellSize int) *gridAllocator {
	cols := max(pageSize/cellSize, 1)
	return &gridAllocator{
		cellSize: cellSize,
		cols:     cols,
		rows:     cols,
	}
}

// Allocate returns the texel origin of the next free slot.
// Returns -1, -1, false if the page is full.
func (g *gridAllocator) Allocate() (x, y int, ok bool) {
	if g.IsFull() {
		return -1, -1, false
	}
	col := g.next % g.cols
	row := g.next / g.cols
	g.next++
	return col * g.cellSize, row * g.cellSize, true
}

// Capacity returns the number of slots on the page.
func (g *gridAllocator) Capacity() int {
	return g.cols * g.rows
}

// IsFull reports whether every slot has been handed out.
func (g *gridAllocator) IsFull() bool {
	return g.next >= g.Capacity()
}
