package healpix

import "testing"

func TestNumCells(t *testing.T) {
	tests := []struct {
		depth uint8
		want  uint64
	}{
		{0, 12},
		{1, 48},
		{2, 192},
		{3, 768},
		{10, 12 * (1 << 20)},
	}
	for _, tt := range tests {
		if got := NumCells(tt.depth); got != tt.want {
			t.Errorf("NumCells(%d) = %d, want %d", tt.depth, got, tt.want)
		}
	}
}

func TestParentChildren(t *testing.T) {
	c := NewCell(3, 421)
	for k, child := range c.Children() {
		if child.Depth != 4 {
			t.Errorf("child %d depth = %d, want 4", k, child.Depth)
		}
		if child.Index != 421*4+uint64(k) {
			t.Errorf("child %d index = %d, want %d", k, child.Index, 421*4+uint64(k))
		}
		if p := child.Parent(); p != c {
			t.Errorf("child %d parent = %s, want %s", k, p, c)
		}
	}
}

func TestParentOfRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Parent on a base cell did not panic")
		}
	}()
	_ = Cell{Depth: 0, Index: 3}.Parent()
}

func TestNewCellInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewCell(0, 12) did not panic")
		}
	}()
	_ = NewCell(0, 12)
}

func TestAncestor(t *testing.T) {
	c := NewCell(6, 40000)
	if got, want := c.Ancestor(6), c; got != want {
		t.Errorf("Ancestor(6) = %s, want %s", got, want)
	}
	if got, want := c.Ancestor(4), c.Parent().Parent(); got != want {
		t.Errorf("Ancestor(4) = %s, want %s", got, want)
	}
	if got := c.Ancestor(0); got.Index != uint64(c.Face()) {
		t.Errorf("Ancestor(0) = %s, want face %d", got, c.Face())
	}
	if !c.Ancestor(2).Contains(c) {
		t.Error("ancestor does not contain its descendant")
	}
	if c.Contains(c.Parent()) {
		t.Error("cell contains its parent")
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	for _, xy := range [][2]uint64{{0, 0}, {1, 0}, {0, 1}, {5, 9}, {1<<20 - 1, 12345}} {
		x, y := deinterleave(interleave(xy[0], xy[1]))
		if x != xy[0] || y != xy[1] {
			t.Errorf("deinterleave(interleave(%d, %d)) = (%d, %d)", xy[0], xy[1], x, y)
		}
	}
	// x occupies even bits.
	if got := interleave(1, 0); got != 1 {
		t.Errorf("interleave(1, 0) = %d, want 1", got)
	}
	if got := interleave(0, 1); got != 2 {
		t.Errorf("interleave(0, 1) = %d, want 2", got)
	}
}

func TestOffsetIn(t *testing.T) {
	anc := NewCell(2, 77)
	// Child 3 of child 1: x bits (1, 1), y bits (0, 1).
	c := anc.Children()[1].Children()[3]
	x, y, n := c.OffsetIn(anc)
	if n != 4 {
		t.Fatalf("nside = %d, want 4", n)
	}
	if x != 3 || y != 1 {
		t.Errorf("offset = (%d, %d), want (3, 1)", x, y)
	}

	x, y, n = anc.OffsetIn(anc)
	if x != 0 || y != 0 || n != 1 {
		t.Errorf("self offset = (%d, %d, %d), want (0, 0, 1)", x, y, n)
	}
}

func TestBaseCells(t *testing.T) {
	cells := BaseCells()
	for i, c := range cells {
		if !c.IsRoot() || c.Index != uint64(i) {
			t.Errorf("base cell %d = %s", i, c)
		}
	}
}

func TestLess(t *testing.T) {
	a := Cell{Depth: 1, Index: 40}
	b := Cell{Depth: 2, Index: 0}
	c := Cell{Depth: 2, Index: 1}
	if !a.Less(b) || !b.Less(c) || c.Less(a) {
		t.Error("Less does not order by depth then index")
	}
}
