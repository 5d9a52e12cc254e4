package healpix

import "math"

// NumSubdivision returns how many extra subdivisions a cell edge gets when a
// cell at depth is rasterized. Shallow cells are large and strongly curved,
// so they are subdivided more.
//
//	depth:   0  1  2  3  4  >=5
//	result:  5  4  3  2  2  0
func NumSubdivision(depth uint8) uint8 {
	if depth >= 5 {
		return 0
	}
	return max(5-depth, 2)
}

// NumSegments returns the number of grid segments per edge used to rasterize
// a cell at depth.
func NumSegments(depth uint8) int {
	return 1 + int(NumSubdivision(depth))
}

// LocalPoint returns the position of the point (u, v) of c, where u runs
// along the local X axis and v along the local Y axis, both in [0, 1].
func LocalPoint(c Cell, u, v float64) LonLat {
	x, y := c.XY()
	n := float64(NSide(c.Depth))
	return unproject(c.Face(), (float64(x)+u)/n, (float64(y)+v)/n)
}

// GridLonLat samples c on an (n+1) x (n+1) grid of its curved boundary and
// interior. Points are row major: the local Y axis is the outer loop and the
// local X axis the inner one, so point (i, j) is at index j + i*(n+1).
// It panics if n < 1.
func GridLonLat(c Cell, n int) []LonLat {
	if n < 1 {
		panic("healpix: grid needs at least one segment")
	}
	pts := make([]LonLat, 0, (n+1)*(n+1))
	for i := 0; i <= n; i++ {
		v := float64(i) / float64(n)
		for j := 0; j <= n; j++ {
			pts = append(pts, LocalPoint(c, float64(j)/float64(n), v))
		}
	}
	return pts
}

// Center returns the center of c.
func Center(c Cell) LonLat {
	return LocalPoint(c, 0.5, 0.5)
}

// Vertices returns the south, east, north and west vertices of c.
func Vertices(c Cell) [4]LonLat {
	return [4]LonLat{
		LocalPoint(c, 0, 0),
		LocalPoint(c, 1, 0),
		LocalPoint(c, 1, 1),
		LocalPoint(c, 0, 1),
	}
}

// BoundingRadius returns the radius of a cone around Center(c) that
// contains the whole cell.
func BoundingRadius(c Cell) float64 {
	center := Center(c)
	r := 0.0
	for _, p := range GridLonLat(c, 2) {
		r = math.Max(r, center.AngularDistance(p))
	}
	// Edges bulge between grid samples.
	return r * 1.1
}

// Hash returns the cell at depth containing p.
func Hash(depth uint8, p LonLat) Cell {
	c, _, _ := HashWithOffsets(depth, p)
	return c
}

// HashWithOffsets returns the cell at depth containing p, together with the
// position of p inside the cell along the local X (dx) and Y (dy) axes, both
// in [0, 1).
func HashWithOffsets(depth uint8, p LonLat) (c Cell, dx, dy float64) {
	face, lx, ly := locate(project(p))
	n := NSide(depth)
	fx, fy := lx*float64(n), ly*float64(n)
	x := min(uint64(fx), n-1)
	y := min(uint64(fy), n-1)
	dx = clamp(fx-float64(x), 0, math.Nextafter(1, 0))
	dy = clamp(fy-float64(y), 0, math.Nextafter(1, 0))
	return fromFaceXY(depth, face, x, y), dx, dy
}
