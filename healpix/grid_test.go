package healpix

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNumSubdivision(t *testing.T) {
	tests := []struct {
		depth uint8
		want  uint8
	}{
		{0, 5}, {1, 4}, {2, 3}, {3, 2}, {4, 2}, {5, 0}, {10, 0},
	}
	for _, tt := range tests {
		if got := NumSubdivision(tt.depth); got != tt.want {
			t.Errorf("NumSubdivision(%d) = %d, want %d", tt.depth, got, tt.want)
		}
		if got := NumSegments(tt.depth); got != 1+int(tt.want) {
			t.Errorf("NumSegments(%d) = %d, want %d", tt.depth, got, 1+int(tt.want))
		}
	}
}

func TestGridLonLatLayout(t *testing.T) {
	c := NewCell(3, 100)
	n := 3
	pts := GridLonLat(c, n)
	if len(pts) != (n+1)*(n+1) {
		t.Fatalf("len = %d, want %d", len(pts), (n+1)*(n+1))
	}
	v := Vertices(c)
	corners := map[int]LonLat{
		0:           v[0],
		n:           v[1],
		n + n*(n+1): v[2],
		n * (n + 1): v[3],
	}
	for idx, want := range corners {
		if d := pts[idx].AngularDistance(want); d > eps {
			t.Errorf("grid point %d is %g rad from the expected vertex", idx, d)
		}
	}
}

func TestHashCenterRoundTrip(t *testing.T) {
	for _, depth := range []uint8{0, 1, 3, 6, 9} {
		step := NumCells(depth)/97 + 1
		for idx := uint64(0); idx < NumCells(depth); idx += step {
			c := Cell{Depth: depth, Index: idx}
			if got := Hash(depth, Center(c)); got != c {
				t.Errorf("Hash(Center(%s)) = %s", c, got)
			}
		}
	}
}

func TestHashWithOffsets(t *testing.T) {
	c := NewCell(4, 1234)
	p := LocalPoint(c, 0.25, 0.75)
	got, dx, dy := HashWithOffsets(4, p)
	if got != c {
		t.Fatalf("cell = %s, want %s", got, c)
	}
	if math.Abs(dx-0.25) > 1e-6 || math.Abs(dy-0.75) > 1e-6 {
		t.Errorf("offsets = (%g, %g), want (0.25, 0.75)", dx, dy)
	}
}

func TestHashPoles(t *testing.T) {
	north := Hash(0, LonLat{Lon: 0.3, Lat: math.Pi / 2})
	if north.Face() > 3 {
		t.Errorf("north pole hashed to face %d", north.Face())
	}
	south := Hash(0, LonLat{Lon: 0.3, Lat: -math.Pi / 2})
	if south.Face() < 8 {
		t.Errorf("south pole hashed to face %d", south.Face())
	}
}

func TestHashChildOfParent(t *testing.T) {
	p := LonLat{Lon: 4.1, Lat: -0.2}
	deep := Hash(8, p)
	for d := uint8(0); d < 8; d++ {
		if got, want := Hash(d, p), deep.Ancestor(d); got != want {
			t.Errorf("Hash(%d) = %s, want %s", d, got, want)
		}
	}
}

func TestFaceFourSouthVertex(t *testing.T) {
	v := Vertices(NewCell(0, 4))[0]
	if math.Abs(v.Lon) > eps || math.Abs(v.Lat-math.Asin(-2.0/3.0)) > eps {
		t.Errorf("south vertex of face 4 = %+v", v)
	}
}

func TestBoundingRadius(t *testing.T) {
	c := NewCell(2, 50)
	r := BoundingRadius(c)
	center := Center(c)
	for _, p := range GridLonLat(c, 8) {
		if d := center.AngularDistance(p); d > r {
			t.Errorf("point %+v is %g from the center, radius %g", p, d, r)
		}
	}
	if child := BoundingRadius(c.Children()[0]); child >= r {
		t.Errorf("child radius %g >= parent radius %g", child, r)
	}
}

func TestLonLatNormalized(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{2 * math.Pi, 0},
		{5 * math.Pi, math.Pi},
	}
	for _, tt := range tests {
		if got := (LonLat{Lon: tt.in}).Normalized().Lon; math.Abs(got-tt.want) > eps {
			t.Errorf("Normalized(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	p := LonLat{Lon: 1.2, Lat: -0.4}
	q := FromVector(p.Vector())
	if d := p.AngularDistance(q); d > eps {
		t.Errorf("FromVector(Vector()) moved the point by %g", d)
	}
}
