package healpix

import "math"

// Base cell layout in the projection plane, in units of pi/4.
// Row jrll is 2 for the north cap, 3 for the equator and 4 for the south cap.
var (
	jrll = [NumBaseCells]int{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
	jpll = [NumBaseCells]int{1, 3, 5, 7, 0, 2, 4, 6, 1, 3, 5, 7}
)

const quarterPi = math.Pi / 4

// faceCenter returns the center of a base cell in the projection plane.
func faceCenter(face uint8) (x, y float64) {
	return float64(jpll[face]) * quarterPi, float64(3-jrll[face]) * quarterPi
}

// unproject maps local coordinates (X, Y) of a base cell to the sphere.
func unproject(face uint8, lx, ly float64) LonLat {
	xc, yc := faceCenter(face)
	x := xc + (lx-ly)*quarterPi
	y := yc + (lx+ly-1)*quarterPi

	ay := math.Abs(y)
	if ay <= quarterPi {
		return LonLat{Lon: x, Lat: math.Asin(8 * y / (3 * math.Pi))}.Normalized()
	}

	sigma := 2 - ay/quarterPi
	z := 1 - sigma*sigma/3
	if y < 0 {
		z = -z
	}
	lon := xc
	if sigma > 0 {
		lon = xc + (x-xc)/sigma
	}
	return LonLat{Lon: lon, Lat: math.Asin(clamp(z, -1, 1))}.Normalized()
}

// project maps a position to the projection plane.
func project(p LonLat) (x, y float64) {
	p = p.Normalized()
	z := math.Sin(p.Lat)
	if math.Abs(z) <= 2.0/3.0 {
		return p.Lon, 3 * math.Pi / 8 * z
	}
	sigma := math.Sqrt(3 * (1 - math.Abs(z)))
	xc := quarterPi + math.Pi/2*math.Floor(2*p.Lon/math.Pi)
	x = xc + (p.Lon-xc)*sigma
	y = quarterPi * (2 - sigma)
	if z < 0 {
		y = -y
	}
	return x, y
}

// locate returns the base cell containing the projected point and the
// local coordinates inside it.
func locate(x, y float64) (face uint8, lx, ly float64) {
	u, v := x/quarterPi, y/quarterPi
	best := math.Inf(1)
	var bdx, bdy float64
	for f := range uint8(NumBaseCells) {
		dx := u - float64(jpll[f])
		if dx < -4 {
			dx += 8
		} else if dx >= 4 {
			dx -= 8
		}
		dy := v - float64(3-jrll[f])
		if d := math.Abs(dx) + math.Abs(dy); d < best {
			best, face, bdx, bdy = d, f, dx, dy
		}
	}
	lx = clamp((bdx+bdy+1)/2, 0, 1)
	ly = clamp((bdy-bdx+1)/2, 0, 1)
	return face, lx, ly
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
