package healpix

import "math"

// LonLat is a position on the unit sphere in radians.
// Lon is the longitude, Lat the latitude in [-pi/2, pi/2].
type LonLat struct {
	Lon float64
	Lat float64
}

// Normalized returns p with its longitude wrapped into [0, 2*pi).
func (p LonLat) Normalized() LonLat {
	lon := math.Mod(p.Lon, 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	if lon >= 2*math.Pi {
		lon = 0
	}
	return LonLat{Lon: lon, Lat: p.Lat}
}

// Vector returns the unit vector pointing at p.
func (p LonLat) Vector() [3]float64 {
	cosLat := math.Cos(p.Lat)
	return [3]float64{
		cosLat * math.Cos(p.Lon),
		cosLat * math.Sin(p.Lon),
		math.Sin(p.Lat),
	}
}

// FromVector returns the position of the direction v. v need not be unit.
func FromVector(v [3]float64) LonLat {
	r := math.Hypot(v[0], v[1])
	return LonLat{
		Lon: math.Atan2(v[1], v[0]),
		Lat: math.Atan2(v[2], r),
	}.Normalized()
}

// AngularDistance returns the great-circle distance between p and q.
func (p LonLat) AngularDistance(q LonLat) float64 {
	a, b := p.Vector(), q.Vector()
	cross := [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	dot := a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
	return math.Atan2(math.Sqrt(cross[0]*cross[0]+cross[1]*cross[1]+cross[2]*cross[2]), dot)
}
