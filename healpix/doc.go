// Package healpix implements the nested HEALPix tessellation of the sphere.
//
// The sphere is split into 12 base cells. Every cell at depth d has four
// children at depth d+1, so a depth holds 12*4^d cells. A cell is identified
// by its depth and its nested index:
//
//	index = face<<(2*depth) | interleave(x, y)
//
// where face is the base cell (0..11) and x, y are the cell coordinates
// inside the face, x occupying the even bits.
//
// Inside a face, local coordinates X and Y range over [0, 1]. X runs from the
// south vertex towards the east vertex, Y from the south vertex towards the
// west vertex. Grid points, centers and vertices are computed by inverting
// the HEALPix projection from those local coordinates.
//
// All angles are radians. Longitudes are returned in [0, 2*pi).
package healpix
