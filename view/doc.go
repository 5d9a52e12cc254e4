// Package view tracks the camera and the HEALPix cells it sees.
//
// A CellsInView is refreshed once per frame. It picks the depth whose tile
// resolution matches the screen resolution, collects the cells at that
// depth that intersect the camera, and raises a one-frame flag when the set
// differs from the previous frame.
package view
