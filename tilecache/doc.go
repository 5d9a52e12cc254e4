// Package tilecache stores the tiles of one survey in a texture atlas.
//
// The atlas is made of pages, each a square texture array layer split into
// fixed-size tile slots. A slot is bound to one HEALPix cell at a time and
// carries the metadata the renderer needs to blend between resolutions:
// whether the tile is a missing placeholder and when it arrived.
//
// Every page keeps a CPU mirror of its texels. Slots written since the last
// Flush are uploaded to the GPU through an Uploader.
//
// When the atlas is full, Push reuses the least recently used slot whose
// cell is neither on screen nor a base cell. The renderer refers to slots
// through SlotRef indices, which stay valid until the next Push.
//
// A Cache is owned by a single goroutine and is not safe for concurrent use.
package tilecache
