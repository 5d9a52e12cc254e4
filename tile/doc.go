// Package tile defines the data exchanged between a tile resolver and the
// texture cache: tile keys, decoded payloads, resolution results and the
// per-survey tile configuration.
//
// A payload is decoded once, at resolution time, into the texel layout of
// the atlas texture it will be written to. Consumers switch on Format rather
// than on the concrete image type.
package tile
