// Package hips draws hierarchical all-sky tile surveys.
//
// # Overview
//
// A survey is a pyramid of square tiles indexed by the HEALPix nested
// scheme: 12 base cells at depth 0, each split in four at every deeper
// level. A Collection stacks several surveys as named layers, keeps a GPU
// texture atlas per survey, picks the tiles to show for the current camera
// and hands the draw work of every frame to a DrawSink.
//
// # Quick Start
//
//	c := hips.NewCollection(hips.WithProjection(projection.Orthographic{}))
//	urls, err := c.SetImageSurveys([]hips.LayerSpec{{
//	    Layer:  "base",
//	    Survey: tile.DefaultConfig("https://example.org/dss"),
//	    Meta:   hips.DefaultLayerMeta(),
//	}})
//
//	// Once per frame:
//	c.RefreshViews(cam)
//	for _, k := range c.TilesToRequest() {
//	    res.Request(k, cfg)
//	}
//	resolved, available := res.Drain()
//	c.AddResolvedTiles(resolved)
//	c.SetAvailableTiles(available)
//	err = c.Draw(cam, c.Projection(), sink)
//	c.ResetFrame()
//
// # Frame protocol
//
// The drawing mode is decided once per frame. Wide fields of view are ray
// traced: a screen-covering grid is drawn and each fragment finds its cell
// through a lookup table. Narrow ones are rasterized from a mesh of the
// visible cells, rebuilt only when the cells, the atlas or the mode change.
//
// Tiles fade in. Each cell blends from a coarser resident tile to its own
// tile over the blend duration, using the arrival time stored in the atlas.
//
// # Architecture
//
// The packages are organized into:
//   - healpix: cell indexing, hashing and cell grids
//   - view, projection: the camera, cells in view and screen projections
//   - tile, tilecache: tile payloads and the atlas with LRU eviction
//   - lod: the choice of tiles each cell blends between
//   - render, shader: meshes, lookup tables, vertex layouts and WGSL programs
//   - resolver: asynchronous tile fetching
//   - backend/wgpu: a DrawSink on a wgpu HAL device
//
// # Logging
//
// hips is silent by default. See SetLogger.
package hips
