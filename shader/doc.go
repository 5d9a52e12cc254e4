// Package shader generates and compiles the WGSL programs that draw survey
// layers.
//
// A program is selected by a Key: the draw kind (raster or ray trace), how
// texels become colors, the sample type of the atlas texture and, for ray
// tracing, the projection inverted per fragment. Sources are generated from
// two embedded templates and compiled to SPIR-V with naga. Compiled programs
// are memoised by a Manager.
//
//	m := shader.NewManager()
//	spirv, err := m.SPIRV(shader.Key{
//		Kind:   shader.Raster,
//		Color:  shader.Colored,
//		Sample: tile.SampleFloat,
//	})
//
// Uniform data for both programs is described by Globals.
package shader
