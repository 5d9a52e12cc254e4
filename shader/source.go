package shader

import (
	_ "embed"
	"strings"

	"github.com/gogpu/hips/tile"
)

//go:embed raster.wgsl
var rasterTemplate string

//go:embed raytrace.wgsl
var raytraceTemplate string

var scalarTypes = map[tile.SampleType]string{
	tile.SampleFloat: "f32",
	tile.SampleInt:   "i32",
	tile.SampleUint:  "u32",
}

const texelSource = `fn texel(uvw: vec3<f32>) -> vec4<{{SCALAR}}> {
    let size = vec2<f32>(textureDimensions(atlas));
    let p = vec2<i32>(clamp(uvw.xy * size, vec2<f32>(0.0, 0.0), size - vec2<f32>(1.0, 1.0)));
    return textureLoad(atlas, p, i32(uvw.z), 0);
}
`

const scalarSource = `fn transfer(x: f32) -> f32 {
    let t = clamp(x, 0.0, 1.0);
    let k = globals.color_params.z;
    let lg = log(1.0 + 1000.0 * t) / log(1001.0);
    return select(select(select(t * t, lg, k < 2.5), sqrt(t), k < 1.5), t, k < 0.5);
}

fn value(uvw: vec3<f32>) -> f32 {
    let raw = f32(texel(uvw).r);
    return transfer(raw * globals.color_params.x + globals.color_params.y);
}
`

var colorSources = map[ColorMode]string{
	Colored: `fn load_color(uvw: vec3<f32>) -> vec4<f32> {
    return texel(uvw);
}
`,
	Grayscale2Colormap: scalarSource + `
fn load_color(uvw: vec3<f32>) -> vec4<f32> {
    let t = value(uvw);
    return vec4<f32>(mix(globals.low.rgb, globals.high.rgb, t), 1.0);
}
`,
	Grayscale2Color: scalarSource + `
fn load_color(uvw: vec3<f32>) -> vec4<f32> {
    return vec4<f32>(globals.tint.rgb * value(uvw), 1.0);
}
`,
}

// unprojectSources invert the projections of package projection. The result
// is the ray direction in xyz and 1 in w when the fragment shows the sky.
var unprojectSources = map[string]string{
	"SIN": `fn unproject(ndc: vec2<f32>) -> vec4<f32> {
    let x = -ndc.x * globals.screen.x;
    let y = ndc.y * globals.screen.y;
    let r2 = x * x + y * y;
    let z = sqrt(max(1.0 - r2, 0.0));
    let d = globals.frame[0].xyz * x + globals.frame[1].xyz * y + globals.frame[2].xyz * z;
    return vec4<f32>(d, select(0.0, 1.0, r2 <= 1.0));
}
`,
	"TAN": `fn unproject(ndc: vec2<f32>) -> vec4<f32> {
    let x = -ndc.x * globals.screen.x;
    let y = ndc.y * globals.screen.y;
    let d = globals.frame[0].xyz * x + globals.frame[1].xyz * y + globals.frame[2].xyz;
    return vec4<f32>(d, 1.0);
}
`,
}

// Source returns the WGSL program selected by k.
func Source(k Key) (string, error) {
	if err := k.Validate(); err != nil {
		return "", err
	}
	tmpl := rasterTemplate
	unproject := ""
	if k.Kind == Raytrace {
		tmpl = raytraceTemplate
		unproject = unprojectSources[k.Projection]
	}
	common := texelSource + "\n" + colorSources[k.Color]
	r := strings.NewReplacer(
		"{{UNPROJECT}}", unproject,
		"{{COMMON}}", common,
	)
	src := r.Replace(tmpl)
	// The common block itself refers to the scalar type.
	return strings.ReplaceAll(src, "{{SCALAR}}", scalarTypes[k.Sample]), nil
}
