package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hips"
	"github.com/gogpu/hips/tilecache"
)

// atlas is the texture array of one survey.
type atlas struct {
	desc    hips.AtlasDesc
	texture hal.Texture
	view    hal.TextureView
	pages   tilecache.PageUploader
}

func newAtlas(device hal.Device, queue hal.Queue, desc hips.AtlasDesc) (*atlas, error) {
	bpt := bytesPerTexel(desc.Format)
	if bpt == 0 {
		return nil, fmt.Errorf("unsupported atlas format %s", desc.Format)
	}
	if desc.PageSize < 1 || desc.Pages < 1 {
		return nil, fmt.Errorf("invalid atlas %dx%d with %d pages", desc.PageSize, desc.PageSize, desc.Pages)
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label: "hips/atlas/" + desc.URL,
		Size: hal.Extent3D{
			Width:              uint32(desc.PageSize),
			Height:             uint32(desc.PageSize),
			DepthOrArrayLayers: uint32(desc.Pages),
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create atlas texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           "hips/atlas/" + desc.URL,
		Format:          desc.Format,
		Dimension:       gputypes.TextureViewDimension2DArray,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: uint32(desc.Pages),
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("create atlas view: %w", err)
	}

	pages := make(tilecache.PageUploader, desc.Pages)
	for i := range pages {
		pages[i] = &pageLayer{
			queue:   queue,
			texture: tex,
			layer:   uint32(i),
			size:    desc.PageSize,
			bpt:     bpt,
		}
	}
	return &atlas{desc: desc, texture: tex, view: view, pages: pages}, nil
}

func (a *atlas) destroy(device hal.Device) {
	device.DestroyTextureView(a.view)
	device.DestroyTexture(a.texture)
}

// pageLayer writes regions of one array layer of an atlas texture.
type pageLayer struct {
	queue   hal.Queue
	texture hal.Texture
	layer   uint32
	size    int
	bpt     int
}

var _ gpucontext.TextureRegionUpdater = (*pageLayer)(nil)

// UpdateRegion implements gpucontext.TextureRegionUpdater.
func (p *pageLayer) UpdateRegion(x, y, w, h int, data []byte) error {
	if x < 0 || y < 0 || w < 1 || h < 1 || x+w > p.size || y+h > p.size {
		return fmt.Errorf("%w: %dx%d at (%d,%d) on a %d page", ErrRegionOutOfBounds, w, h, x, y, p.size)
	}
	if len(data) != w*h*p.bpt {
		return fmt.Errorf("wgpu: region data is %d bytes, want %d", len(data), w*h*p.bpt)
	}
	return p.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: p.texture,
			Origin:  hal.Origin3D{X: uint32(x), Y: uint32(y), Z: p.layer},
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{BytesPerRow: uint32(w * p.bpt), RowsPerImage: uint32(h)},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
}

// lutTexture holds the ray-trace lookup table of one survey, one row per
// cell and three RGBA32Float texels per row.
type lutTexture struct {
	texture hal.Texture
	view    hal.TextureView
	rows    int
}

const (
	lutTexelsPerRow = 3
	lutBytesPerRow  = lutTexelsPerRow * 16
)

func (l *lutTexture) write(device hal.Device, queue hal.Queue, label string, data []byte, retire func(func())) error {
	rows := len(data) / lutBytesPerRow
	if rows == 0 || len(data)%lutBytesPerRow != 0 {
		return fmt.Errorf("lookup table of %d bytes is not a whole number of entries", len(data))
	}
	if l.texture == nil || rows != l.rows {
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         label,
			Size:          hal.Extent3D{Width: lutTexelsPerRow, Height: uint32(rows), DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA32Float,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create lookup table: %w", err)
		}
		view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:           label,
			Format:          gputypes.TextureFormatRGBA32Float,
			Dimension:       gputypes.TextureViewDimension2D,
			Aspect:          gputypes.TextureAspectAll,
			MipLevelCount:   1,
			ArrayLayerCount: 1,
		})
		if err != nil {
			device.DestroyTexture(tex)
			return fmt.Errorf("create lookup table view: %w", err)
		}
		if l.texture != nil {
			oldTex, oldView := l.texture, l.view
			retire(func() {
				device.DestroyTextureView(oldView)
				device.DestroyTexture(oldTex)
			})
		}
		l.texture, l.view, l.rows = tex, view, rows
	}
	return queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: l.texture, Aspect: gputypes.TextureAspectAll},
		data,
		&hal.ImageDataLayout{BytesPerRow: lutBytesPerRow, RowsPerImage: uint32(rows)},
		&hal.Extent3D{Width: lutTexelsPerRow, Height: uint32(rows), DepthOrArrayLayers: 1},
	)
}

func (l *lutTexture) destroy(device hal.Device) {
	if l.view != nil {
		device.DestroyTextureView(l.view)
		l.view = nil
	}
	if l.texture != nil {
		device.DestroyTexture(l.texture)
		l.texture = nil
	}
	l.rows = 0
}

func bytesPerTexel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Uint:
		return 1
	case gputypes.TextureFormatR16Sint:
		return 2
	case gputypes.TextureFormatR32Float, gputypes.TextureFormatR32Sint, gputypes.TextureFormatRGBA8Unorm:
		return 4
	case gputypes.TextureFormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

func sampleType(f gputypes.TextureFormat) gputypes.TextureSampleType {
	switch f {
	case gputypes.TextureFormatR8Uint:
		return gputypes.TextureSampleTypeUint
	case gputypes.TextureFormatR16Sint, gputypes.TextureFormatR32Sint:
		return gputypes.TextureSampleTypeSint
	case gputypes.TextureFormatR32Float:
		return gputypes.TextureSampleTypeUnfilterableFloat
	default:
		return gputypes.TextureSampleTypeFloat
	}
}
