package tilecache

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
)

// Region is a rectangle of texels on an atlas page.
type Region struct {
	Page          int
	X, Y          int
	Width, Height int
}

// Uploader copies atlas texels to the GPU.
type Uploader interface {
	// UploadRegion writes densely packed texel rows to a page region.
	// data is only valid for the duration of the call.
	UploadRegion(r Region, data []byte) error
}

// UploaderFunc adapts a function to the Uploader interface.
type UploaderFunc func(r Region, data []byte) error

// UploadRegion calls f(r, data).
func (f UploaderFunc) UploadRegion(r Region, data []byte) error {
	return f(r, data)
}

// PageUploader uploads to one texture per page through the region update
// interface of gpucontext.
type PageUploader []gpucontext.TextureRegionUpdater

// UploadRegion implements Uploader.
func (p PageUploader) UploadRegion(r Region, data []byte) error {
	if r.Page < 0 || r.Page >= len(p) {
		return fmt.Errorf("tilecache: no texture for page %d", r.Page)
	}
	return p[r.Page].UpdateRegion(r.X, r.Y, r.Width, r.Height, data)
}

// Dirty returns the number of slots waiting for upload.
func (c *Cache) Dirty() int {
	return len(c.dirty)
}

// Flush uploads every slot written since the previous Flush.
// Slots that fail to upload stay dirty and are retried by the next Flush.
func (c *Cache) Flush(u Uploader) error {
	refs := make([]SlotRef, 0, len(c.dirty))
	for ref := range c.dirty {
		refs = append(refs, ref)
	}
	slices.Sort(refs)

	bpt := c.cfg.Format.BytesPerTexel()
	row := c.cfg.TileSize * bpt
	stride := c.cfg.PageSize * bpt
	buf := make([]byte, c.cfg.TileSize*row)
	for _, ref := range refs {
		s := c.slots[ref]
		page := c.pages[s.Page]
		for y := range c.cfg.TileSize {
			off := (s.Y+y)*stride + s.X*bpt
			copy(buf[y*row:(y+1)*row], page[off:off+row])
		}
		r := Region{Page: s.Page, X: s.X, Y: s.Y, Width: c.cfg.TileSize, Height: c.cfg.TileSize}
		if err := u.UploadRegion(r, buf); err != nil {
			return fmt.Errorf("tilecache: upload slot %d of %s: %w", ref, s.Cell, err)
		}
		delete(c.dirty, ref)
	}
	return nil
}
