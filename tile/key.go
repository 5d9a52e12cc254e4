package tile

import (
	"fmt"

	"github.com/gogpu/hips/healpix"
)

// Key identifies a tile of a survey.
type Key struct {
	// URL is the root URL of the survey.
	URL string
	// Cell is the HEALPix cell the tile covers.
	Cell healpix.Cell
}

// Path returns the location of the tile relative to the survey root in the
// HiPS directory layout, e.g. "Norder3/Dir0/Npix421.png".
func (k Key) Path(f Format) string {
	dir := k.Cell.Index / 10000 * 10000
	return fmt.Sprintf("Norder%d/Dir%d/Npix%d.%s", k.Cell.Depth, dir, k.Cell.Index, f.Ext())
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.URL + "@" + k.Cell.String()
}
