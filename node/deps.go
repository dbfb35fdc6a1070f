package node

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/cache"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/ops"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// ImageIO is the file-decode/encode oracle ReadImage and WriteImage
// delegate to. Declared here (not in package oracle) so node never
// imports oracle directly — oracle.StdImageIO satisfies this structurally.
type ImageIO interface {
	ReadImage(path string) (pb *pixelblock.PixelBlock, displayWindow, dataWindow bbox.BBox2Di, spec colorspace.ImageSpec, err error)
	WriteImage(pb *pixelblock.PixelBlock, spec colorspace.ImageSpec, path string) error
}

// Deps bundles every external collaborator a node's Compute may need,
// constructor-injected by the graph evaluator that owns them.
type Deps struct {
	ImageIO        ImageIO
	ColorConverter ops.ColorConverter
	Resampler      ops.Resampler
	Cache          *cache.Cache
}
