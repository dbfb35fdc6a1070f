package oracle

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// ImageIO is the file I/O oracle.
type ImageIO interface {
	ReadImage(path string) (pb *pixelblock.PixelBlock, displayWindow, dataWindow bbox.BBox2Di, spec colorspace.ImageSpec, err error)
	WriteImage(pb *pixelblock.PixelBlock, spec colorspace.ImageSpec, path string) error
}

// StdImageIO is the default ImageIO, backed by the standard library's
// image/png, image/jpeg and image/gif decoders — registered with
// image.Decode the same way a custom codec would register with
// image.RegisterFormat. Extension selects the encoder on write.
type StdImageIO struct{}

// ReadImage decodes any format the standard library's image package
// recognizes. Color space defaults to Linear, since none of the
// registered stdlib decoders carry color-space metadata this module
// recognizes.
func (StdImageIO) ReadImage(path string) (*pixelblock.PixelBlock, bbox.BBox2Di, bbox.BBox2Di, colorspace.ImageSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, bbox.BBox2Di{}, bbox.BBox2Di{}, colorspace.ImageSpec{}, fmt.Errorf("oracle: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, bbox.BBox2Di{}, bbox.BBox2Di{}, colorspace.ImageSpec{}, fmt.Errorf("oracle: decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pb := pixelblock.New(width, height, 4, pixelblock.Float32)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			idx := pb.GetIndex(x, y)
			pb.DataF32[idx+0] = float32(r) / 65535.0
			pb.DataF32[idx+1] = float32(g) / 65535.0
			pb.DataF32[idx+2] = float32(b) / 65535.0
			pb.DataF32[idx+3] = float32(a) / 65535.0
		}
	}

	window := bbox.NewI(0, 0, int32(width), int32(height))
	spec := colorspace.Default()
	return pb, window, window, spec, nil
}

// WriteImage encodes pb as PNG or JPEG, selected by path's extension; any
// other extension defaults to PNG.
func (StdImageIO) WriteImage(pb *pixelblock.PixelBlock, spec colorspace.ImageSpec, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("oracle: create %s: %w", path, err)
	}
	defer f.Close()

	img := toNRGBA(pb)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 95}); err != nil {
			return fmt.Errorf("oracle: encode %s: %w", path, err)
		}
		return nil
	default:
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("oracle: encode %s: %w", path, err)
		}
		return nil
	}
}
