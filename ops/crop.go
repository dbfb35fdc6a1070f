package ops

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// CropImageInPlace computes the new data window for a crop and returns
// a freshly allocated block for it:
//   - if intersect: window is first clipped to the current data window.
//   - if blackOutside: the resulting window is expanded by one pixel on
//     each side and that one-pixel border is left zero (already the case,
//     since New zero-fills); the data window reported is the expanded one.
//   - the display window becomes window when reformat is set, otherwise
//     it is left unchanged by the caller (CropImageInPlace only computes
//     the data-window side of the CropImage node).
func CropImageInPlace(img *pixelblock.PixelBlock, srcWindow, window bbox.BBox2Di, reformat, blackOutside, intersect bool) (out *pixelblock.PixelBlock, newDataWindow bbox.BBox2Di) {
	effective := window
	if intersect {
		effective = bbox.Intersection(srcWindow, window)
	}

	if blackOutside {
		expanded := bbox.NewI(effective.MinX-1, effective.MinY-1, effective.MaxX+1, effective.MaxY+1)
		out = pixelblock.New(int(expanded.Width()), int(expanded.Height()), img.Channels, img.DType)
		copyInto(out, expanded, img, srcWindow, effective)
		return out, expanded
	}

	out = pixelblock.FromExisting(img, srcWindow, effective)
	return out, effective
}

// copyInto fills the interior region (srcEffective, expressed in the same
// world coordinates as dstWindow) of dst from src, leaving dst's border
// (already zero from New) untouched — the black_outside border.
func copyInto(dst *pixelblock.PixelBlock, dstWindow bbox.BBox2Di, src *pixelblock.PixelBlock, srcWindow, srcEffective bbox.BBox2Di) {
	overlap := bbox.Intersection(srcWindow, srcEffective)
	for y := overlap.MinY; y < overlap.MaxY; y++ {
		srcLocalY := int(y - srcWindow.MinY)
		dstLocalY := int(y - dstWindow.MinY)
		if srcLocalY < 0 || srcLocalY >= src.Height || dstLocalY < 0 || dstLocalY >= dst.Height {
			continue
		}
		for x := overlap.MinX; x < overlap.MaxX; x++ {
			srcLocalX := int(x - srcWindow.MinX)
			dstLocalX := int(x - dstWindow.MinX)
			if srcLocalX < 0 || srcLocalX >= src.Width || dstLocalX < 0 || dstLocalX >= dst.Width {
				continue
			}
			srcIdx := src.GetIndex(srcLocalX, srcLocalY)
			dstIdx := dst.GetIndex(dstLocalX, dstLocalY)
			if srcIdx < 0 || dstIdx < 0 {
				continue
			}
			n := dst.Channels
			if src.Channels < n {
				n = src.Channels
			}
			for c := 0; c < n; c++ {
				setScalarSame(dst, dstIdx+c, src, srcIdx+c)
			}
		}
	}
}

func setScalarSame(dst *pixelblock.PixelBlock, dstIdx int, src *pixelblock.PixelBlock, srcIdx int) {
	switch dst.DType {
	case pixelblock.UInt8:
		dst.DataU8[dstIdx] = src.DataU8[srcIdx]
	case pixelblock.UInt16:
		dst.DataU16[dstIdx] = src.DataU16[srcIdx]
	case pixelblock.Half16:
		dst.DataH16[dstIdx] = src.DataH16[srcIdx]
	case pixelblock.Float32:
		dst.DataF32[dstIdx] = src.DataF32[srcIdx]
	}
}
