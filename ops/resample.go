package ops

import "github.com/dcattermole/opencompgraph-go/pixelblock"

// Resampler is the external resample oracle. Declared
// here (not in package oracle) so ops never imports oracle directly —
// any type satisfying this interface, such as oracle.DrawResampler, can
// be passed in without a dependency cycle.
type Resampler interface {
	Resample(src, dst *pixelblock.PixelBlock, factor int, interpolate bool) bool
}

// ImageResample delegates to r, allocating dst at the resolution implied
// by factor: a positive factor doubles resolution |factor| times, a
// negative factor halves it |factor| times (power-of-two up/down-res per
// the ResampleImage node).
func ImageResample(r Resampler, src *pixelblock.PixelBlock, factor int, interpolate bool) (*pixelblock.PixelBlock, bool) {
	width, height := src.Width, src.Height
	if factor > 0 {
		width <<= uint(factor)
		height <<= uint(factor)
	} else if factor < 0 {
		shift := uint(-factor)
		width = maxInt(1, width>>shift)
		height = maxInt(1, height>>shift)
	}
	dst := pixelblock.New(width, height, src.Channels, src.DType)
	ok := r.Resample(src, dst, factor, interpolate)
	return dst, ok
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
