// Package ops implements the pure pixel kernels invoked by node compute
// routines: merge, crop, resample and bake.
package ops

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// MergeMode selects the per-pixel combine function for Merge. The
// integer codes are fixed: Add=0, Over=1, Multiply=2.
type MergeMode int

const (
	MergeAdd MergeMode = iota
	MergeOver
	MergeMultiply
)

// Merge iterates the combined window of a's and b's data windows,
// fetching each input at (x,y) with clamp-to-border, and writes the
// combined result into a newly allocated float32 RGBA block covering
// outWindow. RGB-only inputs (channels < 4) default alpha to 1.
func Merge(mode MergeMode, a, b *pixelblock.PixelBlock, aWindow, bWindow bbox.BBox2Di, mix float32) (*pixelblock.PixelBlock, bbox.BBox2Di) {
	outWindow := bbox.Combine(aWindow, bWindow)
	width := int(outWindow.Width())
	height := int(outWindow.Height())
	out := pixelblock.New(width, height, 4, pixelblock.Float32)

	for y := 0; y < height; y++ {
		wy := outWindow.MinY + int32(y)
		for x := 0; x < width; x++ {
			wx := outWindow.MinX + int32(x)
			ar, ag, ab, aa := fetchClamped(a, aWindow, wx, wy)
			br, bg, bb, ba := fetchClamped(b, bWindow, wx, wy)

			var or, og, ob, oa float32
			switch mode {
			case MergeAdd:
				or = ar + br*mix
				og = ag + bg*mix
				ob = ab + bb*mix
				oa = aa + ba*mix
			case MergeOver:
				// mix blends Over toward plain addition: at mix=1 B is
				// held out by A's full alpha, at mix=0 B passes through
				// unattenuated.
				k := 1 - aa*mix
				or = ar + br*k
				og = ag + bg*k
				ob = ab + bb*k
				oa = aa + ba*k
			case MergeMultiply:
				or = ar * (br * mix)
				og = ag * (bg * mix)
				ob = ab * (bb * mix)
				oa = aa * (ba * mix)
			}

			idx := out.GetIndex(x, y)
			out.DataF32[idx+0] = or
			out.DataF32[idx+1] = og
			out.DataF32[idx+2] = ob
			out.DataF32[idx+3] = oa
		}
	}
	return out, outWindow
}

// fetchClamped reads the RGBA sample of pb (whose data window is win) at
// world coordinate (x,y), clamping (x,y) to win's bounds. A nil or
// zero-sized pb yields transparent black. RGB-only blocks (channels
// < 4) report alpha = 1.
func fetchClamped(pb *pixelblock.PixelBlock, win bbox.BBox2Di, x, y int32) (r, g, b, a float32) {
	if pb == nil || pb.Width == 0 || pb.Height == 0 {
		return 0, 0, 0, 0
	}
	cx := clampI32(x, win.MinX, win.MaxX-1)
	cy := clampI32(y, win.MinY, win.MaxY-1)
	lx := int(cx - win.MinX)
	ly := int(cy - win.MinY)
	idx := pb.GetIndex(lx, ly)
	if idx < 0 {
		return 0, 0, 0, 0
	}
	get := func(c int) float32 {
		if c >= pb.Channels {
			return 0
		}
		return sampleAsFloat(pb, idx+c)
	}
	r = get(0)
	g = get(1)
	b = get(2)
	if pb.Channels >= 4 {
		a = get(3)
	} else {
		a = 1
	}
	return r, g, b, a
}

func clampI32(v, lo, hi int32) int32 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sampleAsFloat(pb *pixelblock.PixelBlock, i int) float32 {
	switch pb.DType {
	case pixelblock.UInt8:
		return float32(pb.DataU8[i]) / 255.0
	case pixelblock.UInt16:
		return float32(pb.DataU16[i]) / 65535.0
	case pixelblock.Float32:
		return pb.DataF32[i]
	default:
		// Half16 conversion goes through ConvertInto elsewhere; callers
		// of Merge are expected to hand it float32 blocks already.
		return 0
	}
}
