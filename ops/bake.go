package ops

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/deform"
	"github.com/dcattermole/opencompgraph-go/internal/bufpool"
	"github.com/dcattermole/opencompgraph-go/linear"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// BakeOptions is a bitmask selecting which of Bake's deferred-operation
// steps actually run, mirroring the Viewer node's {Nothing,
// ColorSpaceOnly, All} bake setting, generalized to
// every step WriteImage/Viewer may need.
type BakeOptions uint8

const (
	BakeColorSpace BakeOptions = 1 << iota
	BakeDeformers
	BakeColorMatrix
	BakeColorOps
)

const (
	BakeNothing        BakeOptions = 0
	BakeColorSpaceOnly             = BakeColorSpace
	BakeAll                        = BakeColorSpace | BakeDeformers | BakeColorMatrix | BakeColorOps
)

// ColorConverter is the external color-conversion oracle. Declared here
// (not in package oracle) so ops never imports oracle directly — any type
// satisfying this interface, such as oracle.MatrixColorConverter, can be
// passed to BakeWithConverter without a dependency cycle.
type ColorConverter interface {
	ColorConvertInPlace(pixels []float32, width, height, channels int, srcCS, dstCS colorspace.Name) bool
}

// Bake materializes a stream's deferred transformations into pixel data
// using package colorspace's gamma-curve math for the color-convert step.
// Equivalent to BakeWithConverter(opts, pb, dataWindow, fromCS, toCS,
// deformers, colorMatrix, colorOps, targetDType, nil).
func Bake(opts BakeOptions, pb *pixelblock.PixelBlock, dataWindow bbox.BBox2Di, fromCS, toCS colorspace.Name, deformers deform.DeformerStack, colorMatrix linear.Matrix4, colorOps deform.ColorOpStack, targetDType pixelblock.DataType) *pixelblock.PixelBlock {
	return BakeWithConverter(opts, pb, dataWindow, fromCS, toCS, deformers, colorMatrix, colorOps, targetDType, nil)
}

// BakeWithConverter materializes a stream's deferred transformations into
// pixel data, in a fixed order: (1) convert to float32, (2) color-convert
// from fromCS to toCS via conv (falling back to package colorspace's
// gamma-curve math when conv is nil), (3) apply the deformer stack by
// warping the pixel grid, (4) apply the color matrix, (5) apply the
// color-op stack, (6) convert to targetDType. Each of steps 2-5 is
// skipped when its bit is absent from opts.
func BakeWithConverter(opts BakeOptions, pb *pixelblock.PixelBlock, dataWindow bbox.BBox2Di, fromCS, toCS colorspace.Name, deformers deform.DeformerStack, colorMatrix linear.Matrix4, colorOps deform.ColorOpStack, targetDType pixelblock.DataType, conv ColorConverter) *pixelblock.PixelBlock {
	work := pb.ConvertInto(pixelblock.Float32)

	if opts&BakeColorSpace != 0 {
		if conv != nil {
			conv.ColorConvertInPlace(work.DataF32, work.Width, work.Height, work.Channels, fromCS, toCS)
		} else {
			colorspace.ConvertInPlace(work.DataF32, fromCS, toCS)
		}
	}

	if opts&BakeDeformers != 0 && len(deformers) > 0 {
		work = warpByDeformers(work, dataWindow, deformers)
	}

	if opts&BakeColorMatrix != 0 {
		applyColorMatrix(work, colorMatrix)
	}

	if opts&BakeColorOps != 0 && len(colorOps) > 0 {
		colorOps.ApplySliceInPlace(work.DataF32, dataWindow, work.Channels)
	}

	return work.ConvertInto(targetDType)
}

// warpByDeformers resamples src into a same-sized block by mapping each
// destination pixel back through the deformer stack (in reverse push
// order, since each deformer's ApplyBackward is its own inverse) to a
// source coordinate, then bilinearly sampling.
func warpByDeformers(src *pixelblock.PixelBlock, dataWindow bbox.BBox2Di, deformers deform.DeformerStack) *pixelblock.PixelBlock {
	dst := pixelblock.New(src.Width, src.Height, src.Channels, pixelblock.Float32)
	w := float32(dataWindow.Width())
	h := float32(dataWindow.Height())
	if w == 0 || h == 0 {
		return dst
	}

	scratch := bufpool.GetFloat32(src.Channels)
	defer bufpool.PutFloat32(scratch)

	for y := 0; y < src.Height; y++ {
		wy := float32(dataWindow.MinY+int32(y)) + 0.5
		for x := 0; x < src.Width; x++ {
			wx := float32(dataWindow.MinX+int32(x)) + 0.5

			nx := (wx - float32(dataWindow.MinX)) / w
			ny := (wy - float32(dataWindow.MinY)) / h
			for i := len(deformers) - 1; i >= 0; i-- {
				nx, ny = deformers[i].ApplyBackward(nx, ny)
			}
			sx := nx*w + float32(dataWindow.MinX) - 0.5
			sy := ny*h + float32(dataWindow.MinY) - 0.5

			sampleBilinear(src, sx-float32(dataWindow.MinX), sy-float32(dataWindow.MinY), scratch)
			dstIdx := dst.GetIndex(x, y)
			copy(dst.DataF32[dstIdx:dstIdx+dst.Channels], scratch)
		}
	}
	return dst
}

// sampleBilinear reads src at local (float) coordinate (x,y), writing one
// sample per channel into out. Out-of-bounds coordinates clamp to the
// nearest edge pixel.
func sampleBilinear(src *pixelblock.PixelBlock, x, y float32, out []float32) {
	x0 := clampFloatToInt(x, 0, src.Width-1)
	y0 := clampFloatToInt(y, 0, src.Height-1)
	x1 := clampIntBound(x0+1, src.Width-1)
	y1 := clampIntBound(y0+1, src.Height-1)

	fx := x - float32(x0)
	fy := y - float32(y0)
	if fx < 0 {
		fx = 0
	}
	if fy < 0 {
		fy = 0
	}

	i00 := src.GetIndex(x0, y0)
	i10 := src.GetIndex(x1, y0)
	i01 := src.GetIndex(x0, y1)
	i11 := src.GetIndex(x1, y1)

	for c := 0; c < src.Channels; c++ {
		v00 := src.DataF32[i00+c]
		v10 := src.DataF32[i10+c]
		v01 := src.DataF32[i01+c]
		v11 := src.DataF32[i11+c]
		top := v00 + (v10-v00)*fx
		bot := v01 + (v11-v01)*fx
		out[c] = top + (bot-top)*fy
	}
}

func clampFloatToInt(v float32, lo, hi int) int {
	iv := int(v)
	if v < float32(lo) {
		return lo
	}
	if iv > hi {
		return hi
	}
	return iv
}

func clampIntBound(v, hi int) int {
	if v > hi {
		return hi
	}
	if v < 0 {
		return 0
	}
	return v
}

// applyColorMatrix multiplies every pixel's (r,g,b,a) as a homogeneous
// vector by m, in place. Blocks with fewer than 4 channels are padded
// with 0 for missing channels and 1 for a missing alpha, matching the
// merge kernel's RGB-only convention.
func applyColorMatrix(pb *pixelblock.PixelBlock, m linear.Matrix4) {
	for i := 0; i+pb.Channels <= pb.Len(); i += pb.Channels {
		v := linear.Vector4{0, 0, 0, 1}
		for c := 0; c < pb.Channels && c < 4; c++ {
			v[c] = pb.DataF32[i+c]
		}
		out := m.MulVector4(v)
		for c := 0; c < pb.Channels && c < 4; c++ {
			pb.DataF32[i+c] = out[c]
		}
	}
}
