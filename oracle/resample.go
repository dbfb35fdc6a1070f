package oracle

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// DrawResampler is the default Resampler: a box-filter
// accumulate-then-divide pass when down-sampling (factor < 0) by an
// integer ratio, which is exact for such factors, and golang.org/x/image/draw
// for every other case — its bilinear scaler when interpolate is set,
// nearest-neighbour otherwise.
type DrawResampler struct{}

// Resample implements ops.Resampler. factor follows the ResampleImage contract:
// positive doubles resolution |factor| times, negative halves it.
func (DrawResampler) Resample(src, dst *pixelblock.PixelBlock, factor int, interpolate bool) bool {
	if src == nil || dst == nil {
		return false
	}
	if isPowerOfTwoRatio(src, dst) && factor < 0 {
		boxFilterDownsample(src, dst)
		return true
	}
	return drawResample(src, dst, interpolate)
}

func isPowerOfTwoRatio(src, dst *pixelblock.PixelBlock) bool {
	if dst.Width == 0 || dst.Height == 0 {
		return false
	}
	return src.Width%dst.Width == 0 && src.Height%dst.Height == 0
}

// boxFilterDownsample accumulates each destination pixel's source box
// and divides by its pixel count.
func boxFilterDownsample(src, dst *pixelblock.PixelBlock) {
	sx := src.Width / dst.Width
	sy := src.Height / dst.Height
	if sx < 1 {
		sx = 1
	}
	if sy < 1 {
		sy = 1
	}
	srcF := src.ConvertInto(pixelblock.Float32)
	for dy := 0; dy < dst.Height; dy++ {
		for dx := 0; dx < dst.Width; dx++ {
			for c := 0; c < dst.Channels; c++ {
				var sum float32
				count := 0
				for oy := 0; oy < sy; oy++ {
					for ox := 0; ox < sx; ox++ {
						idx := srcF.GetIndex(dx*sx+ox, dy*sy+oy)
						if idx < 0 || c >= srcF.Channels {
							continue
						}
						sum += srcF.DataF32[idx+c]
						count++
					}
				}
				if count == 0 {
					continue
				}
				avg := sum / float32(count)
				writeDstSample(dst, dst.GetIndex(dx, dy)+c, avg)
			}
		}
	}
}

func writeDstSample(dst *pixelblock.PixelBlock, idx int, v float32) {
	switch dst.DType {
	case pixelblock.Float32:
		dst.DataF32[idx] = v
	case pixelblock.UInt8:
		dst.DataU8[idx] = uint8(clampF(v, 0, 1) * 255)
	case pixelblock.UInt16:
		dst.DataU16[idx] = uint16(clampF(v, 0, 1) * 65535)
	}
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// drawResample converts both blocks to image.NRGBA, runs x/image/draw's
// scaler, and converts the result back into dst's native type.
func drawResample(src, dst *pixelblock.PixelBlock, interpolate bool) bool {
	srcImg := toNRGBA(src)
	dstImg := image.NewNRGBA(image.Rect(0, 0, dst.Width, dst.Height))

	scaler := draw.NearestNeighbor
	if interpolate {
		scaler = draw.BiLinear
	}
	scaler.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), draw.Over, nil)

	fromNRGBA(dstImg, dst)
	return true
}

func toNRGBA(pb *pixelblock.PixelBlock) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pb.Width, pb.Height))
	f := pb.ConvertInto(pixelblock.Float32)
	for y := 0; y < pb.Height; y++ {
		for x := 0; x < pb.Width; x++ {
			idx := f.GetIndex(x, y)
			r, g, b, a := sampleRGBA(f, idx)
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(clampF(r, 0, 1) * 255),
				G: uint8(clampF(g, 0, 1) * 255),
				B: uint8(clampF(b, 0, 1) * 255),
				A: uint8(clampF(a, 0, 1) * 255),
			})
		}
	}
	return img
}

func sampleRGBA(pb *pixelblock.PixelBlock, idx int) (r, g, b, a float32) {
	get := func(c int) float32 {
		if c >= pb.Channels || idx < 0 {
			return 0
		}
		return pb.DataF32[idx+c]
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

func fromNRGBA(img *image.NRGBA, dst *pixelblock.PixelBlock) {
	for y := 0; y < dst.Height; y++ {
		for x := 0; x < dst.Width; x++ {
			c := img.NRGBAAt(x, y)
			idx := dst.GetIndex(x, y)
			if idx < 0 {
				continue
			}
			vals := [4]float32{
				float32(c.R) / 255,
				float32(c.G) / 255,
				float32(c.B) / 255,
				float32(c.A) / 255,
			}
			for ch := 0; ch < dst.Channels && ch < 4; ch++ {
				writeDstSample(dst, idx+ch, vals[ch])
			}
		}
	}
}
