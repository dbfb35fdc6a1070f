// Package colorspace holds the per-image metadata (ImageSpec) carried by
// every StreamData, plus the gamma/transfer-function curves behind the
// default color-conversion oracle (see package oracle).
package colorspace

import (
	"math"

	"github.com/dcattermole/opencompgraph-go/hash"
)

// Orientation describes how a decoded image's rows/columns map onto the
// engine's row-major (0,0)-at-top-left convention.
type Orientation int

const (
	Normal Orientation = iota
	FlippedHorizontal
	FlippedVertical
	Rotated90
	Rotated180
	Rotated270
)

// Name is a color-space identifier. The engine does not interpret these
// beyond looking them up in the gamma-curve table below; an unrecognized
// name behaves as Linear.
type Name string

const (
	Linear Name = "linear"
	SRGB   Name = "srgb"
	Rec709 Name = "rec709"
	Rec601 Name = "rec601"
)

// ImageSpec carries the non-pixel metadata grouped with every
// StreamData: color space, gamma, pixel aspect, orientation, alpha
// handling and dither depth.
type ImageSpec struct {
	ColorSpace        Name
	Gamma             float32
	PixelAspect       float32
	Orientation       Orientation
	UnassociatedAlpha bool
	Dither            int32
}

// Default returns the spec a freshly constructed StreamData carries:
// linear, unit gamma and pixel aspect, normal orientation, associated
// alpha, no dithering.
func Default() ImageSpec {
	return ImageSpec{
		ColorSpace:  Linear,
		Gamma:       1.0,
		PixelAspect: 1.0,
		Orientation: Normal,
	}
}

// HashInto folds every field of spec in declaration order.
func (spec ImageSpec) HashInto(d *hash.Digest) {
	d.WriteString(string(spec.ColorSpace))
	d.WriteFloat32(spec.Gamma)
	d.WriteFloat32(spec.PixelAspect)
	d.WriteInt32(int32(spec.Orientation))
	d.WriteBool(spec.UnassociatedAlpha)
	d.WriteInt32(spec.Dither)
}

// ToLinear converts one sample from cs's gamma-encoded representation to
// scene-linear. Unrecognized color spaces are treated as already linear.
func ToLinear(cs Name, v float32) float32 {
	switch cs {
	case SRGB:
		return srgbToLinear(v)
	case Rec709, Rec601:
		return rec709ToLinear(v)
	default:
		return v
	}
}

// FromLinear converts one scene-linear sample to cs's gamma-encoded
// representation. Unrecognized color spaces are treated as already linear.
func FromLinear(cs Name, v float32) float32 {
	switch cs {
	case SRGB:
		return linearToSRGB(v)
	case Rec709, Rec601:
		return linearToRec709(v)
	default:
		return v
	}
}

// ConvertInPlace rewrites every sample of pixels (already expected to be
// float32 and channel-interleaved) from src to dst, channel by channel.
// Idempotent when src == dst, matching the oracle's documented contract.
func ConvertInPlace(pixels []float32, src, dst Name) {
	if src == dst {
		return
	}
	for i, v := range pixels {
		pixels[i] = FromLinear(dst, ToLinear(src, v))
	}
}

// The curve formulas below are pure float32 piecewise functions — the same
// technique as a lookup-table-driven transfer function, without the
// discrete quantization a LUT implies, since this engine's working format
// is float32 throughout.

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return powf((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float32) float32 {
	v = clampf(v, 0, 1)
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*powf(v, 1.0/2.4) - 0.055
}

func rec709ToLinear(v float32) float32 {
	if v < 0.081 {
		return v / 4.5
	}
	return powf((v+0.099)/1.099, 1.0/0.45)
}

func linearToRec709(v float32) float32 {
	v = clampf(v, 0, 1)
	if v < 0.018 {
		return v * 4.5
	}
	return 1.099*powf(v, 0.45) - 0.099
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// powf is float32 exponentiation via math.Pow, matching the precision
// libwebp's sharpyuv gamma tables settle for in their own float32 helpers.
func powf(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}
