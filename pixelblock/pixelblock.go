// Package pixelblock implements the typed 2-D pixel buffer at the core of
// the engine's stream data model, along with value-preserving conversion
// between its four supported data types.
package pixelblock

import (
	"math"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/hash"
	"github.com/x448/float16"
)

// DataType identifies the numeric representation of a PixelBlock's samples.
type DataType int

const (
	UInt8 DataType = iota
	UInt16
	Half16
	Float32
)

// PixelBlock is a typed, row-major 2-D pixel buffer. Exactly one of the
// Data* slices is populated, selected by DType; the others are nil.
// len(data) always equals Width*Height*Channels.
type PixelBlock struct {
	Width, Height, Channels int
	DType                   DataType

	DataU8  []uint8
	DataU16 []uint16
	DataH16 []uint16 // half-precision bits, see github.com/x448/float16
	DataF32 []float32
}

// New allocates a zero-filled PixelBlock of the given dimensions and type.
func New(width, height, channels int, dtype DataType) *PixelBlock {
	pb := &PixelBlock{Width: width, Height: height, Channels: channels, DType: dtype}
	n := width * height * channels
	switch dtype {
	case UInt8:
		pb.DataU8 = make([]uint8, n)
	case UInt16:
		pb.DataU16 = make([]uint16, n)
	case Half16:
		pb.DataH16 = make([]uint16, n)
	case Float32:
		pb.DataF32 = make([]float32, n)
	}
	return pb
}

// Empty returns a degenerate 0x0x0 block of the given type.
func Empty(dtype DataType) *PixelBlock {
	return &PixelBlock{DType: dtype}
}

// Len returns the number of samples (Width*Height*Channels).
func (pb *PixelBlock) Len() int {
	return pb.Width * pb.Height * pb.Channels
}

// GetIndex returns the row-major element index of the first channel at
// (x,y), or -1 if (x,y) is out of bounds.
func (pb *PixelBlock) GetIndex(x, y int) int {
	if x < 0 || y < 0 || x >= pb.Width || y >= pb.Height {
		return -1
	}
	return y*pb.Width*pb.Channels + x*pb.Channels
}

// RowRange returns the [start, end) sample indices of row y within
// whichever Data* field DType selects. It does not check y against
// Height.
func (pb *PixelBlock) RowRange(y int) (start, end int) {
	start = y * pb.Width * pb.Channels
	end = start + pb.Width*pb.Channels
	return start, end
}

// RowIterator walks rows 0..Height-1, restartable via Reset.
type RowIterator struct {
	pb  *PixelBlock
	row int
}

// Rows returns a fresh, restartable row iterator over pb.
func (pb *PixelBlock) Rows() *RowIterator {
	return &RowIterator{pb: pb}
}

// Next reports whether another row is available.
func (it *RowIterator) Next() bool {
	return it.row < it.pb.Height
}

// Reset rewinds the iterator to row 0.
func (it *RowIterator) Reset() {
	it.row = 0
}

// RowFloat32 returns row data as float32, converting in a scratch buffer
// if the block's native type is not Float32. Advances the iterator.
func (it *RowIterator) RowFloat32(scratch []float32) []float32 {
	start, end := it.pb.RowRange(it.row)
	it.row++
	n := end - start
	if it.pb.DType == Float32 {
		return it.pb.DataF32[start:end]
	}
	if cap(scratch) < n {
		scratch = make([]float32, n)
	}
	scratch = scratch[:n]
	for i := 0; i < n; i++ {
		scratch[i] = sampleAsFloat32(it.pb, start+i)
	}
	return scratch
}

func sampleAsFloat32(pb *PixelBlock, i int) float32 {
	switch pb.DType {
	case UInt8:
		return float32(pb.DataU8[i]) / 255.0
	case UInt16:
		return float32(pb.DataU16[i]) / 65535.0
	case Half16:
		return float16.Frombits(pb.DataH16[i]).Float32()
	case Float32:
		return pb.DataF32[i]
	}
	return 0
}

// FromExisting is the crop-copy constructor: it allocates a new block of
// (width, height, channels, dtype) and fills the region where srcWindow
// (the source block's data window) overlaps cropWindow, leaving every
// other pixel zero.
func FromExisting(src *PixelBlock, srcWindow, cropWindow bbox.BBox2Di) *PixelBlock {
	width := int(cropWindow.Width())
	height := int(cropWindow.Height())
	dst := New(width, height, src.Channels, src.DType)

	overlap := bbox.Intersection(srcWindow, cropWindow)
	if overlap.Width() <= 0 || overlap.Height() <= 0 {
		return dst
	}

	for y := overlap.MinY; y < overlap.MaxY; y++ {
		srcLocalY := int(y - srcWindow.MinY)
		dstLocalY := int(y - cropWindow.MinY)
		if srcLocalY < 0 || srcLocalY >= src.Height || dstLocalY < 0 || dstLocalY >= dst.Height {
			continue
		}
		for x := overlap.MinX; x < overlap.MaxX; x++ {
			srcLocalX := int(x - srcWindow.MinX)
			dstLocalX := int(x - cropWindow.MinX)
			if srcLocalX < 0 || srcLocalX >= src.Width || dstLocalX < 0 || dstLocalX >= dst.Width {
				continue
			}
			srcIdx := src.GetIndex(srcLocalX, srcLocalY)
			dstIdx := dst.GetIndex(dstLocalX, dstLocalY)
			if srcIdx < 0 || dstIdx < 0 {
				continue
			}
			copyChannels(dst, dstIdx, src, srcIdx)
		}
	}
	return dst
}

func copyChannels(dst *PixelBlock, dstIdx int, src *PixelBlock, srcIdx int) {
	n := dst.Channels
	if src.Channels < n {
		n = src.Channels
	}
	switch {
	case dst.DType == src.DType:
		switch dst.DType {
		case UInt8:
			copy(dst.DataU8[dstIdx:dstIdx+n], src.DataU8[srcIdx:srcIdx+n])
		case UInt16:
			copy(dst.DataU16[dstIdx:dstIdx+n], src.DataU16[srcIdx:srcIdx+n])
		case Half16:
			copy(dst.DataH16[dstIdx:dstIdx+n], src.DataH16[srcIdx:srcIdx+n])
		case Float32:
			copy(dst.DataF32[dstIdx:dstIdx+n], src.DataF32[srcIdx:srcIdx+n])
		}
	default:
		for c := 0; c < n; c++ {
			setSample(dst, dstIdx+c, convertScalar(sampleValue(src, srcIdx+c), src.DType, dst.DType))
		}
	}
}

// sampleValue reads the raw scalar at i as a float64 in its native range
// (not normalized), used only by convertScalar's type-dispatch below.
func sampleValue(pb *PixelBlock, i int) float64 {
	switch pb.DType {
	case UInt8:
		return float64(pb.DataU8[i])
	case UInt16:
		return float64(pb.DataU16[i])
	case Half16:
		return float64(float16.Frombits(pb.DataH16[i]).Float32())
	case Float32:
		return float64(pb.DataF32[i])
	}
	return 0
}

func setSample(pb *PixelBlock, i int, v float64) {
	switch pb.DType {
	case UInt8:
		pb.DataU8[i] = uint8(clamp(v, 0, 255))
	case UInt16:
		pb.DataU16[i] = uint16(clamp(v, 0, 65535))
	case Half16:
		pb.DataH16[i] = float16.Fromfloat32(float32(v)).Bits()
	case Float32:
		pb.DataF32[i] = float32(v)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// convertScalar applies the conversion-matrix rule from "from" to "to" for
// one raw scalar value (in from's native range), returning a raw value in
// to's native range. The [0,1] clamp applies only to integer targets:
// half<->float conversions are plain precision changes and must keep
// values outside [0,1] (superwhites, negatives) intact.
func convertScalar(v float64, from, to DataType) float64 {
	if from == to {
		return v
	}
	// Normalize integer sources to [0,1]; half/float are already in
	// normalized units.
	var norm float64
	switch from {
	case UInt8:
		norm = v / 255.0
	case UInt16:
		norm = v / 65535.0
	case Half16, Float32:
		norm = v
	}
	switch to {
	case UInt8:
		return math.Round(clamp(norm, 0, 1) * 255.0)
	case UInt16:
		return math.Round(clamp(norm, 0, 1) * 65535.0)
	}
	return norm
}

// ConvertInto returns a new PixelBlock holding the same image converted to
// dtype, per the conversion-matrix rules: integer<->integer rescale by
// max value, float/half sources clamp to [0,1] before scaling to an
// integer target, integer sources normalize by dividing by their max.
func (pb *PixelBlock) ConvertInto(dtype DataType) *PixelBlock {
	if pb.DType == dtype {
		return pb.Clone()
	}
	dst := New(pb.Width, pb.Height, pb.Channels, dtype)
	n := pb.Len()
	for i := 0; i < n; i++ {
		setSample(dst, i, convertScalar(sampleValue(pb, i), pb.DType, dtype))
	}
	return dst
}

// Clone returns a deep copy of pb.
func (pb *PixelBlock) Clone() *PixelBlock {
	dst := &PixelBlock{Width: pb.Width, Height: pb.Height, Channels: pb.Channels, DType: pb.DType}
	switch pb.DType {
	case UInt8:
		dst.DataU8 = append([]uint8(nil), pb.DataU8...)
	case UInt16:
		dst.DataU16 = append([]uint16(nil), pb.DataU16...)
	case Half16:
		dst.DataH16 = append([]uint16(nil), pb.DataH16...)
	case Float32:
		dst.DataF32 = append([]float32(nil), pb.DataF32...)
	}
	return dst
}

// Resize reallocates pb in place to new dimensions/type, discarding old
// pixel contents (the caller re-fills it, typically via a kernel that
// writes every pixel of the new shape).
func (pb *PixelBlock) Resize(width, height, channels int, dtype DataType) {
	resized := New(width, height, channels, dtype)
	*pb = *resized
}

// HashInto folds only the block's shape (width, height, channels), never
// pixel bytes — the pixel content is identified via the owning stream's
// hash chain instead, per the engine's hashing discipline.
func (pb *PixelBlock) HashInto(d *hash.Digest) {
	d.WriteInt32(int32(pb.Width))
	d.WriteInt32(int32(pb.Height))
	d.WriteInt32(int32(pb.Channels))
}
