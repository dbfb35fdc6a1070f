// Package deform implements the Deformer and ColorOp plug-in abstraction:
// composable, per-pixel transforms attached to a StreamData and hashed
// deterministically, applied in push order.
package deform

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/hash"
)

func newDigest() *hash.Digest {
	return hash.New()
}

// Deformer is a per-pixel coordinate transform (lens distortion, 2-D
// affine). Every variant must hash the same way regardless of host
// language idiom: hash_self folds a version tag plus all parameters that
// affect output when enabled, and a disabled deformer folds only its
// disabled sentinel.
type Deformer interface {
	HashSelf() uint64
	ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int)
	ApplyForward(x, y float32) (float32, float32)
	ApplyBackward(x, y float32) (float32, float32)
	ApplyForwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df
	ApplyBackwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df
	CommitData()
}

// ColorOp is a per-channel pixel-value transform (grade, LUT).
type ColorOp interface {
	HashSelf() uint64
	ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int)
	CommitData()
}

// disabledSentinel is folded by any deformer/color-op instead of its
// parameters when Enable is false.
const disabledSentinel = uint8(0xFF)

// DeformerStack is an ordered sequence of Deformer, applied push-order.
// Its own hash is the ordered fold of member hashes.
type DeformerStack []Deformer

// Push appends d to the stack.
func (s *DeformerStack) Push(d Deformer) {
	*s = append(*s, d)
}

// Clear empties the stack.
func (s *DeformerStack) Clear() {
	*s = (*s)[:0]
}

// HashSelf folds each member's hash in push order.
func (s DeformerStack) HashSelf() uint64 {
	d := newDigest()
	for _, def := range s {
		d.WriteUint64(def.HashSelf())
	}
	return d.Sum64()
}

// ApplyAt forwards (x,y) through every deformer in the stack, in push
// order, via ApplyForward.
func (s DeformerStack) ApplyAt(x, y float32) (float32, float32) {
	for _, def := range s {
		x, y = def.ApplyForward(x, y)
	}
	return x, y
}

// ColorOpStack is an ordered sequence of ColorOp, applied push-order.
type ColorOpStack []ColorOp

// Push appends op to the stack.
func (s *ColorOpStack) Push(op ColorOp) {
	*s = append(*s, op)
}

// Clear empties the stack.
func (s *ColorOpStack) Clear() {
	*s = (*s)[:0]
}

// HashSelf folds each member's hash in push order.
func (s ColorOpStack) HashSelf() uint64 {
	d := newDigest()
	for _, op := range s {
		d.WriteUint64(op.HashSelf())
	}
	return d.Sum64()
}

// ApplySliceInPlace runs every color op in the stack, in push order, over
// buf.
func (s ColorOpStack) ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int) {
	for _, op := range s {
		op.ApplySliceInPlace(buf, window, stride)
	}
}
