// Package stream implements StreamData, the value threaded along every
// graph edge: a shared pixel block plus windows, color-space metadata,
// deformer/color-op stacks and a content hash.
package stream

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/deform"
	"github.com/dcattermole/opencompgraph-go/hash"
	"github.com/dcattermole/opencompgraph-go/linear"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

// State is StreamData's validity flag.
type State int

const (
	Invalid State = iota
	Valid
)

// StreamData is the output value passed along an edge: pixels plus
// metadata plus deferred deformer/color-op stacks. PixelBlock is shared
// by reference — cloning a StreamData (via Clone or a shallow copy) never
// copies pixel memory; call CloneBlock for writable access.
type StreamData struct {
	State           State
	Hash            uint64
	DisplayWindow   bbox.BBox2Di
	DataWindow      bbox.BBox2Di
	ColorMatrix     linear.Matrix4
	TransformMatrix linear.Matrix4
	Deformers       deform.DeformerStack
	ColorOps        deform.ColorOpStack
	PixelBlock      *pixelblock.PixelBlock
	Spec            colorspace.ImageSpec
}

// New returns a fresh, Invalid StreamData with a degenerate 2x2 block and
// identity matrices.
func New() *StreamData {
	return &StreamData{
		State:           Invalid,
		ColorMatrix:     linear.Identity4(),
		TransformMatrix: linear.Identity4(),
		PixelBlock:      pixelblock.New(2, 2, 4, pixelblock.Float32),
		Spec:            colorspace.Default(),
	}
}

// SetPixelBlock replaces the shared pixel block pointer. The prior buffer
// is released (by Go's GC) once no holder references it.
func (s *StreamData) SetPixelBlock(pb *pixelblock.PixelBlock) {
	s.PixelBlock = pb
}

// SetHash sets the stream's content hash.
func (s *StreamData) SetHash(h uint64) {
	s.Hash = h
}

// SetDataWindow sets the data window.
func (s *StreamData) SetDataWindow(w bbox.BBox2Di) {
	s.DataWindow = w
}

// SetDisplayWindow sets the display window.
func (s *StreamData) SetDisplayWindow(w bbox.BBox2Di) {
	s.DisplayWindow = w
}

// PushDeformer appends d to the deformer stack, in push order.
func (s *StreamData) PushDeformer(d deform.Deformer) {
	s.Deformers.Push(d)
}

// PushColorOp appends op to the color-op stack, in push order.
func (s *StreamData) PushColorOp(op deform.ColorOp) {
	s.ColorOps.Push(op)
}

// ClearDeformers empties the deformer stack.
func (s *StreamData) ClearDeformers() {
	s.Deformers.Clear()
}

// ClearColorOps empties the color-op stack.
func (s *StreamData) ClearColorOps() {
	s.ColorOps.Clear()
}

// ApplyDeformers applies the deformer stack to buf in place (groups of
// stride samples interpreted as coordinate pairs), over the stream's
// current data window.
func (s *StreamData) ApplyDeformers(buf []float32, stride int) {
	for _, d := range s.Deformers {
		d.ApplySliceInPlace(buf, s.DataWindow, stride)
	}
}

// CloneBlock returns a deep copy of the stream's pixel block, for callers
// that need to mutate pixels without perturbing other holders of the
// shared block — the engine's copy-on-write discipline.
func (s *StreamData) CloneBlock() *pixelblock.PixelBlock {
	return s.PixelBlock.Clone()
}

// Clone returns a shallow copy of s: the pixel block pointer is shared,
// and the deformer and color-op stacks are copied into new slices (their
// members are shared), so pushing onto the clone's stacks or mutating its
// own fields (windows, matrices, state) never perturbs s. Callers that intend to
// mutate pixels must call CloneBlock first.
func (s *StreamData) Clone() *StreamData {
	clone := *s
	clone.Deformers = append(deform.DeformerStack(nil), s.Deformers...)
	clone.ColorOps = append(deform.ColorOpStack(nil), s.ColorOps...)
	return &clone
}

// HashInto folds state, windows, matrices, deformer stack, color-op
// stack, spec and the pixel block's shape hash, in that order.
func (s *StreamData) HashInto(d *hash.Digest) {
	d.WriteInt32(int32(s.State))
	s.DataWindow.HashInto(d)
	s.DisplayWindow.HashInto(d)
	s.ColorMatrix.HashInto(d)
	s.TransformMatrix.HashInto(d)
	d.WriteUint64(s.Deformers.HashSelf())
	d.WriteUint64(s.ColorOps.HashSelf())
	s.Spec.HashInto(d)
	if s.PixelBlock != nil {
		s.PixelBlock.HashInto(d)
	}
}
