package deform

import (
	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/linear"
)

// Transform is the 2-D translate/rotate/scale deformer, built around a
// pivot point. Rotation is in degrees; translation is in
// normalized [0,1] stream-space units.
type Transform struct {
	Enable     bool
	TranslateX float32
	TranslateY float32
	RotateDeg  float32
	ScaleX     float32
	ScaleY     float32
	PivotX     float32
	PivotY     float32
	Invert     bool

	matrix    linear.Matrix4
	committed bool
}

// NewTransform returns a Transform with identity scale and no rotation or
// translation.
func NewTransform() *Transform {
	return &Transform{Enable: true, ScaleX: 1, ScaleY: 1}
}

// CommitData builds the 4x4 matrix M = Scale * Rotate(center) *
// Translate(normalized(tx,ty)), inverting it when Invert is set.
// Must be called before Apply* once parameters are set.
func (t *Transform) CommitData() {
	rad := float32(degToRad(t.RotateDeg))
	m := linear.Scale4(t.ScaleX, t.ScaleY, 1).
		Mul(linear.RotateZ4(rad)).
		Mul(linear.Translate4(t.TranslateX, t.TranslateY, 0))
	if t.Invert {
		m = m.Invert()
	}
	t.matrix = m
	t.committed = true
}

func (t *Transform) ensureCommitted() {
	if !t.committed {
		t.CommitData()
	}
}

// HashSelf folds a version tag and, when enabled, every parameter that
// affects output; a disabled Transform folds only the disabled sentinel.
func (t *Transform) HashSelf() uint64 {
	d := newDigest()
	d.WriteString("Transform")
	d.WriteBool(t.Enable)
	if !t.Enable {
		d.WriteUint8(disabledSentinel)
		return d.Sum64()
	}
	d.WriteFloat32(t.TranslateX)
	d.WriteFloat32(t.TranslateY)
	d.WriteFloat32(t.RotateDeg)
	d.WriteFloat32(t.ScaleX)
	d.WriteFloat32(t.ScaleY)
	d.WriteFloat32(t.PivotX)
	d.WriteFloat32(t.PivotY)
	d.WriteBool(t.Invert)
	return d.Sum64()
}

// ApplyForward maps (x,y) through out = M*(in - pivot) + pivot.
func (t *Transform) ApplyForward(x, y float32) (float32, float32) {
	if !t.Enable {
		return x, y
	}
	t.ensureCommitted()
	v := linear.Vector4{x - t.PivotX, y - t.PivotY, 0, 1}
	out := t.matrix.MulVector4(v)
	return out[0] + t.PivotX, out[1] + t.PivotY
}

// ApplyBackward applies the inverse transform, used to map an output
// coordinate back to its source.
func (t *Transform) ApplyBackward(x, y float32) (float32, float32) {
	if !t.Enable {
		return x, y
	}
	t.ensureCommitted()
	inv := t.matrix.Invert()
	v := linear.Vector4{x - t.PivotX, y - t.PivotY, 0, 1}
	out := inv.MulVector4(v)
	return out[0] + t.PivotX, out[1] + t.PivotY
}

// ApplySliceInPlace remaps each group-of-stride coordinate pair in buf
// through the window to [0,1], applies the transform, then remaps back.
func (t *Transform) ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int) {
	if !t.Enable || stride < 2 {
		return
	}
	w := float32(window.Width())
	h := float32(window.Height())
	if w == 0 || h == 0 {
		return
	}
	for i := 0; i+stride <= len(buf); i += stride {
		nx := (buf[i] - float32(window.MinX)) / w
		ny := (buf[i+1] - float32(window.MinY)) / h
		nx, ny = t.ApplyForward(nx, ny)
		buf[i] = nx*w + float32(window.MinX)
		buf[i+1] = ny*h + float32(window.MinY)
	}
}

// ApplyForwardBBox samples the box's perimeter and returns the combined
// box of the forward-mapped samples.
func (t *Transform) ApplyForwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	return sampleBBoxForward(t.ApplyForward, box, samples)
}

// ApplyBackwardBBox samples the box's perimeter and returns the combined
// box of the backward-mapped samples.
func (t *Transform) ApplyBackwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	return sampleBBoxForward(t.ApplyBackward, box, samples)
}

// sampleBBoxForward samples `samples` points per edge of box through fn
// and returns their combined bounding box — shared by Transform's and
// Brownian's bbox-forward/backward implementations (LensDistortTDE asks
// its oracle instead).
func sampleBBoxForward(fn func(x, y float32) (float32, float32), box bbox.BBox2Df, samples int) bbox.BBox2Df {
	if samples < 2 {
		samples = 2
	}
	first := true
	var out bbox.BBox2Df
	accumulate := func(x, y float32) {
		ox, oy := fn(x, y)
		if first {
			out = bbox.BBox2Df{MinX: ox, MinY: oy, MaxX: ox, MaxY: oy}
			first = false
			return
		}
		out = bbox.CombineF(out, bbox.BBox2Df{MinX: ox, MinY: oy, MaxX: ox, MaxY: oy})
	}
	for i := 0; i < samples; i++ {
		t := float32(i) / float32(samples-1)
		accumulate(box.MinX+t*box.Width(), box.MinY)
		accumulate(box.MinX+t*box.Width(), box.MaxY)
		accumulate(box.MinX, box.MinY+t*box.Height())
		accumulate(box.MaxX, box.MinY+t*box.Height())
	}
	return out
}

func degToRad(deg float32) float64 {
	return float64(deg) * (3.14159265358979323846 / 180.0)
}
