package deform

import "github.com/dcattermole/opencompgraph-go/bbox"

// Brownian is a closed-form radial lens-distortion model — the deformer
// used when no native lens-distortion plug-in is available, since it
// needs no external oracle. Coordinates are in normalized FOV space
// [0,1]x[0,1], centered at (CenterX, CenterY).
type Brownian struct {
	Enable  bool
	K1      float32
	K2      float32
	CenterX float32
	CenterY float32
}

// NewBrownian returns a Brownian deformer with no distortion.
func NewBrownian() *Brownian {
	return &Brownian{Enable: true, CenterX: 0.5, CenterY: 0.5}
}

// HashSelf folds a version tag and, when enabled, every parameter that
// affects output; a disabled Brownian folds only the disabled sentinel.
func (b *Brownian) HashSelf() uint64 {
	d := newDigest()
	d.WriteString("Brownian")
	d.WriteBool(b.Enable)
	if !b.Enable {
		d.WriteUint8(disabledSentinel)
		return d.Sum64()
	}
	d.WriteFloat32(b.K1)
	d.WriteFloat32(b.K2)
	d.WriteFloat32(b.CenterX)
	d.WriteFloat32(b.CenterY)
	return d.Sum64()
}

// radialFactor returns the multiplicative radial distortion factor at
// squared radius r2 from center: 1 + K1*r2 + K2*r2^2.
func (b *Brownian) radialFactor(r2 float32) float32 {
	return 1 + b.K1*r2 + b.K2*r2*r2
}

// ApplyForward distorts (x,y): a point moves outward/inward from the
// center by the radial factor.
func (b *Brownian) ApplyForward(x, y float32) (float32, float32) {
	if !b.Enable {
		return x, y
	}
	dx := x - b.CenterX
	dy := y - b.CenterY
	r2 := dx*dx + dy*dy
	f := b.radialFactor(r2)
	return b.CenterX + dx*f, b.CenterY + dy*f
}

// ApplyBackward undistorts (x,y) via fixed-point iteration on the forward
// closed form — Brownian distortion has no closed-form inverse.
func (b *Brownian) ApplyBackward(x, y float32) (float32, float32) {
	if !b.Enable {
		return x, y
	}
	ux, uy := x, y
	for i := 0; i < 8; i++ {
		dx := ux - b.CenterX
		dy := uy - b.CenterY
		r2 := dx*dx + dy*dy
		f := b.radialFactor(r2)
		if f == 0 {
			break
		}
		ux = b.CenterX + (x-b.CenterX)/f
		uy = b.CenterY + (y-b.CenterY)/f
	}
	return ux, uy
}

// ApplySliceInPlace remaps each group-of-stride coordinate pair in buf
// through the window to [0,1], applies the distortion, then remaps back.
func (b *Brownian) ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int) {
	if !b.Enable || stride < 2 {
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
		nx, ny = b.ApplyForward(nx, ny)
		buf[i] = nx*w + float32(window.MinX)
		buf[i+1] = ny*h + float32(window.MinY)
	}
}

// ApplyForwardBBox samples the box's perimeter and returns the combined
// box of the forward-distorted samples.
func (b *Brownian) ApplyForwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	return sampleBBoxForward(b.ApplyForward, box, samples)
}

// ApplyBackwardBBox samples the box's perimeter and returns the combined
// box of the undistorted samples.
func (b *Brownian) ApplyBackwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	return sampleBBoxForward(b.ApplyBackward, box, samples)
}

// CommitData is a no-op for Brownian: its closed form needs no derived
// state beyond its own parameters.
func (b *Brownian) CommitData() {}
