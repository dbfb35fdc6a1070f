package oracle

import "github.com/dcattermole/opencompgraph-go/bbox"

// BrownianLensDistorter is the default deform.LensOracle: a closed-form
// radial model (k1, k2 named like deform.Brownian) standing in for the
// native TDE-Classic plug-in otherwise treated as opaque.
// InitializeParameters/SetParameter mutate internal state even though
// the interface also exposes "query" methods (Undistort/Distort) —
// callers must not assume thread-safety of a shared instance.
type BrownianLensDistorter struct {
	params map[string]float32
	k1, k2 float32
	cx, cy float32
}

// NewBrownianLensDistorter returns an un-initialized distorter; call
// SetParameter then InitializeParameters before Distort/Undistort.
func NewBrownianLensDistorter() *BrownianLensDistorter {
	return &BrownianLensDistorter{params: map[string]float32{}, cx: 0.5, cy: 0.5}
}

// SetParameter records name=value for later InitializeParameters.
func (b *BrownianLensDistorter) SetParameter(name string, value float32) {
	b.params[name] = value
}

// InitializeParameters derives k1/k2/center from whatever names were set;
// recognized names are "k1", "k2", "center_x", "center_y". Unrecognized
// names are ignored.
func (b *BrownianLensDistorter) InitializeParameters() {
	if v, ok := b.params["k1"]; ok {
		b.k1 = v
	}
	if v, ok := b.params["k2"]; ok {
		b.k2 = v
	}
	if v, ok := b.params["center_x"]; ok {
		b.cx = v
	}
	if v, ok := b.params["center_y"]; ok {
		b.cy = v
	}
}

func (b *BrownianLensDistorter) radialFactor(r2 float32) float32 {
	return 1 + b.k1*r2 + b.k2*r2*r2
}

// Distort maps an undistorted coordinate to its distorted position.
func (b *BrownianLensDistorter) Distort(x, y float32) (float32, float32) {
	dx := x - b.cx
	dy := y - b.cy
	f := b.radialFactor(dx*dx + dy*dy)
	return b.cx + dx*f, b.cy + dy*f
}

// Undistort maps a distorted coordinate back via fixed-point iteration.
func (b *BrownianLensDistorter) Undistort(x, y float32) (float32, float32) {
	ux, uy := x, y
	for i := 0; i < 8; i++ {
		dx := ux - b.cx
		dy := uy - b.cy
		f := b.radialFactor(dx*dx + dy*dy)
		if f == 0 {
			break
		}
		ux = b.cx + (x-b.cx)/f
		uy = b.cy + (y-b.cy)/f
	}
	return ux, uy
}

// BoundingBoxDistort samples box's perimeter and returns the combined box
// of the distorted samples.
func (b *BrownianLensDistorter) BoundingBoxDistort(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	return sampleBBox(b.Distort, box, samples)
}

// BoundingBoxUndistort samples box's perimeter and returns the combined
// box of the undistorted samples.
func (b *BrownianLensDistorter) BoundingBoxUndistort(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	return sampleBBox(b.Undistort, box, samples)
}

func sampleBBox(fn func(x, y float32) (float32, float32), box bbox.BBox2Df, samples int) bbox.BBox2Df {
	if samples < 2 {
		samples = 2
	}
	first := true
	var out bbox.BBox2Df
	accumulate := func(x, y float32) {
		ox, oy := fn(x, y)
		pt := bbox.BBox2Df{MinX: ox, MinY: oy, MaxX: ox, MaxY: oy}
		if first {
			out = pt
			first = false
			return
		}
		out = bbox.CombineF(out, pt)
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
