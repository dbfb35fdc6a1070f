package deform

import "github.com/dcattermole/opencompgraph-go/bbox"

// LensOracle is the opaque TDE-Classic-like lens-distortion plug-in
// interface. Real TDE-Classic plug-ins mutate internal LUT state even on
// query methods, so every "query" is potentially mutating and callers
// must not assume thread safety of a shared instance. Declared here,
// not in package oracle, so LensDistortTDE never imports the oracle
// package directly — any concrete type satisfying this interface (such as
// oracle.BrownianLensDistorter) can be wired in without either package
// depending on the other.
type LensOracle interface {
	SetParameter(name string, value float32)
	InitializeParameters()
	Undistort(x, y float32) (float32, float32)
	Distort(x, y float32) (float32, float32)
	BoundingBoxDistort(box bbox.BBox2Df, samples int) bbox.BBox2Df
	BoundingBoxUndistort(box bbox.BBox2Df, samples int) bbox.BBox2Df
}

// LensDistortTDE forwards every operation to an injected LensOracle,
// treating the TDE Classic plug-in as an opaque coordinate oracle: this
// deformer owns no distortion math of its own.
type LensDistortTDE struct {
	Enable bool
	Oracle LensOracle
	Params map[string]float32
}

// NewLensDistortTDE returns a LensDistortTDE bound to oracle, with no
// parameters set.
func NewLensDistortTDE(oracle LensOracle) *LensDistortTDE {
	return &LensDistortTDE{Enable: true, Oracle: oracle, Params: map[string]float32{}}
}

// SetParameter records name=value and forwards it to the oracle.
func (l *LensDistortTDE) SetParameter(name string, value float32) {
	l.Params[name] = value
	if l.Oracle != nil {
		l.Oracle.SetParameter(name, value)
	}
}

// HashSelf folds a version tag, the oracle parameters (sorted by name for
// determinism), and the disabled sentinel when not enabled.
func (l *LensDistortTDE) HashSelf() uint64 {
	d := newDigest()
	d.WriteString("LensDistortTDE")
	d.WriteBool(l.Enable)
	if !l.Enable {
		d.WriteUint8(disabledSentinel)
		return d.Sum64()
	}
	names := make([]string, 0, len(l.Params))
	for n := range l.Params {
		names = append(names, n)
	}
	sortStrings(names)
	for _, n := range names {
		d.WriteString(n)
		d.WriteFloat32(l.Params[n])
	}
	return d.Sum64()
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// CommitData initializes the oracle's derived parameters once all
// SetParameter calls are in, mirroring an initialize_parameters step.
func (l *LensDistortTDE) CommitData() {
	if l.Oracle != nil {
		l.Oracle.InitializeParameters()
	}
}

// ApplyForward distorts (x,y) via the oracle.
func (l *LensDistortTDE) ApplyForward(x, y float32) (float32, float32) {
	if !l.Enable || l.Oracle == nil {
		return x, y
	}
	return l.Oracle.Distort(x, y)
}

// ApplyBackward undistorts (x,y) via the oracle.
func (l *LensDistortTDE) ApplyBackward(x, y float32) (float32, float32) {
	if !l.Enable || l.Oracle == nil {
		return x, y
	}
	return l.Oracle.Undistort(x, y)
}

// ApplySliceInPlace remaps each group-of-stride coordinate pair in buf
// through the window to [0,1], applies the distortion, then remaps back.
func (l *LensDistortTDE) ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int) {
	if !l.Enable || l.Oracle == nil || stride < 2 {
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
		nx, ny = l.Oracle.Distort(nx, ny)
		buf[i] = nx*w + float32(window.MinX)
		buf[i+1] = ny*h + float32(window.MinY)
	}
}

// ApplyForwardBBox delegates directly to the oracle's own bbox sampling.
func (l *LensDistortTDE) ApplyForwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	if !l.Enable || l.Oracle == nil {
		return box
	}
	return l.Oracle.BoundingBoxDistort(box, samples)
}

// ApplyBackwardBBox delegates directly to the oracle's own bbox sampling.
func (l *LensDistortTDE) ApplyBackwardBBox(box bbox.BBox2Df, samples int) bbox.BBox2Df {
	if !l.Enable || l.Oracle == nil {
		return box
	}
	return l.Oracle.BoundingBoxUndistort(box, samples)
}
