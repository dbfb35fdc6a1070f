package deform

import (
	"math"

	"github.com/dcattermole/opencompgraph-go/bbox"
)

// Grade is the per-channel grading color op: black/white point, lift,
// gain, multiply, offset and gamma, plus reverse/clamp/premult/mix flags.
type Grade struct {
	Enable     bool
	BlackPoint float32
	WhitePoint float32
	Lift       float32
	Gain       float32
	Multiply   float32
	Offset     float32
	Gamma      float32
	Reverse    bool
	ClampBlack bool
	ClampWhite bool
	Premult    bool
	Mix        float32
}

// NewGrade returns a Grade with the identity formula: white point 1,
// gain 1, multiply 1, gamma 1, mix 1, everything else 0.
func NewGrade() *Grade {
	return &Grade{
		Enable:     true,
		WhitePoint: 1,
		Gain:       1,
		Multiply:   1,
		Gamma:      1,
		Mix:        1,
	}
}

// HashSelf folds a version tag and, when enabled, every parameter that
// affects output; a disabled Grade folds only the disabled sentinel —
// this is how S1's hash-stability scenario holds.
func (g *Grade) HashSelf() uint64 {
	d := newDigest()
	d.WriteString("Grade")
	d.WriteBool(g.Enable)
	if !g.Enable {
		d.WriteUint8(disabledSentinel)
		return d.Sum64()
	}
	d.WriteFloat32(g.BlackPoint)
	d.WriteFloat32(g.WhitePoint)
	d.WriteFloat32(g.Lift)
	d.WriteFloat32(g.Gain)
	d.WriteFloat32(g.Multiply)
	d.WriteFloat32(g.Offset)
	d.WriteFloat32(g.Gamma)
	d.WriteBool(g.Reverse)
	d.WriteBool(g.ClampBlack)
	d.WriteBool(g.ClampWhite)
	d.WriteBool(g.Premult)
	d.WriteFloat32(g.Mix)
	return d.Sum64()
}

// CommitData is a no-op: Grade's formula has no derived state beyond its
// own parameters.
func (g *Grade) CommitData() {}

// coefficients returns a, b for the linear branch out = (a*in + b)^(1/gamma):
// a = multiply*(gain-lift)/(white_point-black_point), b = offset + lift - a*black_point.
func (g *Grade) coefficients() (a, b float32) {
	denom := g.WhitePoint - g.BlackPoint
	if denom == 0 {
		denom = 1e-6
	}
	a = g.Multiply * (g.Gain - g.Lift) / denom
	b = g.Offset + g.Lift - a*g.BlackPoint
	return a, b
}

// applyOne applies the grade formula to a single channel sample v,
// optionally in reverse, with clamp-black/clamp-white.
func (g *Grade) applyOne(v float32) float32 {
	a, b := g.coefficients()
	var out float32
	if g.Reverse {
		// Invert the gamma branch then the linear branch.
		base := v
		if base < 0 {
			base = 0
		}
		inv := powf(base, g.Gamma)
		if a == 0 {
			out = b
		} else {
			out = (inv - b) / a
		}
	} else {
		lin := a*v + b
		if lin < 0 {
			lin = 0
		}
		out = powf(lin, 1.0/g.Gamma)
	}
	if g.ClampBlack && out < 0 {
		out = 0
	}
	if g.ClampWhite && out > 1 {
		out = 1
	}
	return out
}

// ApplySliceInPlace applies the grade formula per channel across groups of
// stride samples (the last channel of each group, if stride==4, is alpha
// and participates in Premult handling).
func (g *Grade) ApplySliceInPlace(buf []float32, window bbox.BBox2Di, stride int) {
	if !g.Enable || stride <= 0 {
		return
	}
	for i := 0; i+stride <= len(buf); i += stride {
		alpha := float32(1)
		if stride >= 4 {
			alpha = buf[i+3]
		}
		for c := 0; c < stride && c < 3; c++ {
			orig := buf[i+c]
			v := orig
			if g.Premult && alpha != 0 {
				v = v / alpha
			}
			graded := g.applyOne(v)
			if g.Premult && alpha != 0 {
				graded = graded * alpha
			}
			buf[i+c] = orig*(1-g.Mix) + graded*g.Mix
		}
	}
}

func powf(base, exp float32) float32 {
	if base == 0 && exp > 0 {
		return 0
	}
	return float32(math.Pow(float64(base), float64(exp)))
}
