package oracle

import (
	"math"
	"testing"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/colorspace"
)

func TestBrownianLensDistorter_RoundTrip(t *testing.T) {
	d := NewBrownianLensDistorter()
	d.SetParameter("k1", 0.05)
	d.InitializeParameters()

	x, y := float32(0.8), float32(0.3)
	dx, dy := d.Distort(x, y)
	ux, uy := d.Undistort(dx, dy)
	if math.Abs(float64(ux-x)) > 1e-3 || math.Abs(float64(uy-y)) > 1e-3 {
		t.Fatalf("round trip mismatch: got (%v,%v), want (%v,%v)", ux, uy, x, y)
	}
}

func TestBrownianLensDistorter_BoundingBoxDistort(t *testing.T) {
	d := NewBrownianLensDistorter()
	d.SetParameter("k1", 0.1)
	d.InitializeParameters()

	box := bbox.NewF(0, 0, 1, 1)
	got := d.BoundingBoxDistort(box, 8)
	if got.Width() <= 0 || got.Height() <= 0 {
		t.Fatalf("distorted bbox degenerate: %+v", got)
	}
}

func TestMatrixColorConverter_Idempotent(t *testing.T) {
	c := MatrixColorConverter{}
	px := []float32{0.2, 0.5, 0.8}
	before := append([]float32(nil), px...)
	ok := c.ColorConvertInPlace(px, 1, 1, 3, colorspace.SRGB, colorspace.SRGB)
	if !ok {
		t.Fatal("ColorConvertInPlace reported failure for identity conversion")
	}
	for i := range px {
		if px[i] != before[i] {
			t.Fatalf("idempotent conversion changed sample %d", i)
		}
	}
}

func TestProcSystemMemory_NonZero(t *testing.T) {
	m := ProcSystemMemory{}
	if m.TotalSystemMemoryBytes() == 0 {
		t.Fatal("TotalSystemMemoryBytes returned 0")
	}
}
