package ops

import (
	"math"
	"testing"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/deform"
	"github.com/dcattermole/opencompgraph-go/linear"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

func TestBake_IdentityPipelinePreservesPixels(t *testing.T) {
	src := pixelblock.New(4, 4, 4, pixelblock.Float32)
	for i := range src.DataF32 {
		src.DataF32[i] = 0.5
	}
	win := bbox.NewI(0, 0, 4, 4)

	out := Bake(BakeAll, src, win, colorspace.Linear, colorspace.Linear, nil, linear.Identity4(), nil, pixelblock.Float32)

	for i, v := range out.DataF32 {
		if math.Abs(float64(v-0.5)) > 1e-4 {
			t.Fatalf("identity bake changed sample %d: %v", i, v)
		}
	}
}

func TestBake_ColorSpaceOnly(t *testing.T) {
	src := pixelblock.New(1, 1, 4, pixelblock.Float32)
	src.DataF32[0] = 0.5
	src.DataF32[1] = 0.5
	src.DataF32[2] = 0.5
	src.DataF32[3] = 1
	win := bbox.NewI(0, 0, 1, 1)

	out := Bake(BakeColorSpaceOnly, src, win, colorspace.Linear, colorspace.SRGB, nil, linear.Identity4(), nil, pixelblock.Float32)
	want := colorspace.FromLinear(colorspace.SRGB, 0.5)
	if math.Abs(float64(out.DataF32[0]-want)) > 1e-4 {
		t.Fatalf("color space step not applied: got %v, want %v", out.DataF32[0], want)
	}
}

func TestBake_DeformerWarpsGrid(t *testing.T) {
	src := pixelblock.New(4, 4, 1, pixelblock.Float32)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.DataF32[src.GetIndex(x, y)] = float32(x)
		}
	}
	win := bbox.NewI(0, 0, 4, 4)

	var stack deform.DeformerStack
	tr := deform.NewTransform()
	tr.TranslateX = 0.25 // shift by one pixel in a 4-wide image
	tr.CommitData()
	stack.Push(tr)

	out := Bake(BakeDeformers, src, win, colorspace.Linear, colorspace.Linear, stack, linear.Identity4(), nil, pixelblock.Float32)
	if out.Width != 4 || out.Height != 4 {
		t.Fatalf("warped block dims = %dx%d, want 4x4", out.Width, out.Height)
	}
}

func TestApplyColorMatrix_Identity(t *testing.T) {
	pb := pixelblock.New(2, 2, 4, pixelblock.Float32)
	for i := range pb.DataF32 {
		pb.DataF32[i] = float32(i) / 10
	}
	before := append([]float32(nil), pb.DataF32...)
	applyColorMatrix(pb, linear.Identity4())
	for i := range pb.DataF32 {
		if math.Abs(float64(pb.DataF32[i]-before[i])) > 1e-5 {
			t.Fatalf("identity matrix changed sample %d: %v -> %v", i, before[i], pb.DataF32[i])
		}
	}
}
