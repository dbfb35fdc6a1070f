package graph

import (
	"testing"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/cache"
	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/node"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

type stubImageIO struct{}

func (stubImageIO) ReadImage(path string) (*pixelblock.PixelBlock, bbox.BBox2Di, bbox.BBox2Di, colorspace.ImageSpec, error) {
	pb := pixelblock.New(2, 2, 4, pixelblock.Float32)
	for i := 0; i+4 <= pb.Len(); i += 4 {
		pb.DataF32[i+0] = 1
		pb.DataF32[i+3] = 1
	}
	w := bbox.NewI(0, 0, 2, 2)
	return pb, w, w, colorspace.Default(), nil
}

func (stubImageIO) WriteImage(pb *pixelblock.PixelBlock, spec colorspace.ImageSpec, path string) error {
	return nil
}

// TestExecute_DiamondDependency exercises a shared-ancestor shape (two
// Transform nodes both reading the same source, merged back together) to
// confirm topoOrder evaluates an ancestor before every consumer that
// depends on it, regardless of discovery depth.
func TestExecute_DiamondDependency(t *testing.T) {
	g := New()
	read := g.AddNode(node.NewNode(node.ReadImage, 0))
	ng, _ := g.Node(read)
	ng.Attrs.SetStr("file_path", "/in.png")

	left := g.AddNode(node.NewNode(node.Transform, 0))
	leftNode, _ := g.Node(left)
	leftNode.Attrs.SetF32("translate_x", 0.1)

	right := g.AddNode(node.NewNode(node.Transform, 0))
	rightNode, _ := g.Node(right)
	rightNode.Attrs.SetF32("translate_y", 0.1)

	merge := g.AddNode(node.NewNode(node.MergeImage, 0))

	if _, err := g.Connect(read, left, 0); err != nil {
		t.Fatalf("read->left: %v", err)
	}
	if _, err := g.Connect(read, right, 0); err != nil {
		t.Fatalf("read->right: %v", err)
	}
	if _, err := g.Connect(left, merge, 0); err != nil {
		t.Fatalf("left->merge: %v", err)
	}
	if _, err := g.Connect(right, merge, 1); err != nil {
		t.Fatalf("right->merge: %v", err)
	}

	deps := node.Deps{ImageIO: stubImageIO{}}
	ev := NewEvaluator(deps, cache.New(1<<20), nil)

	status, err := ev.Execute(g, merge, []int64{0})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if status != node.Valid {
		t.Fatalf("status = %v, want Valid", status)
	}

	out, ok := ev.Output(merge, 0)
	if !ok {
		t.Fatal("no output bound for merge node")
	}
	if out.PixelBlock == nil {
		t.Fatal("merge output has no pixel block")
	}
}

// TestExecute_CachesAcrossRuns confirms a second Execute with an
// unchanged graph hits the cache instead of recomputing.
func TestExecute_CachesAcrossRuns(t *testing.T) {
	g := New()
	read := g.AddNode(node.NewNode(node.ReadImage, 0))
	n, _ := g.Node(read)
	n.Attrs.SetStr("file_path", "/in.png")

	deps := node.Deps{ImageIO: stubImageIO{}}
	c := cache.New(1 << 20)
	ev := NewEvaluator(deps, c, nil)

	if _, err := ev.Execute(g, read, []int64{0}); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	usedAfterFirst := c.UsedBytes()
	if usedAfterFirst == 0 {
		t.Fatal("expected cache to hold an entry after first Execute")
	}

	if _, err := ev.Execute(g, read, []int64{0}); err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if c.UsedBytes() != usedAfterFirst {
		t.Fatalf("cache usage changed across a repeat run: %d -> %d", usedAfterFirst, c.UsedBytes())
	}
}

// TestExecute_DisabledNodeKeepsInputHash: a disabled node is a
// bit-identical pass-through, so its bound output carries the same hash
// as its single input's output.
func TestExecute_DisabledNodeKeepsInputHash(t *testing.T) {
	g := New()
	read := g.AddNode(node.NewNode(node.ReadImage, 0))
	rn, _ := g.Node(read)
	rn.Attrs.SetStr("file_path", "/in.png")

	grade := g.AddNode(node.NewNode(node.Grade, 0))
	gn, _ := g.Node(grade)
	gn.Attrs.SetBool("enable", false)
	gn.Attrs.SetF32("gain", 2)

	if _, err := g.Connect(read, grade, 0); err != nil {
		t.Fatalf("read->grade: %v", err)
	}

	deps := node.Deps{ImageIO: stubImageIO{}}
	ev := NewEvaluator(deps, cache.New(1<<20), nil)

	if _, err := ev.Execute(g, grade, []int64{0}); err != nil {
		t.Fatalf("Execute grade: %v", err)
	}
	gradeOut, ok := ev.Output(grade, 0)
	if !ok {
		t.Fatal("no output bound for grade node")
	}

	if _, err := ev.Execute(g, read, []int64{0}); err != nil {
		t.Fatalf("Execute read: %v", err)
	}
	readOut, ok := ev.Output(read, 0)
	if !ok {
		t.Fatal("no output bound for read node")
	}

	if gradeOut.Hash != readOut.Hash {
		t.Fatalf("disabled grade hash %x != input hash %x", gradeOut.Hash, readOut.Hash)
	}
}

func TestExecute_UnknownOutputNode(t *testing.T) {
	g := New()
	deps := node.Deps{ImageIO: stubImageIO{}}
	ev := NewEvaluator(deps, cache.New(1<<20), nil)
	if _, err := ev.Execute(g, NodeIdx(999), []int64{0}); err == nil {
		t.Fatal("expected an error for an unknown output node")
	}
}
