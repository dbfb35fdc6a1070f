package oracle

import (
	"path/filepath"
	"testing"

	"github.com/dcattermole/opencompgraph-go/colorspace"
	"github.com/dcattermole/opencompgraph-go/pixelblock"
)

func TestStdImageIO_PNGRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")

	pb := pixelblock.New(4, 4, 4, pixelblock.Float32)
	for i := 0; i+4 <= pb.Len(); i += 4 {
		pb.DataF32[i+0] = 1
		pb.DataF32[i+1] = 0
		pb.DataF32[i+2] = 0
		pb.DataF32[i+3] = 1
	}

	io := StdImageIO{}
	if err := io.WriteImage(pb, colorspace.Default(), path); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}

	got, _, _, _, err := io.ReadImage(path)
	if err != nil {
		t.Fatalf("ReadImage: %v", err)
	}
	if got.Width != 4 || got.Height != 4 {
		t.Fatalf("round trip dims = %dx%d, want 4x4", got.Width, got.Height)
	}
	idx := got.GetIndex(0, 0)
	if got.DataF32[idx] < 0.9 {
		t.Fatalf("round trip red channel = %v, want ~1.0", got.DataF32[idx])
	}
}
