package pixelblock

import (
	"testing"

	"github.com/dcattermole/opencompgraph-go/bbox"
	"github.com/dcattermole/opencompgraph-go/hash"
)

func newDigestForTest() *hash.Digest {
	return hash.New()
}

func TestNew_LenInvariant(t *testing.T) {
	pb := New(4, 3, 4, Float32)
	if pb.Len() != 4*3*4 {
		t.Fatalf("Len() = %d, want %d", pb.Len(), 4*3*4)
	}
	if len(pb.DataF32) != pb.Len() {
		t.Fatalf("len(DataF32) = %d, want %d", len(pb.DataF32), pb.Len())
	}
}

func TestGetIndex_OutOfBounds(t *testing.T) {
	pb := New(4, 4, 4, Float32)
	if idx := pb.GetIndex(-1, 0); idx != -1 {
		t.Fatalf("GetIndex(-1,0) = %d, want -1", idx)
	}
	if idx := pb.GetIndex(4, 0); idx != -1 {
		t.Fatalf("GetIndex(4,0) = %d, want -1", idx)
	}
	if idx := pb.GetIndex(0, 4); idx != -1 {
		t.Fatalf("GetIndex(0,4) = %d, want -1", idx)
	}
}

func TestGetIndex_RowMajor(t *testing.T) {
	pb := New(4, 4, 3, Float32)
	got := pb.GetIndex(2, 1)
	want := 1*4*3 + 2*3
	if got != want {
		t.Fatalf("GetIndex(2,1) = %d, want %d", got, want)
	}
}

func TestConvert_U8RoundTrip(t *testing.T) {
	pb := New(1, 1, 1, UInt8)
	pb.DataU8[0] = 200
	f := pb.ConvertInto(Float32)
	back := f.ConvertInto(UInt8)
	if back.DataU8[0] != 200 {
		t.Fatalf("u8->float->u8 round trip = %d, want 200", back.DataU8[0])
	}
}

func TestConvert_U16RoundTrip(t *testing.T) {
	pb := New(1, 1, 1, UInt16)
	pb.DataU16[0] = 40000
	f := pb.ConvertInto(Float32)
	back := f.ConvertInto(UInt16)
	if back.DataU16[0] != 40000 {
		t.Fatalf("u16->float->u16 round trip = %d, want 40000", back.DataU16[0])
	}
}

func TestConvert_FloatToU8Clamp(t *testing.T) {
	pb := New(1, 1, 1, Float32)
	pb.DataF32[0] = 2.0
	u8 := pb.ConvertInto(UInt8)
	if u8.DataU8[0] != 255 {
		t.Fatalf("clamp above 1.0: got %d, want 255", u8.DataU8[0])
	}
	pb.DataF32[0] = -2.0
	u8 = pb.ConvertInto(UInt8)
	if u8.DataU8[0] != 0 {
		t.Fatalf("clamp below 0.0: got %d, want 0", u8.DataU8[0])
	}
}

// TestConvert_FloatHalfKeepsRange: half<->float is a precision change,
// not a range change, so values outside [0,1] survive the round trip.
func TestConvert_FloatHalfKeepsRange(t *testing.T) {
	pb := New(1, 1, 2, Float32)
	pb.DataF32[0] = 1.5
	pb.DataF32[1] = -0.25
	h := pb.ConvertInto(Half16)
	back := h.ConvertInto(Float32)
	if back.DataF32[0] != 1.5 {
		t.Fatalf("float->half->float superwhite = %v, want 1.5", back.DataF32[0])
	}
	if back.DataF32[1] != -0.25 {
		t.Fatalf("float->half->float negative = %v, want -0.25", back.DataF32[1])
	}
}

func TestConvert_Identity(t *testing.T) {
	pb := New(2, 2, 3, Float32)
	for i := range pb.DataF32 {
		pb.DataF32[i] = float32(i) / 10
	}
	same := pb.ConvertInto(Float32)
	for i := range pb.DataF32 {
		if same.DataF32[i] != pb.DataF32[i] {
			t.Fatalf("identity conversion changed value at %d: %v != %v", i, same.DataF32[i], pb.DataF32[i])
		}
	}
}

func TestFromExisting_CropInterior(t *testing.T) {
	src := New(4, 4, 4, Float32)
	for i := range src.DataF32 {
		src.DataF32[i] = 1.0
	}
	srcWindow := bbox.NewI(0, 0, 4, 4)
	cropWindow := bbox.NewI(1, 1, 3, 3)
	dst := FromExisting(src, srcWindow, cropWindow)
	if dst.Width != 2 || dst.Height != 2 {
		t.Fatalf("dst dims = %dx%d, want 2x2", dst.Width, dst.Height)
	}
	for i := range dst.DataF32 {
		if dst.DataF32[i] != 1.0 {
			t.Fatalf("dst.DataF32[%d] = %v, want 1.0", i, dst.DataF32[i])
		}
	}
}

func TestFromExisting_DisjointIsZero(t *testing.T) {
	src := New(4, 4, 4, Float32)
	for i := range src.DataF32 {
		src.DataF32[i] = 1.0
	}
	srcWindow := bbox.NewI(0, 0, 4, 4)
	cropWindow := bbox.NewI(10, 10, 14, 14)
	dst := FromExisting(src, srcWindow, cropWindow)
	for i := range dst.DataF32 {
		if dst.DataF32[i] != 0.0 {
			t.Fatalf("disjoint crop dst.DataF32[%d] = %v, want 0.0", i, dst.DataF32[i])
		}
	}
}

func TestRowIterator(t *testing.T) {
	pb := New(3, 2, 1, Float32)
	for i := range pb.DataF32 {
		pb.DataF32[i] = float32(i)
	}
	it := pb.Rows()
	var rows [][]float32
	var scratch []float32
	for it.Next() {
		row := it.RowFloat32(scratch)
		rows = append(rows, append([]float32(nil), row...))
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2", len(rows))
	}
	if rows[0][0] != 0 || rows[1][0] != 3 {
		t.Fatalf("unexpected row contents: %v", rows)
	}
	it.Reset()
	if !it.Next() {
		t.Fatal("iterator did not restart after Reset")
	}
}

func TestHashInto_IgnoresPixels(t *testing.T) {
	a := New(2, 2, 3, Float32)
	b := New(2, 2, 3, Float32)
	b.DataF32[0] = 99
	da := newDigestForTest()
	db := newDigestForTest()
	a.HashInto(da)
	b.HashInto(db)
	if da.Sum64() != db.Sum64() {
		t.Fatal("HashInto depended on pixel contents, should only depend on shape")
	}
}
