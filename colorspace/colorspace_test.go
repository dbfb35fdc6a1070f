package colorspace

import (
	"math"
	"testing"

	"github.com/dcattermole/opencompgraph-go/hash"
)

func newDigest() *hash.Digest {
	return hash.New()
}

func TestConvertInPlace_Idempotent(t *testing.T) {
	px := []float32{0.1, 0.5, 0.9}
	before := append([]float32(nil), px...)
	ConvertInPlace(px, SRGB, SRGB)
	for i := range px {
		if px[i] != before[i] {
			t.Fatalf("same-space conversion mutated pixel %d: %v -> %v", i, before[i], px[i])
		}
	}
}

func TestSRGBRoundTrip(t *testing.T) {
	for _, v := range []float32{0.0, 0.02, 0.2, 0.5, 0.9, 1.0} {
		lin := ToLinear(SRGB, v)
		back := FromLinear(SRGB, lin)
		if math.Abs(float64(back-v)) > 1e-4 {
			t.Fatalf("sRGB round trip for %v: got %v", v, back)
		}
	}
}

func TestRec709RoundTrip(t *testing.T) {
	for _, v := range []float32{0.0, 0.01, 0.2, 0.5, 0.9, 1.0} {
		lin := ToLinear(Rec709, v)
		back := FromLinear(Rec709, lin)
		if math.Abs(float64(back-v)) > 1e-4 {
			t.Fatalf("Rec709 round trip for %v: got %v", v, back)
		}
	}
}

func TestLinearIsIdentity(t *testing.T) {
	if ToLinear(Linear, 0.42) != 0.42 || FromLinear(Linear, 0.42) != 0.42 {
		t.Fatal("Linear color space should be the identity transform")
	}
}

func TestDefault(t *testing.T) {
	d := Default()
	if d.ColorSpace != Linear || d.Gamma != 1.0 || d.PixelAspect != 1.0 {
		t.Fatalf("unexpected default spec: %+v", d)
	}
}

func TestHashInto_DiffersOnColorSpace(t *testing.T) {
	a := Default()
	b := Default()
	b.ColorSpace = SRGB
	da := newDigest()
	db := newDigest()
	a.HashInto(da)
	b.HashInto(db)
	if da.Sum64() == db.Sum64() {
		t.Fatal("differing color space produced identical hash")
	}
}
