package hash

import (
	"math"
	"testing"
)

func TestHashableF32_SignedZero(t *testing.T) {
	pos := HashableF32(0.0)
	neg := HashableF32(float32FromBits(0x80000000))
	if pos.Bits() != neg.Bits() {
		t.Fatalf("signed zero did not canonicalize: +0 = %x, -0 = %x", pos.Bits(), neg.Bits())
	}
}

func TestHashableF32_NaN(t *testing.T) {
	a := HashableF32(float32FromBits(0x7fc00001))
	b := HashableF32(float32FromBits(0xffc00000))
	if a.Bits() != canonicalNaN || b.Bits() != canonicalNaN {
		t.Fatalf("NaN bit patterns did not collapse: a=%x b=%x want %x", a.Bits(), b.Bits(), canonicalNaN)
	}
}

func TestHashableF32_Ordinary(t *testing.T) {
	if HashableF32(1.5).Bits() != HashableF32(1.5).Bits() {
		t.Fatal("identical ordinary floats hashed differently")
	}
	if HashableF32(1.5).Bits() == HashableF32(2.5).Bits() {
		t.Fatal("distinct floats hashed identically")
	}
}

func TestDigest_Deterministic(t *testing.T) {
	build := func() uint64 {
		d := New()
		d.WriteString("Grade")
		d.WriteInt32(1)
		d.WriteFloat32(0.5)
		d.WriteBool(true)
		return d.Sum64()
	}
	if build() != build() {
		t.Fatal("identical fold sequence produced different hashes")
	}
}

func TestDigest_OrderMatters(t *testing.T) {
	a := New()
	a.WriteString("a")
	a.WriteString("bc")

	b := New()
	b.WriteString("ab")
	b.WriteString("c")

	if a.Sum64() == b.Sum64() {
		t.Fatal("length-prefixed strings collided across concatenation boundary")
	}
}

func TestDigest_FieldChangeChangesHash(t *testing.T) {
	base := func(enable bool) uint64 {
		d := New()
		d.WriteString("Grade")
		d.WriteBool(enable)
		return d.Sum64()
	}
	if base(true) == base(false) {
		t.Fatal("differing enable flag produced identical hash")
	}
}

func float32FromBits(bits uint32) float32 {
	return math.Float32frombits(bits)
}
