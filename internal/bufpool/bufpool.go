// Package bufpool provides bucketed sync.Pool instances for reducing
// allocations in the evaluator's hot paths (per-pixel scratch buffers in
// ops.Bake's warp resampling). Buffers are organized by size class to
// minimize waste.
package bufpool

import "sync"

// Size classes, counted in float32 elements. The warp path asks for one
// pixel's worth of channels at a time; the larger classes cover row-sized
// requests.
const (
	Floats64   = 64
	Floats512  = 512
	Floats4K   = 4096
	Floats32K  = 32768
	Floats256K = 262144
)

var floatSizes = [5]int{Floats64, Floats512, Floats4K, Floats32K, Floats256K}

func floatBucketIndex(length int) int {
	switch {
	case length <= Floats64:
		return 0
	case length <= Floats512:
		return 1
	case length <= Floats4K:
		return 2
	case length <= Floats32K:
		return 3
	default:
		return 4
	}
}

var floatPools [5]sync.Pool

func init() {
	for i := range floatPools {
		n := floatSizes[i]
		floatPools[i] = sync.Pool{
			New: func() any {
				s := make([]float32, n)
				return &s
			},
		}
	}
}

// GetFloat32 returns a float32 slice of at least the requested length from
// the pool. The returned slice has length == length and may have a larger
// capacity. Return it with PutFloat32 when done.
func GetFloat32(length int) []float32 {
	idx := floatBucketIndex(length)
	sp := floatPools[idx].Get().(*[]float32)
	s := *sp
	if cap(s) < length {
		s = make([]float32, length)
		*sp = s
		return s
	}
	return s[:length]
}

// PutFloat32 returns a float32 slice to the pool. The slice must have been
// obtained from GetFloat32. Slices smaller than Floats64 are not pooled.
func PutFloat32(s []float32) {
	c := cap(s)
	if c < Floats64 {
		return
	}
	idx := floatBucketIndex(c)
	s = s[:c]
	floatPools[idx].Put(&s)
}
