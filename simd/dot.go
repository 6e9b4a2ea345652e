// Package simd provides AVX-512, AVX2, SSE4, and NEON accelerated kernels for
// MaxSim late-interaction scoring over float32 token embeddings. Automatically
// selects the best implementation based on GOARCH and CGO availability.
package simd

import "math"

var (
	dotProductImpl     func(a, b []float32) float64
	dotProductImplDesc string
)

func init() {
	// Default; dispatch files override in init() based on GOARCH and CGO.
	if dotProductImpl == nil {
		dotProductImpl = dotProductGo
		dotProductImplDesc = "Go"
	}
}

// DotProduct computes the dot product of two float32 vectors (cosine similarity
// for L2-normalized vectors). Uses the best available SIMD implementation
// (AVX-512 > AVX2 > SSE4 on amd64; NEON on arm64; vek without CGO).
//
// Results are only epsilon-stable across implementations: summation order
// differs between backends, so scores agree within float tolerance rather than
// bit-for-bit.
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	if dotProductImpl != nil {
		return dotProductImpl(a, b)
	}
	return dotProductGo(a, b)
}

// DotProductDesc returns a description of the current dot product implementation (for logging).
func DotProductDesc() string {
	if dotProductImplDesc != "" {
		return dotProductImplDesc
	}
	return "Go"
}

// Cosine computes full cosine similarity (dot / magnitudes). For embeddings
// that are not L2-normalized; ~3x the cost of DotProduct. Zero-magnitude
// input returns 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	dot := dotProductImpl(a, b)
	magA := dotProductImpl(a, a)
	magB := dotProductImpl(b, b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// dotProductGo is the pure Go implementation. The embedding dimension is
// arbitrary, so it runs 4 independent accumulators over 4-element steps and
// finishes the remainder scalar-wise.
func dotProductGo(a, b []float32) float64 {
	n := len(a)
	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += float64(a[i+0] * b[i+0])
		s1 += float64(a[i+1] * b[i+1])
		s2 += float64(a[i+2] * b[i+2])
		s3 += float64(a[i+3] * b[i+3])
	}
	sum := (s0 + s1) + (s2 + s3)
	for ; i < n; i++ {
		sum += float64(a[i] * b[i])
	}
	return sum
}
