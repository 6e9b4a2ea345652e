//go:build !cgo

package simd

import "github.com/viterin/vek/vek32"

// Without CGO the intrinsic kernels are unavailable; vek provides assembly
// SIMD on amd64 and a vectorizable pure-Go fallback elsewhere.
func init() {
	dotProductImpl = dotProductVek
	if vek32.Info().Acceleration {
		dotProductImplDesc = "vek-simd"
	} else {
		dotProductImplDesc = "vek-go"
	}
}

func dotProductVek(a, b []float32) float64 {
	return float64(vek32.Dot(a, b))
}
