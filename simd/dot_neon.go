//go:build arm64 && cgo

package simd

/*
#cgo CFLAGS: -O3
#include <arm_neon.h>
#include <stddef.h>

static float DotProductNEON(const float* a, const float* b, size_t n) {
	float32x4_t sum0 = vdupq_n_f32(0.0f);
	float32x4_t sum1 = vdupq_n_f32(0.0f);
	size_t i = 0;
	for (; i + 8 <= n; i += 8) {
		sum0 = vmlaq_f32(sum0, vld1q_f32(a + i), vld1q_f32(b + i));
		sum1 = vmlaq_f32(sum1, vld1q_f32(a + i + 4), vld1q_f32(b + i + 4));
	}
	for (; i + 4 <= n; i += 4) {
		sum0 = vmlaq_f32(sum0, vld1q_f32(a + i), vld1q_f32(b + i));
	}
	float s = vaddvq_f32(vaddq_f32(sum0, sum1));
	for (; i < n; i++) s += a[i] * b[i];
	return s;
}
*/
import "C"

import "unsafe"

func dotProductNEON(a, b []float32) float64 {
	n := len(a)
	if n == 0 {
		return 0
	}
	return float64(C.DotProductNEON(
		(*C.float)(unsafe.Pointer(&a[0])),
		(*C.float)(unsafe.Pointer(&b[0])),
		C.size_t(n),
	))
}
