//go:build arm64 && cgo

package simd

/*
#cgo CFLAGS: -O3
#include <arm_neon.h>
#include <stddef.h>

void MaxSimFlatBlockedNEON(const float* query, int query_tokens,
                           const float* doc, int doc_tokens,
                           int dim, int dblock, double* maxima) {
	for (int d0 = 0; d0 < doc_tokens; d0 += dblock) {
		int d1 = d0 + dblock;
		if (d1 > doc_tokens) d1 = doc_tokens;
		for (int q = 0; q < query_tokens; q++) {
			const float* qv = query + (size_t)q * dim;
			double best = maxima[q];
			for (int d = d0; d < d1; d++) {
				const float* dv = doc + (size_t)d * dim;
				if (d + 1 < doc_tokens) {
					__builtin_prefetch(doc + (size_t)(d + 1) * dim);
				}
				float32x4_t sum0 = vdupq_n_f32(0.0f);
				float32x4_t sum1 = vdupq_n_f32(0.0f);
				int j = 0;
				for (; j + 8 <= dim; j += 8) {
					sum0 = vmlaq_f32(sum0, vld1q_f32(qv + j), vld1q_f32(dv + j));
					sum1 = vmlaq_f32(sum1, vld1q_f32(qv + j + 4), vld1q_f32(dv + j + 4));
				}
				for (; j + 4 <= dim; j += 4) {
					sum0 = vmlaq_f32(sum0, vld1q_f32(qv + j), vld1q_f32(dv + j));
				}
				float s = vaddvq_f32(vaddq_f32(sum0, sum1));
				for (; j < dim; j++) s += qv[j] * dv[j];
				if ((double)s > best) best = (double)s;
			}
			maxima[q] = best;
		}
	}
}
*/
import "C"

import (
	"math"
	"unsafe"
)

func maxSimFlatNEON(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64 {
	maxima := make([]float64, queryTokens)
	for i := range maxima {
		maxima[i] = math.Inf(-1)
	}
	C.MaxSimFlatBlockedNEON(
		(*C.float)(unsafe.Pointer(&query[0])),
		C.int(queryTokens),
		(*C.float)(unsafe.Pointer(&doc[0])),
		C.int(docTokens),
		C.int(dim),
		C.int(docBlockTokens(docTokens)),
		(*C.double)(unsafe.Pointer(&maxima[0])),
	)
	var sum float64
	for _, m := range maxima {
		sum += m
	}
	return sum
}
