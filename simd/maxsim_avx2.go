//go:build amd64 && cgo

package simd

/*
#cgo CFLAGS: -mavx2 -mfma -O3
#include <immintrin.h>
#include <stddef.h>

static float maxsim_hsum_m256(__m256 v) {
	__m128 hi = _mm256_extractf128_ps(v, 1);
	__m128 lo = _mm256_extractf128_ps(v, 0);
	__m128 sum4 = _mm_add_ps(hi, lo);
	sum4 = _mm_hadd_ps(sum4, sum4);
	sum4 = _mm_hadd_ps(sum4, sum4);
	return _mm_cvtss_f32(sum4);
}

void MaxSimFlatBlockedAVX2(const float* query, int query_tokens,
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
					_mm_prefetch((const char*)(doc + (size_t)(d + 1) * dim), _MM_HINT_T0);
				}
				__m256 sum0 = _mm256_setzero_ps();
				__m256 sum1 = _mm256_setzero_ps();
				int j = 0;
				for (; j + 16 <= dim; j += 16) {
					sum0 = _mm256_fmadd_ps(_mm256_loadu_ps(qv + j), _mm256_loadu_ps(dv + j), sum0);
					sum1 = _mm256_fmadd_ps(_mm256_loadu_ps(qv + j + 8), _mm256_loadu_ps(dv + j + 8), sum1);
				}
				for (; j + 8 <= dim; j += 8) {
					sum0 = _mm256_fmadd_ps(_mm256_loadu_ps(qv + j), _mm256_loadu_ps(dv + j), sum0);
				}
				float s = maxsim_hsum_m256(_mm256_add_ps(sum0, sum1));
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

func maxSimFlatAVX2(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64 {
	maxima := make([]float64, queryTokens)
	for i := range maxima {
		maxima[i] = math.Inf(-1)
	}
	C.MaxSimFlatBlockedAVX2(
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
