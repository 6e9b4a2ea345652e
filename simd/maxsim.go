package simd

import "math"

var (
	maxSimFlatImpl     func(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64
	maxSimFlatImplDesc string
)

func init() {
	if maxSimFlatImpl == nil {
		maxSimFlatImpl = maxSimFlatGo
		maxSimFlatImplDesc = "Go"
	}
}

// Query-token axis block. Fixed: eight query vectors plus one doc block stay
// cache-resident at any realistic dim.
const queryBlockTokens = 8

// docBlockTokens picks the doc-token axis block from the document length.
// Short documents take wide blocks; past a few hundred tokens the per-token
// vectors crowd the query block out of cache, so the block shrinks.
func docBlockTokens(docTokens int) int {
	switch {
	case docTokens <= 256:
		return 16
	case docTokens <= 1024:
		return 8
	default:
		return 4
	}
}

// MaxSimFlat computes the raw MaxSim aggregate between a query and one
// document, both in flat layout (token-major, dim floats per token): for each
// query token, the maximum dot product over all doc tokens, summed over query
// tokens. Empty query or document returns 0.
//
// Caller contract: len(query) == queryTokens*dim and len(doc) == docTokens*dim.
// Embeddings are assumed L2-normalized; this is not checked here.
func MaxSimFlat(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64 {
	if queryTokens == 0 || docTokens == 0 || dim == 0 {
		return 0
	}
	return maxSimFlatImpl(query, queryTokens, doc, docTokens, dim)
}

// MaxSimDesc returns a description of the current MaxSim kernel implementation (for logging).
func MaxSimDesc() string {
	if maxSimFlatImplDesc != "" {
		return maxSimFlatImplDesc
	}
	return "Go"
}

// MaxSimFlatCosine is MaxSimFlat with full cosine similarity instead of dot
// product, for embeddings that are not L2-normalized. Always pure Go; the
// magnitude passes dominate, so there is no dedicated intrinsic kernel.
func MaxSimFlatCosine(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64 {
	if queryTokens == 0 || docTokens == 0 || dim == 0 {
		return 0
	}
	var sum float64
	for q := 0; q < queryTokens; q++ {
		qv := query[q*dim : (q+1)*dim]
		best := math.Inf(-1)
		for d := 0; d < docTokens; d++ {
			if s := Cosine(qv, doc[d*dim:(d+1)*dim]); s > best {
				best = s
			}
		}
		sum += best
	}
	return sum
}

// maxSimFlatGo is the pure Go kernel with cache blocking.
func maxSimFlatGo(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64 {
	return maxSimFlatBlocked(query, queryTokens, doc, docTokens, dim,
		queryBlockTokens, docBlockTokens(docTokens))
}

// maxSimFlatBlocked walks the similarity space in (qBlock × dBlock) tiles,
// keeping a running per-query-token maximum. Traversal order changes, results
// do not (beyond fp summation tolerance).
func maxSimFlatBlocked(query []float32, queryTokens int, doc []float32, docTokens, dim, qBlock, dBlock int) float64 {
	maxima := make([]float64, queryTokens)
	for i := range maxima {
		maxima[i] = math.Inf(-1)
	}
	for d0 := 0; d0 < docTokens; d0 += dBlock {
		d1 := min(d0+dBlock, docTokens)
		for q0 := 0; q0 < queryTokens; q0 += qBlock {
			q1 := min(q0+qBlock, queryTokens)
			for q := q0; q < q1; q++ {
				qv := query[q*dim : (q+1)*dim]
				best := maxima[q]
				for d := d0; d < d1; d++ {
					if s := dotProductImpl(qv, doc[d*dim:(d+1)*dim]); s > best {
						best = s
					}
				}
				maxima[q] = best
			}
		}
	}
	var sum float64
	for _, m := range maxima {
		sum += m
	}
	return sum
}
