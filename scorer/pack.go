package scorer

import (
	"fmt"

	"github.com/chewxy/math32"
)

// packTokens flattens one token sequence into token-major layout and returns
// the embedding dimension. Every public entry point funnels its nested input
// through here, so the dimension check happens exactly once.
func packTokens(tokens [][]float32) ([]float32, int, error) {
	if len(tokens) == 0 {
		return nil, 0, nil
	}
	dim := len(tokens[0])
	if dim == 0 {
		return nil, 0, fmt.Errorf("%w: token 0 has dimension 0", ErrDimension)
	}
	flat := make([]float32, 0, len(tokens)*dim)
	for i, tok := range tokens {
		if len(tok) != dim {
			return nil, 0, fmt.Errorf("%w: token %d has dimension %d, token 0 has %d", ErrDimension, i, len(tok), dim)
		}
		flat = append(flat, tok...)
	}
	return flat, dim, nil
}

// packDocs flattens a batch of documents into one contiguous buffer plus
// per-document token counts. Documents may be empty (count 0). The dimension
// is taken from the first non-empty document and enforced across the batch.
func packDocs(docs [][][]float32) ([]float32, []uint32, int, error) {
	counts := make([]uint32, len(docs))
	dim := 0
	total := 0
	for i, doc := range docs {
		counts[i] = uint32(len(doc))
		total += len(doc)
		if dim == 0 && len(doc) > 0 {
			dim = len(doc[0])
		}
	}
	if dim == 0 {
		return nil, counts, 0, nil
	}
	flat := make([]float32, 0, total*dim)
	for i, doc := range docs {
		for j, tok := range doc {
			if len(tok) != dim {
				return nil, nil, 0, fmt.Errorf("%w: document %d token %d has dimension %d, expected %d", ErrDimension, i, j, len(tok), dim)
			}
			flat = append(flat, tok...)
		}
	}
	return flat, counts, dim, nil
}

// validateFlat checks the layout contract: len(flat) == sum(counts) * dim.
func validateFlat(flatLen int, counts []uint32, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrDimension, dim)
	}
	var total int
	for _, c := range counts {
		total += int(c)
	}
	if want := total * dim; flatLen != want {
		return fmt.Errorf("%w: buffer length %d does not match expected token_count*dim=%d", ErrBufferSize, flatLen, want)
	}
	return nil
}

// tokenOffsets returns the prefix-sum starting token index of each document.
func tokenOffsets(counts []uint32) []int {
	offsets := make([]int, len(counts))
	var run int
	for i, c := range counts {
		offsets[i] = run
		run += int(c)
	}
	return offsets
}

// uniformCount reports whether every document has the same token count, and
// that count. Zero documents is not uniform.
func uniformCount(counts []uint32) (int, bool) {
	if len(counts) == 0 {
		return 0, false
	}
	n := counts[0]
	for _, c := range counts[1:] {
		if c != n {
			return 0, false
		}
	}
	return int(n), true
}

// verifyNormalizedFlat checks each token vector's L2 norm against 1 within
// eps. Debug aid only; an extra full pass over the data.
func verifyNormalizedFlat(flat []float32, dim int, eps float32) error {
	for off, i := 0, 0; off+dim <= len(flat); off, i = off+dim, i+1 {
		var sq float32
		for _, x := range flat[off : off+dim] {
			sq += x * x
		}
		norm := math32.Sqrt(sq)
		if d := norm - 1; d > eps || d < -eps {
			return fmt.Errorf("%w: token %d has L2 norm %g", ErrNotNormalized, i, norm)
		}
	}
	return nil
}
