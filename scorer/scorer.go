package scorer

import (
	"fmt"
	"sync"

	"github.com/go-logr/logr"
	"github.com/ic-timon/maxsim/simd"
)

// Version is the library version reported by Info.
const Version = "0.3.0"

// Scorer computes MaxSim scores across batches of documents and optionally
// holds a preloaded corpus for repeated queries against a fixed document set.
//
// All scoring methods are safe for concurrent use. LoadDocuments takes the
// write lock; searches take the read lock (single writer, many readers).
type Scorer struct {
	cfg *Config
	log logr.Logger

	mu     sync.RWMutex
	corpus *corpus
}

// New creates a Scorer. cfg may be nil for defaults.
func New(cfg *Config) *Scorer {
	cfg = cfg.OrDefault()
	log := logr.Discard()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Scorer{cfg: cfg, log: log}
}

// Info returns a static capability descriptor: version and the kernel
// implementations selected at startup. Informational only.
func (s *Scorer) Info() string {
	return fmt.Sprintf("maxsim v%s (dot: %s, kernel: %s, workers: %d, offheap: %t)",
		Version, simd.DotProductDesc(), simd.MaxSimDesc(), s.cfg.Workers, s.cfg.UseOffheap)
}

// MaxSim computes the raw MaxSim score between one query and one document,
// nested-array convention. Raw = sum over query tokens of the best dot
// product; scales with query length.
func (s *Scorer) MaxSim(query, doc [][]float32) (float64, error) {
	queryFlat, qDim, err := packTokens(query)
	if err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	docFlat, dDim, err := packTokens(doc)
	if err != nil {
		return 0, fmt.Errorf("document: %w", err)
	}
	if len(query) == 0 || len(doc) == 0 {
		return 0, nil
	}
	if qDim != dDim {
		return 0, fmt.Errorf("%w: query dimension %d, document dimension %d", ErrDimension, qDim, dDim)
	}
	if err := s.verify(queryFlat, docFlat, qDim); err != nil {
		return 0, err
	}
	return s.scoreOne(queryFlat, len(query), docFlat, len(doc), qDim), nil
}

// MaxSimNormalized is MaxSim divided by the query token count: bounded and
// comparable across queries of different lengths. 0 for an empty query.
func (s *Scorer) MaxSimNormalized(query, doc [][]float32) (float64, error) {
	raw, err := s.MaxSim(query, doc)
	if err != nil || len(query) == 0 {
		return 0, err
	}
	return raw / float64(len(query)), nil
}

// MaxSimBatch computes one raw score per document, nested-array convention.
// Convenience adapter: flattens once, then runs the same batch path as
// MaxSimBatchFlat.
func (s *Scorer) MaxSimBatch(query [][]float32, docs [][][]float32) ([]float64, error) {
	queryFlat, qDim, err := packTokens(query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	docsFlat, counts, dDim, err := packDocs(docs)
	if err != nil {
		return nil, err
	}
	if dDim == 0 || len(query) == 0 {
		// Empty query or all-empty documents: zero-filled, not an error.
		return make([]float64, len(docs)), nil
	}
	if qDim != dDim {
		return nil, fmt.Errorf("%w: query dimension %d, document dimension %d", ErrDimension, qDim, dDim)
	}
	if err := s.verify(queryFlat, docsFlat, qDim); err != nil {
		return nil, err
	}
	return s.scoreBatch(queryFlat, len(query), docsFlat, counts, tokenOffsets(counts), qDim), nil
}

// MaxSimBatchNormalized is MaxSimBatch with every score divided by the query
// token count.
func (s *Scorer) MaxSimBatchNormalized(query [][]float32, docs [][][]float32) ([]float64, error) {
	scores, err := s.MaxSimBatch(query, docs)
	if err != nil {
		return nil, err
	}
	normalizeScores(scores, len(query))
	return scores, nil
}

// MaxSimFlat computes the raw MaxSim score between one query and one document
// in flat layout (token-major, dim floats per token). This is the
// performance-preferred convention: no per-call flattening.
func (s *Scorer) MaxSimFlat(queryFlat []float32, queryTokens int, docFlat []float32, docTokens, dim int) (float64, error) {
	if queryTokens == 0 || docTokens == 0 {
		return 0, nil
	}
	if err := validateFlat(len(queryFlat), []uint32{uint32(queryTokens)}, dim); err != nil {
		return 0, fmt.Errorf("query: %w", err)
	}
	if err := validateFlat(len(docFlat), []uint32{uint32(docTokens)}, dim); err != nil {
		return 0, fmt.Errorf("document: %w", err)
	}
	if err := s.verify(queryFlat, docFlat, dim); err != nil {
		return 0, err
	}
	return s.scoreOne(queryFlat, queryTokens, docFlat, docTokens, dim), nil
}

// MaxSimFlatNormalized is MaxSimFlat divided by the query token count.
func (s *Scorer) MaxSimFlatNormalized(queryFlat []float32, queryTokens int, docFlat []float32, docTokens, dim int) (float64, error) {
	raw, err := s.MaxSimFlat(queryFlat, queryTokens, docFlat, docTokens, dim)
	if err != nil || queryTokens == 0 {
		return 0, err
	}
	return raw / float64(queryTokens), nil
}

// MaxSimBatchFlat computes one raw score per document over a contiguous
// buffer of concatenated documents. Scores are returned in docTokenCounts
// order. When every count is equal the uniform fast path (fixed stride, no
// per-document offsets) is used.
func (s *Scorer) MaxSimBatchFlat(queryFlat []float32, queryTokens int, docsFlat []float32, docTokenCounts []uint32, dim int) ([]float64, error) {
	if err := validateFlat(len(docsFlat), docTokenCounts, dim); err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}
	if err := validateFlat(len(queryFlat), []uint32{uint32(queryTokens)}, dim); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if err := s.verify(queryFlat, docsFlat, dim); err != nil {
		return nil, err
	}
	return s.scoreBatch(queryFlat, queryTokens, docsFlat, docTokenCounts, tokenOffsets(docTokenCounts), dim), nil
}

// MaxSimBatchFlatNormalized is MaxSimBatchFlat with every score divided by
// the query token count.
func (s *Scorer) MaxSimBatchFlatNormalized(queryFlat []float32, queryTokens int, docsFlat []float32, docTokenCounts []uint32, dim int) ([]float64, error) {
	scores, err := s.MaxSimBatchFlat(queryFlat, queryTokens, docsFlat, docTokenCounts, dim)
	if err != nil {
		return nil, err
	}
	normalizeScores(scores, queryTokens)
	return scores, nil
}

// LoadDocuments stores a document corpus for repeated SearchPreloaded calls,
// replacing any prior corpus. The buffer is validated fully before any state
// changes and copied in: a failed load leaves the previous corpus intact, and
// the caller keeps ownership of its slices.
func (s *Scorer) LoadDocuments(docsFlat []float32, docTokenCounts []uint32, dim int) error {
	if err := validateFlat(len(docsFlat), docTokenCounts, dim); err != nil {
		return err
	}
	if s.cfg.VerifyNormalized {
		if err := verifyNormalizedFlat(docsFlat, dim, s.cfg.NormEpsilon); err != nil {
			return err
		}
	}
	c, err := newCorpus(docsFlat, docTokenCounts, dim, s.cfg.UseOffheap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	old := s.corpus
	s.corpus = c
	s.mu.Unlock()
	if old != nil {
		old.close()
	}
	s.log.Info("documents loaded", "docs", c.numDocs(), "dim", dim, "floats", len(docsFlat), "offheap", s.cfg.UseOffheap)
	return nil
}

// SearchPreloaded scores the query against the preloaded corpus, returning
// one raw score per loaded document. Returns ErrNoCorpus before the first
// successful LoadDocuments; a loaded-but-empty corpus yields an empty slice.
func (s *Scorer) SearchPreloaded(queryFlat []float32, queryTokens int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.corpus
	if c == nil {
		return nil, ErrNoCorpus
	}
	if err := validateFlat(len(queryFlat), []uint32{uint32(queryTokens)}, c.dim); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if s.cfg.VerifyNormalized {
		if err := verifyNormalizedFlat(queryFlat, c.dim, s.cfg.NormEpsilon); err != nil {
			return nil, err
		}
	}
	return s.scoreBatch(queryFlat, queryTokens, c.data, c.counts, c.offsets, c.dim), nil
}

// SearchPreloadedNormalized is SearchPreloaded with every score divided by
// the query token count.
func (s *Scorer) SearchPreloadedNormalized(queryFlat []float32, queryTokens int) ([]float64, error) {
	scores, err := s.SearchPreloaded(queryFlat, queryTokens)
	if err != nil {
		return nil, err
	}
	normalizeScores(scores, queryTokens)
	return scores, nil
}

// NumDocumentsLoaded returns the number of documents in the preloaded corpus,
// 0 if none has been loaded.
func (s *Scorer) NumDocumentsLoaded() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.corpus == nil {
		return 0
	}
	return s.corpus.numDocs()
}

// Close releases the preloaded corpus (unmaps the off-heap region, if any).
// The Scorer remains usable; a later LoadDocuments starts a fresh corpus.
func (s *Scorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.corpus == nil {
		return nil
	}
	err := s.corpus.close()
	s.corpus = nil
	return err
}

// scoreOne runs the kernel for one (query, document) pair.
func (s *Scorer) scoreOne(query []float32, queryTokens int, doc []float32, docTokens, dim int) float64 {
	if s.cfg.FullCosine {
		return simd.MaxSimFlatCosine(query, queryTokens, doc, docTokens, dim)
	}
	return simd.MaxSimFlat(query, queryTokens, doc, docTokens, dim)
}

// scoreBatch produces one raw score per document. Uniform batches use fixed
// stride indexing; variable-length batches walk prefix-sum offsets. With
// Workers > 1 the documents are partitioned into contiguous ranges, each
// written to a disjoint slice of scores (no shared mutable state).
func (s *Scorer) scoreBatch(query []float32, queryTokens int, data []float32, counts []uint32, offsets []int, dim int) []float64 {
	scores := make([]float64, len(counts))
	if len(counts) == 0 || queryTokens == 0 {
		return scores
	}

	var scoreRange func(lo, hi int)
	if n, ok := uniformCount(counts); ok && n > 0 {
		stride := n * dim
		scoreRange = func(lo, hi int) {
			for i := lo; i < hi; i++ {
				scores[i] = s.scoreOne(query, queryTokens, data[i*stride:(i+1)*stride], n, dim)
			}
		}
	} else {
		scoreRange = func(lo, hi int) {
			for i := lo; i < hi; i++ {
				dt := int(counts[i])
				if dt == 0 {
					continue // empty document scores 0
				}
				start := offsets[i] * dim
				scores[i] = s.scoreOne(query, queryTokens, data[start:start+dt*dim], dt, dim)
			}
		}
	}

	workers := min(s.cfg.Workers, len(counts))
	if workers <= 1 {
		scoreRange(0, len(counts))
		return scores
	}
	var wg sync.WaitGroup
	chunk := (len(counts) + workers - 1) / workers
	for lo := 0; lo < len(counts); lo += chunk {
		hi := min(lo+chunk, len(counts))
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			scoreRange(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return scores
}

// verify runs the opt-in normalization check over both flat buffers.
func (s *Scorer) verify(queryFlat, docFlat []float32, dim int) error {
	if !s.cfg.VerifyNormalized {
		return nil
	}
	if err := verifyNormalizedFlat(queryFlat, dim, s.cfg.NormEpsilon); err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := verifyNormalizedFlat(docFlat, dim, s.cfg.NormEpsilon); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	return nil
}

// normalizeScores divides raw scores by the query token count in place.
func normalizeScores(scores []float64, queryTokens int) {
	if queryTokens == 0 {
		return
	}
	for i := range scores {
		scores[i] /= float64(queryTokens)
	}
}
