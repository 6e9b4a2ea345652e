package scorer

import (
	"errors"
	"math"
	"testing"
)

func loadTestCorpus(t *testing.T, s *Scorer, counts []uint32, dim int, seed int64) []float32 {
	t.Helper()
	var total int
	for _, c := range counts {
		total += int(c)
	}
	flat, _ := mustFlat(t, randTokens(total, dim, seed))
	if err := s.LoadDocuments(flat, counts, dim); err != nil {
		t.Fatal(err)
	}
	return flat
}

func TestLoadDocuments_ExactBufferContract(t *testing.T) {
	// counts [128,256,192] at dim 48 needs exactly (128+256+192)*48 = 27648 floats.
	s := New(nil)
	defer s.Close()
	counts := []uint32{128, 256, 192}
	const dim = 48
	flat, _ := mustFlat(t, randTokens(576, dim, 70))
	if len(flat) != 27648 {
		t.Fatalf("test setup: flat has %d floats, want 27648", len(flat))
	}
	if err := s.LoadDocuments(flat, counts, dim); err != nil {
		t.Fatal(err)
	}
	if got := s.NumDocumentsLoaded(); got != 3 {
		t.Errorf("NumDocumentsLoaded: got %d want 3", got)
	}
	if err := s.LoadDocuments(flat[:len(flat)-1], counts, dim); !errors.Is(err, ErrBufferSize) {
		t.Fatalf("short buffer: want ErrBufferSize, got %v", err)
	}
}

func TestLoadDocuments_FailedLoadKeepsPreviousCorpus(t *testing.T) {
	s := New(nil)
	defer s.Close()
	loadTestCorpus(t, s, []uint32{4, 6}, 16, 71)
	query, _ := mustFlat(t, randTokens(3, 16, 72))
	before, err := s.SearchPreloaded(query, 3)
	if err != nil {
		t.Fatal(err)
	}

	// 加载失败必须保持旧语料不变（all-or-nothing）
	if err := s.LoadDocuments(make([]float32, 5), []uint32{2}, 16); !errors.Is(err, ErrBufferSize) {
		t.Fatalf("want ErrBufferSize, got %v", err)
	}
	if got := s.NumDocumentsLoaded(); got != 2 {
		t.Errorf("corpus replaced by failed load: %d docs", got)
	}
	after, err := s.SearchPreloaded(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("doc %d: score changed after failed load: %g vs %g", i, before[i], after[i])
		}
	}
}

func TestSearchPreloaded_Idempotent(t *testing.T) {
	s := New(nil)
	defer s.Close()
	loadTestCorpus(t, s, []uint32{10, 3, 25}, 32, 73)
	query, _ := mustFlat(t, randTokens(5, 32, 74))
	first, err := s.SearchPreloaded(query, 5)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.SearchPreloaded(query, 5)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("doc %d: %g then %g", i, first[i], second[i])
		}
	}
}

func TestSearchPreloaded_MatchesBatchFlat(t *testing.T) {
	s := New(nil)
	defer s.Close()
	counts := []uint32{7, 19, 2}
	flat := loadTestCorpus(t, s, counts, 24, 75)
	query, _ := mustFlat(t, randTokens(4, 24, 76))

	preloaded, err := s.SearchPreloaded(query, 4)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := s.MaxSimBatchFlat(query, 4, flat, counts, 24)
	if err != nil {
		t.Fatal(err)
	}
	for i := range direct {
		if math.Abs(preloaded[i]-direct[i]) > 1e-9 {
			t.Errorf("doc %d: preloaded %g, direct %g", i, preloaded[i], direct[i])
		}
	}

	norm, err := s.SearchPreloadedNormalized(query, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := range norm {
		if norm[i] != preloaded[i]/4 {
			t.Errorf("doc %d: normalized %g, raw/Tq %g", i, norm[i], preloaded[i]/4)
		}
	}
}

func TestSearchPreloaded_NoCorpus(t *testing.T) {
	s := New(nil)
	query, _ := mustFlat(t, randTokens(2, 8, 77))
	if _, err := s.SearchPreloaded(query, 2); !errors.Is(err, ErrNoCorpus) {
		t.Fatalf("want ErrNoCorpus, got %v", err)
	}
}

func TestSearchPreloaded_EmptyCorpus(t *testing.T) {
	s := New(nil)
	defer s.Close()
	if err := s.LoadDocuments(nil, nil, 8); err != nil {
		t.Fatal(err)
	}
	query, _ := mustFlat(t, randTokens(2, 8, 78))
	scores, err := s.SearchPreloaded(query, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 0 {
		t.Errorf("empty corpus: got %d scores", len(scores))
	}
}

func TestSearchPreloaded_DimMismatch(t *testing.T) {
	s := New(nil)
	defer s.Close()
	loadTestCorpus(t, s, []uint32{5}, 16, 79)
	query, _ := mustFlat(t, randTokens(2, 24, 80))
	if _, err := s.SearchPreloaded(query, 2); err == nil {
		t.Fatal("query dim 24 against corpus dim 16 must fail")
	}
}

func TestLoadDocuments_Offheap(t *testing.T) {
	s := New(&Config{UseOffheap: true})
	defer s.Close()
	counts := []uint32{6, 14}
	flat := loadTestCorpus(t, s, counts, 32, 81)
	query, _ := mustFlat(t, randTokens(3, 32, 82))

	offheap, err := s.SearchPreloaded(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	heap := New(nil)
	defer heap.Close()
	direct, err := heap.MaxSimBatchFlat(query, 3, flat, counts, 32)
	if err != nil {
		t.Fatal(err)
	}
	for i := range direct {
		if offheap[i] != direct[i] {
			t.Errorf("doc %d: offheap %g, heap %g", i, offheap[i], direct[i])
		}
	}
	// reload replaces the old mapping
	loadTestCorpus(t, s, []uint32{1}, 32, 83)
	if got := s.NumDocumentsLoaded(); got != 1 {
		t.Errorf("after reload: got %d docs want 1", got)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if got := s.NumDocumentsLoaded(); got != 0 {
		t.Errorf("after Close: got %d docs want 0", got)
	}
}

func TestInfo(t *testing.T) {
	s := New(nil)
	info := s.Info()
	if info == "" {
		t.Fatal("empty info string")
	}
	t.Log(info)
}
