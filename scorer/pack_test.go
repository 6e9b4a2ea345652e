package scorer

import (
	"errors"
	"testing"
)

func TestPackTokens(t *testing.T) {
	flat, dim, err := packTokens([][]float32{{1, 2}, {3, 4}, {5, 6}})
	if err != nil {
		t.Fatal(err)
	}
	if dim != 2 || len(flat) != 6 {
		t.Fatalf("dim=%d len=%d", dim, len(flat))
	}
	want := []float32{1, 2, 3, 4, 5, 6}
	for i := range want {
		if flat[i] != want[i] {
			t.Errorf("flat[%d]=%g want %g", i, flat[i], want[i])
		}
	}

	if _, _, err := packTokens([][]float32{{1, 2}, {3}}); !errors.Is(err, ErrDimension) {
		t.Errorf("ragged tokens: want ErrDimension, got %v", err)
	}
	if flat, dim, err := packTokens(nil); err != nil || flat != nil || dim != 0 {
		t.Errorf("empty sequence: got (%v, %d, %v)", flat, dim, err)
	}
}

func TestPackDocs(t *testing.T) {
	flat, counts, dim, err := packDocs([][][]float32{
		{{1, 0}, {0, 1}},
		{}, // empty document keeps its slot
		{{5, 6}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if dim != 2 || len(flat) != 6 {
		t.Fatalf("dim=%d len=%d", dim, len(flat))
	}
	wantCounts := []uint32{2, 0, 1}
	for i := range wantCounts {
		if counts[i] != wantCounts[i] {
			t.Errorf("counts[%d]=%d want %d", i, counts[i], wantCounts[i])
		}
	}

	_, _, _, err = packDocs([][][]float32{{{1, 0}}, {{1, 0, 0}}})
	if !errors.Is(err, ErrDimension) {
		t.Errorf("cross-document dim mismatch: want ErrDimension, got %v", err)
	}
}

func TestValidateFlat(t *testing.T) {
	if err := validateFlat(6, []uint32{2, 1}, 2); err != nil {
		t.Errorf("valid layout rejected: %v", err)
	}
	if err := validateFlat(5, []uint32{2, 1}, 2); !errors.Is(err, ErrBufferSize) {
		t.Errorf("want ErrBufferSize, got %v", err)
	}
	if err := validateFlat(0, nil, 0); !errors.Is(err, ErrDimension) {
		t.Errorf("dim 0: want ErrDimension, got %v", err)
	}
}

func TestTokenOffsets(t *testing.T) {
	offsets := tokenOffsets([]uint32{3, 0, 5, 2})
	want := []int{0, 3, 3, 8}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("offsets[%d]=%d want %d", i, offsets[i], want[i])
		}
	}
}

func TestUniformCount(t *testing.T) {
	if n, ok := uniformCount([]uint32{4, 4, 4}); !ok || n != 4 {
		t.Errorf("got (%d, %v)", n, ok)
	}
	if _, ok := uniformCount([]uint32{4, 5}); ok {
		t.Error("mixed counts reported uniform")
	}
	if _, ok := uniformCount(nil); ok {
		t.Error("zero documents reported uniform")
	}
}

func TestVerifyNormalizedFlat(t *testing.T) {
	good, _, err := packTokens(randTokens(4, 8, 90))
	if err != nil {
		t.Fatal(err)
	}
	if err := verifyNormalizedFlat(good, 8, 1e-3); err != nil {
		t.Errorf("normalized vectors rejected: %v", err)
	}
	bad := []float32{0.5, 0, 0, 0, 0, 0, 0, 0}
	if err := verifyNormalizedFlat(bad, 8, 1e-3); !errors.Is(err, ErrNotNormalized) {
		t.Errorf("want ErrNotNormalized, got %v", err)
	}
}
