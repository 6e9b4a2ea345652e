package scorer

import (
	"unsafe"

	"github.com/edsrzf/mmap-go"
)

// corpus is an immutable preloaded document set: one contiguous token-major
// buffer plus per-document token counts. Created by LoadDocuments, replaced
// wholesale by the next load, never mutated in place.
type corpus struct {
	data    []float32
	counts  []uint32
	offsets []int // starting token index per document
	dim     int
	region  mmap.MMap // non-nil when the buffer lives off-heap
}

// newCorpus copies flat into a fresh buffer (heap, or an anonymous mmap region
// when offheap is set — keeps multi-GB corpora out of GC scans). Copy-in
// always: the caller keeps ownership of its slice.
func newCorpus(flat []float32, counts []uint32, dim int, offheap bool) (*corpus, error) {
	c := &corpus{
		counts:  append([]uint32(nil), counts...),
		offsets: tokenOffsets(counts),
		dim:     dim,
	}
	if len(flat) == 0 {
		return c, nil
	}
	if offheap {
		region, err := mmap.MapRegion(nil, len(flat)*4, mmap.RDWR, mmap.ANON, 0)
		if err != nil {
			return nil, err
		}
		c.region = region
		c.data = unsafe.Slice((*float32)(unsafe.Pointer(&region[0])), len(flat))
	} else {
		c.data = make([]float32, len(flat))
	}
	copy(c.data, flat)
	return c, nil
}

func (c *corpus) numDocs() int {
	return len(c.counts)
}

// close unmaps the off-heap region. No-op for heap corpora.
func (c *corpus) close() error {
	if c.region != nil {
		err := c.region.Unmap()
		c.region = nil
		c.data = nil
		return err
	}
	return nil
}
