package scorer

import "github.com/go-logr/logr"

// Config holds scorer parameters.
type Config struct {
	Workers          int          // >1: partition batch documents across this many goroutines, default 1
	UseOffheap       bool         // hold the preloaded corpus in an anonymous mmap region instead of the Go heap
	FullCosine       bool         // compute full cosine similarity; for embeddings that are not L2-normalized
	VerifyNormalized bool         // debug: reject vectors whose L2 norm deviates from 1 by more than NormEpsilon
	NormEpsilon      float32      // tolerance for VerifyNormalized, default 1e-3
	Logger           *logr.Logger // optional; nil discards
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Workers:     1,
		NormEpsilon: 1e-3,
	}
}

// OrDefault returns DefaultConfig if c is nil, otherwise normalizes c.
func (c *Config) OrDefault() *Config {
	if c == nil {
		return DefaultConfig()
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.NormEpsilon <= 0 {
		c.NormEpsilon = 1e-3
	}
	return c
}
