package scorer

import "errors"

var (
	// ErrDimension reports an embedding dimension inconsistency between
	// vectors, or between a query and the documents it is scored against.
	ErrDimension = errors.New("embedding dimension mismatch")

	// ErrBufferSize reports a flat buffer whose length does not equal
	// sum(tokenCounts) * dim.
	ErrBufferSize = errors.New("flat buffer length mismatch")

	// ErrNoCorpus reports a preloaded search before any successful LoadDocuments.
	ErrNoCorpus = errors.New("no documents loaded")

	// ErrNotNormalized reports a vector failing the opt-in L2 norm check.
	ErrNotNormalized = errors.New("embedding is not L2-normalized")
)
