// Package scorer provides batched MaxSim (late-interaction) scoring of query
// token embeddings against document token embeddings, in the style of
// ColBERT-family retrieval models.
//
// Quick start:
//
//	s := scorer.New(scorer.DefaultConfig())
//	defer s.Close()
//	s.LoadDocuments(docsFlat, docTokenCounts, dim)
//	scores, err := s.SearchPreloadedNormalized(queryFlat, queryTokens)
//
// Embeddings are expected to be L2-normalized so that dot product equals
// cosine similarity; this is a caller contract and is NOT checked on the hot
// path (set Config.VerifyNormalized for an opt-in debug check, or
// Config.FullCosine to score unnormalized embeddings at ~3x the cost).
package scorer
