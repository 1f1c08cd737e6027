// Package reembed regenerates embeddings for documents already in the
// knowledge base.
//
// It is used after switching embedding models, or to fill in embeddings
// for documents that were stored without one because the provider was
// unavailable during ingestion. Documents are processed in batches with
// exponential-backoff retry, and progress is written to an io.Writer.
package reembed
