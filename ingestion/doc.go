// Package ingestion turns a directory of markdown documents into stored,
// embedded documents.
//
// The Pipeline reads every matching file directly under a directory,
// derives a title, requests an embedding and upserts the result keyed by
// the file's relative path. Reading and embedding run concurrently on a
// worker pool; upserts happen afterwards in filename order so stored
// documents keep a deterministic insertion order.
//
// A failed embedding never aborts the batch. The document is stored
// without an embedding and stays reachable through lexical search.
package ingestion
