package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/search"
)

// traceMonitor prints search steps for `vocalis search --verbose`.
type traceMonitor struct {
	w io.Writer
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(query string, limit int) {
	fmt.Fprintf(m.w, "search: query=%q limit=%d\n", query, limit)
}

func (m *traceMonitor) AfterDocumentScan(total int) {
	fmt.Fprintf(m.w, "search: scanned %d documents\n", total)
}

func (m *traceMonitor) AfterQueryEmbedding(dimension int, err error) {
	if err != nil {
		fmt.Fprintf(m.w, "search: query embedding failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.w, "search: query embedding has %d dimensions\n", dimension)
}

func (m *traceMonitor) AfterVectorCandidates(usable int) {
	fmt.Fprintf(m.w, "search: %d documents with comparable embeddings\n", usable)
}

func (m *traceMonitor) LexicalFallback(reason string, tokens []string) {
	fmt.Fprintf(m.w, "search: lexical fallback (%s) tokens=[%s]\n", reason, strings.Join(tokens, " "))
}

func (m *traceMonitor) Finish(results []*core.SearchResult) {
	fmt.Fprintf(m.w, "search: %d results\n", len(results))
}
