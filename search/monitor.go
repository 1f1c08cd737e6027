package search

import (
	"github.com/poiesic/vocalis/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string, limit int)
	AfterDocumentScan(total int)
	AfterQueryEmbedding(dimension int, err error)
	AfterVectorCandidates(usable int)
	LexicalFallback(reason string, tokens []string)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                {}
func (n *noopMonitor) AfterDocumentScan(_ int)              {}
func (n *noopMonitor) AfterQueryEmbedding(_ int, _ error)   {}
func (n *noopMonitor) AfterVectorCandidates(_ int)          {}
func (n *noopMonitor) LexicalFallback(_ string, _ []string) {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)        {}
