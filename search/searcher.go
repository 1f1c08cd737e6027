package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
)

// DefaultEmbedTimeout bounds the query embedding call.
const DefaultEmbedTimeout = 15 * time.Second

// Searcher ranks documents by vector similarity with a lexical fallback.
type Searcher struct {
	repository   storage.DocumentRepository
	embedder     ai.Embedder
	embedTimeout time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedTimeout bounds the query embedding call. Values <= 0 keep the default.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout > 0 {
			s.embedTimeout = timeout
		}
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(repository storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		repository:   repository,
		embedder:     embedder,
		embedTimeout: DefaultEmbedTimeout,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search returns up to limit documents, most relevant first.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]*core.Document, error) {
	results, err := s.Rank(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]*core.Document, len(results))
	for i, result := range results {
		docs[i] = result.Document
	}
	return docs, nil
}

// Rank is Search with scores and the strategy that produced them.
func (s *Searcher) Rank(ctx context.Context, query string, limit int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, limit, nil)
}

// SearchWithMonitor ranks documents and reports each step to monitor.
// A nil monitor is allowed.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = strings.TrimSpace(query)
	monitor.Start(query, limit)
	if query == "" || limit <= 0 {
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}

	docs, err := s.repository.All(ctx)
	if err != nil {
		s.logger.Error("error loading documents", "err", err)
		return nil, err
	}
	monitor.AfterDocumentScan(len(docs))

	if len(docs) == 0 {
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}

	var results []*core.SearchResult
	embedding, err := s.embedQuery(ctx, query)
	monitor.AfterQueryEmbedding(len(embedding), err)
	switch {
	case err != nil:
		s.logger.Warn("query embedding failed, using lexical search", "err", err)
		results = s.lexical(docs, query, limit, "query embedding failed", monitor)
	default:
		results = s.vector(docs, embedding, limit, monitor)
		if results == nil {
			s.logger.Debug("no documents with usable embeddings, using lexical search", "dimension", len(embedding))
			results = s.lexical(docs, query, limit, "no usable document embeddings", monitor)
		}
	}

	monitor.Finish(results)
	return results, nil
}

func (s *Searcher) embedQuery(ctx context.Context, query string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(embedding) == 0 {
		return nil, ai.NewProviderError("embedder", "embed", ai.ErrEmptyResponse)
	}
	return embedding, nil
}

// vector scores documents whose embedding matches the query dimension.
// It returns nil when no document is comparable.
func (s *Searcher) vector(docs []*core.Document, embedding []float32, limit int, monitor SearchMonitor) []*core.SearchResult {
	candidates := make([]*core.SearchResult, 0, len(docs))
	for _, doc := range docs {
		if !doc.HasEmbedding() || len(doc.Embedding) != len(embedding) {
			continue
		}
		candidates = append(candidates, &core.SearchResult{
			Document: doc,
			Score:    CosineSimilarity(embedding, doc.Embedding),
			Method:   core.SearchMethodVector,
		})
	}
	monitor.AfterVectorCandidates(len(candidates))

	if len(candidates) == 0 {
		return nil
	}

	// Stable so equal scores keep insertion order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

func (s *Searcher) lexical(docs []*core.Document, query string, limit int, reason string, monitor SearchMonitor) []*core.SearchResult {
	tokens := lexicalTokens(query)
	monitor.LexicalFallback(reason, tokens)

	results := make([]*core.SearchResult, 0, min(limit, len(docs)))
	for _, doc := range docs {
		if len(results) == limit {
			break
		}
		if matchesAnyToken(doc.Title, doc.Content, tokens) {
			results = append(results, &core.SearchResult{
				Document: doc,
				Method:   core.SearchMethodLexical,
			})
		}
	}
	return results
}
