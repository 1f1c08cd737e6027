// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vocalis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/ai/elevenlabs"
	"github.com/poiesic/vocalis/ai/openai"
	"github.com/poiesic/vocalis/ingestion"
	"github.com/poiesic/vocalis/interaction"
	"github.com/poiesic/vocalis/reembed"
	"github.com/poiesic/vocalis/search"
	"github.com/poiesic/vocalis/storage"
	"github.com/poiesic/vocalis/storage/badger"
	"github.com/poiesic/vocalis/storage/postgres"
)

// ErrNoStore is returned by Open when no document store was selected.
var ErrNoStore = errors.New("no document store configured")

// Assistant owns the document store and AI providers and builds the
// components that use them.
type Assistant struct {
	backend  *badger.Backend
	repo     storage.DocumentRepository
	provider ai.AIProvider
	logger   *slog.Logger

	tokenOpts  *options
	tokensOnce sync.Once
	tokens     interaction.TokenCounter
}

// Option configures an Assistant.
type Option func(*options)

type options struct {
	dbPath       string
	inMemory     bool
	postgresDSN  string
	aiConfig     *ai.Config
	provider     ai.AIProvider
	encoding     string
	approxTokens bool
	logger       *slog.Logger
}

// WithBadger stores documents in a BadgerDB directory.
func WithBadger(path string) Option {
	return func(o *options) {
		o.dbPath = path
	}
}

// WithInMemory stores documents in a throwaway in-memory BadgerDB.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithPostgres stores documents in PostgreSQL with pgvector.
// It takes precedence over WithBadger.
func WithPostgres(dsn string) Option {
	return func(o *options) {
		o.postgresDSN = dsn
	}
}

// WithAIConfig sets the configuration used to build the providers.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The Assistant closes it on Close.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithTokenEncoding selects the tiktoken encoding for context budgets.
func WithTokenEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithApproxTokens counts context tokens by character length and never
// loads a tiktoken encoding.
func WithApproxTokens() Option {
	return func(o *options) {
		o.approxTokens = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Open opens the configured document store and builds the providers.
func Open(ctx context.Context, opts ...Option) (*Assistant, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		encoding: interaction.DefaultEncoding,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	a := &Assistant{logger: o.logger}

	if err := a.openStore(ctx, o); err != nil {
		a.closeStore()
		return nil, err
	}

	a.provider = o.provider
	if a.provider == nil {
		provider, err := newProvider(o.aiConfig)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		a.provider = provider
	}

	a.tokenOpts = o
	return a, nil
}

func (a *Assistant) openStore(ctx context.Context, o *options) error {
	switch {
	case o.postgresDSN != "":
		repo, err := postgres.Open(ctx, o.postgresDSN, postgres.WithLogger(a.logger))
		if err != nil {
			return err
		}
		a.repo = repo
	case o.dbPath != "" || o.inMemory:
		backend, err := badger.OpenBackend(o.dbPath, o.inMemory)
		if err != nil {
			return err
		}
		a.backend = backend
		repo, err := badger.NewDocumentRepository(backend)
		if err != nil {
			return err
		}
		a.repo = repo
	default:
		return ErrNoStore
	}
	return nil
}

func newProvider(config *ai.Config) (ai.AIProvider, error) {
	synthesizer, err := elevenlabs.New(config)
	if err != nil {
		return nil, err
	}
	return openai.NewProvider(config, openai.WithSynthesizer(synthesizer))
}

// tokenCounter loads the tiktoken encoding on first use. Loading may
// download the encoding.
func (a *Assistant) tokenCounter() interaction.TokenCounter {
	a.tokensOnce.Do(func() {
		a.tokens = newTokenCounter(a.tokenOpts, a.logger)
	})
	return a.tokens
}

func newTokenCounter(o *options, logger *slog.Logger) interaction.TokenCounter {
	if o.approxTokens {
		return interaction.ApproxCounter{}
	}
	counter, err := interaction.NewTiktokenCounter(o.encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, approximating token counts", "encoding", o.encoding, "err", err)
		return interaction.ApproxCounter{}
	}
	return counter
}

// Close releases the providers and the document store.
func (a *Assistant) Close() error {
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
		}
	}
	return a.closeStore()
}

func (a *Assistant) closeStore() error {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.logger.Error("error closing document repository", "err", err)
			return err
		}
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("error closing backend storage", "err", err)
			return err
		}
	}
	return nil
}

func (a *Assistant) Repository() storage.DocumentRepository {
	return a.repo
}

func (a *Assistant) Provider() ai.AIProvider {
	return a.provider
}

func (a *Assistant) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(a.logger)}, opts...)
	return ingestion.NewPipeline(a.repo, a.provider.Embedder(), opts...)
}

func (a *Assistant) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(a.logger)}, opts...)
	return search.NewSearcher(a.repo, a.provider.Embedder(), opts...)
}

// NewOrchestrator builds an orchestrator that retrieves from the
// document store and saves synthesized speech to store.
func (a *Assistant) NewOrchestrator(store interaction.AudioStore, opts ...interaction.Option) (*interaction.Orchestrator, error) {
	searcher, err := a.NewSearcher()
	if err != nil {
		return nil, err
	}
	opts = append([]interaction.Option{
		interaction.WithLogger(a.logger),
		interaction.WithTokenCounter(a.tokenCounter()),
	}, opts...)
	return interaction.NewOrchestrator(a.provider, searcher, store, opts...)
}

func (a *Assistant) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(a.repo, a.provider.Embedder(), config, progress)
}
