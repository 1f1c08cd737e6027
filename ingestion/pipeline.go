package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/reembed"
	"github.com/poiesic/vocalis/storage"
)

// DefaultEmbedTimeout bounds each document embedding call.
const DefaultEmbedTimeout = 30 * time.Second

// Pipeline ingests markdown files into a document repository.
type Pipeline struct {
	repository       storage.DocumentRepository
	embedder         ai.Embedder
	pool             *ants.Pool
	extensions       []string
	embedTimeout     time.Duration
	reembedUnchanged bool
	progress         io.Writer
	logger           *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent reads and embeddings.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithExtensions sets the file extensions considered documents.
// Default is ".md". Matching is case-insensitive.
func WithExtensions(exts ...string) Option {
	return func(p *Pipeline) error {
		if len(exts) == 0 {
			return errors.New("at least one extension required")
		}
		p.extensions = p.extensions[:0]
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.extensions = append(p.extensions, ext)
		}
		return nil
	}
}

// WithEmbedTimeout bounds each embedding call. Values <= 0 keep the default.
func WithEmbedTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout > 0 {
			p.embedTimeout = timeout
		}
		return nil
	}
}

// WithReembedUnchanged forces an embedding call even when a file's
// content fingerprint matches an already-embedded document.
func WithReembedUnchanged(reembed bool) Option {
	return func(p *Pipeline) error {
		p.reembedUnchanged = reembed
		return nil
	}
}

// WithProgress writes a progress line to w while ingesting.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.DocumentRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository:   repository,
		embedder:     embedder,
		pool:         pool,
		extensions:   []string{".md"},
		embedTimeout: DefaultEmbedTimeout,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// prepared is the outcome of reading and embedding one file.
type prepared struct {
	path      string
	title     string
	content   string
	embedding []float32
	reused    bool
	readErr   error
	embedErr  error
}

// Ingest imports every matching file directly under dir. Subdirectories
// are ignored. Per-file failures are collected in the report; the
// returned error is reserved for problems with dir itself or a
// cancelled context.
func (p *Pipeline) Ingest(ctx context.Context, dir string) (*Report, error) {
	files, err := p.listFiles(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if len(files) == 0 {
		p.logger.Info("no documents to ingest", "dir", dir)
		return report, nil
	}

	p.logger.Info("ingesting documents", "dir", dir, "files", len(files))

	var tracker *reembed.ProgressTracker
	if p.progress != nil {
		tracker = reembed.NewProgressTracker(p.progress, len(files), 1)
		tracker.Start()
		defer tracker.Finish()
	}

	results := make([]*prepared, len(files))
	var wg sync.WaitGroup
	for i, name := range files {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			results[i] = p.prepare(ctx, dir, name)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = &prepared{path: name, readErr: submitErr}
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	for _, item := range results {
		p.store(ctx, item, report)
		if tracker != nil {
			tracker.Increment(1)
		}
	}

	p.logger.Info("ingestion finished",
		"imported", report.Imported,
		"failed", report.Failed,
		"reused", report.Reused,
	)
	return report, nil
}

// listFiles returns matching regular file names under dir, sorted.
func (p *Pipeline) listFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if slices.Contains(p.extensions, ext) {
			files = append(files, entry.Name())
		}
	}
	// os.ReadDir already sorts by name.
	return files, nil
}

func (p *Pipeline) prepare(ctx context.Context, dir, name string) *prepared {
	item := &prepared{path: filepath.ToSlash(name)}

	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		item.readErr = err
		return item
	}
	item.content = string(raw)
	item.title = ExtractTitle(item.content, name)

	if strings.TrimSpace(item.content) == "" {
		p.logger.Debug("empty document, skipping embedding", "path", item.path)
		return item
	}

	if !p.reembedUnchanged {
		existing, err := p.repository.FindBySourcePath(ctx, item.path)
		if err == nil && existing.HasEmbedding() && existing.Fingerprint == core.FingerprintOf(item.content) {
			item.embedding = existing.Embedding
			item.reused = true
			return item
		}
	}

	embedCtx, cancel := context.WithTimeout(ctx, p.embedTimeout)
	defer cancel()

	embedding, err := p.embedder.EmbedText(embedCtx, item.content)
	if err != nil {
		item.embedErr = err
		return item
	}
	item.embedding = embedding
	return item
}

func (p *Pipeline) store(ctx context.Context, item *prepared, report *Report) {
	if item.readErr != nil {
		p.logger.Error("error reading document", "path", item.path, "err", item.readErr)
		report.addError(item.path, StageRead, item.readErr)
		return
	}

	if item.embedErr != nil {
		p.logger.Warn("embedding failed, storing document without embedding", "path", item.path, "err", item.embedErr)
		report.addError(item.path, StageEmbed, item.embedErr)
	}

	doc, err := p.repository.Upsert(ctx, item.path, item.title, item.content, item.embedding)
	if err != nil {
		p.logger.Error("error storing document", "path", item.path, "err", err)
		report.addError(item.path, StageStore, err)
		return
	}

	report.Imported++
	if item.reused {
		report.Reused++
	}
	p.logger.Debug("stored document", "path", item.path, "id", doc.Id, "embedded", doc.HasEmbedding())
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
