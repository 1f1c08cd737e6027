package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	idSeq, err := backend.GetSequence(documentIDSeq)
	if err != nil {
		return nil, err
	}

	return &DocumentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *DocumentRepository) Close() error {
	return r.idSeq.Release()
}

// Upsert creates or updates the document stored under sourcePath.
// The source path index is read inside the same transaction that writes
// the document, so a concurrent creator of the same path causes a commit
// conflict and the loser retries as an update.
func (r *DocumentRepository) Upsert(ctx context.Context, sourcePath, title, content string, embedding []float32) (*core.Document, error) {
	if sourcePath == "" {
		return nil, storage.ErrEmptySourcePath
	}

	var result *core.Document
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		now := time.Now().UTC().Truncate(time.Microsecond)

		doc, err := r.findBySourcePath(tx, sourcePath)
		if err != nil {
			return err
		}
		if doc == nil {
			id, err := r.nextID()
			if err != nil {
				return err
			}
			doc = &core.Document{
				Id:         id,
				SourcePath: sourcePath,
				InsertedAt: now,
			}
			if err := tx.Set(makeSourcePathKey(sourcePath), storage.MarshalID(id)); err != nil {
				return err
			}
		}

		doc.Title = title
		doc.Content = content
		doc.Embedding = cloneEmbedding(embedding)
		doc.Fingerprint = core.FingerprintOf(content)
		doc.UpdatedAt = now

		if err := writeDocument(tx, doc); err != nil {
			return err
		}
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// All returns every stored document in ID order, which is insertion order.
func (r *DocumentRepository) All(ctx context.Context) ([]*core.Document, error) {
	docs := make([]*core.Document, 0)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// FindBySourcePath returns the document stored under path.
func (r *DocumentRepository) FindBySourcePath(ctx context.Context, path string) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = r.findBySourcePath(tx, path)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var doc *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, makeDocumentKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// SetEmbedding replaces the embedding of an existing document.
func (r *DocumentRepository) SetEmbedding(ctx context.Context, id core.ID, embedding []float32) (*core.Document, error) {
	var result *core.Document
	err := r.backend.Update(ctx, func(tx *badger.Txn) error {
		doc, err := readDocument(tx, makeDocumentKey(id))
		if err != nil {
			return err
		}
		if doc == nil {
			return storage.ErrNotFound
		}
		doc.Embedding = cloneEmbedding(embedding)
		doc.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
		if err := writeDocument(tx, doc); err != nil {
			return err
		}
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of stored documents.
func (r *DocumentRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// nextID draws the next document ID from the sequence.
func (r *DocumentRepository) nextID() (core.ID, error) {
	nextID, err := r.idSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if nextID == 0 {
		nextID, err = r.idSeq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(nextID), nil
}

// findBySourcePath resolves the source path index within tx.
// Returns nil if the path is not indexed or the indexed record is missing.
func (r *DocumentRepository) findBySourcePath(tx *badger.Txn, path string) (*core.Document, error) {
	item, err := tx.Get(makeSourcePathKey(path))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return readDocument(tx, makeDocumentKey(id))
}

// readDocument reads a document by key. Returns nil if it doesn't exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}

func writeDocument(tx *badger.Txn, doc *core.Document) error {
	value, err := storage.MarshalDocument(doc)
	if err != nil {
		return err
	}
	return tx.Set(makeDocumentKey(doc.Id), value)
}

func cloneEmbedding(embedding []float32) []float32 {
	if len(embedding) == 0 {
		return nil
	}
	out := make([]float32, len(embedding))
	copy(out, embedding)
	return out
}
