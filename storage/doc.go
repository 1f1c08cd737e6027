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

// Package storage provides the storage abstraction layer for vocalis.
//
// This package defines the DocumentRepository interface that decouples the
// knowledge-base store from ingestion and retrieval. Two backends implement
// it: storage/badger (embedded, the default) and storage/postgres (pgx with
// a pgvector column).
//
// # Guarantees
//
// Every backend must honor the same contract:
//
//   - SourcePath is unique. Upsert is an atomic find-or-create-then-update,
//     so re-ingesting a path updates the existing record in place.
//   - IDs are assigned once, at creation, and never change.
//   - All returns documents in insertion order. Relevance ranking relies on
//     this order to break ties deterministically.
//
// # Usage
//
//	repo, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	defer repo.Close()
//
// # Context Support
//
// All repository methods accept context.Context. The Postgres backend honors
// cancellation; the Badger backend runs in-process and checks the context
// between retries only.
package storage
