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

package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/vocalis/core"
)

// IDMUS encodes IDs as varints.
var IDMUS = idMUS{}

// DocumentMUS encodes documents field by field in declaration order.
// Timestamps are stored as Unix microseconds.
var DocumentMUS = documentMUS{}

type idMUS struct{}

func (idMUS) Marshal(id core.ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id core.ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idMUS) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type documentMUS struct{}

func (documentMUS) Marshal(doc core.Document, bs []byte) (n int) {
	n = IDMUS.Marshal(doc.Id, bs)
	n += ord.String.Marshal(doc.Title, bs[n:])
	n += ord.String.Marshal(doc.Content, bs[n:])
	n += ord.String.Marshal(doc.SourcePath, bs[n:])
	n += varint.PositiveInt.Marshal(len(doc.Embedding), bs[n:])
	for _, f := range doc.Embedding {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	n += varint.Uint64.Marshal(uint64(doc.Fingerprint), bs[n:])
	n += varint.Int64.Marshal(doc.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(doc.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (doc core.Document, n int, err error) {
	var n1 int
	if doc.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if doc.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if doc.SourcePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1

	var length int
	if length, n1, err = varint.PositiveInt.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length > 0 {
		if length > (len(bs)-n)/4 {
			err = mus.ErrTooSmallByteSlice
			return
		}
		doc.Embedding = make([]float32, length)
		for i := range doc.Embedding {
			if doc.Embedding[i], n1, err = raw.Float32.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}

	var fingerprint uint64
	if fingerprint, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	doc.Fingerprint = core.Fingerprint(fingerprint)

	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	doc.InsertedAt = time.UnixMicro(micros).UTC()
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	doc.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (documentMUS) Size(doc core.Document) (size int) {
	size = IDMUS.Size(doc.Id)
	size += ord.String.Size(doc.Title)
	size += ord.String.Size(doc.Content)
	size += ord.String.Size(doc.SourcePath)
	size += varint.PositiveInt.Size(len(doc.Embedding))
	for _, f := range doc.Embedding {
		size += raw.Float32.Size(f)
	}
	size += varint.Uint64.Size(uint64(doc.Fingerprint))
	size += varint.Int64.Size(doc.InsertedAt.UnixMicro())
	return size + varint.Int64.Size(doc.UpdatedAt.UnixMicro())
}

func (m documentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = m.Unmarshal(bs)
	return
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	if err != nil {
		return 0, decodeError(err)
	}
	return id, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrSerializationFailed)
	}
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf, nil
}

// UnmarshalDocument deserializes a Document from bytes.
// An absent or empty embedding is returned as nil.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, decodeError(err)
	}
	return &doc, nil
}

func decodeError(err error) error {
	if errors.Is(err, mus.ErrTooSmallByteSlice) {
		return fmt.Errorf("%w: %w: %w", ErrSerializationFailed, ErrTruncatedData, err)
	}
	return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
}
