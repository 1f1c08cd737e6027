package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/poiesic/vocalis/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDRoundTrip(t *testing.T) {
	for _, id := range []core.ID{0, 1, 127, 128, 1 << 40, core.ID(^uint64(0))} {
		decoded, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
	assert.Len(t, MarshalID(5), 1, "small ids encode as a single varint byte")
}

func TestUnmarshalID_Truncated(t *testing.T) {
	_, err := UnmarshalID([]byte{0x80})
	assert.ErrorIs(t, err, ErrTruncatedData)

	_, err = UnmarshalID(nil)
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestDocumentRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("with embedding", func(t *testing.T) {
		doc := &core.Document{
			Id:          7,
			Title:       "Hello World",
			Content:     "# Hello World\n\nbody",
			SourcePath:  "hello.md",
			Embedding:   []float32{0.25, -0.5, 1},
			Fingerprint: core.FingerprintOf("# Hello World\n\nbody"),
			InsertedAt:  now,
			UpdatedAt:   now,
		}
		data, err := MarshalDocument(doc)
		require.NoError(t, err)

		decoded, err := UnmarshalDocument(data)
		require.NoError(t, err)
		assert.Equal(t, doc, decoded)
	})

	t.Run("absent embedding stays absent", func(t *testing.T) {
		for _, embedding := range [][]float32{nil, {}} {
			data, err := MarshalDocument(&core.Document{Id: 1, SourcePath: "a.md", Embedding: embedding})
			require.NoError(t, err)

			decoded, err := UnmarshalDocument(data)
			require.NoError(t, err)
			assert.Nil(t, decoded.Embedding)
			assert.False(t, decoded.HasEmbedding())
		}
	})
}

func TestDocumentMUS_SizeMatchesMarshal(t *testing.T) {
	doc := core.Document{
		Id:         300,
		Title:      "Sizing",
		Content:    strings.Repeat("x", 200),
		SourcePath: "size.md",
		Embedding:  make([]float32, 130),
		InsertedAt: time.UnixMicro(1_700_000_000_000_000).UTC(),
	}
	buf := make([]byte, DocumentMUS.Size(doc))
	assert.Equal(t, len(buf), DocumentMUS.Marshal(doc, buf))

	decoded, n, err := DocumentMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, doc, decoded)

	skipped, err := DocumentMUS.Skip(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), skipped)
}

func TestUnmarshalDocument_Truncated(t *testing.T) {
	data, err := MarshalDocument(&core.Document{Id: 3, Title: "t", SourcePath: "t.md", Embedding: []float32{1, 2, 3}})
	require.NoError(t, err)

	for _, cut := range []int{0, 1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalDocument(data[:cut])
		assert.ErrorIs(t, err, ErrSerializationFailed, "cut at %d", cut)
		assert.ErrorIs(t, err, ErrTruncatedData, "cut at %d", cut)
	}
}

func TestUnmarshalDocument_Invalid(t *testing.T) {
	_, err := UnmarshalDocument([]byte("not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
