package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored documents.
// It is assigned from a database sequence when a document is first created.
type ID uint64

// Fingerprint is a content hash used to detect unchanged documents.
type Fingerprint uint64

// FingerprintOf hashes text content using BLAKE2b.
// Identical content always produces the same fingerprint.
func FingerprintOf(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Document is a single ingested knowledge-base entry.
type Document struct {
	Id          ID
	Title       string
	Content     string
	SourcePath  string      // Path relative to the ingested directory; unique
	Embedding   []float32   // nil when embedding generation failed or was skipped
	Fingerprint Fingerprint // Hash of Content at the time of the last upsert
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// HasEmbedding reports whether the document carries a usable vector.
func (d *Document) HasEmbedding() bool {
	return len(d.Embedding) > 0
}

// SearchMethod identifies which relevance strategy produced a result.
type SearchMethod string

const (
	// SearchMethodVector ranks by cosine similarity of embeddings.
	SearchMethodVector SearchMethod = "vector"
	// SearchMethodLexical matches query tokens as substrings.
	SearchMethodLexical SearchMethod = "lexical"
)

// SearchResult pairs a document with its relevance score.
// Lexical matches always carry a zero score.
type SearchResult struct {
	Document *Document
	Score    float64
	Method   SearchMethod
}

// VoiceProfile selects the voice used for speech synthesis.
type VoiceProfile string

const (
	VoiceMale    VoiceProfile = "male"
	VoiceFemale  VoiceProfile = "female"
	VoiceNeutral VoiceProfile = "neutral"

	// DefaultVoice is used when the caller does not pick a profile.
	DefaultVoice = VoiceFemale
)

// VoiceProfiles lists every supported profile.
func VoiceProfiles() []VoiceProfile {
	return []VoiceProfile{VoiceMale, VoiceFemale, VoiceNeutral}
}

// Audio is an inbound audio clip presented as opaque bytes.
// Format is the container/codec extension without a dot (e.g. "wav").
type Audio struct {
	Data   []byte
	Format string
}
