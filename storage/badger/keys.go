package badger

import (
	"encoding/binary"

	"github.com/poiesic/vocalis/core"
)

// Key prefixes for different data types
const (
	documentPrefix       = "doc:"
	documentSourcePrefix = "docsrc:"
	documentIDSeq        = "docseq"
)

// makeDocumentKey generates a key for a document by ID.
// Format: prefix + 8-byte big-endian ID, so prefix scans yield ID order.
func makeDocumentKey(id core.ID) []byte {
	buf := make([]byte, len(documentPrefix)+8)
	offset := copy(buf, documentPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSourcePathKey generates the unique index key for a source path.
// Format: prefix + path
func makeSourcePathKey(path string) []byte {
	buf := make([]byte, len(documentSourcePrefix)+len(path))
	offset := copy(buf, documentSourcePrefix)
	copy(buf[offset:], path)
	return buf
}
