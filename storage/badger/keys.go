package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/docsage/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix  = "docchk"
	chunkDatePrefix    = "docchkd"
	chunkSessionPrefix = "docchks"
)

// makeChunkKey generates a key for a chunk row by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeChunkDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := chunkDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialChunkDateKey(timestamp time.Time) []byte {
	prefix := chunkDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeChunkSessionKey generates a composite key for the session index.
// Format: prefix:sessionID:id
func makeChunkSessionKey(sessionID string, id core.ID) []byte {
	prefix := chunkSessionPrefix + ":" + sessionID + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkSessionKey generates a partial key for session-scoped scans.
// Format: prefix:sessionID:
func makePartialChunkSessionKey(sessionID string) []byte {
	return []byte(chunkSessionPrefix + ":" + sessionID + ":")
}
