package badger

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/docsage/core"
	"github.com/poiesic/docsage/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a ChunkRepository on top of an open backend.
func NewChunkRepository(backend *Backend) (storage.ChunkRepository, error) {
	return newChunkRepository(backend)
}

func newChunkRepository(backend *Backend) (*ChunkRepository, error) {
	return &ChunkRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database lifecycle.
func (r *ChunkRepository) Close() error {
	return nil
}

// AddChunk persists a single chunk row along with its date and session
// index entries. Chunk IDs are content-derived, so re-adding an identical
// chunk overwrites the same row rather than duplicating it.
func (r *ChunkRepository) AddChunk(ctx context.Context, chunk *core.DocumentChunk) (*core.DocumentChunk, error) {
	if chunk == nil {
		return nil, core.ErrInvalidChunk
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}
	if err := core.ValidateChunk(chunk); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Content-derived IDs make re-adds overwrite the same row; drop
		// the previous date index entry so the index stays consistent.
		old, err := readChunk(tx, makeChunkKey(chunk.Id))
		if err != nil {
			return err
		}
		if old != nil && !old.CreatedAt.Equal(chunk.CreatedAt) {
			if err := tx.Delete(makeChunkDateKey(old.CreatedAt, old.Id)); err != nil {
				return err
			}
		}
		if err := writeChunk(tx, chunk); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return chunk, err
}

// UpdateChunks rewrites existing chunk rows, typically after reindexing
// regenerated their vectors. Rows must already exist.
func (r *ChunkRepository) UpdateChunks(ctx context.Context, chunks ...*core.DocumentChunk) ([]*core.DocumentChunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			key := makeChunkKey(chunk.Id)

			old, err := readChunk(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			value := storage.MarshalChunk(chunk)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update date index if timestamp changed
			if !old.CreatedAt.Equal(chunk.CreatedAt) {
				oldDateKey := makeChunkDateKey(old.CreatedAt, old.Id)
				if err := tx.Delete(oldDateKey); err != nil {
					return err
				}
				newDateKey := makeChunkDateKey(chunk.CreatedAt, chunk.Id)
				if err := tx.Set(newDateKey, storage.MarshalID(chunk.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// MatchChunks returns up to limit chunks from the given session ranked by
// similarity to the query vector, most similar first. Vectors are stored
// unit-normalized, so the dot product is the cosine similarity.
func (r *ChunkRepository) MatchChunks(ctx context.Context, sessionID string, vector []float32, limit int) ([]*core.ChunkMatch, error) {
	if sessionID == "" || len(vector) == 0 || limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var matches []*core.ChunkMatch
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkSessionKey(sessionID)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			// A session ID containing ':' aliases shorter session prefixes,
			// so ownership is checked on the row, not the key.
			if chunk == nil || chunk.SessionID != sessionID {
				continue
			}

			matches = append(matches, &core.ChunkMatch{
				Chunk: chunk,
				Score: dotProduct(vector, chunk.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

// DeleteBefore removes every chunk strictly older than cutoff, across all
// sessions, and returns the number of rows removed.
func (r *ChunkRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialChunkDateKey(time.UnixMicro(0))
		endKey := makePartialChunkDateKey(cutoff)

		// Collect expired rows first; deleting while iterating the same
		// index is unsafe.
		var expired []*core.DocumentChunk

		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) >= 0 {
				break
			}

			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				iter.Close()
				return err
			}
			if chunk != nil {
				expired = append(expired, chunk)
			}
		}
		iter.Close()

		for _, chunk := range expired {
			if err := deleteChunk(tx, chunk); err != nil {
				return err
			}
			count++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error) {
	var result *core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetChunksBySession retrieves all chunks belonging to a session.
func (r *ChunkRepository) GetChunksBySession(ctx context.Context, sessionID string) ([]*core.DocumentChunk, error) {
	if sessionID == "" {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialChunkSessionKey(sessionID)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil && chunk.SessionID == sessionID {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)

	return results, err
}

// GetChunksByDateRange retrieves chunks created within a time range.
func (r *ChunkRepository) GetChunksByDateRange(ctx context.Context, start, end time.Time) ([]*core.DocumentChunk, error) {
	if start.Equal(end) {
		end = start.Add(1 * time.Microsecond)
	}

	var results []*core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		startKey := makePartialChunkDateKey(start)
		endKey := makePartialChunkDateKey(end)
		iter := tx.NewIterator(badger.DefaultIteratorOptions)
		defer iter.Close()

		for iter.Seek(startKey); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			if slices.Compare(key, endKey) > 0 {
				break
			}

			var chunkID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)

	return results, err
}

// Helper methods

// writeChunk stores the row plus its date and session index entries.
func writeChunk(tx *badger.Txn, chunk *core.DocumentChunk) error {
	key := makeChunkKey(chunk.Id)
	value := storage.MarshalChunk(chunk)
	if err := tx.Set(key, value); err != nil {
		return err
	}

	dateKey := makeChunkDateKey(chunk.CreatedAt, chunk.Id)
	if err := tx.Set(dateKey, storage.MarshalID(chunk.Id)); err != nil {
		return err
	}

	sessionKey := makeChunkSessionKey(chunk.SessionID, chunk.Id)
	return tx.Set(sessionKey, storage.MarshalID(chunk.Id))
}

// deleteChunk removes the row plus its index entries.
func deleteChunk(tx *badger.Txn, chunk *core.DocumentChunk) error {
	dateKey := makeChunkDateKey(chunk.CreatedAt, chunk.Id)
	if err := tx.Delete(dateKey); err != nil {
		return err
	}

	sessionKey := makeChunkSessionKey(chunk.SessionID, chunk.Id)
	if err := tx.Delete(sessionKey); err != nil {
		return err
	}

	return tx.Delete(makeChunkKey(chunk.Id))
}

// readChunk reads a chunk row from the transaction. Returns nil if absent.
func readChunk(tx *badger.Txn, key []byte) (*core.DocumentChunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.DocumentChunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}
