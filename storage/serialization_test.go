package storage

import (
	"testing"
	"time"

	"github.com/poiesic/docsage/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalIDInvalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	chunk := &core.DocumentChunk{
		Id:        core.ChunkID("session-1", 0, "week 1: введение"),
		SessionID: "session-1",
		Content:   "week 1: введение",
		Vector:    []float32{0.1, -0.2, 0.97},
		CreatedAt: now,
	}

	data := MarshalChunk(chunk)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, chunk.Id, decoded.Id)
	assert.Equal(t, chunk.SessionID, decoded.SessionID)
	assert.Equal(t, chunk.Content, decoded.Content)
	assert.Equal(t, chunk.Vector, decoded.Vector)
	assert.True(t, chunk.CreatedAt.Equal(decoded.CreatedAt))
}

func TestMarshalUnmarshalChunkEmptyVector(t *testing.T) {
	chunk := &core.DocumentChunk{
		Id:        core.ID(7),
		SessionID: "s",
		Content:   "no embedding yet",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	decoded, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Empty(t, decoded.Vector)
}

func TestUnmarshalChunkInvalid(t *testing.T) {
	_, err := UnmarshalChunk([]byte{0xFF})
	assert.Error(t, err)
}
