package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "This is a much longer piece of content that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunkID(t *testing.T) {
	id1 := ChunkID("session-a", 0, "some chunk text")
	id2 := ChunkID("session-a", 0, "some chunk text")

	if id1 != id2 {
		t.Errorf("ChunkID() produced different IDs for identical inputs: %d vs %d", id1, id2)
	}
}

func TestChunkID_Disambiguates(t *testing.T) {
	base := ChunkID("session-a", 0, "text")

	if ChunkID("session-b", 0, "text") == base {
		t.Error("ChunkID() collided across sessions")
	}
	if ChunkID("session-a", 1, "text") == base {
		t.Error("ChunkID() collided across chunk positions")
	}
	if ChunkID("session-a", 0, "other") == base {
		t.Error("ChunkID() collided across contents")
	}
}
