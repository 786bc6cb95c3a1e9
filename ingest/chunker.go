package ingest

// DefaultChunkSize is the window size in runes for splitting documents.
const DefaultChunkSize = 500

// SplitText splits text into fixed-size, non-overlapping windows.
// The final chunk carries whatever remains and may be shorter. Empty
// input yields no chunks. Windows are measured in runes so multi-byte
// characters are never split.
func SplitText(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
