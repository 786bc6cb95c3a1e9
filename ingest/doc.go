// Package ingest turns raw document text into embedded, session-scoped
// chunks in storage.
//
// Splitting is a fixed-window pass over the text; embedding happens in a
// single batch call; inserts are per-chunk so a late failure preserves the
// chunks stored before it.
package ingest
