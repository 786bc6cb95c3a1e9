// Package retrieval performs session-scoped semantic search over stored
// document chunks and assembles the retrieved text into a single context
// string for prompting.
package retrieval
