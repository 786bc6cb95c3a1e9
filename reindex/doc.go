// Package reindex regenerates the embedding vectors of stored document
// chunks, typically after switching embedding models.
//
// Chunks are processed in batches with retry and exponential backoff, and
// vectors are normalized before being written back so similarity search
// keeps working unchanged.
package reindex
