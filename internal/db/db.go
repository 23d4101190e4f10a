// Package db defines the vector store contract and shared query types.
package db

import (
	"context"
	"time"
)

// Store is the vector index backend contract.
type Store interface {
	Ping(ctx context.Context) error
	WaitForReady(ctx context.Context, timeout time.Duration) error
	Close()

	// EnsureIndex creates the document search index if it does not exist.
	EnsureIndex(ctx context.Context, spec *IndexSpec) error
	// UpsertDoc writes a document hash under key.
	UpsertDoc(ctx context.Context, key string, fields map[string]string) error
	// SearchKNN runs a nearest-neighbor search against an index.
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// IndexSpec describes an HNSW vector index over hash keys with a prefix.
type IndexSpec struct {
	Name       string
	Prefix     string
	Dimensions int
}

// KNNQuery is a nearest-neighbor search request.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult holds raw entries returned by the store.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is one matched key with its fields and similarity score.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
