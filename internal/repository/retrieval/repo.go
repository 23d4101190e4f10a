// Package retrieval reads nearest-neighbor document fragments from the
// vector store.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusqa/campusqa/internal/db"
	"github.com/campusqa/campusqa/internal/domain"
)

// store is the consumer interface for retrieval operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/ask.Retriever.
type Repo struct {
	store store
}

// New creates a retrieval repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Retrieve returns up to k document fragments nearest to vector,
// in decreasing order of estimated relevance.
func (r *Repo) Retrieve(ctx context.Context, vector []float32, k int) ([]domain.RetrievedDocument, error) {
	q := &db.KNNQuery{
		IndexName:    domain.IndexName,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__content", "__vector_score"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return parseResults(sr), nil
}

func parseResults(sr *db.SearchResult) []domain.RetrievedDocument {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	docs := make([]domain.RetrievedDocument, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docs = append(docs, domain.RetrievedDocument{
			ID:      strings.TrimPrefix(entry.Key, domain.KeyPrefix),
			Content: entry.Fields["__content"],
			Score:   entry.Score,
		})
	}
	return docs
}
