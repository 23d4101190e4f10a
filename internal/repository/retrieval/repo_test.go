package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/campusqa/campusqa/internal/db"
	"github.com/campusqa/campusqa/internal/domain"
)

type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func TestRetrieve_ParsesEntries(t *testing.T) {
	ms := &mockStore{
		searchKNNFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
			if q.IndexName != domain.IndexName {
				t.Errorf("index name %q", q.IndexName)
			}
			if q.K != 4 {
				t.Errorf("k = %d, want 4", q.K)
			}
			return &db.SearchResult{
				Total: 2,
				Entries: []db.SearchEntry{
					{Key: domain.KeyPrefix + "a", Score: 0.91, Fields: map[string]string{"__content": "đoạn một"}},
					{Key: domain.KeyPrefix + "b", Score: 0.72, Fields: map[string]string{"__content": "đoạn hai"}},
				},
			}, nil
		},
	}
	repo := New(ms)

	docs, err := repo.Retrieve(context.Background(), []float32{0.1, 0.2}, 4)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs", len(docs))
	}
	if docs[0].ID != "a" || docs[0].Content != "đoạn một" || docs[0].Score != 0.91 {
		t.Errorf("first doc = %+v", docs[0])
	}
	if docs[1].ID != "b" {
		t.Errorf("second doc = %+v", docs[1])
	}
}

func TestRetrieve_Empty(t *testing.T) {
	repo := New(&mockStore{})

	docs, err := repo.Retrieve(context.Background(), []float32{0.1}, 4)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no docs, got %d", len(docs))
	}
}

func TestRetrieve_StoreError(t *testing.T) {
	wantErr := errors.New("boom")
	repo := New(&mockStore{
		searchKNNFn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
			return nil, wantErr
		},
	})

	if _, err := repo.Retrieve(context.Background(), []float32{0.1}, 4); !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}
