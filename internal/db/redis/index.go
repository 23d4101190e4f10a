package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/campusqa/campusqa/internal/db"
)

// EnsureIndex creates the HNSW document index if it does not already exist.
func (s *Store) EnsureIndex(ctx context.Context, spec *db.IndexSpec) error {
	if spec.Name == "" || spec.Prefix == "" {
		return fmt.Errorf("index name and prefix are required")
	}
	if spec.Dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive")
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(
		spec.Name,
		"ON", "HASH",
		"PREFIX", "1", spec.Prefix,
		"SCHEMA",
		"__content", "TEXT",
		"__vector", "VECTOR", "HNSW", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(spec.Dimensions),
		"DISTANCE_METRIC", "COSINE",
	).Build()

	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return nil
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// UpsertDoc writes a document hash under key.
func (s *Store) UpsertDoc(ctx context.Context, key string, fields map[string]string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if len(fields) == 0 {
		return fmt.Errorf("fields are required")
	}

	b := s.b().Hset().Key(key).FieldValue()
	for k, v := range fields {
		b = b.FieldValue(k, v)
	}

	if err := s.do(ctx, b.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpHSet, Err: err}
	}
	return nil
}
