package ask

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusqa/campusqa/internal/domain"
)

// Embedder vectorizes question text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Retriever returns the k nearest document fragments for a vector.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, k int) ([]domain.RetrievedDocument, error)
}

// Generator produces text from a completed prompt. The raw payload is
// normalized by the answer extraction chain.
type Generator interface {
	Generate(ctx context.Context, prompt string) (any, error)
}

// Recorder persists a question/answer exchange into chat history.
type Recorder interface {
	Record(ctx context.Context, userID, chatID uuid.UUID, question, answer string) (uuid.UUID, error)
}
