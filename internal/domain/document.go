package domain

import "strings"

// KeyPrefix namespaces all vector document keys in the store.
const KeyPrefix = "campusqa:doc:"

// IndexName is the RediSearch index holding document embeddings.
const IndexName = KeyPrefix + "idx"

// DefaultTopK is the number of nearest neighbors retrieved per question.
const DefaultTopK = 4

// RetrievedDocument is a text fragment returned by the vector index,
// ordered by decreasing estimated relevance.
type RetrievedDocument struct {
	ID      string
	Content string
	Score   float64
}

// BuildContext concatenates fragment texts with a blank line separator,
// preserving retrieval order. Returns "" for zero documents.
func BuildContext(docs []RetrievedDocument) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = d.Content
	}
	return strings.Join(parts, "\n\n")
}
