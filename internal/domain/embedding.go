package domain

// EmbeddingResult is a vector produced from text plus token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
