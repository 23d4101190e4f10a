package domain

// AnswerFallback replaces an answer whose provider response shape could
// not be recognized.
const AnswerFallback = "Xin lỗi, đã xảy ra lỗi khi xử lý câu trả lời. Vui lòng thử lại sau."

// extractor attempts to pull an answer out of a raw provider response.
// Returns false to defer to the next extractor in the chain.
type extractor func(raw any) (string, bool)

// Providers are not uniform: some return plain text, some an object with
// a "content" field, some with "text". The chain tries each shape in order.
var extractors = []extractor{
	fromString,
	fromField("content"),
	fromField("text"),
}

// ExtractAnswer normalizes a raw generation response into answer text.
// ok is false when no extractor recognized the shape; callers should log
// the raw value and substitute AnswerFallback.
func ExtractAnswer(raw any) (answer string, ok bool) {
	for _, ex := range extractors {
		if text, ok := ex(raw); ok {
			return text, true
		}
	}
	return "", false
}

func fromString(raw any) (string, bool) {
	s, ok := raw.(string)
	return s, ok
}

func fromField(name string) extractor {
	return func(raw any) (string, bool) {
		m, ok := raw.(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := m[name].(string)
		return s, ok
	}
}
