package domain

import "strings"

// RefusalSentence is the fixed sentence the model is instructed to emit
// when the context cannot answer the question. It doubles as the answer
// for questions that retrieve no documents at all.
const RefusalSentence = "Xin lỗi, tôi không tìm thấy thông tin này trong tài liệu."

// promptTemplate constrains the model to the supplied context and to
// answering in Vietnamese.
const promptTemplate = `Bạn là một trợ lý AI hữu ích của trường đại học.
Nhiệm vụ của bạn là trả lời câu hỏi của sinh viên dựa trên các tài liệu nội bộ của trường.
Chỉ sử dụng thông tin từ "NGỮ CẢNH" được cung cấp.
Nếu "NGỮ CẢNH" không chứa thông tin để trả lời, hãy nói: "` + RefusalSentence + `"
Không được bịa đặt thông tin.

NGỮ CẢNH:
{context}

CÂU HỎI:
{question}

CÂU TRẢ LỜI (bằng tiếng Việt):`

// BuildPrompt substitutes context and question into the fixed template.
func BuildPrompt(context, question string) string {
	r := strings.NewReplacer("{context}", context, "{question}", question)
	return r.Replace(promptTemplate)
}
