package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campusqa/campusqa/internal/domain"
	"github.com/campusqa/campusqa/internal/mail"
	askuc "github.com/campusqa/campusqa/internal/usecase/ask"
	authuc "github.com/campusqa/campusqa/internal/usecase/auth"
	healthuc "github.com/campusqa/campusqa/internal/usecase/health"
	historyuc "github.com/campusqa/campusqa/internal/usecase/history"
)

// --- Mocks ---

type mockEmbedder struct {
	vec []float32
}

func (m *mockEmbedder) Embed(context.Context, string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockRetriever struct {
	docs []domain.RetrievedDocument
}

func (m *mockRetriever) Retrieve(context.Context, []float32, int) ([]domain.RetrievedDocument, error) {
	return m.docs, nil
}

type mockGenerator struct {
	raw any
}

func (m *mockGenerator) Generate(context.Context, string) (any, error) {
	return m.raw, nil
}

type mockUserRepo struct {
	user   domain.User
	getErr error
	upsErr error
	recErr error
}

func (m *mockUserRepo) GetByEmail(context.Context, string) (domain.User, error) {
	if m.getErr != nil {
		return domain.User{}, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepo) UpsertRegistrationOTP(context.Context, string, string, time.Time) error {
	return m.upsErr
}

func (m *mockUserRepo) SetRecoveryOTP(context.Context, string, string, time.Time) error {
	return m.recErr
}

func (m *mockUserRepo) Activate(context.Context, string, string) error { return nil }

func (m *mockUserRepo) UpdatePassword(context.Context, string, string) error { return nil }

type mockSender struct{}

func (m *mockSender) Send(context.Context, string, string, mail.Purpose) error { return nil }

type mockChatRepo struct {
	chats    []domain.Chat
	messages []domain.Message
}

func (m *mockChatRepo) ListChats(context.Context, uuid.UUID) ([]domain.Chat, error) {
	return m.chats, nil
}

func (m *mockChatRepo) ListMessages(context.Context, uuid.UUID) ([]domain.Message, error) {
	return m.messages, nil
}

func (m *mockChatRepo) CreateChat(_ context.Context, userID uuid.UUID, title string) (domain.Chat, error) {
	return domain.Chat{ID: uuid.New(), UserID: userID, Title: title}, nil
}

func (m *mockChatRepo) AddMessage(context.Context, uuid.UUID, string, string) error { return nil }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// --- Harness ---

type serverOptions struct {
	retrieved []domain.RetrievedDocument
	generated any
	secrets   askuc.Secrets
	users     *mockUserRepo
	chats     *mockChatRepo
	dbErr     error
}

func newTestServer(t *testing.T, opts serverOptions) *httptest.Server {
	t.Helper()

	if opts.secrets == (askuc.Secrets{}) {
		opts.secrets = askuc.Secrets{ModelAPIKey: "mk", IndexCredential: "ik"}
	}
	if opts.users == nil {
		opts.users = &mockUserRepo{}
	}
	if opts.chats == nil {
		opts.chats = &mockChatRepo{}
	}
	if opts.generated == nil {
		opts.generated = "an answer"
	}

	askSvc := askuc.New(&mockEmbedder{vec: []float32{0.1}}, &mockRetriever{docs: opts.retrieved},
		&mockGenerator{raw: opts.generated}, opts.secrets)
	authSvc := authuc.New(opts.users, &mockSender{})
	historySvc := historyuc.New(opts.chats)
	healthSvc := healthuc.New(&mockPinger{err: opts.dbErr}, nil, nil)

	srv := NewServer(askSvc, authSvc, historySvc, healthSvc, zap.NewNop())

	r := chirouter.NewRouter()
	r.Use(CORSMiddleware())
	srv.Mount(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	return resp, decoded
}

// --- /ask ---

func TestAskEndpoint_Answer(t *testing.T) {
	ts := newTestServer(t, serverOptions{
		retrieved: []domain.RetrievedDocument{{ID: "a", Content: "tài liệu", Score: 0.9}},
		generated: "câu trả lời",
	})

	resp, body := postJSON(t, ts, "/ask", `{"question":"học phí?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["answer"] != "câu trả lời" {
		t.Errorf("answer = %v", body["answer"])
	}
}

func TestAskEndpoint_NoDocumentsRefusal(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp, body := postJSON(t, ts, "/ask", `{"question":"học phí?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["answer"] != domain.RefusalSentence {
		t.Errorf("answer = %v", body["answer"])
	}
}

func TestAskEndpoint_EmptyQuestion(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	for _, payload := range []string{`{}`, `{"question":"  "}`} {
		resp, body := postJSON(t, ts, "/ask", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("payload %s: status = %d", payload, resp.StatusCode)
		}
		if body["error"] != "Question is required" {
			t.Errorf("payload %s: error = %v", payload, body["error"])
		}
	}
}

func TestAskEndpoint_MissingKeys(t *testing.T) {
	ts := newTestServer(t, serverOptions{secrets: askuc.Secrets{ModelAPIKey: "mk"}})

	resp, body := postJSON(t, ts, "/ask", `{"question":"học phí?"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["error"] != "API keys not configured" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestAskEndpoint_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp, err := http.Get(ts.URL + "/ask")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

// --- Account endpoints ---

func TestLoginEndpoint_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("mật-khẩu"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	userID := uuid.New()
	ts := newTestServer(t, serverOptions{users: &mockUserRepo{user: domain.User{
		ID: userID, Email: "sv@uni.edu.vn", IsVerified: true, PasswordHash: string(hash),
	}}})

	resp, body := postJSON(t, ts, "/api/login", `{"email":"sv@uni.edu.vn","password":"mật-khẩu"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["success"] != true || body["message"] != "Đăng nhập thành công" {
		t.Errorf("body = %v", body)
	}
	if body["userId"] != userID.String() {
		t.Errorf("userId = %v", body["userId"])
	}
	user, _ := body["user"].(map[string]any)
	if user["name"] != "sv@uni.edu.vn" {
		t.Errorf("user = %v", body["user"])
	}
}

func TestLoginEndpoint_FailureMessages(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("đúng"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		users *mockUserRepo
		want  string
	}{
		{"not registered", &mockUserRepo{getErr: domain.ErrUserNotFound}, "Email chưa đăng ký"},
		{"not verified", &mockUserRepo{user: domain.User{Email: "a@b.vn"}}, "Tài khoản chưa xác thực OTP"},
		{"corrupt record", &mockUserRepo{user: domain.User{Email: "a@b.vn", IsVerified: true}}, "Lỗi dữ liệu tài khoản"},
		{"wrong password",
			&mockUserRepo{user: domain.User{Email: "a@b.vn", IsVerified: true, PasswordHash: string(hash)}},
			"Sai mật khẩu"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, serverOptions{users: tc.users})
			resp, body := postJSON(t, ts, "/api/login", `{"email":"a@b.vn","password":"sai"}`)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if body["success"] != false || body["message"] != tc.want {
				t.Errorf("body = %v, want message %q", body, tc.want)
			}
		})
	}
}

func TestSendOTPEndpoint(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	resp, body := postJSON(t, ts, "/api/send-otp", `{"email":"a@b.vn","type":"register"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["message"] != "Đã gửi mã OTP (Check Console server)" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestSendOTPEndpoint_EmailTaken(t *testing.T) {
	ts := newTestServer(t, serverOptions{users: &mockUserRepo{upsErr: domain.ErrEmailTaken}})
	resp, body := postJSON(t, ts, "/api/send-otp", `{"email":"a@b.vn","type":"register"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["message"] != "Email này đã được sử dụng." {
		t.Errorf("message = %v", body["message"])
	}
}

func TestSendOTPEndpoint_InvalidType(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	resp, _ := postJSON(t, ts, "/api/send-otp", `{"email":"a@b.vn","type":"other"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestRegisterEndpoint_OTPMessages(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name string
		user domain.User
		otp  string
		want string
	}{
		{"wrong otp", domain.User{Email: "a@b.vn", OTPCode: "123456", OTPExpiresAt: now.Add(time.Minute)},
			"999999", "Mã OTP không đúng"},
		{"expired otp", domain.User{Email: "a@b.vn", OTPCode: "123456", OTPExpiresAt: now.Add(-time.Minute)},
			"123456", "Mã OTP đã hết hạn"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t, serverOptions{users: &mockUserRepo{user: tc.user}})
			resp, body := postJSON(t, ts, "/api/register",
				`{"email":"a@b.vn","password":"pw","otp":"`+tc.otp+`"}`)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if body["message"] != tc.want {
				t.Errorf("message = %v, want %q", body["message"], tc.want)
			}
		})
	}
}

func TestRegisterEndpoint_Success(t *testing.T) {
	user := domain.User{Email: "a@b.vn", OTPCode: "123456", OTPExpiresAt: time.Now().Add(time.Minute)}
	ts := newTestServer(t, serverOptions{users: &mockUserRepo{user: user}})

	resp, body := postJSON(t, ts, "/api/register", `{"email":"a@b.vn","password":"pw","otp":"123456"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["message"] != "Đăng ký thành công!" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestResetPasswordEndpoint_Success(t *testing.T) {
	user := domain.User{Email: "a@b.vn", OTPCode: "123456", OTPExpiresAt: time.Now().Add(time.Minute)}
	ts := newTestServer(t, serverOptions{users: &mockUserRepo{user: user}})

	resp, body := postJSON(t, ts, "/api/reset-password",
		`{"email":"a@b.vn","otp":"123456","newPassword":"mới"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["message"] != "Đổi mật khẩu thành công. Hãy đăng nhập lại." {
		t.Errorf("message = %v", body["message"])
	}
}

// --- History endpoints ---

func getArray(t *testing.T, ts *httptest.Server, path string) (*http.Response, []any) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded []any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatal(err)
	}
	return resp, decoded
}

func TestChatsEndpoint(t *testing.T) {
	userID := uuid.New()
	ts := newTestServer(t, serverOptions{chats: &mockChatRepo{chats: []domain.Chat{
		{ID: uuid.New(), UserID: userID, Title: "chat một", CreatedAt: time.Now()},
	}}})

	resp, items := getArray(t, ts, "/api/chats?userId="+userID.String())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
}

func TestChatsEndpoint_MissingUserID(t *testing.T) {
	ts := newTestServer(t, serverOptions{chats: &mockChatRepo{chats: []domain.Chat{{ID: uuid.New()}}}})

	for _, path := range []string{"/api/chats", "/api/chats?userId=not-a-uuid"} {
		resp, items := getArray(t, ts, path)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status = %d", path, resp.StatusCode)
		}
		if len(items) != 0 {
			t.Errorf("%s: items = %v, want empty", path, items)
		}
	}
}

func TestMessagesEndpoint(t *testing.T) {
	chatID := uuid.New()
	ts := newTestServer(t, serverOptions{chats: &mockChatRepo{messages: []domain.Message{
		{ID: uuid.New(), ChatID: chatID, Role: domain.RoleUser, Content: "câu hỏi"},
	}}})

	resp, items := getArray(t, ts, "/api/messages?chatId="+chatID.String())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(items) != 1 {
		t.Fatalf("items = %v", items)
	}
	msg, _ := items[0].(map[string]any)
	if msg["content"] != "câu hỏi" {
		t.Errorf("message = %v", items[0])
	}
}

// --- Health ---

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestHealthEndpoint_Degraded(t *testing.T) {
	ts := newTestServer(t, serverOptions{dbErr: context.DeadlineExceeded})

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

// --- CORS ---

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/ask", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS headers")
	}
}
