// Package chi exposes the HTTP API: the question endpoint, the account
// endpoints and the chat-history reads.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campusqa/campusqa/internal/domain"
	"github.com/campusqa/campusqa/internal/logger"
	"github.com/campusqa/campusqa/internal/mail"
	askuc "github.com/campusqa/campusqa/internal/usecase/ask"
	authuc "github.com/campusqa/campusqa/internal/usecase/auth"
	healthuc "github.com/campusqa/campusqa/internal/usecase/health"
	historyuc "github.com/campusqa/campusqa/internal/usecase/history"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the usecase services behind the HTTP surface.
type Server struct {
	ask     *askuc.Service
	auth    *authuc.Service
	history *historyuc.Service
	health  *healthuc.Service
	logger  *zap.Logger
	val     *validator.Validate

	// exposeDetail adds the underlying error message to 500 bodies.
	// Enabled outside prod only.
	exposeDetail bool
}

// NewServer creates an HTTP API server.
func NewServer(
	ask *askuc.Service,
	auth *authuc.Service,
	history *historyuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		ask:     ask,
		auth:    auth,
		history: history,
		health:  health,
		logger:  logger,
		val:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

// WithErrorDetail makes 500 responses carry the underlying message.
func (s *Server) WithErrorDetail() *Server {
	s.exposeDetail = true
	return s
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/ask", s.Ask)
	r.Post("/api/login", s.Login)
	r.Post("/api/send-otp", s.SendOTP)
	r.Post("/api/register", s.Register)
	r.Post("/api/reset-password", s.ResetPassword)
	r.Get("/api/chats", s.Chats)
	r.Get("/api/messages", s.Messages)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Ask handles POST /ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, askErrorResponse{Error: "Question is required"})
		return
	}

	answer, err := s.ask.Ask(r.Context(), req.Question, parseUUID(req.UserID), parseUUID(req.ChatID))
	if err != nil {
		s.handleAskError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleAskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		writeJSON(w, http.StatusBadRequest, askErrorResponse{Error: "Question is required"})
	case errors.Is(err, domain.ErrMissingCredentials):
		writeJSON(w, http.StatusInternalServerError, askErrorResponse{Error: "API keys not configured"})
	default:
		logger.FromContext(r.Context()).Error("ask failed", zap.Error(err))
		msg := "An error occurred"
		if s.exposeDetail {
			msg = "An error occurred: " + err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, askErrorResponse{Error: msg})
	}
}

// Login handles POST /api/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeAccount(w, r, &req) {
		return
	}

	u, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.handleAccountError(w, r, err, "Lỗi Server", []errorHandler{
			sentinelHandler(domain.ErrNotRegistered, "Email chưa đăng ký"),
			sentinelHandler(domain.ErrNotVerified, "Tài khoản chưa xác thực OTP"),
			sentinelHandler(domain.ErrCorruptAccount, "Lỗi dữ liệu tài khoản"),
			sentinelHandler(domain.ErrWrongPassword, "Sai mật khẩu"),
		})
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{
		Success: true,
		Message: "Đăng nhập thành công",
		UserID:  &u.ID,
		User:    &userPayload{Name: u.Email},
	})
}

// SendOTP handles POST /api/send-otp.
func (s *Server) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req sendOTPRequest
	if !s.decodeAccount(w, r, &req) {
		return
	}

	purpose := mail.PurposeRegister
	if req.Type == "forgot" {
		purpose = mail.PurposeRecover
	}

	if err := s.auth.SendOTP(r.Context(), req.Email, purpose); err != nil {
		s.handleAccountError(w, r, err, "Lỗi hệ thống khi gửi OTP", []errorHandler{
			sentinelHandler(domain.ErrEmailTaken, "Email này đã được sử dụng."),
			sentinelHandler(domain.ErrEmailNotFound, "Email không tồn tại trong hệ thống."),
			sentinelHandler(domain.ErrInvalidEmail, "Email không hợp lệ"),
		})
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Đã gửi mã OTP (Check Console server)"})
}

// Register handles POST /api/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeAccount(w, r, &req) {
		return
	}

	if err := s.auth.Register(r.Context(), req.Email, req.Password, req.OTP); err != nil {
		s.handleAccountError(w, r, err, "Lỗi đăng ký", []errorHandler{
			sentinelHandler(domain.ErrInvalidEmail, "Email không hợp lệ (hãy yêu cầu gửi lại OTP)"),
			sentinelHandler(domain.ErrWrongOTP, "Mã OTP không đúng"),
			sentinelHandler(domain.ErrOTPExpired, "Mã OTP đã hết hạn"),
		})
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Đăng ký thành công!"})
}

// ResetPassword handles POST /api/reset-password.
func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !s.decodeAccount(w, r, &req) {
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Email, req.NewPassword, req.OTP); err != nil {
		s.handleAccountError(w, r, err, "Lỗi đổi mật khẩu", []errorHandler{
			sentinelHandler(domain.ErrEmailNotFound, "Email không tồn tại"),
			sentinelHandler(domain.ErrWrongOTP, "Mã OTP không đúng"),
			sentinelHandler(domain.ErrOTPExpired, "Mã OTP đã hết hạn"),
		})
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Success: true, Message: "Đổi mật khẩu thành công. Hãy đăng nhập lại."})
}

// Chats handles GET /api/chats. A missing or malformed userId yields an
// empty array, the read surface stays forgiving.
func (s *Server) Chats(w http.ResponseWriter, r *http.Request) {
	userID := parseUUID(r.URL.Query().Get("userId"))
	if userID == uuid.Nil {
		writeJSON(w, http.StatusOK, []chatPayload{})
		return
	}

	chats, err := s.history.Chats(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("list chats failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, []chatPayload{})
		return
	}

	items := make([]chatPayload, len(chats))
	for i, c := range chats {
		items[i] = chatToPayload(c)
	}
	writeJSON(w, http.StatusOK, items)
}

// Messages handles GET /api/messages.
func (s *Server) Messages(w http.ResponseWriter, r *http.Request) {
	chatID := parseUUID(r.URL.Query().Get("chatId"))
	if chatID == uuid.Nil {
		writeJSON(w, http.StatusOK, []messagePayload{})
		return
	}

	msgs, err := s.history.Messages(r.Context(), chatID)
	if err != nil {
		logger.FromContext(r.Context()).Error("list messages failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, []messagePayload{})
		return
	}

	items := make([]messagePayload, len(msgs))
	for i, m := range msgs {
		items[i] = messageToPayload(m)
	}
	writeJSON(w, http.StatusOK, items)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeAccount decodes and validates an account request body. Writes the
// 400 envelope itself and returns false when the body is unusable.
func (s *Server) decodeAccount(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSON(w, http.StatusBadRequest, accountResponse{Success: false, Message: "Dữ liệu không hợp lệ"})
		return false
	}
	if err := s.val.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, accountResponse{Success: false, Message: "Thiếu hoặc sai định dạng dữ liệu"})
		return false
	}
	return true
}

// handleAccountError walks the route's handler chain, falling back to a
// logged 500 with the route's generic message.
func (s *Server) handleAccountError(
	w http.ResponseWriter, r *http.Request, err error, fallback string, handlers []errorHandler,
) {
	for _, h := range handlers {
		if h(w, err) {
			return
		}
	}
	logger.FromContext(r.Context()).Error("account handler failed", zap.Error(err))
	msg := fallback
	if s.exposeDetail {
		msg = fallback + ": " + err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, accountResponse{Success: false, Message: msg})
}

// sentinelHandler returns an errorHandler that matches a single sentinel
// error. Account failures are business outcomes and answer 400 with the
// message the client shows verbatim.
func sentinelHandler(sentinel error, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, http.StatusBadRequest, accountResponse{Success: false, Message: message})
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseUUID returns uuid.Nil for empty or malformed input.
func parseUUID(s string) uuid.UUID {
	if s == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
