package campusqa

import "time"

type askRequest struct {
	Question string `json:"question"`
	UserID   string `json:"userId,omitempty"`
	ChatID   string `json:"chatId,omitempty"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
	User    struct {
		Name string `json:"name"`
	} `json:"user"`
}

type sendOTPRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// LoginResult is the identity returned on a successful login.
type LoginResult struct {
	UserID  string
	Name    string
	Message string
}

// Chat is one conversation row.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one message row.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Health is the server's component health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
