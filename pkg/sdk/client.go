// Package campusqa is a small Go client for the campusqa HTTP API.
package campusqa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client calls the campusqa API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Ask sends a question and returns the answer.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	return c.AskAs(ctx, question, "", "")
}

// AskAs sends a question on behalf of a signed-in user so the exchange
// lands in their chat history. userID and chatID may be empty.
func (c *Client) AskAs(ctx context.Context, question, userID, chatID string) (string, error) {
	var resp askResponse
	err := c.post(ctx, "/ask", askRequest{Question: question, UserID: userID, ChatID: chatID}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Login authenticates an email/password pair.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var resp loginResponse
	err := c.post(ctx, "/api/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{UserID: resp.UserID, Name: resp.User.Name, Message: resp.Message}, nil
}

// SendOTP requests a one-time code. otpType is "register" or "forgot".
func (c *Client) SendOTP(ctx context.Context, email, otpType string) error {
	return c.post(ctx, "/api/send-otp", sendOTPRequest{Email: email, Type: otpType}, nil)
}

// Register finishes registration with the code received by email.
func (c *Client) Register(ctx context.Context, email, password, otp string) error {
	return c.post(ctx, "/api/register", registerRequest{Email: email, Password: password, OTP: otp}, nil)
}

// ResetPassword replaces a forgotten password with the code received by email.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return c.post(ctx, "/api/reset-password",
		resetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword}, nil)
}

// Chats lists a user's conversations, most recent first.
func (c *Client) Chats(ctx context.Context, userID string) ([]Chat, error) {
	var chats []Chat
	if err := c.get(ctx, "/api/chats?userId="+url.QueryEscape(userID), &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Messages lists a conversation's messages in chronological order.
func (c *Client) Messages(ctx context.Context, chatID string) ([]Message, error) {
	var msgs []Message
	if err := c.get(ctx, "/api/messages?chatId="+url.QueryEscape(chatID), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Health reports the server's component health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.get(ctx, "/health", &h); err != nil {
		return Health{}, err
	}
	return h, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("campusqa: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("campusqa: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("campusqa: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("campusqa: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("campusqa: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiErrorFrom(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("campusqa: decode response: %w", err)
	}
	return nil
}
