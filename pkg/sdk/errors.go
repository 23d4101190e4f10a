package campusqa

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-2xx response from the server. Message carries the
// user-facing text the API returned, in either of its two body shapes.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("campusqa: api error %d: %s", e.Status, e.Message)
}

func apiErrorFrom(status int, raw []byte) *APIError {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)

	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = string(raw)
	}
	return &APIError{Status: status, Message: msg}
}
