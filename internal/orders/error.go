package orders

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RequestError is a normalized backend rejection: an HTTP status plus the
// human-readable messages to display. The backend's message field may be a
// single string or a list; it always surfaces here as a list.
type RequestError struct {
	StatusCode int
	Messages   []string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s",
		e.StatusCode, strings.Join(e.Messages, "; "))
}

// MessageList accepts both wire forms of the error message field.
type MessageList []string

func (m *MessageList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = MessageList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("message is neither string nor list: %w", err)
	}
	*m = MessageList(many)
	return nil
}
