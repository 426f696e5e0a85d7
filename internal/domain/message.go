package domain

import "encoding/json"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting is the synthetic assistant message every session opens with.
const Greeting = "Hi I'm your AI travel assistance. How can I help you with your travel plans today? I can help you find flights, search for hotels, or provide destination information!"

// Message is a single turn in the conversation log. The log is append-only:
// messages are never reordered or mutated after creation.
type Message struct {
	ID            int64           `json:"id"`
	Role          Role            `json:"role"`
	Text          string          `json:"text"`
	SearchResults json.RawMessage `json:"searchResults,omitempty"`
}

// HasResults reports whether a structured search payload is attached.
// The payload itself is opaque and passed through unmodified.
func (m Message) HasResults() bool {
	return len(m.SearchResults) > 0 && string(m.SearchResults) != "null"
}

// HistoryTurn is the wire shape the assistant service expects for a prior
// turn in conversation_history.
type HistoryTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// User is the signed-in user handed down by the surrounding auth layer.
// It is rendered, never interpreted.
type User struct {
	Name string `json:"name"`
}
