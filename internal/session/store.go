// Package session owns the conversation: the append-only message log, the
// transient flags the UI renders, and the controller that orchestrates the
// assistant and speech collaborators around them.
package session

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/wanderly/travelchat/internal/domain"
)

// Store is the single source of truth for one conversation session. All
// operations are synchronous and total; mutation happens only through the
// controller.
type Store struct {
	mu        sync.Mutex
	id        string
	nextID    int64
	messages  []domain.Message
	turns     []domain.HistoryTurn // wire projection, kept in lockstep with messages
	typing    bool
	recording bool
	connected bool
}

// Snapshot is the rendering-ready view of a session.
type Snapshot struct {
	SessionID string
	Messages  []domain.Message
	Typing    bool
	Recording bool
	Connected bool
}

// New creates a session store seeded with the assistant greeting.
// Connectivity starts optimistic until the first probe reports.
func New() *Store {
	s := &Store{
		id:        uuid.New().String(),
		nextID:    1,
		connected: true,
	}
	s.append(domain.RoleAssistant, domain.Greeting, nil)
	return s
}

// ID returns the session identifier.
func (s *Store) ID() string { return s.id }

// Append adds a message to the end of the log and returns it with its
// assigned ID. Prior messages never move.
func (s *Store) Append(role domain.Role, text string, results json.RawMessage) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.append(role, text, results)
}

func (s *Store) append(role domain.Role, text string, results json.RawMessage) domain.Message {
	msg := domain.Message{
		ID:            s.nextID,
		Role:          role,
		Text:          text,
		SearchResults: results,
	}
	s.nextID++
	s.messages = append(s.messages, msg)
	s.turns = append(s.turns, domain.HistoryTurn{Role: string(role), Content: text})
	return msg
}

// SetTyping marks whether an assistant call is in flight.
func (s *Store) SetTyping(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.typing = v
}

// SetRecording marks whether a speech capture is active.
func (s *Store) SetRecording(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = v
}

// SetConnected records the last-known connectivity state.
func (s *Store) SetConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = v
}

// Connected returns the last-known connectivity state.
func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Len returns the number of messages in the log.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// History returns the wire projection of every message so far, greeting
// included. The projection is maintained incrementally on append; the
// returned slice is a copy, so callers cannot alias the cache.
func (s *Store) History() []domain.HistoryTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.HistoryTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Snapshot returns a copy of the full session state for rendering.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]domain.Message, len(s.messages))
	copy(msgs, s.messages)
	return Snapshot{
		SessionID: s.id,
		Messages:  msgs,
		Typing:    s.typing,
		Recording: s.recording,
		Connected: s.connected,
	}
}
