// Package assistant is the request/response boundary to the remote travel
// assistant service. It never touches conversation state: callers decide how
// replies and failures land in the session.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wanderly/travelchat/internal/domain"
	"github.com/wanderly/travelchat/internal/logging"
)

// Reply is a successful assistant response.
type Reply struct {
	Text          string
	SearchResults json.RawMessage
}

// Client sends one message plus prior history and returns the parsed reply.
// Exactly one attempt per call; no retry.
type Client interface {
	Send(ctx context.Context, text string, history []domain.HistoryTurn) (*Reply, error)
}

// APIError is a non-2xx response from the assistant service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Status, e.Message)
}

// HTTPClient talks to the assistant service over plain HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewHTTPClient creates a client for the service at baseURL.
// An empty baseURL falls back to the local development default.
func NewHTTPClient(baseURL string, log *logging.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// No client-side timeout: in-flight calls resolve or fail as a
		// unit on the transport's terms.
		client: &http.Client{},
		log:    log.Sub("assistant"),
	}
}

type chatRequest struct {
	Message             string               `json:"message"`
	ConversationHistory []domain.HistoryTurn `json:"conversation_history"`
}

type chatResponse struct {
	Response      string          `json:"response"`
	SearchResults json.RawMessage `json:"search_results,omitempty"`
}

// Send posts the message and conversation history to the chat endpoint.
func (c *HTTPClient) Send(ctx context.Context, text string, history []domain.HistoryTurn) (*Reply, error) {
	if history == nil {
		history = []domain.HistoryTurn{}
	}

	payload, err := json.Marshal(chatRequest{Message: text, ConversationHistory: history})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug().Int("historyLen", len(history)).Msg("sending chat request")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &Reply{Text: result.Response, SearchResults: result.SearchResults}, nil
}
