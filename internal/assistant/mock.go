package assistant

import (
	"context"

	"github.com/wanderly/travelchat/internal/domain"
)

// MockClient is a test double for Client.
type MockClient struct {
	SendFunc func(ctx context.Context, text string, history []domain.HistoryTurn) (*Reply, error)
}

func (m *MockClient) Send(ctx context.Context, text string, history []domain.HistoryTurn) (*Reply, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, text, history)
	}
	return &Reply{Text: "mock reply"}, nil
}
