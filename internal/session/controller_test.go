package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderly/travelchat/internal/assistant"
	"github.com/wanderly/travelchat/internal/domain"
	"github.com/wanderly/travelchat/internal/logging"
	"github.com/wanderly/travelchat/internal/speech"
)

func silentLog() *logging.Logger {
	return logging.New(nil, "silent", "")
}

type fakeProbe struct {
	result bool
	calls  int
}

func (p *fakeProbe) Check(ctx context.Context) bool {
	p.calls++
	return p.result
}

type fakeRecognizer struct {
	available  bool
	transcript string
	err        error
}

func (f *fakeRecognizer) Available() bool { return f.available }
func (f *fakeRecognizer) Capture(ctx context.Context) (string, error) {
	return f.transcript, f.err
}

func newTestController(client assistant.Client, probe Prober, rec speech.Recognizer) *Controller {
	if probe == nil {
		probe = &fakeProbe{result: true}
	}
	return NewController(New(), client, probe, speech.NewAdapter(rec, silentLog()), silentLog())
}

// --- Start / connectivity flow ---

func TestStartStoresProbeResult(t *testing.T) {
	probe := &fakeProbe{result: false}
	c := newTestController(&assistant.MockClient{}, probe, nil)

	assert.False(t, c.Start(context.Background()))
	assert.False(t, c.Store().Connected())
	assert.Equal(t, 1, probe.calls, "probe runs exactly once at session start")
}

// --- Submit flow ---

func TestSubmitSuccess(t *testing.T) {
	results := json.RawMessage(`[{"carrier":"NH","price":"812.40"}]`)
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			assert.Equal(t, "Find flights to Tokyo", text)
			// Pre-call history: greeting only, the submitted turn travels as text.
			require.Len(t, history, 1)
			assert.Equal(t, "assistant", history[0].Role)
			assert.Equal(t, domain.Greeting, history[0].Content)
			return &assistant.Reply{Text: "Here are some options", SearchResults: results}, nil
		},
	}
	c := newTestController(client, nil, nil)

	res := c.Submit(context.Background(), "Find flights to Tokyo")
	assert.Equal(t, RejectNone, res.Rejection)
	assert.False(t, res.Failed)
	require.NotNil(t, res.Reply)
	assert.Equal(t, "Here are some options", res.Reply.Text)
	assert.JSONEq(t, string(results), string(res.Reply.SearchResults))

	snap := c.Store().Snapshot()
	require.Len(t, snap.Messages, 3, "+2 per successful submit")
	assert.Equal(t, domain.RoleUser, snap.Messages[1].Role)
	assert.Equal(t, "Find flights to Tokyo", snap.Messages[1].Text)
	assert.Equal(t, domain.RoleAssistant, snap.Messages[2].Role)
	assert.False(t, snap.Typing, "typing cleared after settle")
	assert.True(t, snap.Connected)
}

func TestSubmitFailureAppendsDiagnostic(t *testing.T) {
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			return nil, &assistant.APIError{Status: 500, Message: "internal error"}
		},
	}
	c := newTestController(client, nil, nil)

	res := c.Submit(context.Background(), "hello")
	assert.Equal(t, RejectNone, res.Rejection)
	assert.True(t, res.Failed)

	snap := c.Store().Snapshot()
	require.Len(t, snap.Messages, 3, "user turn plus error-as-assistant")
	last := snap.Messages[2]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Contains(t, last.Text, "❌ Error:")
	assert.Contains(t, last.Text, "500")
	assert.Contains(t, last.Text, "Backend is running", "remediation hint attached")
	assert.False(t, snap.Connected, "failure downgrades connectivity")
	assert.False(t, snap.Typing)
}

func TestSubmitEmptyIsRejected(t *testing.T) {
	called := false
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			called = true
			return &assistant.Reply{}, nil
		},
	}
	c := newTestController(client, nil, nil)

	for _, input := range []string{"", "   ", "\n\t "} {
		res := c.Submit(context.Background(), input)
		assert.Equal(t, RejectEmpty, res.Rejection)
		assert.Equal(t, NoticeEmpty, res.Notice)
	}
	assert.False(t, called, "client never called")
	assert.Equal(t, 1, c.Store().Len(), "log untouched")
}

func TestSubmitDisconnectedIsRejected(t *testing.T) {
	called := false
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			called = true
			return &assistant.Reply{}, nil
		},
	}
	c := newTestController(client, &fakeProbe{result: false}, nil)
	c.Start(context.Background())

	res := c.Submit(context.Background(), "hello")
	assert.Equal(t, RejectDisconnected, res.Rejection)
	assert.Equal(t, NoticeDisconnected, res.Notice)
	assert.False(t, called)
	assert.Equal(t, 1, c.Store().Len())
}

func TestSubmitTypingWindow(t *testing.T) {
	c := newTestController(nil, nil, nil)
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			assert.True(t, c.Store().Snapshot().Typing, "typing true during the call window")
			return &assistant.Reply{Text: "ok"}, nil
		},
	}
	c.client = client

	assert.False(t, c.Store().Snapshot().Typing)
	res := c.Submit(context.Background(), "hi")
	assert.Equal(t, RejectNone, res.Rejection)
	assert.False(t, c.Store().Snapshot().Typing, "typing false after settle")
}

func TestSubmitTypingClearedOnFailure(t *testing.T) {
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			return nil, fmt.Errorf("request failed: connection refused")
		},
	}
	c := newTestController(client, nil, nil)

	c.Submit(context.Background(), "hi")
	assert.False(t, c.Store().Snapshot().Typing)
}

func TestSubmitOverlapIsRejected(t *testing.T) {
	release := make(chan struct{})
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			<-release
			return &assistant.Reply{Text: "slow reply"}, nil
		},
	}
	c := newTestController(client, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res := c.Submit(context.Background(), "first")
		assert.Equal(t, RejectNone, res.Rejection)
	}()

	require.Eventually(t, func() bool {
		return c.Store().Snapshot().Typing
	}, time.Second, 5*time.Millisecond)

	res := c.Submit(context.Background(), "second")
	assert.Equal(t, RejectBusy, res.Rejection)
	assert.Equal(t, NoticeBusy, res.Notice)

	close(release)
	wg.Wait()

	// Only the first submit landed: greeting + user + assistant.
	snap := c.Store().Snapshot()
	assert.Equal(t, 3, len(snap.Messages))
	assert.Equal(t, "first", snap.Messages[1].Text)
}

func TestSubmitSequenceGrowsLogMonotonically(t *testing.T) {
	fail := false
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			if fail {
				return nil, fmt.Errorf("boom")
			}
			return &assistant.Reply{Text: "ok"}, nil
		},
	}
	c := newTestController(client, nil, nil)

	c.Submit(context.Background(), "one")
	assert.Equal(t, 3, c.Store().Len())

	fail = true
	c.Submit(context.Background(), "two")
	assert.Equal(t, 5, c.Store().Len(), "+2 even on failure: user turn plus diagnostic")

	// Disconnected now; rejected submits never mutate the log.
	c.Submit(context.Background(), "three")
	assert.Equal(t, 5, c.Store().Len())
}

func TestSubmitHistoryIncludesPriorExchanges(t *testing.T) {
	var lastHistory []domain.HistoryTurn
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			lastHistory = history
			return &assistant.Reply{Text: "reply to " + text}, nil
		},
	}
	c := newTestController(client, nil, nil)

	c.Submit(context.Background(), "Tokyo?")
	c.Submit(context.Background(), "And hotels?")

	require.Len(t, lastHistory, 3)
	assert.Equal(t, domain.Greeting, lastHistory[0].Content)
	assert.Equal(t, "Tokyo?", lastHistory[1].Content)
	assert.Equal(t, "user", lastHistory[1].Role)
	assert.Equal(t, "reply to Tokyo?", lastHistory[2].Content)
	assert.Equal(t, "assistant", lastHistory[2].Role)
}

// --- Voice flow ---

func TestToggleVoiceUnsupported(t *testing.T) {
	c := newTestController(&assistant.MockClient{}, nil, &fakeRecognizer{available: false})

	res := c.ToggleVoice(context.Background())
	assert.Equal(t, speech.Unsupported, res.Outcome.Kind)
	assert.Equal(t, NoticeUnsupported, res.Notice)
	assert.False(t, c.Store().Snapshot().Recording)
}

func TestToggleVoiceTranscript(t *testing.T) {
	c := newTestController(&assistant.MockClient{}, nil,
		&fakeRecognizer{available: true, transcript: "find hotels in Kyoto"})

	res := c.ToggleVoice(context.Background())
	assert.Equal(t, speech.Transcript, res.Outcome.Kind)
	assert.Equal(t, "find hotels in Kyoto", res.Outcome.Transcript)
	assert.Empty(t, res.Notice)
	assert.False(t, c.Store().Snapshot().Recording, "recording cleared after capture")
	assert.Equal(t, 1, c.Store().Len(), "transcript never auto-submits")
}

func TestToggleVoiceError(t *testing.T) {
	c := newTestController(&assistant.MockClient{}, nil,
		&fakeRecognizer{available: true, err: fmt.Errorf("permission denied")})

	res := c.ToggleVoice(context.Background())
	assert.Equal(t, speech.CaptureError, res.Outcome.Kind)
	assert.Equal(t, NoticeMicError, res.Notice)
	assert.False(t, c.Store().Snapshot().Recording)
}

// --- End-to-end properties ---

func TestEndToEndSuccessPath(t *testing.T) {
	results := json.RawMessage(`[{"id":"f1"},{"id":"f2"}]`)
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			return &assistant.Reply{Text: "Here are some options", SearchResults: results}, nil
		},
	}
	probe := &fakeProbe{result: true}
	c := newTestController(client, probe, nil)

	require.True(t, c.Start(context.Background()))
	res := c.Submit(context.Background(), "Find flights to Tokyo")

	snap := c.Store().Snapshot()
	last := snap.Messages[len(snap.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Equal(t, "Here are some options", last.Text)
	assert.JSONEq(t, string(results), string(last.SearchResults))
	assert.False(t, snap.Typing)
	assert.Equal(t, RejectNone, res.Rejection)
}

func TestEndToEndFailurePath(t *testing.T) {
	client := &assistant.MockClient{
		SendFunc: func(ctx context.Context, text string, history []domain.HistoryTurn) (*assistant.Reply, error) {
			return nil, &assistant.APIError{Status: 500, Message: "internal server error"}
		},
	}
	c := newTestController(client, &fakeProbe{result: true}, nil)
	c.Start(context.Background())

	c.Submit(context.Background(), "Find flights to Tokyo")

	snap := c.Store().Snapshot()
	last := snap.Messages[len(snap.Messages)-1]
	assert.Equal(t, domain.RoleAssistant, last.Role)
	assert.Contains(t, last.Text, "API error (500)")
	assert.False(t, snap.Connected)
}
