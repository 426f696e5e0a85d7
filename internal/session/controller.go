package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wanderly/travelchat/internal/assistant"
	"github.com/wanderly/travelchat/internal/domain"
	"github.com/wanderly/travelchat/internal/logging"
	"github.com/wanderly/travelchat/internal/speech"
)

// User-visible notices. Every rejected or failed action surfaces one of
// these; there are no silent rejections and no modal variants.
const (
	NoticeEmpty        = "Type a message first."
	NoticeDisconnected = "Backend is not connected. Please start the backend server first."
	NoticeBusy         = "Still waiting for the previous reply."
	NoticeUnsupported  = "Speech recognition is not available on this system."
	NoticeMicError     = "Cannot use microphone. Please check microphone permissions."
)

// errorHint is the fixed remediation appended to failure diagnostics in the
// thread.
const errorHint = "Please check:\n1. Backend is running\n2. API Keys are correct"

// Rejection classifies why a submit never reached the assistant.
type Rejection int

const (
	RejectNone Rejection = iota
	RejectEmpty
	RejectDisconnected
	RejectBusy
)

// SubmitResult reports how a submit settled.
type SubmitResult struct {
	Rejection Rejection
	Notice    string          // user-visible notice for rejections
	Reply     *domain.Message // settled assistant message (reply or diagnostic)
	Failed    bool            // Reply is a failure diagnostic
}

// VoiceResult reports how a voice toggle settled.
type VoiceResult struct {
	Outcome speech.Outcome
	Notice  string // user-visible notice for unsupported/error outcomes
}

// Prober is the liveness check collaborator.
type Prober interface {
	Check(ctx context.Context) bool
}

// Controller orchestrates one conversation session. It is the only writer to
// the store; collaborators never mutate state themselves.
type Controller struct {
	store  *Store
	client assistant.Client
	probe  Prober
	voice  *speech.Adapter
	log    *logging.Logger

	mu       sync.Mutex
	inFlight bool
}

// NewController wires the session collaborators together.
func NewController(store *Store, client assistant.Client, probe Prober, voice *speech.Adapter, log *logging.Logger) *Controller {
	return &Controller{
		store:  store,
		client: client,
		probe:  probe,
		voice:  voice,
		log:    log.Sub("session"),
	}
}

// Store exposes the view-model source for the presentation layer.
func (c *Controller) Store() *Store { return c.store }

// Start runs the one-time connectivity probe and records the result.
// Disconnection afterwards is detected reactively via failed chat calls.
func (c *Controller) Start(ctx context.Context) bool {
	ok := c.probe.Check(ctx)
	c.store.SetConnected(ok)
	c.log.Info().Str("sessionId", c.store.ID()).Bool("connected", ok).Msg("session started")
	return ok
}

// Submit runs the full submit flow: validate, optimistic user append, call
// the assistant with the pre-call history, settle the reply or a diagnostic.
// At most one submit is in flight at a time; overlapping submits are
// rejected so the log order is preserved.
func (c *Controller) Submit(ctx context.Context, text string) SubmitResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return SubmitResult{Rejection: RejectEmpty, Notice: NoticeEmpty}
	}
	if !c.store.Connected() {
		return SubmitResult{Rejection: RejectDisconnected, Notice: NoticeDisconnected}
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return SubmitResult{Rejection: RejectBusy, Notice: NoticeBusy}
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// The turn being sent travels in the message field; history carries
	// everything before it, greeting included.
	history := c.store.History()
	userMsg := c.store.Append(domain.RoleUser, text, nil)

	c.store.SetTyping(true)
	defer c.store.SetTyping(false)

	c.log.Info().
		Str("sessionId", c.store.ID()).
		Int64("messageId", userMsg.ID).
		Int("historyLen", len(history)).
		Msg("submitting message")

	reply, err := c.client.Send(ctx, text, history)
	if err != nil {
		c.log.Warn().Err(err).Msg("assistant call failed")
		c.store.SetConnected(false)
		diag := c.store.Append(domain.RoleAssistant,
			fmt.Sprintf("❌ Error: %s\n\n%s", err, errorHint), nil)
		return SubmitResult{Reply: &diag, Failed: true}
	}

	msg := c.store.Append(domain.RoleAssistant, reply.Text, reply.SearchResults)
	return SubmitResult{Reply: &msg}
}

// ToggleVoice starts a speech capture, or stops the active one. A transcript
// is returned for the caller's input buffer and is never auto-submitted.
func (c *Controller) ToggleVoice(ctx context.Context) VoiceResult {
	if !c.voice.Supported() {
		return VoiceResult{Outcome: speech.Outcome{Kind: speech.Unsupported}, Notice: NoticeUnsupported}
	}

	if c.voice.Capturing() {
		// Manual stop; the blocked activation resolves as cancelled.
		c.voice.Stop()
		return VoiceResult{Outcome: speech.Outcome{Kind: speech.Cancelled}}
	}

	c.store.SetRecording(true)
	defer c.store.SetRecording(false)

	out := c.voice.Start(ctx)
	switch out.Kind {
	case speech.CaptureError:
		return VoiceResult{Outcome: out, Notice: NoticeMicError}
	case speech.Transcript:
		c.log.Debug().Int("chars", len(out.Transcript)).Msg("voice transcript captured")
	}
	return VoiceResult{Outcome: out}
}
