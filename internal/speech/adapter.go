package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/wanderly/travelchat/internal/logging"
)

// OutcomeKind classifies how a capture activation ended.
type OutcomeKind int

const (
	// Unsupported means no recognizer capability exists on this system.
	Unsupported OutcomeKind = iota
	// Transcript carries the recognized text.
	Transcript
	// CaptureError means the recognizer failed (permissions, device).
	CaptureError
	// Cancelled means the capture ended without a result, either by a
	// manual stop or an empty utterance.
	Cancelled
)

// Outcome is the single terminal event of one capture activation.
type Outcome struct {
	Kind       OutcomeKind
	Transcript string
	Err        error
}

// Adapter drives a Recognizer through the Idle -> Capturing -> Idle state
// machine with toggle semantics: starting while capturing stops instead.
// Recording is a manual on/off switch, not push-to-talk.
type Adapter struct {
	rec Recognizer
	log *logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc // non-nil exactly while capturing
}

// NewAdapter wraps the given recognizer.
func NewAdapter(rec Recognizer, log *logging.Logger) *Adapter {
	return &Adapter{rec: rec, log: log.Sub("speech")}
}

// Supported reports whether a recognizer capability is present.
func (a *Adapter) Supported() bool {
	return a.rec != nil && a.rec.Available()
}

// Capturing reports whether a capture session is active.
func (a *Adapter) Capturing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// Start begins a capture and blocks until it resolves, producing exactly one
// Outcome per activation. Calling Start while already capturing performs a
// stop instead and reports Cancelled; the blocked activation resolves as
// Cancelled too.
func (a *Adapter) Start(ctx context.Context) Outcome {
	if !a.Supported() {
		return Outcome{Kind: Unsupported}
	}

	a.mu.Lock()
	if a.cancel != nil {
		cancel := a.cancel
		a.mu.Unlock()
		cancel()
		return Outcome{Kind: Cancelled}
	}
	cctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.cancel = nil
		a.mu.Unlock()
		cancel()
	}()

	a.log.Debug().Msg("capture started")
	text, err := a.rec.Capture(cctx)

	switch {
	case cctx.Err() != nil:
		a.log.Debug().Msg("capture stopped")
		return Outcome{Kind: Cancelled}
	case err != nil:
		a.log.Warn().Err(err).Msg("capture failed")
		return Outcome{Kind: CaptureError, Err: err}
	case strings.TrimSpace(text) == "":
		// Capture ended with nothing recognized.
		return Outcome{Kind: Cancelled}
	}
	return Outcome{Kind: Transcript, Transcript: strings.TrimSpace(text)}
}

// Stop cancels an active capture. It reports whether one was active.
func (a *Adapter) Stop() bool {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}
