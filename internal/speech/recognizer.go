// Package speech wraps an external speech-to-text capability behind a
// start/stop contract. The capability is injected and its availability is
// decided once at startup, so the rest of the app never feature-detects.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Recognizer is the injected speech capability. Capture blocks for a single
// utterance and returns its final transcript; interim results are never
// reported.
type Recognizer interface {
	// Available reports whether the capability exists on this system.
	Available() bool

	// Capture records one utterance and returns the final transcript.
	// Cancelling ctx stops the capture.
	Capture(ctx context.Context) (string, error)
}

// CommandRecognizer captures speech by running an external transcriber
// command that prints the final transcript to stdout. The command is
// resolved on PATH once, at construction.
type CommandRecognizer struct {
	locale string
	path   string // empty when the command is not installed
}

// NewCommandRecognizer resolves command on PATH and returns a recognizer
// bound to the given locale. An empty or missing command yields an
// unavailable recognizer rather than an error.
func NewCommandRecognizer(command, locale string) *CommandRecognizer {
	r := &CommandRecognizer{locale: locale}
	if command == "" {
		return r
	}
	if path, err := exec.LookPath(command); err == nil {
		r.path = path
	}
	return r
}

func (r *CommandRecognizer) Available() bool { return r.path != "" }

func (r *CommandRecognizer) Capture(ctx context.Context) (string, error) {
	if r.path == "" {
		return "", fmt.Errorf("speech command not installed")
	}

	cmd := exec.CommandContext(ctx, r.path, "--lang", r.locale)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("recognizer failed: %w", err)
	}
	return strings.TrimSpace(out.String()), nil
}
