package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/wanderly/travelchat/internal/logging"
)

// livenessMarker is the exact payload the service root returns when healthy.
const livenessMarker = "AI Travel Agent API is running"

// Probe performs a single liveness check against the assistant service.
// It runs once at session start; afterwards disconnection is detected
// reactively through failed chat calls, not by re-probing.
type Probe struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewProbe creates a probe for the service at baseURL.
func NewProbe(baseURL string, log *logging.Logger) *Probe {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &Probe{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
		log:     log.Sub("probe"),
	}
}

// Check reports whether the service is reachable and identifies itself.
// Every failure mode folds into false; nothing escapes the boolean.
func (p *Probe) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn().Err(err).Msg("liveness check failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.log.Warn().Int("status", resp.StatusCode).Msg("liveness check rejected")
		return false
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		p.log.Warn().Err(err).Msg("liveness payload unreadable")
		return false
	}

	return body.Message == livenessMarker
}
