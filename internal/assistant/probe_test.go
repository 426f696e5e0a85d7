package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func probeServer(t *testing.T, handler http.HandlerFunc) *Probe {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProbe(srv.URL, silentLog())
}

func TestProbeHealthy(t *testing.T) {
	p := probeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"message":"AI Travel Agent API is running"}`))
	})
	assert.True(t, p.Check(context.Background()))
}

func TestProbeWrongMarker(t *testing.T) {
	p := probeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Some Other API is running"}`))
	})
	assert.False(t, p.Check(context.Background()))
}

func TestProbeNonSuccessStatus(t *testing.T) {
	p := probeServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	})
	assert.False(t, p.Check(context.Background()))
}

func TestProbeMalformedPayload(t *testing.T) {
	p := probeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})
	assert.False(t, p.Check(context.Background()))
}

func TestProbeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewProbe(srv.URL, silentLog())
	assert.False(t, p.Check(context.Background()), "network failure folds to false")
}

func TestProbeCancelledContext(t *testing.T) {
	p := probeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"AI Travel Agent API is running"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, p.Check(ctx))
}
