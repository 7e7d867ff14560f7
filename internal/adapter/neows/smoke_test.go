//go:build neows

package neows

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real NeoWs API. NEOWS_API_KEY falls back to DEMO_KEY,
// which is heavily rate limited.
// Run with: go test -tags=neows ./internal/adapter/neows/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("NEOWS_API_KEY")
	if key == "" {
		key = "DEMO_KEY"
	}
	return &Client{
		apiKey:     key,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_Browse(t *testing.T) {
	c := smokeClient(t)

	objects, err := c.Browse(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, objects)

	for _, o := range objects {
		assert.NotEmpty(t, o.ID)
		assert.NotEmpty(t, o.Name)
		assert.Greater(t, o.EstimatedDiameterMaxMeters, o.EstimatedDiameterMinMeters)
	}
}

func TestSmoke_LookupEros(t *testing.T) {
	c := smokeClient(t)

	obj, err := c.Lookup(context.Background(), "2000433")
	require.NoError(t, err)
	assert.Contains(t, obj.Name, "Eros")
	assert.Greater(t, obj.EstimatedDiameterMaxMeters, 10000.0)
}
