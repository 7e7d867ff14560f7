package neows

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey        = "test-key"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"

	browseBody = `{
  "page": {"size": 2, "total_elements": 2, "total_pages": 1, "number": 0},
  "near_earth_objects": [
    {
      "id": "2000433",
      "name": "433 Eros (A898 PA)",
      "estimated_diameter": {"meters": {"estimated_diameter_min": 22006.703, "estimated_diameter_max": 49208.047}},
      "is_potentially_hazardous_asteroid": false
    },
    {
      "id": "2001036",
      "name": "1036 Ganymed (A924 UB)",
      "estimated_diameter": {"meters": {"estimated_diameter_min": 37545.6, "estimated_diameter_max": 83954.3}},
      "is_potentially_hazardous_asteroid": true
    }
  ]
}`

	lookupBody = `{
  "id": "3542519",
  "name": "(2010 PK9)",
  "estimated_diameter": {"meters": {"estimated_diameter_min": 118.24, "estimated_diameter_max": 264.39}},
  "is_potentially_hazardous_asteroid": true
}`
)

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     testAPIKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClient_Browse_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/browse", r.URL.Path)
		assert.Equal(t, testAPIKey, r.URL.Query().Get("api_key"))
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(browseBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	objects, err := c.Browse(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	assert.Equal(t, "2000433", objects[0].ID)
	assert.Equal(t, "433 Eros (A898 PA)", objects[0].Name)
	assert.Equal(t, 22006.703, objects[0].EstimatedDiameterMinMeters)
	assert.Equal(t, 49208.047, objects[0].EstimatedDiameterMaxMeters)
	assert.False(t, objects[0].PotentiallyHazardous)
	assert.True(t, objects[1].PotentiallyHazardous)

	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.CatalogRequests.WithLabelValues("browse", "success")), 0)
}

func TestClient_Lookup_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/3542519", r.URL.Path)
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(lookupBody))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	obj, err := c.Lookup(context.Background(), "3542519")
	require.NoError(t, err)

	assert.Equal(t, "3542519", obj.ID)
	assert.Equal(t, "(2010 PK9)", obj.Name)
	assert.Equal(t, 264.39, obj.EstimatedDiameterMaxMeters)
}

func TestClient_Lookup_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	obj, err := c.Lookup(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, obj.ID)
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.CatalogRequests.WithLabelValues("lookup", "empty")), 0)
}

func TestClient_Browse_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"API_KEY_INVALID"}}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Browse(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.InDelta(t, 1, testutil.ToFloat64(c.metrics.CatalogRequests.WithLabelValues("browse", "error")), 0)
}

func TestClient_Browse_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Browse(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_Browse_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.Browse(context.Background(), 0)
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", testAPIKey, time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, DefaultBaseURL, c.baseURL)

	c = NewClient("http://example.test/v1/", testAPIKey, time.Second, observability.NewMetricsForTesting(), slog.Default())
	assert.Equal(t, "http://example.test/v1", c.baseURL)
}
