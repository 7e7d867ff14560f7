package neows

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
)

// DefaultBaseURL is the public NASA NeoWs endpoint.
const DefaultBaseURL = "https://api.nasa.gov/neo/rest/v1"

// Client implements domain.Catalog using the NASA NeoWs API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NeoWs catalog client.
func NewClient(baseURL, apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Browse returns one page of the near-earth-object catalog.
func (c *Client) Browse(ctx context.Context, page int) ([]domain.NearEarthObject, error) {
	params := url.Values{
		"api_key": {c.apiKey},
		"page":    {strconv.Itoa(page)},
	}

	var resp browseResponse
	found, err := c.doRequest(ctx, c.baseURL+"/neo/browse?"+params.Encode(), "browse", &resp)
	if err != nil || !found {
		return nil, err
	}

	objects := make([]domain.NearEarthObject, 0, len(resp.NearEarthObjects))
	for _, o := range resp.NearEarthObjects {
		objects = append(objects, o.toDomain())
	}
	if len(objects) == 0 {
		c.metrics.CatalogRequests.WithLabelValues("browse", "empty").Inc()
	}
	return objects, nil
}

// Lookup returns a single object by its NeoWs ID. Unknown IDs yield a zero
// value and no error.
func (c *Client) Lookup(ctx context.Context, id string) (domain.NearEarthObject, error) {
	params := url.Values{"api_key": {c.apiKey}}
	u := fmt.Sprintf("%s/neo/%s?%s", c.baseURL, url.PathEscape(id), params.Encode())

	var obj neo
	found, err := c.doRequest(ctx, u, "lookup", &obj)
	if err != nil || !found {
		return domain.NearEarthObject{}, err
	}
	return obj.toDomain(), nil
}

// doRequest performs a GET and decodes the JSON body into out. It reports
// found=false for 404 responses.
func (c *Client) doRequest(ctx context.Context, fullURL, method string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.CatalogAPIDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues(method, "error").Inc()
		return false, fmt.Errorf("neows %s request: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.CatalogRequests.WithLabelValues(method, "empty").Inc()
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.CatalogRequests.WithLabelValues(method, "error").Inc()
		c.logger.Warn("neows API error", "method", method, "status", resp.StatusCode)
		return false, fmt.Errorf("neows API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.CatalogRequests.WithLabelValues(method, "error").Inc()
		return false, fmt.Errorf("decode response: %w", err)
	}

	c.metrics.CatalogRequests.WithLabelValues(method, "success").Inc()
	return true, nil
}

// NeoWs API response types.

type browseResponse struct {
	NearEarthObjects []neo `json:"near_earth_objects"`
}

type neo struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	EstimatedDiameter struct {
		Meters struct {
			Min float64 `json:"estimated_diameter_min"`
			Max float64 `json:"estimated_diameter_max"`
		} `json:"meters"`
	} `json:"estimated_diameter"`
	Hazardous bool `json:"is_potentially_hazardous_asteroid"`
}

func (n neo) toDomain() domain.NearEarthObject {
	return domain.NearEarthObject{
		ID:                         n.ID,
		Name:                       n.Name,
		EstimatedDiameterMinMeters: n.EstimatedDiameter.Meters.Min,
		EstimatedDiameterMaxMeters: n.EstimatedDiameter.Meters.Max,
		PotentiallyHazardous:       n.Hazardous,
	}
}
