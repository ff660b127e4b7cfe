// Package api is the typed HTTP client for the aml-monitoring service.
// It covers only the endpoints the console consumes: the cluster catalog,
// per-cluster subgraphs, and the health probe.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/debug"
	"github.com/arjunlaxman/AML-Transaction-Monitoring-System/pkg/model"

	json "github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout bounds any single request to the service.
const DefaultTimeout = 15 * time.Second

// DefaultCatalogLimit is the number of clusters requested when the caller
// does not specify one.
const DefaultCatalogLimit = 10

// ServiceError is a failed response from the service: an HTTP-style status
// plus the optional human-readable detail FastAPI puts in the body.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service returned %d", e.Status)
	}
	return fmt.Sprintf("service returned %d: %s", e.Status, e.Detail)
}

// NotFound reports whether the error names an unknown resource.
func (e *ServiceError) NotFound() bool { return e.Status == http.StatusNotFound }

// Client talks to one aml-monitoring service instance. Safe for concurrent
// use; concurrent fetches of the same subgraph are coalesced.
type Client struct {
	baseURL    string
	httpClient *http.Client
	group      singleflight.Group
}

// NewClient creates a client for the service at baseURL
// (e.g. "http://localhost:8000/api").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    trimTrailingSlash(baseURL),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithTimeout overrides the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ListTopClusters fetches the ranked catalog of suspicious clusters,
// highest suspicion score first.
func (c *Client) ListTopClusters(ctx context.Context, limit int) ([]model.ClusterSummary, error) {
	if limit <= 0 {
		limit = DefaultCatalogLimit
	}
	u := fmt.Sprintf("%s/clusters/top?limit=%s", c.baseURL, strconv.Itoa(limit))
	var clusters []model.ClusterSummary
	if err := c.getJSON(ctx, u, &clusters); err != nil {
		return nil, err
	}
	for _, cl := range clusters {
		if err := cl.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
	}
	return clusters, nil
}

// GetSubgraph fetches the transaction subgraph for one cluster. Concurrent
// calls for the same cluster id share a single request.
func (c *Client) GetSubgraph(ctx context.Context, clusterID string) (*model.Subgraph, error) {
	v, err, _ := c.group.Do(clusterID, func() (any, error) {
		u := fmt.Sprintf("%s/graph/cluster/%s", c.baseURL, url.PathEscape(clusterID))
		var sg model.Subgraph
		if err := c.getJSON(ctx, u, &sg); err != nil {
			return nil, err
		}
		return &sg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Subgraph), nil
}

// Health probes the service. A nil return means the service is reachable
// and reports itself healthy.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status      string `json:"status"`
		DBConnected bool   `json:"db_connected"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/health", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("service unhealthy: status %q", resp.Status)
	}
	return nil
}

// getJSON performs a GET and decodes the body into out. Non-2xx responses
// become *ServiceError with the FastAPI detail string when present.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	debug.Log("GET %s -> %d (%s)", rawURL, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Status: resp.StatusCode, Detail: decodeDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", rawURL, err)
	}
	return nil
}

// decodeDetail extracts {"detail": "..."} from an error body, tolerating
// non-JSON and structured detail payloads.
func decodeDetail(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(body) == 0 {
		return ""
	}
	var wrapper struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return ""
	}
	return wrapper.Detail
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
