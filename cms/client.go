package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sebmonty/bento/metrics"
)

const (
	defaultDataset    = "production"
	defaultAPIVersion = "2024-01-01"
	defaultTimeout    = 10 * time.Second
)

// Config holds content store connection settings. An empty ProjectID leaves
// the client unconfigured.
type Config struct {
	ProjectID  string
	Dataset    string        // default "production"
	APIVersion string        // default "2024-01-01"
	UseCDN     bool          // read from the edge cache host
	Token      string        // optional read token for private datasets
	Timeout    time.Duration // per-request timeout, default 10s

	// Transport overrides the HTTP transport, e.g. with a tracing wrapper.
	Transport http.RoundTripper
	// BaseURL overrides the query host. Used by tests.
	BaseURL string
}

// Client reads posts from the content store. It is safe for concurrent use
// and keeps no state between calls.
type Client struct {
	cfg        Config
	configured bool
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. Whether the client is configured is decided here,
// once, from cfg.ProjectID.
func New(cfg Config) *Client {
	if cfg.Dataset == "" {
		cfg.Dataset = defaultDataset
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = defaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	base := cfg.BaseURL
	if base == "" && cfg.ProjectID != "" {
		host := "api"
		if cfg.UseCDN && cfg.Token == "" {
			host = "apicdn"
		}
		base = fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host)
	}

	return &Client{
		cfg:        cfg,
		configured: cfg.ProjectID != "",
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Configured reports whether the client has a project to talk to.
func (c *Client) Configured() bool {
	return c.configured
}

// QueryError is a non-2xx reply from the query endpoint.
type QueryError struct {
	Status      int
	Description string
}

func (e *QueryError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("cms: query failed with status %d", e.Status)
	}
	return fmt.Sprintf("cms: query failed with status %d: %s", e.Status, e.Description)
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
	Message string `json:"message"`
}

// fetch runs query and decodes its result into out. It is the only place that
// talks to the store; when the client is unconfigured it returns without
// touching out, so callers observe an empty result.
func (c *Client) fetch(ctx context.Context, name, query string, params map[string]string, out any) (err error) {
	if !c.configured {
		return nil
	}

	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.RecordCMSQuery(name, outcome, time.Since(start))
	}()

	q := url.Values{}
	q.Set("query", query)
	for k, v := range params {
		enc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("cms: encode param %s: %w", k, err)
		}
		q.Set("$"+k, string(enc))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s",
		c.baseURL, c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("cms: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cms: %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cms: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		qe := &QueryError{Status: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(body, &er) == nil {
			qe.Description = er.Error.Description
			if qe.Description == "" {
				qe.Description = er.Message
			}
		}
		return qe
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return fmt.Errorf("cms: decode response: %w", err)
	}
	if len(qr.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(qr.Result, out); err != nil {
		return fmt.Errorf("cms: decode %s result: %w", name, err)
	}
	return nil
}
