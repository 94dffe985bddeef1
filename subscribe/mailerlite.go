package subscribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sebmonty/bento/metrics"
)

const (
	// DefaultEndpoint is the MailerLite subscriber upsert endpoint.
	DefaultEndpoint = "https://connect.mailerlite.com/api/subscribers"
	defaultTimeout  = 10 * time.Second
)

// Subscriber is the payload sent to the provider.
type Subscriber struct {
	Email  string   `json:"email"`
	Groups []string `json:"groups"`
}

// Provider adds a subscriber to a mailing list.
type Provider interface {
	Subscribe(ctx context.Context, s Subscriber) error
}

// ProviderError is a non-2xx reply from the provider.
type ProviderError struct {
	Status  int
	Message string // provider-supplied message, may be empty
	Body    string // raw response body, for server-side logs only
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error %d", e.Status)
	}
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}

type mailerLiteError struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// MailerLite talks to the MailerLite Connect API.
type MailerLite struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewMailerLite creates a MailerLite provider from cfg.
func NewMailerLite(cfg Config) *MailerLite {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &MailerLite{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			// Redirects surface as errors; a re-POST would carry the API key.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Subscribe upserts s into the configured groups. It makes exactly one request.
func (m *MailerLite) Subscribe(ctx context.Context, s Subscriber) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal subscriber: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	start := time.Now()
	resp, err := m.httpClient.Do(req)
	if err != nil {
		metrics.ProviderRequestDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.ProviderRequestDuration.WithLabelValues(strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	pe := &ProviderError{Status: resp.StatusCode, Body: string(body)}
	var me mailerLiteError
	if json.Unmarshal(body, &me) == nil {
		pe.Message = me.Message
	}
	return pe
}
