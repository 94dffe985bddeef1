// Package subscribe accepts newsletter signups and forwards them to the
// mailing-list provider. Nothing is stored locally and failed attempts are
// never retried.
package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sebmonty/bento/ctxlog"
	"github.com/sebmonty/bento/metrics"
)

// mailboxPattern accepts local@domain.tld with no whitespace and a single "@".
var mailboxPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)

// Config holds provider credentials and transport settings. Both APIKey and
// GroupID must be set for the service to be available.
type Config struct {
	APIKey    string
	GroupID   string
	Endpoint  string        // default DefaultEndpoint
	Timeout   time.Duration // default 10s
	Transport http.RoundTripper
}

// Request is the JSON body accepted by the subscribe endpoint.
type Request struct {
	Email string `json:"email" validate:"required,mailbox"`
}

// Service runs one subscription attempt per call.
type Service struct {
	provider   Provider
	groupID    string
	configured bool
	validate   *validator.Validate
}

// NewService creates a Service. A nil provider defaults to MailerLite built
// from cfg.
func NewService(cfg Config, provider Provider) *Service {
	if provider == nil {
		provider = NewMailerLite(cfg)
	}

	v := validator.New()
	_ = v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return mailboxPattern.MatchString(fl.Field().String())
	})

	return &Service{
		provider:   provider,
		groupID:    cfg.GroupID,
		configured: cfg.APIKey != "" && cfg.GroupID != "",
		validate:   v,
	}
}

// ValidEmail reports whether s, after trimming, has the shape local@domain.tld.
func (s *Service) ValidEmail(email string) bool {
	return s.validate.Struct(Request{Email: strings.TrimSpace(email)}) == nil
}

// Subscribe decodes body, validates it and forwards the address to the
// provider. It always returns an Outcome; provider and configuration
// details are logged, never returned.
func (s *Service) Subscribe(ctx context.Context, body []byte) (out Outcome) {
	logger := ctxlog.FromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("subscribe panicked", "panic", fmt.Sprint(r))
			out = outcome(ServiceUnavailable, MsgUnexpected)
		}
		metrics.RecordSubscribeOutcome(out.Kind.String())
	}()

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return outcome(ValidationError, MsgInvalidEmail)
	}
	return s.subscribe(ctx, req.Email)
}

// SubscribeEmail is Subscribe for callers that already hold the address,
// such as the HTML form handler.
func (s *Service) SubscribeEmail(ctx context.Context, email string) Outcome {
	body, err := json.Marshal(Request{Email: email})
	if err != nil {
		return outcome(ValidationError, MsgInvalidEmail)
	}
	return s.Subscribe(ctx, body)
}

func (s *Service) subscribe(ctx context.Context, email string) Outcome {
	logger := ctxlog.FromContext(ctx)

	req := Request{Email: strings.TrimSpace(email)}
	if err := s.validate.Struct(req); err != nil {
		return outcome(ValidationError, MsgInvalidEmail)
	}

	if !s.configured {
		logger.Error("mailing list provider credentials not configured")
		return outcome(ServiceUnavailable, MsgUnavailable)
	}

	err := s.provider.Subscribe(ctx, Subscriber{
		Email:  strings.ToLower(req.Email),
		Groups: []string{s.groupID},
	})
	if err == nil {
		return outcome(Success, "")
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Status == http.StatusUnprocessableEntity {
			msg := pe.Message
			if msg == "" {
				msg = MsgProviderInvalid
			}
			return outcome(ProviderRejected, msg)
		}
		logger.Error("mailing list provider error", "status", pe.Status, "body", pe.Body)
		return outcome(ServiceUnavailable, MsgProviderFailed)
	}

	logger.Error("subscribe failed", "error", err)
	return outcome(ServiceUnavailable, MsgUnexpected)
}
