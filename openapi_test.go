package bento

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/stretchr/testify/require"

	"github.com/sebmonty/bento/api"
	"github.com/sebmonty/bento/subscribe"
)

// contractRouter loads the embedded OpenAPI document and builds a router
// matching request paths against it.
func contractRouter(t *testing.T) routers.Router {
	t.Helper()

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(api.Spec)
	require.NoError(t, err, "load OpenAPI document")
	require.NoError(t, doc.Validate(context.Background()), "validate OpenAPI document")

	router, err := legacy.NewRouter(doc)
	require.NoError(t, err, "create OpenAPI router")
	return router
}

// validateExchange checks both halves of one request/response pair.
func validateExchange(t *testing.T, router routers.Router, body string, rec *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/subscribe", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	route, pathParams, err := router.FindRoute(req)
	require.NoError(t, err, "no OpenAPI route for POST /api/subscribe")

	reqInput := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options:    &openapi3filter.Options{MultiError: true},
	}
	require.NoError(t, openapi3filter.ValidateRequest(context.Background(), reqInput), "request does not match contract")

	respInput := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: reqInput,
		Status:                 rec.Code,
		Header:                 rec.Header(),
		Body:                   io.NopCloser(bytes.NewReader(rec.Body.Bytes())),
		Options: &openapi3filter.Options{
			MultiError:            true,
			IncludeResponseStatus: true,
		},
	}
	require.NoError(t, openapi3filter.ValidateResponse(context.Background(), respInput),
		"response %d %s does not match contract", rec.Code, rec.Body.String())
}

func TestSubscribeAPIMatchesContract(t *testing.T) {
	router := contractRouter(t)

	tests := []struct {
		name        string
		body        string
		providerErr error
		perMinute   int
		repeat      int
		wantStatus  int
	}{
		{name: "success", body: `{"email":"ada@example.com"}`, wantStatus: http.StatusOK},
		{name: "validation error", body: `{"email":"nope"}`, wantStatus: http.StatusBadRequest},
		{name: "provider rejected", body: `{"email":"ada@example.com"}`, providerErr: &subscribe.ProviderError{Status: 422}, wantStatus: http.StatusUnprocessableEntity},
		{name: "provider failure", body: `{"email":"ada@example.com"}`, providerErr: &subscribe.ProviderError{Status: 500}, wantStatus: http.StatusInternalServerError},
		{name: "rate limited", body: `{"email":"ada@example.com"}`, perMinute: 1, repeat: 1, wantStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.perMinute > 0 {
				cfg.SubscribePerMinute = tt.perMinute
			}
			a := newTestApp(t, cfg, &fakeContent{}, &fakeProvider{err: tt.providerErr})

			for i := 0; i < tt.repeat; i++ {
				do(a, postJSON(tt.body))
			}
			rec := do(a, postJSON(tt.body))
			require.Equal(t, tt.wantStatus, rec.Code)

			validateExchange(t, router, tt.body, rec)
		})
	}
}
