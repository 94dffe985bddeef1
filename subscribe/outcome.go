package subscribe

import (
	"encoding/json"
	"net/http"
)

// Kind classifies the result of one subscription attempt.
type Kind int

const (
	Success Kind = iota
	ValidationError
	ProviderRejected
	ServiceUnavailable
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ValidationError:
		return "validation_error"
	case ProviderRejected:
		return "provider_rejected"
	default:
		return "service_unavailable"
	}
}

// User-facing messages. Provider and configuration details never reach them.
const (
	MsgInvalidEmail    = "Please enter a valid email address"
	MsgUnavailable     = "Subscription service is temporarily unavailable"
	MsgProviderInvalid = "Invalid email address"
	MsgProviderFailed  = "Failed to subscribe. Please try again later."
	MsgUnexpected      = "An unexpected error occurred. Please try again."
	MsgSubscribed      = "You're on the list. We'll reach out when invites open."
)

// Outcome is the terminal result of Service.Subscribe.
type Outcome struct {
	Kind    Kind
	Message string
}

// Status is the HTTP status code for the outcome.
func (o Outcome) Status() int {
	switch o.Kind {
	case Success:
		return http.StatusOK
	case ValidationError:
		return http.StatusBadRequest
	case ProviderRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Body is the JSON response document for the outcome.
func (o Outcome) Body() []byte {
	var v any
	if o.Kind == Success {
		v = struct {
			Success bool `json:"success"`
		}{true}
	} else {
		v = struct {
			Error string `json:"error"`
		}{o.Message}
	}
	b, _ := json.Marshal(v)
	return b
}

// FlashMessage is the text shown to a visitor after a form submission.
func (o Outcome) FlashMessage() string {
	if o.Kind == Success {
		return MsgSubscribed
	}
	return o.Message
}

func outcome(k Kind, msg string) Outcome {
	return Outcome{Kind: k, Message: msg}
}
