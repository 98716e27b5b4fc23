// Package providererr classifies model-provider failures into a small set
// of reasons callers can act on: retry, fail over to another provider, or
// surface to the user as-is.
package providererr

import (
	"errors"
	"fmt"
	"strings"
)

// Reason classifies why a provider call failed.
type Reason string

const (
	ReasonTimeout        Reason = "timeout"
	ReasonRateLimit      Reason = "rate_limit"
	ReasonAuth           Reason = "auth"
	ReasonBilling        Reason = "billing"
	ReasonInvalidRequest Reason = "invalid_request"
	ReasonServerError    Reason = "server_error"
	ReasonModelUnavail   Reason = "model_unavailable"
	ReasonContentFilter  Reason = "content_filter"
	ReasonUnknown        Reason = "unknown"
)

// Retryable reports whether a call that failed for this reason is worth
// retrying against the same provider.
func (r Reason) Retryable() bool {
	switch r {
	case ReasonTimeout, ReasonRateLimit, ReasonServerError:
		return true
	default:
		return false
	}
}

// ShouldFailover reports whether a call that failed for this reason should
// be retried against a different provider rather than the same one.
func (r Reason) ShouldFailover() bool {
	switch r {
	case ReasonAuth, ReasonBilling, ReasonModelUnavail, ReasonRateLimit:
		return true
	default:
		return false
	}
}

// ProviderError wraps a classified provider failure with enough context to
// log or report without the caller needing to inspect the provider SDK's
// own error type.
type ProviderError struct {
	Reason    Reason
	Provider  string
	Model     string
	Status    int
	Code      string
	Message   string
	RequestID string
	Cause     error
}

// New returns a ProviderError for the given provider/model, classifying
// cause's text to fill in Reason.
func New(provider, model string, cause error) *ProviderError {
	return &ProviderError{
		Reason:   Classify(cause),
		Provider: provider,
		Model:    model,
		Cause:    cause,
	}
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, msg, e.Reason)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// Retryable reports whether this error's reason is worth retrying.
func (e *ProviderError) Retryable() bool { return e.Reason.Retryable() }

// WithStatus sets the HTTP status code observed, if any.
func (e *ProviderError) WithStatus(status int) *ProviderError {
	e.Status = status
	if r := classifyStatus(status); r != ReasonUnknown {
		e.Reason = r
	}
	return e
}

// WithCode sets a provider-specific error code.
func (e *ProviderError) WithCode(code string) *ProviderError {
	e.Code = code
	return e
}

// WithRequestID sets the provider's request ID, useful for support tickets.
func (e *ProviderError) WithRequestID(id string) *ProviderError {
	e.RequestID = id
	return e
}

// Classify inspects err's text and returns the best-guess Reason. Provider
// SDKs rarely expose a typed error taxonomy uniformly, so this matches on
// substrings the way the error messages themselves are phrased.
func Classify(err error) Reason {
	if err == nil {
		return ReasonUnknown
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "context deadline exceeded"), strings.Contains(text, "timeout"):
		return ReasonTimeout
	case strings.Contains(text, "rate limit"), strings.Contains(text, "429"), strings.Contains(text, "too many requests"):
		return ReasonRateLimit
	case strings.Contains(text, "unauthorized"), strings.Contains(text, "invalid api key"), strings.Contains(text, "401"), strings.Contains(text, "403"):
		return ReasonAuth
	case strings.Contains(text, "billing"), strings.Contains(text, "insufficient_quota"), strings.Contains(text, "quota"):
		return ReasonBilling
	case strings.Contains(text, "content filter"), strings.Contains(text, "content management policy"):
		return ReasonContentFilter
	case strings.Contains(text, "model not found"), strings.Contains(text, "does not exist"), strings.Contains(text, "model_not_found"):
		return ReasonModelUnavail
	case strings.Contains(text, "500"), strings.Contains(text, "502"), strings.Contains(text, "503"), strings.Contains(text, "internal server error"), strings.Contains(text, "overloaded"):
		return ReasonServerError
	case strings.Contains(text, "invalid"), strings.Contains(text, "400"):
		return ReasonInvalidRequest
	default:
		return ReasonUnknown
	}
}

func classifyStatus(status int) Reason {
	switch {
	case status == 401 || status == 403:
		return ReasonAuth
	case status == 429:
		return ReasonRateLimit
	case status == 400:
		return ReasonInvalidRequest
	case status >= 500:
		return ReasonServerError
	default:
		return ReasonUnknown
	}
}

// As extracts a *ProviderError from err, if any wraps one.
func As(err error) (*ProviderError, bool) {
	var pe *ProviderError
	ok := errors.As(err, &pe)
	return pe, ok
}

// IsRetryable reports whether err (a plain error or a *ProviderError) is
// worth retrying against the same provider.
func IsRetryable(err error) bool {
	if pe, ok := As(err); ok {
		return pe.Retryable()
	}
	return Classify(err).Retryable()
}
