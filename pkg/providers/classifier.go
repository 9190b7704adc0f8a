package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Reason classifies a provider failure for the fallback chain.
type Reason string

const (
	ReasonAuth       Reason = "auth"
	ReasonRateLimit  Reason = "rate_limit"
	ReasonTimeout    Reason = "timeout"
	ReasonOverloaded Reason = "overloaded"
	ReasonFormat     Reason = "format"
	ReasonUnknown    Reason = "unknown"
)

// ClassifiedError wraps a provider error with its failover reason.
type ClassifiedError struct {
	Provider string
	Model    string
	Reason   Reason
	Err      error
}

func (e *ClassifiedError) Error() string {
	return fmt.Sprintf("%s/%s: %s: %v", e.Provider, e.Model, e.Reason, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// IsRetriable reports whether trying another candidate makes sense. Format
// errors repeat on every backend; auth errors repeat on the same one but a
// different provider may have valid credentials.
func (e *ClassifiedError) IsRetriable() bool {
	return e.Reason != ReasonFormat
}

// Classify maps a raw provider error to a ClassifiedError by message
// patterns, the same way each SDK surfaces HTTP status text.
func Classify(provider, model string, err error) *ClassifiedError {
	if err == nil {
		return nil
	}
	reason := ReasonUnknown
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded) || strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		reason = ReasonTimeout
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "api key"):
		reason = ReasonAuth
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota"):
		reason = ReasonRateLimit
	case strings.Contains(msg, "529") || strings.Contains(msg, "503") || strings.Contains(msg, "overloaded") || strings.Contains(msg, "unavailable"):
		reason = ReasonOverloaded
	case strings.Contains(msg, "400") || strings.Contains(msg, "invalid request"):
		reason = ReasonFormat
	}
	return &ClassifiedError{Provider: provider, Model: model, Reason: reason, Err: err}
}
