package evidence

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FetchFailure classifies a provider error. The executor's degradation policy
// depends on this typing.
type FetchFailure string

const (
	FailNotFound    FetchFailure = "not_found"
	FailRateLimited FetchFailure = "rate_limited"
	FailTimeout     FetchFailure = "timeout"
	FailMalformed   FetchFailure = "malformed"
)

// FetchError is the typed error returned by providers.
type FetchError struct {
	Source Source
	Kind   FetchFailure
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError wraps err with a source and failure kind.
func NewFetchError(source Source, kind FetchFailure, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// ClassifyFetchError converts a raw transport error into a FetchError.
// Context cancellation and deadline expiry map to FailTimeout, as do net
// timeouts; everything else is treated as malformed transport behavior.
func ClassifyFetchError(source Source, err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewFetchError(source, FailTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewFetchError(source, FailTimeout, err)
	}
	return NewFetchError(source, FailMalformed, err)
}
