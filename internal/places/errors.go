package places

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the provider has no place for the identifier or query.
var ErrNotFound = errors.New("place not found")

// ErrUpstream is the sentinel every UpstreamError unwraps to.
var ErrUpstream = errors.New("places provider unavailable")

// ErrorKind separates problems an operator has to fix from transient ones.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindNetwork       ErrorKind = "network"
)

// UpstreamError carries the context of a failed call to Google Places.
type UpstreamError struct {
	Kind           ErrorKind
	Operation      string
	StatusCode     int
	ProviderStatus string
	Message        string
	Cause          error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("Google Places")
	if e.Operation != "" {
		b.WriteString(" " + e.Operation)
	}
	if e.Kind == KindConfiguration {
		b.WriteString(" is misconfigured")
	} else {
		b.WriteString(" is unavailable")
	}
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.ProviderStatus != "" {
		fmt.Fprintf(&b, " [%s]", e.ProviderStatus)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	} else if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUpstream}
	}
	return []error{ErrUpstream, e.Cause}
}

// IsConfiguration reports whether err is an upstream failure caused by
// missing or rejected credentials.
func IsConfiguration(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.Kind == KindConfiguration
}
