package upstream

import (
	"fmt"
	"time"
)

// Kind classifies the outcome of a single upstream call
type Kind int

const (
	KindSuccess Kind = iota
	// KindMalformed is a 2xx response whose body is not valid JSON
	KindMalformed
	KindHTTPError
	KindNetworkError
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindMalformed:
		return "malformed"
	case KindHTTPError:
		return "http_error"
	case KindNetworkError:
		return "network_error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of one GET against an upstream
type Result struct {
	URL        string
	Kind       Kind
	StatusCode int
	Body       []byte
	Err        error
	// Elapsed is measured until response headers arrive
	Elapsed time.Duration
}

// OK reports whether the call produced a usable JSON body
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

// Reachable reports whether the upstream answered with a 2xx status
func (r Result) Reachable() bool {
	return r.Kind == KindSuccess || r.Kind == KindMalformed
}

// Message returns a short human readable description of a failure
func (r Result) Message() string {
	switch r.Kind {
	case KindSuccess:
		return ""
	case KindHTTPError:
		return fmt.Sprintf("HTTP %d", r.StatusCode)
	default:
		if r.Err != nil {
			return r.Err.Error()
		}
		return r.Kind.String()
	}
}
