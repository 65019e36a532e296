package showroom

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingBaseURL is returned when no API base URL is configured.
	ErrMissingBaseURL = errors.New("missing api base url")
	// ErrNetwork wraps transport failures: connection errors, timeouts and
	// unreadable response bodies.
	ErrNetwork = errors.New("network error")
	// ErrParse wraps response bodies that are not valid JSON or have the
	// wrong top-level shape.
	ErrParse = errors.New("parse error")
	// ErrEmptyQuery is returned by Search when the query is blank.
	ErrEmptyQuery = errors.New("search query is required")
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Code int
	Path string
}

func (e *StatusError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d from %s", e.Code, e.Path)
}

// Error kinds reported by Classify.
const (
	KindOK      = "ok"
	KindConfig  = "config"
	KindNetwork = "network"
	KindStatus  = "status"
	KindParse   = "parse"
	KindUnknown = "unknown"
)

// Classify maps err onto one of the Kind* labels.
func Classify(err error) string {
	if err == nil {
		return KindOK
	}
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrMissingBaseURL), errors.Is(err, ErrEmptyQuery):
		return KindConfig
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.Is(err, ErrParse):
		return KindParse
	default:
		return KindUnknown
	}
}
