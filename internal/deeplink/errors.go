package deeplink

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat reports a URL that does not start with Prefix.
	ErrInvalidFormat = errors.New("invalid deep link format")
	// ErrNoParameters reports a link without a query string.
	ErrNoParameters = errors.New("no parameters found")
	// ErrMissingParameter reports a link with neither projectId nor showroomData.
	ErrMissingParameter = errors.New("missing projectId or showroomData parameter")
	// ErrUnknownAction is wrapped by ActionError.
	ErrUnknownAction = errors.New("unknown deep link action")
	// ErrPayloadDecode reports showroomData that is not valid percent-encoding.
	ErrPayloadDecode = errors.New("failed to parse showroom data")
	// ErrInvalidPayload reports showroomData that is not a JSON object.
	ErrInvalidPayload = errors.New("invalid JSON format")
)

// ActionError names the unrecognized action of a link.
type ActionError struct {
	Action string
}

func (e *ActionError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("%s: action is missing", ErrUnknownAction)
	}
	return fmt.Sprintf("%s: %q", ErrUnknownAction, e.Action)
}

func (e *ActionError) Unwrap() error { return ErrUnknownAction }
