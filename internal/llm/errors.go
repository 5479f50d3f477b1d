package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no API key is configured.
	ErrMissingCredential = errors.New("llm: API key is not configured")

	// ErrInvalidCredential means the remote API rejected the key (HTTP 401).
	ErrInvalidCredential = errors.New("llm: API key was rejected")

	// ErrRateLimited means the remote API throttled the request (HTTP 429).
	ErrRateLimited = errors.New("llm: rate limit exceeded")

	// ErrMalformedResponse means the reply held no decodable JSON object.
	ErrMalformedResponse = errors.New("llm: malformed response")
)

// RemoteError is any other non-200 reply.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llm: API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("llm: API returned HTTP %d: %.200s", e.StatusCode, e.Body)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
