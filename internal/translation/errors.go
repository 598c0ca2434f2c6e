package translation

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure reported by a provider
type ErrorKind int

const (
	// KindOther is any failure the pipeline does not recover from
	KindOther ErrorKind = iota
	// KindRateLimited means the service rejected the call for exceeding its request rate
	KindRateLimited
	// KindLanguageRecognition means the service could not tell which language the text is in
	KindLanguageRecognition
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindLanguageRecognition:
		return "language recognition failed"
	default:
		return "other"
	}
}

// APIError is the error returned by every Port implementation
type APIError struct {
	Kind     ErrorKind
	Provider string
	Code     string // Provider specific error code, e.g. "RequestLimitExceeded"
	Message  string
	Err      error // Underlying client error, if any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s API error [%s]: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ErrRetriesExhausted is returned when a capped Retrier gives up
var ErrRetriesExhausted = errors.New("rate limit retries exhausted")

func errorKind(err error) (ErrorKind, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindOther, false
}

// IsRateLimited reports whether err is a rate-limit rejection
func IsRateLimited(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == KindRateLimited
}

// IsLanguageRecognition reports whether err means the language could not be detected
func IsLanguageRecognition(err error) bool {
	kind, ok := errorKind(err)
	return ok && kind == KindLanguageRecognition
}
