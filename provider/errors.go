package provider

import (
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// TransportError reports a network-level failure (DNS, TLS, connection).
// The turn is aborted and the error surfaced to the user; never retried.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError reports a non-2xx response from the endpoint, with a human
// message for the statuses users actually hit.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Classify converts an SDK or network error into the error taxonomy the
// orchestrator reports. Already-classified errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var transportErr *TransportError
	var apiErr *APIError
	if errors.As(err, &transportErr) || errors.As(err, &apiErr) {
		return err
	}

	var sdkErr *openai.Error
	if errors.As(err, &sdkErr) {
		return &APIError{
			Status:  sdkErr.StatusCode,
			Message: statusMessage(sdkErr.StatusCode, sdkErr.Message),
		}
	}

	return &TransportError{Err: err}
}

func statusMessage(status int, detail string) string {
	switch status {
	case 401:
		return "API key is invalid or expired"
	case 403:
		return "API key does not have access to this resource"
	case 429:
		return "too many requests, please retry later"
	}
	if detail != "" {
		return detail
	}
	return fmt.Sprintf("API call failed: %d", status)
}
