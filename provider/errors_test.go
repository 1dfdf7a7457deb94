package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/openai/openai-go/v3"
)

func TestClassifyStatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{401, "API key is invalid or expired"},
		{403, "API key does not have access to this resource"},
		{429, "too many requests, please retry later"},
		{500, "API call failed: 500"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := Classify(&openai.Error{StatusCode: tt.status})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("Classify() = %T, want *APIError", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.want {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.want)
			}
		})
	}
}

func TestClassifyServerDetailMessage(t *testing.T) {
	err := Classify(&openai.Error{StatusCode: 400, Message: "model not found"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Classify() = %T, want *APIError", err)
	}
	if apiErr.Message != "model not found" {
		t.Errorf("Message = %q, want server-provided detail", apiErr.Message)
	}
}

func TestClassifyTransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Classify(fmt.Errorf("request failed: %w", cause))

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Classify() = %T, want *TransportError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("TransportError should wrap the original cause")
	}
}

func TestClassifyIdempotent(t *testing.T) {
	original := &APIError{Status: 401, Message: "API key is invalid or expired"}
	if got := Classify(original); got != original {
		t.Errorf("Classify() reclassified an already-classified error: %v", got)
	}

	if got := Classify(nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}
