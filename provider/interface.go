// Package provider wraps the remote text-generation capability. The rest of
// the application sees only a stream of content deltas and a terminal error:
// connection handling, SSE framing ("data:" lines, the [DONE] terminator,
// malformed JSON lines silently skipped) all live behind this boundary.
package provider

import (
	"context"

	"aidbg/model"
)

// StreamCallback receives one content delta per streamed fragment, in
// arrival order. Returning an error aborts the stream.
type StreamCallback func(delta string) error

// Provider is the remote call capability consumed by the chat orchestrator.
type Provider interface {
	// Chat sends the conversation and streams the reply through callback.
	// The call blocks until the stream completes; any bound on its duration
	// comes from ctx (unbounded by default).
	Chat(ctx context.Context, messages []model.Message, callback StreamCallback) error

	// Ping verifies the endpoint and credentials are usable.
	Ping(ctx context.Context) error
}
