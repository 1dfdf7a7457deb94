// Package chat drives one conversation: it accumulates streamed assistant
// output, detects embedded tool-call spans, runs them, and reports events
// to the front end in strict arrival order.
package chat

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"aidbg/model"
)

const (
	openMarker  = "<tool>"
	closeMarker = "</tool>"

	// ResultHeader and ErrorHeader open the block spliced after a
	// dispatched span. Front ends reconstruct the same block when echoing
	// a ToolInvokedEvent.
	ResultHeader = "\n[tool result]\n"
	ErrorHeader  = "\n[error]\n"
)

// ToolRunner is the narrow synchronous interface the accumulator calls when
// a span completes. It is deliberately small so a later revision can move
// execution off the apply path without touching the accumulator contract.
type ToolRunner interface {
	Run(ctx context.Context, name, argsText string) (string, error)
}

// Accumulator consumes streamed fragments for a single turn. Not safe for
// concurrent use: fragments must be applied one at a time, in order, which
// is exactly the serialization the orchestrator provides.
type Accumulator struct {
	runner     ToolRunner
	log        *zap.Logger
	buf        strings.Builder
	dispatched map[string]bool
}

func NewAccumulator(runner ToolRunner, log *zap.Logger) *Accumulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Accumulator{
		runner:     runner,
		log:        log,
		dispatched: map[string]bool{},
	}
}

// BeginTurn resets the accumulated text and the per-turn dispatched-span
// set. Spans dispatched in earlier turns become eligible again.
func (a *Accumulator) BeginTurn() {
	a.buf.Reset()
	a.dispatched = map[string]bool{}
}

// OnFragment appends one streamed fragment, emitting a render event for it
// and, if a tool-call span just completed, the tool invocation that
// resulted. Tool execution happens synchronously here; a slow tool stalls
// the turn by design.
func (a *Accumulator) OnFragment(ctx context.Context, fragment string) []model.Event {
	a.buf.WriteString(fragment)
	events := []model.Event{model.RenderEvent{Text: fragment}}

	if ev, ok := a.checkToolCall(ctx); ok {
		events = append(events, ev)
	}
	return events
}

// checkToolCall scans the buffer for a completed, not-yet-dispatched span.
// The search is asymmetric on purpose: the LAST opening marker, then the
// FIRST closing marker at or after it. Nested or malformed sequences
// resolve to the innermost-from-the-right candidate, which is what existing
// transcripts were produced with; a first-open/first-close search would not
// replay them byte-for-byte.
func (a *Accumulator) checkToolCall(ctx context.Context) (model.Event, bool) {
	text := a.buf.String()

	start := strings.LastIndex(text, openMarker)
	if start == -1 {
		return nil, false
	}
	rel := strings.Index(text[start:], closeMarker)
	if rel == -1 {
		return nil, false
	}
	end := start + rel + len(closeMarker)

	raw := text[start:end]
	if a.dispatched[raw] {
		return nil, false
	}

	name, argsText := parseSpan(raw)
	result := a.invoke(ctx, name, argsText)

	var block string
	if result.err != nil {
		block = ErrorHeader + result.err.Error() + "\n"
	} else {
		block = ResultHeader + result.text + "\n"
	}

	// Splice the block immediately after the closing marker so text that
	// already streamed past the span stays in place and later fragments
	// continue after the splice.
	a.buf.Reset()
	a.buf.WriteString(text[:end])
	a.buf.WriteString(block)
	a.buf.WriteString(text[end:])

	a.dispatched[raw] = true

	eventResult := result.text
	if result.err != nil {
		eventResult = result.err.Error()
	}
	a.log.Debug("tool span dispatched",
		zap.String("tool", name),
		zap.Bool("ok", result.err == nil))

	return model.ToolInvokedEvent{
		Name:   name,
		Args:   argsText,
		Result: eventResult,
		Failed: result.err != nil,
	}, true
}

type toolResult struct {
	text string
	err  error
}

// invoke runs the tool and converts every failure, including a panicking
// runner, into an in-transcript error result. A bad span must never crash
// the turn.
func (a *Accumulator) invoke(ctx context.Context, name, argsText string) (result toolResult) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("tool runner panicked", zap.String("tool", name), zap.Any("panic", r))
			result = toolResult{err: &panicError{value: r}}
		}
	}()

	if name == "" {
		return toolResult{err: &emptySpanError{}}
	}
	text, err := a.runner.Run(ctx, name, argsText)
	if err != nil {
		return toolResult{err: err}
	}
	return toolResult{text: text}
}

// parseSpan splits the span body into the tool name (first whitespace
// delimited token) and the raw argument text (the remainder, possibly
// empty). Plain string splitting, no reflection-style dispatch.
func parseSpan(raw string) (name, argsText string) {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, openMarker), closeMarker))
	if body == "" {
		return "", ""
	}
	if i := strings.IndexAny(body, " \t\n"); i != -1 {
		return body[:i], strings.TrimSpace(body[i+1:])
	}
	return body, ""
}

// EndTurn finalizes the turn and returns the assistant message holding the
// accumulated text, spliced tool results included.
func (a *Accumulator) EndTurn() model.Message {
	return model.Message{Role: model.RoleAssistant, Content: a.buf.String()}
}

type emptySpanError struct{}

func (*emptySpanError) Error() string {
	return "empty tool call"
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return "tool execution panicked"
}
