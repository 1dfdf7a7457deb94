package model

// Event is anything the chat pipeline reports to the front end while a turn
// is running. Events for one turn are delivered in order, never concurrently.
type Event interface {
	isEvent()
}

// RenderEvent carries text to append to the live display, exactly once per
// streamed fragment. Tool results arrive as part of ToolInvokedEvent instead.
type RenderEvent struct {
	Text string
}

// ToolInvokedEvent fires when a completed tool-call span has been executed.
// Result holds the text spliced into the transcript; when Failed is set it
// is the captured error text instead.
type ToolInvokedEvent struct {
	Name   string
	Args   string
	Result string
	Failed bool
}

// TurnStartedEvent marks the beginning of a turn; the front end should flip
// its send affordance to cancel.
type TurnStartedEvent struct{}

// TurnEndedEvent closes a turn. Exactly one of Message and Err is
// meaningful: the final assistant message on success, the classified error
// otherwise.
type TurnEndedEvent struct {
	Message Message
	Err     error
}

func (RenderEvent) isEvent()      {}
func (ToolInvokedEvent) isEvent() {}
func (TurnStartedEvent) isEvent() {}
func (TurnEndedEvent) isEvent()   {}

// EventSink receives turn events. Implementations must not block longer
// than they have to: delivery happens on the turn goroutine, so a stalled
// sink stalls fragment processing.
type EventSink interface {
	Handle(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Handle(e Event) {
	f(e)
}
