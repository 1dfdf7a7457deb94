package model

import "strings"

// Display labels. The assistant label is load-bearing: ParseDisplayText
// maps it, and only it, back to the assistant role. Every other header,
// including "System:", reparses as user — a deliberately lossy mapping kept
// for compatibility with transcripts edited by hand.
const (
	UserLabel      = "You"
	AssistantLabel = "Assistant"
	SystemLabel    = "System"
)

// Transcript is the ordered message history for one conversation. At most
// one system message exists and it always sits at index 0.
type Transcript struct {
	messages []Message
}

func NewTranscript(systemPrompt string) *Transcript {
	t := &Transcript{}
	t.SetSystem(systemPrompt)
	return t
}

// Append adds a message. System messages are routed through SetSystem so
// the position-0 invariant holds no matter what the caller passes.
func (t *Transcript) Append(m Message) {
	if m.Role == RoleSystem {
		t.SetSystem(m.Content)
		return
	}
	t.messages = append(t.messages, m)
}

// SetSystem replaces the system message, inserting it at position 0 if
// absent. An empty prompt removes it.
func (t *Transcript) SetSystem(content string) {
	hasSystem := len(t.messages) > 0 && t.messages[0].Role == RoleSystem

	switch {
	case content == "" && hasSystem:
		t.messages = t.messages[1:]
	case content == "":
		// nothing to do
	case hasSystem:
		t.messages[0].Content = content
	default:
		t.messages = append([]Message{{Role: RoleSystem, Content: content}}, t.messages...)
	}
}

// Messages returns a copy of the history.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Replace swaps the whole history, typically with the result of
// ParseDisplayText after the user edited the rendered transcript.
func (t *Transcript) Replace(messages []Message) {
	t.messages = append([]Message(nil), messages...)
}

// Clear drops everything except a fresh system message when systemPrompt is
// non-empty.
func (t *Transcript) Clear(systemPrompt string) {
	t.messages = nil
	t.SetSystem(systemPrompt)
}

func labelFor(role string) string {
	switch role {
	case RoleAssistant:
		return AssistantLabel
	case RoleSystem:
		return SystemLabel
	default:
		return UserLabel
	}
}

// DisplayText renders the conversation in the editable text form: a header
// line per message ("You:", "Assistant:") followed by its content and a
// blank separator line. The system message is not rendered; ParseDisplayText
// re-prepends it from the active configuration.
func (t *Transcript) DisplayText() string {
	var sb strings.Builder
	for _, m := range t.messages {
		if m.Role == RoleSystem {
			continue
		}
		sb.WriteString(labelFor(m.Role))
		sb.WriteString(":\n")
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// ParseDisplayText rebuilds structured history from edited display text.
// A trimmed line ending in ":" starts a new message and closes the previous
// one; its content is the non-empty lines collected since the last header,
// joined with newlines. Only the exact assistant label maps to the
// assistant role; every other header becomes user. Text before the first
// header is ignored. When systemPrompt is non-empty a system message is
// prepended and takes no part in the scan.
func ParseDisplayText(text, systemPrompt string) []Message {
	var messages []Message
	if systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	}

	var currentRole string
	var haveRole bool
	var currentLines []string

	flush := func() {
		if !haveRole || len(currentLines) == 0 {
			return
		}
		role := RoleUser
		if currentRole == AssistantLabel {
			role = RoleAssistant
		}
		messages = append(messages, Message{
			Role:    role,
			Content: strings.TrimSpace(strings.Join(currentLines, "\n")),
		})
		currentLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasSuffix(line, ":"):
			flush()
			currentRole = strings.TrimSuffix(line, ":")
			haveRole = true
		case line != "" && haveRole:
			currentLines = append(currentLines, line)
		}
	}
	flush()

	return messages
}
