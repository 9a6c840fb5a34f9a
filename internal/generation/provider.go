package generation

import "context"

// Role identifies the author of a message sent to a provider.
type Role string

// Message roles understood by every provider.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversational message in a completion request.
type Message struct {
	Role Role
	Text string
}

// Request is a single completion request.
type Request struct {
	// System is the instruction that frames the whole conversation.
	System string

	// Messages are sent in order; the last one is the message to answer.
	Messages []Message

	// MaxTokens caps the length of the completion.
	MaxTokens int

	// JSON asks the provider for a JSON-only response when it supports it.
	JSON bool
}

// Provider defines the boundary between the application core and an external
// LLM service. Implementations make exactly one outbound call per Complete and
// classify failures as ErrUpstreamUnavailable or ErrUpstreamRejected.
type Provider interface {
	// Name returns a short identifier used in logs.
	Name() string

	// Complete sends the request and returns the generated text.
	Complete(ctx context.Context, req Request) (string, error)
}
