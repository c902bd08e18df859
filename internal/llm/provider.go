// Package llm is a small provider-neutral client for schema-constrained
// generation. Review grading is its only consumer.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates a response for a request.
type Provider interface {
	// Generate sends req to the model. When req.Schema is set the returned
	// Content is JSON that validates against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the vendor name recorded in the event log
	// (anthropic, openai, gemini, openrouter, mock).
	Name() string

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, switches the provider to its native structured
	// output mode. Without it Content is the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0,1]. Zero leaves the vendor default.
	Temperature float64

	// User is an opaque end-user id. It is forwarded to vendors that accept
	// one and recorded with the request event.
	User string
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is kebab-case, e.g. "week-review". OpenAI uses it as the
	// json_schema name.
	Name        string
	Description string
	Definition  map[string]any
}

// Response holds the model output.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that actually served the request, which can differ
	// from ModelID for aliases and gateways.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)

// resolveModel maps a friendly alias to a vendor model id. Unknown names
// pass through so full ids can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
