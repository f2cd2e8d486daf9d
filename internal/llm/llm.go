// Package llm defines the client interface and wire types for
// OpenAI-compatible chat completion endpoints with tool calling.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the model endpoint cannot be used at all,
// for example because no API key is configured.
var ErrUnavailable = errors.New("llm unavailable")

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single transcript entry.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`   // assistant messages only
	ToolCallID string     `json:"tool_call_id,omitempty"` // tool messages only
}

// ToolCall is a structured request from the model to invoke one tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall holds the function name and its arguments. Arguments is a
// JSON-encoded string, as the wire format specifies.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDefinition describes one tool offered to the model.
type ToolDefinition struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction describes a tool's name, description, and parameter schema.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Response is the model's reply to one chat completion request.
type Response struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Client sends a transcript plus tool schema to a model endpoint.
type Client interface {
	Chat(ctx context.Context, messages []Message, tools []ToolDefinition) (*Response, error)
}
