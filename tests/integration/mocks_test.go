//go:build integration

package integration

import (
	"context"
	"sync"

	"github.com/harsha499/incident-desk/internal/llm"
)

// stubModel implements llm.Client with a queue of scripted responses shared
// across the suite. An empty queue yields a neutral text reply so tests that
// never touch chat are unaffected.
type stubModel struct {
	mu    sync.Mutex
	queue []*llm.Response
}

func newStubModel() *stubModel {
	return &stubModel{}
}

func (s *stubModel) enqueue(responses ...*llm.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, responses...)
}

func (s *stubModel) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = nil
}

func (s *stubModel) Chat(_ context.Context, _ []llm.Message, _ []llm.ToolDefinition) (*llm.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return &llm.Response{Content: "How can I help with your incidents?", FinishReason: "stop"}, nil
	}
	response := s.queue[0]
	s.queue = s.queue[1:]
	return response, nil
}

func textReply(content string) *llm.Response {
	return &llm.Response{Content: content, FinishReason: "stop"}
}

func toolReply(id, name, arguments string) *llm.Response {
	return &llm.Response{
		FinishReason: "tool_calls",
		ToolCalls: []llm.ToolCall{{
			ID:   id,
			Type: "function",
			Function: llm.FunctionCall{
				Name:      name,
				Arguments: arguments,
			},
		}},
	}
}
