package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harsha499/incident-desk/internal/llm"
)

// ErrToolCallLimit indicates the model kept requesting tools past the
// per-turn iteration bound.
var ErrToolCallLimit = errors.New("tool call limit exceeded")

// DefaultMaxIterations bounds the tool-call loop within one chat turn.
const DefaultMaxIterations = 10

const systemPrompt = `You are an AI assistant for an Incident Management System. You can help users:
- Create new incidents
- List and search existing incidents
- View incident details
- Update incident information
- Delete incidents

Be helpful, concise, and professional. When users want to create or update incidents, ask for missing required information.
Always confirm actions that modify data (create, update, delete).
When listing incidents, provide a clear summary of the results.`

const fallbackReply = "I apologize, but I could not generate a response."

// Agent drives the turn-based exchange with the model endpoint, executing
// requested tool calls until the model produces a plain answer.
type Agent struct {
	client        llm.Client
	dispatcher    *Dispatcher
	logger        *slog.Logger
	maxIterations int
}

// NewAgent creates a new conversation agent.
func NewAgent(client llm.Client, dispatcher *Dispatcher, logger *slog.Logger, maxIterations int) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	return &Agent{
		client:        client,
		dispatcher:    dispatcher,
		logger:        logger,
		maxIterations: maxIterations,
	}
}

// ToolCallRecord captures one executed tool call within a turn.
type ToolCallRecord struct {
	Function string          `json:"function"`
	Args     json.RawMessage `json:"args"`
	Result   Envelope        `json:"result"`
}

// Result is the outcome of one completed chat turn.
type Result struct {
	Message   string
	ToolCalls []ToolCallRecord
}

// Run processes one chat turn. The transcript is the fixed system prompt
// followed by the caller's message history; tool calls requested by the
// model are dispatched and their envelopes appended until the model
// responds with plain text. Any failure reaching the model aborts the
// whole turn.
func (a *Agent) Run(ctx context.Context, history []llm.Message) (*Result, error) {
	transcript := make([]llm.Message, 0, len(history)+1)
	transcript = append(transcript, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	transcript = append(transcript, history...)

	tools := ToolDefinitions()
	var calls []ToolCallRecord

	for iteration := 1; iteration <= a.maxIterations; iteration++ {
		response, err := a.client.Chat(ctx, transcript, tools)
		if err != nil {
			return nil, fmt.Errorf("model request: %w", err)
		}

		if len(response.ToolCalls) == 0 {
			message := strings.TrimSpace(response.Content)
			if message == "" {
				message = fallbackReply
			}
			return &Result{Message: message, ToolCalls: calls}, nil
		}

		transcript = append(transcript, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, call := range response.ToolCalls {
			name := call.Function.Name
			args := normalizeArgs(call.Function.Arguments)

			a.logger.Info("executing tool call",
				"operation", name, "iteration", iteration)

			envelope := a.dispatcher.Dispatch(ctx, name, args)
			calls = append(calls, ToolCallRecord{
				Function: name,
				Args:     args,
				Result:   envelope,
			})

			payload, err := json.Marshal(envelope)
			if err != nil {
				return nil, fmt.Errorf("marshal tool result: %w", err)
			}
			transcript = append(transcript, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    string(payload),
			})
		}
	}

	return nil, ErrToolCallLimit
}

// normalizeArgs guarantees valid JSON for transcripts and records even when
// the model emits a malformed arguments string.
func normalizeArgs(arguments string) json.RawMessage {
	raw := json.RawMessage(arguments)
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(arguments)
	return quoted
}
