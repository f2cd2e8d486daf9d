package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harsha499/incident-desk/internal/llm"
	"github.com/harsha499/incident-desk/internal/pkg/ctxlog"
	"github.com/harsha499/incident-desk/internal/pkg/httputil"
)

// Handler handles HTTP requests for the chat module.
type Handler struct {
	agent     *Agent
	validator *validator.Validate
}

// NewHandler creates a new chat handler.
func NewHandler(agent *Agent) *Handler {
	return &Handler{
		agent:     agent,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the chat module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.Chat)
}

// ChatRequest represents the request body for a chat turn.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

// ChatMessage is one entry of the caller-supplied message history.
type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// ChatResponse represents the response body for a chat turn.
type ChatResponse struct {
	Message       string           `json:"message"`
	FunctionCalls []ToolCallRecord `json:"functionCalls,omitempty"`
}

// Chat handles POST /chat request.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid request. Expected an array of messages.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, chatValidationMessage(err))
		return
	}

	history := make([]llm.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	result, err := h.agent.Run(r.Context(), history)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("chat turn failed", "error", err)
		httputil.ErrorWithDetails(w, http.StatusInternalServerError,
			"Failed to process chat message", err.Error())
		return
	}

	httputil.JSON(w, http.StatusOK, ChatResponse{
		Message:       result.Message,
		FunctionCalls: result.ToolCalls,
	})
}

// chatValidationMessage maps validation failures onto the messages the UI
// expects.
func chatValidationMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "Invalid request. Expected an array of messages."
	}

	e := validationErrors[0]
	switch e.Field() {
	case "Messages":
		return "Invalid request. Expected an array of messages."
	case "Role":
		if e.Tag() == "oneof" {
			return "Invalid message role. Must be user, assistant, or system."
		}
		return "Each message must have a role and content."
	case "Content":
		return "Each message must have a role and content."
	}
	return "Invalid request. Expected an array of messages."
}
