//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsha499/incident-desk/internal/chat"
	"github.com/harsha499/incident-desk/internal/domain"
	"github.com/harsha499/incident-desk/internal/testutil"
)

func TestChat_PlainConversation(t *testing.T) {
	resetStore(t)
	model.reset()
	model.enqueue(textReply("There are no open incidents right now."))
	client := newTestClient(t)

	resp, err := client.POST("/api/chat", map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "anything on fire?"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply chat.ChatResponse
	testutil.DecodeJSON(t, resp, &reply)
	assert.Equal(t, "There are no open incidents right now.", reply.Message)
	assert.Empty(t, reply.FunctionCalls)
}

func TestChat_CreatesIncidentViaToolCall(t *testing.T) {
	resetStore(t)
	model.reset()
	model.enqueue(
		toolReply("call-1", "create_incident", `{
			"teamName": "Payments",
			"issueDescription": "API latency spike",
			"severity": "High",
			"environment": "Production"
		}`),
		textReply("Created a High severity incident for the Payments team."),
	)
	client := newTestClient(t)

	resp, err := client.POST("/api/chat", map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "Create a high severity incident for team Payments about API latency in Production"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply chat.ChatResponse
	testutil.DecodeJSON(t, resp, &reply)
	assert.Equal(t, "Created a High severity incident for the Payments team.", reply.Message)

	require.Len(t, reply.FunctionCalls, 1)
	record := reply.FunctionCalls[0]
	assert.Equal(t, "create_incident", record.Function)
	assert.True(t, record.Result.Success)

	var args map[string]string
	require.NoError(t, json.Unmarshal(record.Args, &args))
	assert.Equal(t, "Payments", args["teamName"])

	// The incident is visible through the REST surface.
	resp, err = client.GET("/api/incidents")
	require.NoError(t, err)
	var all []domain.Incident
	testutil.DecodeJSON(t, resp, &all)
	require.Len(t, all, 1)
	assert.Equal(t, "Payments", all[0].TeamName)
	assert.Equal(t, domain.SeverityHigh, all[0].Severity)
}

func TestChat_FailedToolCallSurfacesEnvelope(t *testing.T) {
	resetStore(t)
	model.reset()
	model.enqueue(
		toolReply("call-1", "get_incident", `{"id": "does-not-exist"}`),
		textReply("I could not find that incident."),
	)
	client := newTestClient(t)

	resp, err := client.POST("/api/chat", map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "show incident does-not-exist"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply chat.ChatResponse
	testutil.DecodeJSON(t, resp, &reply)
	require.Len(t, reply.FunctionCalls, 1)
	assert.False(t, reply.FunctionCalls[0].Result.Success)
	assert.Equal(t, "Incident not found", reply.FunctionCalls[0].Result.Error)
}

func TestChat_InvalidRequests(t *testing.T) {
	resetStore(t)
	model.reset()
	client := newTestClient(t)

	resp, err := client.POST("/api/chat", map[string]any{"messages": []any{}})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutil.ReadBody(t, resp), "Expected an array of messages")

	resp, err = client.POST("/api/chat", map[string]any{
		"messages": []map[string]string{{"role": "robot", "content": "beep"}},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, testutil.ReadBody(t, resp), "Invalid message role")
}
