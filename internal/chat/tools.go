package chat

import "github.com/harsha499/incident-desk/internal/llm"

// Operation names the model may request.
const (
	OpCreateIncident = "create_incident"
	OpListIncidents  = "list_incidents"
	OpGetIncident    = "get_incident"
	OpUpdateIncident = "update_incident"
	OpDeleteIncident = "delete_incident"
)

// CreateIncidentArgs are the arguments for create_incident.
type CreateIncidentArgs struct {
	TeamName         string `json:"teamName"`
	IssueDescription string `json:"issueDescription"`
	Severity         string `json:"severity"`
	Environment      string `json:"environment"`
	Status           string `json:"status,omitempty"`
}

// ListIncidentsArgs are the arguments for list_incidents.
type ListIncidentsArgs struct {
	Status      string `json:"status,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Environment string `json:"environment,omitempty"`
	Search      string `json:"search,omitempty"`
}

// GetIncidentArgs are the arguments for get_incident.
type GetIncidentArgs struct {
	ID string `json:"id"`
}

// UpdateIncidentArgs are the arguments for update_incident.
type UpdateIncidentArgs struct {
	ID               string  `json:"id"`
	TeamName         *string `json:"teamName,omitempty"`
	IssueDescription *string `json:"issueDescription,omitempty"`
	Severity         *string `json:"severity,omitempty"`
	Environment      *string `json:"environment,omitempty"`
	Status           *string `json:"status,omitempty"`
}

// DeleteIncidentArgs are the arguments for delete_incident.
type DeleteIncidentArgs struct {
	ID string `json:"id"`
}

var (
	severityValues    = []string{"Critical", "High", "Medium", "Low", "Info"}
	environmentValues = []string{"Production", "Staging", "Development", "Testing"}
	statusValues      = []string{"Open", "In Progress", "Resolved"}
)

func enumProperty(values []string, description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        values,
		"description": description,
	}
}

func stringProperty(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

// ToolDefinitions returns the fixed tool schema offered to the model.
func ToolDefinitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        OpCreateIncident,
				Description: "Create a new incident in the incident management system",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"teamName":         stringProperty("The name of the team reporting the incident"),
						"issueDescription": stringProperty("Detailed description of the issue or incident"),
						"severity":         enumProperty(severityValues, "The severity level of the incident"),
						"environment":      enumProperty(environmentValues, "The environment where the incident occurred"),
						"status":           enumProperty(statusValues, "The current status of the incident (default: Open)"),
					},
					"required": []string{"teamName", "issueDescription", "severity", "environment"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        OpListIncidents,
				Description: "List all incidents or filter by status, severity, environment, or search term",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status":      enumProperty(statusValues, "Filter by status"),
						"severity":    enumProperty(severityValues, "Filter by severity"),
						"environment": enumProperty(environmentValues, "Filter by environment"),
						"search":      stringProperty("Search term to filter incidents by team name or issue description"),
					},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        OpGetIncident,
				Description: "Get details of a specific incident by ID",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": stringProperty("The unique identifier of the incident"),
					},
					"required": []string{"id"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        OpUpdateIncident,
				Description: "Update an existing incident",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":               stringProperty("The unique identifier of the incident to update"),
						"teamName":         stringProperty("The name of the team reporting the incident"),
						"issueDescription": stringProperty("Detailed description of the issue or incident"),
						"severity":         enumProperty(severityValues, "The severity level of the incident"),
						"environment":      enumProperty(environmentValues, "The environment where the incident occurred"),
						"status":           enumProperty(statusValues, "The current status of the incident"),
					},
					"required": []string{"id"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        OpDeleteIncident,
				Description: "Delete an incident from the system",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": stringProperty("The unique identifier of the incident to delete"),
					},
					"required": []string{"id"},
				},
			},
		},
	}
}
