// Package domain contains the core incident model shared by all modules.
package domain

import "time"

// Severity represents the severity level of an incident.
type Severity string

// Severity levels.
const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityInfo     Severity = "Info"
)

// IsValid checks if the severity is valid.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	}
	return false
}

// Environment represents the environment where an incident occurred.
type Environment string

// Environments.
const (
	EnvironmentProduction  Environment = "Production"
	EnvironmentStaging     Environment = "Staging"
	EnvironmentDevelopment Environment = "Development"
	EnvironmentTesting     Environment = "Testing"
)

// IsValid checks if the environment is valid.
func (e Environment) IsValid() bool {
	switch e {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentDevelopment, EnvironmentTesting:
		return true
	}
	return false
}

// Status represents the current status of an incident.
type Status string

// Statuses.
const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Incident represents a tracked operational issue.
// JSON field names match the wire format consumed by the UI.
type Incident struct {
	ID               string      `json:"id"`
	TeamName         string      `json:"teamName"`
	IssueDescription string      `json:"issueDescription"`
	Severity         Severity    `json:"severity"`
	Environment      Environment `json:"environment"`
	Status           Status      `json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
