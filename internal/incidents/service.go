// Package incidents provides HTTP handlers and business logic for managing incidents.
package incidents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/harsha499/incident-desk/internal/domain"
)

// Service implements incident business logic.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the id source. Used in tests.
func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a new incident service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateIncidentInput holds data for creating an incident.
type CreateIncidentInput struct {
	TeamName         string
	IssueDescription string
	Severity         domain.Severity
	Environment      domain.Environment
	Status           domain.Status // optional, defaults to Open
}

// UpdateIncidentInput holds a partial update. Nil fields are left unchanged.
type UpdateIncidentInput struct {
	TeamName         *string
	IssueDescription *string
	Severity         *domain.Severity
	Environment      *domain.Environment
	Status           *domain.Status
}

// ListIncidents returns incidents matching the filter, in store order.
func (s *Service) ListIncidents(ctx context.Context, filter Filter) ([]domain.Incident, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}

	result := make([]domain.Incident, 0, len(all))
	for _, inc := range all {
		if filter.Status != nil && inc.Status != *filter.Status {
			continue
		}
		if filter.Severity != nil && inc.Severity != *filter.Severity {
			continue
		}
		if filter.Environment != nil && inc.Environment != *filter.Environment {
			continue
		}
		if filter.Search != "" && !matchesSearch(inc, filter.Search) {
			continue
		}
		result = append(result, inc)
	}
	return result, nil
}

// matchesSearch reports whether the term occurs in the team name or issue
// description, ignoring case.
func matchesSearch(inc domain.Incident, term string) bool {
	matcher := search.New(language.Und, search.IgnoreCase)
	if start, _ := matcher.IndexString(inc.TeamName, term); start >= 0 {
		return true
	}
	if start, _ := matcher.IndexString(inc.IssueDescription, term); start >= 0 {
		return true
	}
	return false
}

// GetIncident returns the incident with the given id.
func (s *Service) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	return s.repo.Get(ctx, id)
}

// CreateIncident validates the input, assigns an id and timestamps, and
// persists the new incident.
func (s *Service) CreateIncident(ctx context.Context, input CreateIncidentInput) (*domain.Incident, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.StatusOpen
	}

	now := s.now()
	incident := &domain.Incident{
		ID:               s.newID(),
		TeamName:         input.TeamName,
		IssueDescription: input.IssueDescription,
		Severity:         input.Severity,
		Environment:      input.Environment,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, incident); err != nil {
		return nil, fmt.Errorf("create incident: %w", err)
	}
	return incident, nil
}

// validateCreateInput checks required fields first, then enum membership.
func validateCreateInput(input CreateIncidentInput) error {
	if input.TeamName == "" {
		return missingField("teamName")
	}
	if input.IssueDescription == "" {
		return missingField("issueDescription")
	}
	if input.Severity == "" {
		return missingField("severity")
	}
	if input.Environment == "" {
		return missingField("environment")
	}
	if !input.Severity.IsValid() {
		return invalidField("severity")
	}
	if !input.Environment.IsValid() {
		return invalidField("environment")
	}
	if input.Status != "" && !input.Status.IsValid() {
		return invalidField("status")
	}
	return nil
}

// UpdateIncident merges the supplied fields over the stored incident and
// refreshes updatedAt. The id and createdAt never change.
func (s *Service) UpdateIncident(ctx context.Context, id string, input UpdateIncidentInput) (*domain.Incident, error) {
	if input.Severity != nil && !input.Severity.IsValid() {
		return nil, invalidField("severity")
	}
	if input.Environment != nil && !input.Environment.IsValid() {
		return nil, invalidField("environment")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, invalidField("status")
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.TeamName != nil {
		existing.TeamName = *input.TeamName
	}
	if input.IssueDescription != nil {
		existing.IssueDescription = *input.IssueDescription
	}
	if input.Severity != nil {
		existing.Severity = *input.Severity
	}
	if input.Environment != nil {
		existing.Environment = *input.Environment
	}
	if input.Status != nil {
		existing.Status = *input.Status
	}
	existing.UpdatedAt = s.now()

	if err := s.repo.Replace(ctx, id, existing); err != nil {
		return nil, fmt.Errorf("update incident: %w", err)
	}
	return existing, nil
}

// DeleteIncident removes the incident with the given id. It returns false
// if no such incident exists.
func (s *Service) DeleteIncident(ctx context.Context, id string) (bool, error) {
	return s.repo.Remove(ctx, id)
}
