package incidents

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsha499/incident-desk/internal/domain"
)

// mockRepository implements Repository in memory for testing.
type mockRepository struct {
	incidents []domain.Incident
	insertErr error
	listErr   error
}

func (m *mockRepository) List(_ context.Context) ([]domain.Incident, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Incident, len(m.incidents))
	copy(out, m.incidents)
	return out, nil
}

func (m *mockRepository) Get(_ context.Context, id string) (*domain.Incident, error) {
	for _, inc := range m.incidents {
		if inc.ID == id {
			found := inc
			return &found, nil
		}
	}
	return nil, ErrIncidentNotFound
}

func (m *mockRepository) Insert(_ context.Context, incident *domain.Incident) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.incidents = append(m.incidents, *incident)
	return nil
}

func (m *mockRepository) Replace(_ context.Context, id string, incident *domain.Incident) error {
	for i, inc := range m.incidents {
		if inc.ID == id {
			m.incidents[i] = *incident
			return nil
		}
	}
	return ErrIncidentNotFound
}

func (m *mockRepository) Remove(_ context.Context, id string) (bool, error) {
	for i, inc := range m.incidents {
		if inc.ID == id {
			m.incidents = append(m.incidents[:i], m.incidents[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func validCreateInput() CreateIncidentInput {
	return CreateIncidentInput{
		TeamName:         "Payments",
		IssueDescription: "API latency spike",
		Severity:         domain.SeverityHigh,
		Environment:      domain.EnvironmentProduction,
	}
}

func TestCreateIncident_AssignsIDAndTimestamps(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	repo := &mockRepository{}
	service := NewService(repo, WithClock(fixedClock(now)), WithIDGenerator(sequentialIDs()))

	incident, err := service.CreateIncident(context.Background(), validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, "id-1", incident.ID)
	assert.Equal(t, now, incident.CreatedAt)
	assert.Equal(t, incident.CreatedAt, incident.UpdatedAt)
	assert.Equal(t, domain.StatusOpen, incident.Status, "status defaults to Open")
	require.Len(t, repo.incidents, 1)
}

func TestCreateIncident_UniqueIDs(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		incident, err := service.CreateIncident(ctx, validCreateInput())
		require.NoError(t, err)
		assert.False(t, seen[incident.ID], "id %q issued twice", incident.ID)
		seen[incident.ID] = true
	}
}

func TestCreateIncident_ExplicitStatusKept(t *testing.T) {
	repo := &mockRepository{}
	service := NewService(repo)

	input := validCreateInput()
	input.Status = domain.StatusInProgress

	incident, err := service.CreateIncident(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, incident.Status)
}

func TestCreateIncident_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateIncidentInput)
		wantErr string
	}{
		{
			name:    "missing team name reported first",
			mutate:  func(in *CreateIncidentInput) { in.TeamName = ""; in.Severity = "Bogus" },
			wantErr: "teamName: is required",
		},
		{
			name:    "missing description",
			mutate:  func(in *CreateIncidentInput) { in.IssueDescription = "" },
			wantErr: "issueDescription: is required",
		},
		{
			name:    "missing severity",
			mutate:  func(in *CreateIncidentInput) { in.Severity = "" },
			wantErr: "severity: is required",
		},
		{
			name:    "missing environment",
			mutate:  func(in *CreateIncidentInput) { in.Environment = "" },
			wantErr: "environment: is required",
		},
		{
			name:    "missing severity reported before invalid environment",
			mutate:  func(in *CreateIncidentInput) { in.Severity = ""; in.Environment = "Bogus" },
			wantErr: "severity: is required",
		},
		{
			name:    "invalid severity",
			mutate:  func(in *CreateIncidentInput) { in.Severity = "Catastrophic" },
			wantErr: "severity: has an invalid value",
		},
		{
			name:    "invalid environment",
			mutate:  func(in *CreateIncidentInput) { in.Environment = "Moon" },
			wantErr: "environment: has an invalid value",
		},
		{
			name:    "invalid status",
			mutate:  func(in *CreateIncidentInput) { in.Status = "Done" },
			wantErr: "status: has an invalid value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			service := NewService(repo)

			input := validCreateInput()
			tt.mutate(&input)

			incident, err := service.CreateIncident(context.Background(), input)

			assert.Nil(t, incident)
			require.Error(t, err)
			assert.EqualError(t, err, tt.wantErr)

			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Empty(t, repo.incidents, "invalid input must not persist anything")
		})
	}
}

func TestListIncidents_FiltersAreConjunctive(t *testing.T) {
	repo := &mockRepository{incidents: []domain.Incident{
		{ID: "a", TeamName: "Payments", IssueDescription: "timeout", Severity: domain.SeverityHigh, Environment: domain.EnvironmentProduction, Status: domain.StatusOpen},
		{ID: "b", TeamName: "Payments", IssueDescription: "timeout", Severity: domain.SeverityHigh, Environment: domain.EnvironmentStaging, Status: domain.StatusOpen},
		{ID: "c", TeamName: "Search", IssueDescription: "index lag", Severity: domain.SeverityLow, Environment: domain.EnvironmentProduction, Status: domain.StatusResolved},
	}}
	service := NewService(repo)

	sev := domain.SeverityHigh
	env := domain.EnvironmentProduction
	result, err := service.ListIncidents(context.Background(), Filter{Severity: &sev, Environment: &env})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "a", result[0].ID)
}

func TestListIncidents_StatusFilter(t *testing.T) {
	repo := &mockRepository{incidents: []domain.Incident{
		{ID: "a", Status: domain.StatusOpen},
		{ID: "b", Status: domain.StatusResolved},
		{ID: "c", Status: domain.StatusOpen},
	}}
	service := NewService(repo)

	status := domain.StatusOpen
	result, err := service.ListIncidents(context.Background(), Filter{Status: &status})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "a", result[0].ID)
	assert.Equal(t, "c", result[1].ID)
}

func TestListIncidents_SearchIsCaseInsensitive(t *testing.T) {
	repo := &mockRepository{incidents: []domain.Incident{
		{ID: "a", TeamName: "Payments", IssueDescription: "checkout broken"},
		{ID: "b", TeamName: "Search", IssueDescription: "PAYMENT gateway 502s"},
		{ID: "c", TeamName: "Infra", IssueDescription: "disk full"},
	}}
	service := NewService(repo)

	result, err := service.ListIncidents(context.Background(), Filter{Search: "payment"})

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "a", result[0].ID)
	assert.Equal(t, "b", result[1].ID)
}

func TestListIncidents_NoFilterReturnsAllInOrder(t *testing.T) {
	repo := &mockRepository{incidents: []domain.Incident{
		{ID: "a"}, {ID: "b"}, {ID: "c"},
	}}
	service := NewService(repo)

	result, err := service.ListIncidents(context.Background(), Filter{})

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "a", result[0].ID)
	assert.Equal(t, "c", result[2].ID)
}

func TestUpdateIncident_PartialMerge(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	updated := time.Date(2026, 2, 1, 11, 0, 0, 0, time.UTC)

	repo := &mockRepository{incidents: []domain.Incident{{
		ID:               "inc-1",
		TeamName:         "Payments",
		IssueDescription: "API latency spike",
		Severity:         domain.SeverityHigh,
		Environment:      domain.EnvironmentProduction,
		Status:           domain.StatusOpen,
		CreatedAt:        created,
		UpdatedAt:        created,
	}}}
	service := NewService(repo, WithClock(fixedClock(updated)))

	status := domain.StatusResolved
	result, err := service.UpdateIncident(context.Background(), "inc-1", UpdateIncidentInput{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, result.Status)
	assert.Equal(t, "Payments", result.TeamName, "unspecified fields unchanged")
	assert.Equal(t, domain.SeverityHigh, result.Severity)
	assert.Equal(t, created, result.CreatedAt, "createdAt never changes")
	assert.Equal(t, updated, result.UpdatedAt)
	assert.Equal(t, *result, repo.incidents[0])
}

func TestUpdateIncident_NotFound(t *testing.T) {
	service := NewService(&mockRepository{})

	team := "Payments"
	_, err := service.UpdateIncident(context.Background(), "missing", UpdateIncidentInput{TeamName: &team})

	assert.ErrorIs(t, err, ErrIncidentNotFound)
}

func TestUpdateIncident_InvalidEnumRejectedBeforeLookup(t *testing.T) {
	repo := &mockRepository{incidents: []domain.Incident{{ID: "inc-1", Severity: domain.SeverityLow}}}
	service := NewService(repo)

	bad := domain.Severity("Catastrophic")
	_, err := service.UpdateIncident(context.Background(), "inc-1", UpdateIncidentInput{Severity: &bad})

	require.Error(t, err)
	assert.EqualError(t, err, "severity: has an invalid value")
	assert.Equal(t, domain.SeverityLow, repo.incidents[0].Severity, "stored incident untouched")
}

func TestDeleteIncident(t *testing.T) {
	repo := &mockRepository{incidents: []domain.Incident{{ID: "inc-1"}}}
	service := NewService(repo)
	ctx := context.Background()

	deleted, err := service.DeleteIncident(ctx, "inc-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.DeleteIncident(ctx, "inc-1")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete reports missing")
}

func TestCreateIncident_RepositoryError(t *testing.T) {
	repo := &mockRepository{insertErr: errors.New("disk full")}
	service := NewService(repo)

	_, err := service.CreateIncident(context.Background(), validCreateInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
