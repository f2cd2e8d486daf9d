package incidents

import (
	"context"

	"github.com/harsha499/incident-desk/internal/domain"
)

// Repository defines the interface for incident persistence.
// Implementations own the on-disk representation; all other modules go
// through the Service.
type Repository interface {
	List(ctx context.Context) ([]domain.Incident, error)
	Get(ctx context.Context, id string) (*domain.Incident, error)
	Insert(ctx context.Context, incident *domain.Incident) error
	Replace(ctx context.Context, id string, incident *domain.Incident) error
	Remove(ctx context.Context, id string) (bool, error)
}

// Filter represents filter criteria for listing incidents.
// All predicates are optional and combine with logical AND.
type Filter struct {
	Status      *domain.Status
	Severity    *domain.Severity
	Environment *domain.Environment
	Search      string
}
