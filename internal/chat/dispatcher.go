// Package chat provides the conversational interface over incident operations.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harsha499/incident-desk/internal/domain"
	"github.com/harsha499/incident-desk/internal/incidents"
	"github.com/harsha499/incident-desk/internal/pkg/metrics"
)

// Envelope is the uniform success/failure wrapper returned to the model
// as the outcome of every tool call.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func failure(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

// Dispatcher maps a named operation plus raw arguments onto incident
// service calls. The model never sees raw errors, only envelopes.
type Dispatcher struct {
	service *incidents.Service
	logger  *slog.Logger
}

// NewDispatcher creates a new tool dispatcher.
func NewDispatcher(service *incidents.Service, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{service: service, logger: logger}
}

// Dispatch executes the named operation with the given arguments and wraps
// the outcome into an envelope. Unknown operations and malformed arguments
// produce failure envelopes rather than errors.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, args json.RawMessage) Envelope {
	env := d.dispatch(ctx, operation, args)

	outcome := "success"
	if !env.Success {
		outcome = "failure"
	}
	metrics.ToolCalls.WithLabelValues(operation, outcome).Inc()
	d.logger.Info("dispatched tool call", "operation", operation, "outcome", outcome)

	return env
}

func (d *Dispatcher) dispatch(ctx context.Context, operation string, args json.RawMessage) Envelope {
	switch operation {
	case OpCreateIncident:
		var a CreateIncidentArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return failure(err.Error())
		}
		return d.createIncident(ctx, a)

	case OpListIncidents:
		var a ListIncidentsArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return failure(err.Error())
		}
		return d.listIncidents(ctx, a)

	case OpGetIncident:
		var a GetIncidentArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return failure(err.Error())
		}
		return d.getIncident(ctx, a)

	case OpUpdateIncident:
		var a UpdateIncidentArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return failure(err.Error())
		}
		return d.updateIncident(ctx, a)

	case OpDeleteIncident:
		var a DeleteIncidentArgs
		if err := unmarshalArgs(args, &a); err != nil {
			return failure(err.Error())
		}
		return d.deleteIncident(ctx, a)

	default:
		return failure(fmt.Sprintf("unknown operation %s", operation))
	}
}

func unmarshalArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (d *Dispatcher) createIncident(ctx context.Context, args CreateIncidentArgs) Envelope {
	incident, err := d.service.CreateIncident(ctx, incidents.CreateIncidentInput{
		TeamName:         args.TeamName,
		IssueDescription: args.IssueDescription,
		Severity:         domain.Severity(args.Severity),
		Environment:      domain.Environment(args.Environment),
		Status:           domain.Status(args.Status),
	})
	if err != nil {
		return failure(err.Error())
	}
	return success(incident)
}

func (d *Dispatcher) listIncidents(ctx context.Context, args ListIncidentsArgs) Envelope {
	filter := incidents.Filter{Search: args.Search}
	if args.Status != "" {
		status := domain.Status(args.Status)
		filter.Status = &status
	}
	if args.Severity != "" {
		severity := domain.Severity(args.Severity)
		filter.Severity = &severity
	}
	if args.Environment != "" {
		environment := domain.Environment(args.Environment)
		filter.Environment = &environment
	}

	list, err := d.service.ListIncidents(ctx, filter)
	if err != nil {
		return failure(err.Error())
	}
	return success(list)
}

func (d *Dispatcher) getIncident(ctx context.Context, args GetIncidentArgs) Envelope {
	incident, err := d.service.GetIncident(ctx, args.ID)
	if err != nil {
		if errors.Is(err, incidents.ErrIncidentNotFound) {
			return failure("Incident not found")
		}
		return failure(err.Error())
	}
	return success(incident)
}

func (d *Dispatcher) updateIncident(ctx context.Context, args UpdateIncidentArgs) Envelope {
	input := incidents.UpdateIncidentInput{
		TeamName:         args.TeamName,
		IssueDescription: args.IssueDescription,
	}
	if args.Severity != nil {
		severity := domain.Severity(*args.Severity)
		input.Severity = &severity
	}
	if args.Environment != nil {
		environment := domain.Environment(*args.Environment)
		input.Environment = &environment
	}
	if args.Status != nil {
		status := domain.Status(*args.Status)
		input.Status = &status
	}

	incident, err := d.service.UpdateIncident(ctx, args.ID, input)
	if err != nil {
		if errors.Is(err, incidents.ErrIncidentNotFound) {
			return failure("Incident not found")
		}
		return failure(err.Error())
	}
	return success(incident)
}

func (d *Dispatcher) deleteIncident(ctx context.Context, args DeleteIncidentArgs) Envelope {
	removed, err := d.service.DeleteIncident(ctx, args.ID)
	if err != nil {
		return failure(err.Error())
	}
	if !removed {
		return failure("Incident not found")
	}
	return success(map[string]string{"message": "Incident deleted successfully"})
}
