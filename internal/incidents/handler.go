package incidents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harsha499/incident-desk/internal/domain"
	"github.com/harsha499/incident-desk/internal/pkg/httputil"
)

// Handler handles HTTP requests for the incidents module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new incidents handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterRoutes registers all HTTP routes for the incidents module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.ListIncidents)
		r.Post("/", h.CreateIncident)
		r.Get("/{id}", h.GetIncident)
		r.Put("/{id}", h.UpdateIncident)
		r.Delete("/{id}", h.DeleteIncident)
	})
}

// CreateIncidentRequest represents the request body for creating an incident.
// Field presence is checked here in declaration order; enum membership is
// the service's concern.
type CreateIncidentRequest struct {
	TeamName         string `json:"teamName" validate:"required"`
	IssueDescription string `json:"issueDescription" validate:"required"`
	Severity         string `json:"severity" validate:"required"`
	Environment      string `json:"environment" validate:"required"`
	Status           string `json:"status"`
}

// ToInput converts the request to a service input.
func (r *CreateIncidentRequest) ToInput() CreateIncidentInput {
	return CreateIncidentInput{
		TeamName:         r.TeamName,
		IssueDescription: r.IssueDescription,
		Severity:         domain.Severity(r.Severity),
		Environment:      domain.Environment(r.Environment),
		Status:           domain.Status(r.Status),
	}
}

// UpdateIncidentRequest represents the partial request body for updating an
// incident. Absent fields leave the stored values unchanged.
type UpdateIncidentRequest struct {
	TeamName         *string `json:"teamName"`
	IssueDescription *string `json:"issueDescription"`
	Severity         *string `json:"severity"`
	Environment      *string `json:"environment"`
	Status           *string `json:"status"`
}

// ToInput converts the request to a service input.
func (r *UpdateIncidentRequest) ToInput() UpdateIncidentInput {
	input := UpdateIncidentInput{
		TeamName:         r.TeamName,
		IssueDescription: r.IssueDescription,
	}
	if r.Severity != nil {
		severity := domain.Severity(*r.Severity)
		input.Severity = &severity
	}
	if r.Environment != nil {
		environment := domain.Environment(*r.Environment)
		input.Environment = &environment
	}
	if r.Status != nil {
		status := domain.Status(*r.Status)
		input.Status = &status
	}
	return input
}

// ListIncidents handles GET /incidents request.
func (h *Handler) ListIncidents(w http.ResponseWriter, r *http.Request) {
	filter := Filter{Search: r.URL.Query().Get("search")}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.Status(status)
		filter.Status = &s
	}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		s := domain.Severity(severity)
		filter.Severity = &s
	}
	if environment := r.URL.Query().Get("environment"); environment != "" {
		e := domain.Environment(environment)
		filter.Environment = &e
	}

	list, err := h.service.ListIncidents(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, list)
}

// GetIncident handles GET /incidents/{id} request.
func (h *Handler) GetIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	incident, err := h.service.GetIncident(r.Context(), id)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// CreateIncident handles POST /incidents request.
func (h *Handler) CreateIncident(w http.ResponseWriter, r *http.Request) {
	var req CreateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	incident, err := h.service.CreateIncident(r.Context(), req.ToInput())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, incident)
}

// UpdateIncident handles PUT /incidents/{id} request.
func (h *Handler) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateIncidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	incident, err := h.service.UpdateIncident(r.Context(), id, req.ToInput())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, incident)
}

// DeleteIncident handles DELETE /incidents/{id} request.
func (h *Handler) DeleteIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.service.DeleteIncident(r.Context(), id)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	if !removed {
		httputil.Error(w, http.StatusNotFound, "Incident not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httputil.Error(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrIncidentNotFound, Status: http.StatusNotFound, Message: "Incident not found"},
	})
}
