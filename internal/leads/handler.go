package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/settlo/backend/internal/observability/metrics"
	"github.com/settlo/backend/pkg/logging"
)

var tracer = otel.Tracer("settlo.internal.leads")

// Notifier alerts operators about a new lead without blocking the caller.
// Implementations must return immediately; delivery failures stay on their
// side of the boundary.
type Notifier interface {
	Dispatch(lead *Lead)
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo     Repository
	notifier Notifier
	metrics  *metrics.LeadMetrics
	logger   *logging.Logger
}

// NewHandler creates a new leads handler. notifier and m may be nil.
func NewHandler(repo Repository, notifier Notifier, m *metrics.LeadMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// submitResponse is the 201 body. Only id, name, and createdAt are echoed.
type submitResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Lead    summaryLead `json:"lead"`
}

type summaryLead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type listResponse struct {
	Success bool    `json:"success"`
	Leads   []*Lead `json:"leads"`
}

// Submit handles POST /api/leads: validate, persist, then hand the stored
// lead to the notifier without waiting on it.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "leads.submit")
	defer span.End()

	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode lead submission", "error", err)
		h.metrics.ObserveSubmission(req.Source, "bad_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	span.SetAttributes(attribute.String("lead.source", req.Source))

	if err := req.Validate(); err != nil {
		h.metrics.ObserveSubmission(req.Source, "invalid")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	lead, err := h.repo.Create(ctx, &req)
	if err != nil {
		// Validation runs again inside the repository; classify so a racing
		// client error is never reported as a store failure.
		if errors.Is(err, ErrMissingFields) || errors.Is(err, ErrInvalidSource) {
			h.metrics.ObserveSubmission(req.Source, "invalid")
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("failed to save lead", "error", err, "source", req.Source)
		h.metrics.ObserveSubmission(req.Source, "store_error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to submit lead. Please try again."})
		return
	}

	h.logger.Info("new lead saved", "id", lead.ID, "name", lead.Name, "source", lead.Source)
	h.metrics.ObserveSubmission(lead.Source, "created")

	if h.notifier != nil {
		h.notifier.Dispatch(lead)
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		Success: true,
		Message: "Lead submitted successfully!",
		Lead: summaryLead{
			ID:        lead.ID,
			Name:      lead.Name,
			CreatedAt: lead.CreatedAt,
		},
	})
}

// List handles GET /api/leads, newest first. Admin-only by convention.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "leads.list")
	defer span.End()

	all, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error("failed to fetch leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch leads"})
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Success: true, Leads: all})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
