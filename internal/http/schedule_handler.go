package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/emoji-scheduler/internal/application"
	"github.com/example/emoji-scheduler/internal/domain"
)

type scheduleService interface {
	Save(ctx context.Context, principal application.Principal, input application.ScheduleInput) (application.Schedule, error)
	Get(ctx context.Context, principal application.Principal, scheduleID string) (application.Schedule, error)
	GetByUniqueID(ctx context.Context, principal application.Principal, uniqueID string) (application.Schedule, error)
	ListMine(ctx context.Context, principal application.Principal) ([]application.Schedule, error)
	ListPublic(ctx context.Context, search string) ([]application.Schedule, error)
	Update(ctx context.Context, principal application.Principal, scheduleID string, input application.ScheduleInput) (application.Schedule, error)
	Delete(ctx context.Context, principal application.Principal, scheduleID string) error
}

// ScheduleHandler serves the schedule CRUD and sharing endpoints.
type ScheduleHandler struct {
	service   scheduleService
	responder responder
	logger    *slog.Logger
}

func NewScheduleHandler(service scheduleService, logger *slog.Logger) *ScheduleHandler {
	base := defaultLogger(logger)
	return &ScheduleHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ScheduleHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ScheduleHandler", operation, attrs...)
}

type scheduleRequest struct {
	Name       string          `json:"name"`
	WeekData   domain.WeekData `json:"weekData"`
	Visibility string          `json:"visibility"`
	SharedWith []string        `json:"sharedWith"`
	SaveAsNew  bool            `json:"saveAsNew"`
}

type scheduleDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UniqueID   string          `json:"uniqueId"`
	WeekData   domain.WeekData `json:"weekData"`
	Visibility string          `json:"visibility"`
	SharedWith []string        `json:"sharedWith,omitempty"`
	UserEmail  string          `json:"userEmail,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}

func scheduleToDTO(schedule application.Schedule) scheduleDTO {
	return scheduleDTO{
		ID:         schedule.ID,
		Name:       schedule.Name,
		UniqueID:   schedule.UniqueID,
		WeekData:   schedule.Week,
		Visibility: string(schedule.Visibility),
		SharedWith: schedule.SharedWith,
		UserEmail:  schedule.OwnerEmail,
		CreatedAt:  schedule.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  schedule.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func schedulesToDTO(schedules []application.Schedule) []scheduleDTO {
	dtos := make([]scheduleDTO, 0, len(schedules))
	for _, schedule := range schedules {
		dtos = append(dtos, scheduleToDTO(schedule))
	}
	return dtos
}

// List returns the authenticated user's schedules.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	schedules, err := h.service.ListMine(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, schedulesToDTO(schedules))
}

// Save stores a schedule, upserting by name unless saveAsNew is set.
func (h *ScheduleHandler) Save(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Save", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	schedule, err := h.service.Save(r.Context(), principal, application.ScheduleInput{
		Name:       req.Name,
		Week:       req.WeekData,
		Visibility: domain.ParseVisibility(req.Visibility),
		SharedWith: req.SharedWith,
		SaveAsNew:  req.SaveAsNew,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleToDTO(schedule))
}

// Get returns one of the authenticated user's schedules by id.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	schedule, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleToDTO(schedule))
}

// Update replaces a schedule's name, week data, visibility and share list.
func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode schedule request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	schedule, err := h.service.Update(r.Context(), principal, id, application.ScheduleInput{
		Name:       req.Name,
		Week:       req.WeekData,
		Visibility: domain.ParseVisibility(req.Visibility),
		SharedWith: req.SharedWith,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleToDTO(schedule))
}

// Delete removes one of the authenticated user's schedules.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Schedule deleted."})
}

// ListPublic returns public schedules, optionally filtered by name search.
func (h *ScheduleHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.service.ListPublic(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, schedulesToDTO(schedules))
}

// GetShared resolves a share handle. Requests that may not view the record
// receive a 404, indistinguishable from a missing record.
func (h *ScheduleHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	uniqueID := chi.URLParam(r, "uniqueId")
	if uniqueID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	// Anonymous requests carry a zero principal.
	principal, _ := PrincipalFromContext(r.Context())

	schedule, err := h.service.GetByUniqueID(r.Context(), principal, uniqueID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, scheduleToDTO(schedule))
}
