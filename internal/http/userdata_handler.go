package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/emoji-scheduler/internal/application"
	"github.com/example/emoji-scheduler/internal/domain"
)

type userDataService interface {
	Get(ctx context.Context, principal application.Principal) (domain.UserData, error)
	Save(ctx context.Context, principal application.Principal, data domain.UserData) error
}

// UserDataHandler serves the per-user snapshot endpoints used by clients
// to push local state after login and pull it back on a new device.
type UserDataHandler struct {
	service   userDataService
	responder responder
	logger    *slog.Logger
}

func NewUserDataHandler(service userDataService, logger *slog.Logger) *UserDataHandler {
	base := defaultLogger(logger)
	return &UserDataHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *UserDataHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserDataHandler", operation, attrs...)
}

// Get returns the authenticated user's snapshot. Users who have never
// pushed data receive an empty document.
func (h *UserDataHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	data, err := h.service.Get(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, data)
}

// Save replaces the authenticated user's snapshot.
func (h *UserDataHandler) Save(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	var data domain.UserData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		h.log(r.Context(), "Save", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode user data", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.service.Save(r.Context(), principal, data); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "User data saved."})
}
