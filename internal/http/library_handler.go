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

type libraryService interface {
	Save(ctx context.Context, principal application.Principal, input application.EmojiLibraryInput) (application.EmojiLibrary, error)
	Get(ctx context.Context, principal application.Principal, libraryID string) (application.EmojiLibrary, error)
	GetByUniqueID(ctx context.Context, principal application.Principal, uniqueID string) (application.EmojiLibrary, error)
	ListMine(ctx context.Context, principal application.Principal) ([]application.EmojiLibrary, error)
	ListPublic(ctx context.Context, search string) ([]application.EmojiLibrary, error)
	Update(ctx context.Context, principal application.Principal, libraryID string, input application.EmojiLibraryInput) (application.EmojiLibrary, error)
	Delete(ctx context.Context, principal application.Principal, libraryID string) error
	Merge(ctx context.Context, principal application.Principal, params application.MergeLibrariesParams) (application.EmojiLibrary, error)
}

// LibraryHandler serves the emoji library CRUD, sharing and merge endpoints.
type LibraryHandler struct {
	service   libraryService
	responder responder
	logger    *slog.Logger
}

func NewLibraryHandler(service libraryService, logger *slog.Logger) *LibraryHandler {
	base := defaultLogger(logger)
	return &LibraryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *LibraryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "LibraryHandler", operation, attrs...)
}

type libraryRequest struct {
	Name       string              `json:"name"`
	Emojis     []domain.EmojiEntry `json:"emojis"`
	Visibility string              `json:"visibility"`
	SharedWith []string            `json:"sharedWith"`
	SaveAsNew  bool                `json:"saveAsNew"`
}

type libraryDTO struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	UniqueID   string              `json:"uniqueId"`
	Emojis     []domain.EmojiEntry `json:"emojis"`
	Visibility string              `json:"visibility"`
	SharedWith []string            `json:"sharedWith,omitempty"`
	UserEmail  string              `json:"userEmail,omitempty"`
	CreatedAt  string              `json:"createdAt"`
	UpdatedAt  string              `json:"updatedAt"`
}

type mergeRequest struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}

func libraryToDTO(library application.EmojiLibrary) libraryDTO {
	return libraryDTO{
		ID:         library.ID,
		Name:       library.Name,
		UniqueID:   library.UniqueID,
		Emojis:     library.Entries,
		Visibility: string(library.Visibility),
		SharedWith: library.SharedWith,
		UserEmail:  library.OwnerEmail,
		CreatedAt:  library.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  library.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func librariesToDTO(libraries []application.EmojiLibrary) []libraryDTO {
	dtos := make([]libraryDTO, 0, len(libraries))
	for _, library := range libraries {
		dtos = append(dtos, libraryToDTO(library))
	}
	return dtos
}

func (h *LibraryHandler) libraryInput(req libraryRequest) application.EmojiLibraryInput {
	return application.EmojiLibraryInput{
		Name:       req.Name,
		Entries:    req.Emojis,
		Visibility: domain.ParseVisibility(req.Visibility),
		SharedWith: req.SharedWith,
		SaveAsNew:  req.SaveAsNew,
	}
}

// List returns the authenticated user's emoji libraries.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	libraries, err := h.service.ListMine(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, librariesToDTO(libraries))
}

// Save stores a library, upserting by name unless saveAsNew is set.
func (h *LibraryHandler) Save(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	var req libraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Save", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode library request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	library, err := h.service.Save(r.Context(), principal, h.libraryInput(req))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, libraryToDTO(library))
}

// Get returns one of the authenticated user's libraries by id.
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	library, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, libraryToDTO(library))
}

// Update replaces a library's name, entries, visibility and share list.
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req libraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode library request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	library, err := h.service.Update(r.Context(), principal, id, h.libraryInput(req))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, libraryToDTO(library))
}

// Delete removes one of the authenticated user's libraries.
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": "Emoji library deleted."})
}

// ListPublic returns public libraries, optionally filtered by name search.
func (h *LibraryHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.service.ListPublic(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, librariesToDTO(libraries))
}

// GetShared resolves a share handle. Requests that may not view the record
// receive a 404, indistinguishable from a missing record.
func (h *LibraryHandler) GetShared(w http.ResponseWriter, r *http.Request) {
	uniqueID := chi.URLParam(r, "uniqueId")
	if uniqueID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	library, err := h.service.GetByUniqueID(r.Context(), principal, uniqueID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, libraryToDTO(library))
}

// Merge folds a visible source library into a target owned by the caller
// and returns the merged target.
func (h *LibraryHandler) Merge(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingToken)
		return
	}

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Merge", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode merge request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.SourceID == "" || req.TargetID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRecordID)
		return
	}

	library, err := h.service.Merge(r.Context(), principal, application.MergeLibrariesParams{
		SourceID: req.SourceID,
		TargetID: req.TargetID,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, libraryToDTO(library))
}
