package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

// DefaultLibraryName is used when a save request carries no name.
const DefaultLibraryName = "My Library"

// LibraryService coordinates emoji library storage, sharing and merging.
type LibraryService struct {
	libraries   persistence.EmojiLibraryRepository
	newID       func() string
	newShareID  func() (string, error)
	publicCache *listingCache[EmojiLibrary]
	logger      *slog.Logger
}

// NewLibraryService constructs a LibraryService with the provided repository.
func NewLibraryService(libraries persistence.EmojiLibraryRepository) *LibraryService {
	return NewLibraryServiceWithLogger(libraries, nil)
}

// NewLibraryServiceWithLogger constructs a LibraryService with a specified logger.
func NewLibraryServiceWithLogger(libraries persistence.EmojiLibraryRepository, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		libraries:   libraries,
		newID:       NewRecordID,
		newShareID:  NewShareID,
		publicCache: newListingCache[EmojiLibrary](0, 0, nil),
		logger:      defaultLogger(logger),
	}
}

func (s *LibraryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "LibraryService", operation, attrs...)
}

// Save stores a library for the principal, following the same upsert versus
// save-as-new split as schedules.
func (s *LibraryService) Save(ctx context.Context, principal Principal, input EmojiLibraryInput) (result EmojiLibrary, err error) {
	if s == nil || s.libraries == nil {
		err = fmt.Errorf("library service not configured")
		return
	}
	if principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultLibraryName
	}

	logger := s.loggerWith(ctx, "Save", "user_id", principal.UserID, "name", name, "save_as_new", input.SaveAsNew)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "library save failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "library saved", "library_id", result.ID)
	}()

	shareID, shareErr := s.newShareID()
	if shareErr != nil {
		err = shareErr
		return
	}

	record := persistence.EmojiLibrary{
		ID:         s.newID(),
		UserID:     principal.UserID,
		Name:       name,
		UniqueID:   shareID,
		Entries:    input.Entries,
		Visibility: input.Visibility,
		SharedWith: input.SharedWith,
	}

	var stored persistence.EmojiLibrary
	if input.SaveAsNew {
		stored, err = s.libraries.InsertLibrary(ctx, record)
	} else {
		stored, err = s.libraries.UpsertLibrary(ctx, record)
	}
	if err != nil {
		return
	}

	s.publicCache.Invalidate()
	result = libraryFromPersistence(stored)
	return
}

// ListMine returns the principal's libraries, newest first.
func (s *LibraryService) ListMine(ctx context.Context, principal Principal) ([]EmojiLibrary, error) {
	if s == nil || s.libraries == nil {
		return nil, fmt.Errorf("library service not configured")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	records, err := s.libraries.ListLibrariesForUser(ctx, principal.UserID)
	if err != nil {
		s.loggerWith(ctx, "ListMine", "user_id", principal.UserID).
			ErrorContext(ctx, "library listing failed", "error", err)
		return nil, err
	}

	libraries := make([]EmojiLibrary, 0, len(records))
	for _, record := range records {
		libraries = append(libraries, libraryFromPersistence(record))
	}
	return libraries, nil
}

// ListPublic returns public libraries with owner emails, optionally
// filtered by a name substring.
func (s *LibraryService) ListPublic(ctx context.Context, search string) ([]EmojiLibrary, error) {
	if s == nil || s.libraries == nil {
		return nil, fmt.Errorf("library service not configured")
	}

	search = strings.TrimSpace(search)
	if cached, ok := s.publicCache.Get(search); ok {
		return cached, nil
	}

	records, err := s.libraries.ListPublicLibraries(ctx, search)
	if err != nil {
		s.loggerWith(ctx, "ListPublic").ErrorContext(ctx, "public library listing failed", "error", err)
		return nil, err
	}

	libraries := make([]EmojiLibrary, 0, len(records))
	for _, record := range records {
		libraries = append(libraries, libraryFromPersistence(record))
	}
	s.publicCache.Store(search, libraries)
	return libraries, nil
}

// Get returns a library owned by the principal. Records owned by someone
// else are reported as ErrNotFound.
func (s *LibraryService) Get(ctx context.Context, principal Principal, libraryID string) (EmojiLibrary, error) {
	if s == nil || s.libraries == nil {
		return EmojiLibrary{}, fmt.Errorf("library service not configured")
	}
	if principal.UserID == "" {
		return EmojiLibrary{}, ErrUnauthorized
	}

	record, err := s.libraries.GetLibrary(ctx, libraryID)
	if err != nil {
		return EmojiLibrary{}, mapLookupError(err)
	}
	if record.UserID != principal.UserID {
		return EmojiLibrary{}, ErrNotFound
	}

	return libraryFromPersistence(record), nil
}

// GetByUniqueID resolves a share handle for the given requester. Denied
// access is reported as ErrNotFound, identical to a missing record.
func (s *LibraryService) GetByUniqueID(ctx context.Context, principal Principal, uniqueID string) (EmojiLibrary, error) {
	if s == nil || s.libraries == nil {
		return EmojiLibrary{}, fmt.Errorf("library service not configured")
	}

	record, err := s.libraries.GetLibraryByUniqueID(ctx, uniqueID)
	if err != nil {
		return EmojiLibrary{}, mapLookupError(err)
	}

	if !domain.CanView(record.UserID, record.Visibility, record.SharedWith, principal.Requester()) {
		s.loggerWith(ctx, "GetByUniqueID", "unique_id", uniqueID).
			InfoContext(ctx, "library access denied", "owner_id", record.UserID)
		return EmojiLibrary{}, ErrNotFound
	}

	return libraryFromPersistence(record), nil
}

// Update replaces the mutable fields of a library owned by the principal.
func (s *LibraryService) Update(ctx context.Context, principal Principal, libraryID string, input EmojiLibraryInput) (result EmojiLibrary, err error) {
	if s == nil || s.libraries == nil {
		err = fmt.Errorf("library service not configured")
		return
	}
	if principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	logger := s.loggerWith(ctx, "Update", "user_id", principal.UserID, "library_id", libraryID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "library update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "library updated")
	}()

	record := persistence.EmojiLibrary{
		ID:         libraryID,
		UserID:     principal.UserID,
		Name:       name,
		Entries:    input.Entries,
		Visibility: input.Visibility,
		SharedWith: input.SharedWith,
	}

	stored, updateErr := s.libraries.UpdateLibrary(ctx, record)
	if updateErr != nil {
		err = mapLookupError(updateErr)
		return
	}

	s.publicCache.Invalidate()
	result = libraryFromPersistence(stored)
	return
}

// Delete removes a library owned by the principal.
func (s *LibraryService) Delete(ctx context.Context, principal Principal, libraryID string) error {
	if s == nil || s.libraries == nil {
		return fmt.Errorf("library service not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Delete", "user_id", principal.UserID, "library_id", libraryID)
	if err := s.libraries.DeleteLibrary(ctx, libraryID, principal.UserID); err != nil {
		err = mapLookupError(err)
		logger.ErrorContext(ctx, "library delete failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.publicCache.Invalidate()
	logger.InfoContext(ctx, "library deleted")
	return nil
}

// Merge folds a visible source library into a target library owned by the
// principal. The merged entry set is the icon union with the target's
// label winning on duplicates; only the target is written. Merging a
// library into itself is a no-op.
func (s *LibraryService) Merge(ctx context.Context, principal Principal, params MergeLibrariesParams) (result EmojiLibrary, err error) {
	if s == nil || s.libraries == nil {
		err = fmt.Errorf("library service not configured")
		return
	}
	if principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "Merge",
		"user_id", principal.UserID,
		"source_id", params.SourceID,
		"target_id", params.TargetID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "library merge failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "libraries merged", "entries", len(result.Entries))
	}()

	target, targetErr := s.libraries.GetLibrary(ctx, params.TargetID)
	if targetErr != nil {
		err = mapLookupError(targetErr)
		return
	}
	// Ownership failures look like a missing record to avoid leaking the
	// existence of other users' libraries.
	if target.UserID != principal.UserID {
		err = ErrNotFound
		return
	}

	if params.SourceID == params.TargetID {
		result = libraryFromPersistence(target)
		return
	}

	source, sourceErr := s.libraries.GetLibrary(ctx, params.SourceID)
	if sourceErr != nil {
		err = mapLookupError(sourceErr)
		return
	}
	if !domain.CanView(source.UserID, source.Visibility, source.SharedWith, principal.Requester()) {
		err = ErrNotFound
		return
	}

	target.Entries = domain.MergeEntries(target.Entries, source.Entries)

	stored, updateErr := s.libraries.UpdateLibrary(ctx, target)
	if updateErr != nil {
		err = mapLookupError(updateErr)
		return
	}

	s.publicCache.Invalidate()
	result = libraryFromPersistence(stored)
	return
}
