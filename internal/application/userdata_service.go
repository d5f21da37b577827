package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

// UserDataService stores the combined schedule-plus-library snapshot that
// clients push after offline edits and fetch after login.
type UserDataService struct {
	data   persistence.UserDataRepository
	logger *slog.Logger
}

// NewUserDataService constructs a UserDataService with the provided repository.
func NewUserDataService(data persistence.UserDataRepository) *UserDataService {
	return NewUserDataServiceWithLogger(data, nil)
}

// NewUserDataServiceWithLogger constructs a UserDataService with a specified logger.
func NewUserDataServiceWithLogger(data persistence.UserDataRepository, logger *slog.Logger) *UserDataService {
	return &UserDataService{
		data:   data,
		logger: defaultLogger(logger),
	}
}

func (s *UserDataService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserDataService", operation, attrs...)
}

// Get returns the principal's snapshot. A user who has never pushed data
// receives an empty payload rather than an error, so fresh accounts behave
// like cleared ones.
func (s *UserDataService) Get(ctx context.Context, principal Principal) (domain.UserData, error) {
	if s == nil || s.data == nil {
		return domain.UserData{}, fmt.Errorf("user data service not configured")
	}
	if principal.UserID == "" {
		return domain.UserData{}, ErrUnauthorized
	}

	record, err := s.data.GetUserData(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return domain.UserData{}, nil
		}
		s.loggerWith(ctx, "Get", "user_id", principal.UserID).
			ErrorContext(ctx, "user data fetch failed", "error", err)
		return domain.UserData{}, err
	}

	return record.Payload, nil
}

// Save replaces the principal's snapshot. The week grid is normalized and
// the library deduplicated before the document is written.
func (s *UserDataService) Save(ctx context.Context, principal Principal, data domain.UserData) error {
	if s == nil || s.data == nil {
		return fmt.Errorf("user data service not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Save", "user_id", principal.UserID)

	data.WeekSchedule = data.WeekSchedule.Normalize()
	data.EmojiLibrary = domain.DedupeEntries(data.EmojiLibrary)

	record := persistence.UserData{
		UserID:  principal.UserID,
		Payload: data,
	}
	if err := s.data.SaveUserData(ctx, record); err != nil {
		logger.ErrorContext(ctx, "user data save failed", "error", err)
		return err
	}

	logger.InfoContext(ctx, "user data saved")
	return nil
}
