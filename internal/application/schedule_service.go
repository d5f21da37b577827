package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

// DefaultScheduleName is used when a save request carries no name.
const DefaultScheduleName = "My Schedule"

// ScheduleService coordinates schedule storage and sharing.
type ScheduleService struct {
	schedules   persistence.ScheduleRepository
	newID       func() string
	newShareID  func() (string, error)
	publicCache *listingCache[Schedule]
	logger      *slog.Logger
}

// NewScheduleService constructs a ScheduleService with the provided repository.
func NewScheduleService(schedules persistence.ScheduleRepository) *ScheduleService {
	return NewScheduleServiceWithLogger(schedules, nil)
}

// NewScheduleServiceWithLogger constructs a ScheduleService with a specified logger.
func NewScheduleServiceWithLogger(schedules persistence.ScheduleRepository, logger *slog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules:   schedules,
		newID:       NewRecordID,
		newShareID:  NewShareID,
		publicCache: newListingCache[Schedule](0, 0, nil),
		logger:      defaultLogger(logger),
	}
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// Save stores a schedule for the principal. Without SaveAsNew the save is
// an idempotent upsert keyed by (owner, name); with SaveAsNew a fresh
// record is always inserted.
func (s *ScheduleService) Save(ctx context.Context, principal Principal, input ScheduleInput) (result Schedule, err error) {
	if s == nil || s.schedules == nil {
		err = fmt.Errorf("schedule service not configured")
		return
	}
	if principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultScheduleName
	}

	logger := s.loggerWith(ctx, "Save", "user_id", principal.UserID, "name", name, "save_as_new", input.SaveAsNew)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "schedule save failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule saved", "schedule_id", result.ID)
	}()

	shareID, shareErr := s.newShareID()
	if shareErr != nil {
		err = shareErr
		return
	}

	record := persistence.Schedule{
		ID:         s.newID(),
		UserID:     principal.UserID,
		Name:       name,
		UniqueID:   shareID,
		Week:       input.Week,
		Visibility: input.Visibility,
		SharedWith: input.SharedWith,
	}

	var stored persistence.Schedule
	if input.SaveAsNew {
		stored, err = s.schedules.InsertSchedule(ctx, record)
	} else {
		stored, err = s.schedules.UpsertSchedule(ctx, record)
	}
	if err != nil {
		return
	}

	s.publicCache.Invalidate()
	result = scheduleFromPersistence(stored)
	return
}

// ListMine returns the principal's schedules, newest first.
func (s *ScheduleService) ListMine(ctx context.Context, principal Principal) ([]Schedule, error) {
	if s == nil || s.schedules == nil {
		return nil, fmt.Errorf("schedule service not configured")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}

	records, err := s.schedules.ListSchedulesForUser(ctx, principal.UserID)
	if err != nil {
		s.loggerWith(ctx, "ListMine", "user_id", principal.UserID).
			ErrorContext(ctx, "schedule listing failed", "error", err)
		return nil, err
	}

	schedules := make([]Schedule, 0, len(records))
	for _, record := range records {
		schedules = append(schedules, scheduleFromPersistence(record))
	}
	return schedules, nil
}

// ListPublic returns public schedules with owner emails, optionally
// filtered by a name substring.
func (s *ScheduleService) ListPublic(ctx context.Context, search string) ([]Schedule, error) {
	if s == nil || s.schedules == nil {
		return nil, fmt.Errorf("schedule service not configured")
	}

	search = strings.TrimSpace(search)
	if cached, ok := s.publicCache.Get(search); ok {
		return cached, nil
	}

	records, err := s.schedules.ListPublicSchedules(ctx, search)
	if err != nil {
		s.loggerWith(ctx, "ListPublic").ErrorContext(ctx, "public schedule listing failed", "error", err)
		return nil, err
	}

	schedules := make([]Schedule, 0, len(records))
	for _, record := range records {
		schedules = append(schedules, scheduleFromPersistence(record))
	}
	s.publicCache.Store(search, schedules)
	return schedules, nil
}

// Get returns a schedule owned by the principal. Records owned by someone
// else are reported as ErrNotFound.
func (s *ScheduleService) Get(ctx context.Context, principal Principal, scheduleID string) (Schedule, error) {
	if s == nil || s.schedules == nil {
		return Schedule{}, fmt.Errorf("schedule service not configured")
	}
	if principal.UserID == "" {
		return Schedule{}, ErrUnauthorized
	}

	record, err := s.schedules.GetSchedule(ctx, scheduleID)
	if err != nil {
		return Schedule{}, mapLookupError(err)
	}
	if record.UserID != principal.UserID {
		return Schedule{}, ErrNotFound
	}

	return scheduleFromPersistence(record), nil
}

// GetByUniqueID resolves a share handle for the given requester. A record
// the requester may not view is reported as ErrNotFound so that denied and
// missing records are indistinguishable.
func (s *ScheduleService) GetByUniqueID(ctx context.Context, principal Principal, uniqueID string) (Schedule, error) {
	if s == nil || s.schedules == nil {
		return Schedule{}, fmt.Errorf("schedule service not configured")
	}

	record, err := s.schedules.GetScheduleByUniqueID(ctx, uniqueID)
	if err != nil {
		return Schedule{}, mapLookupError(err)
	}

	if !domain.CanView(record.UserID, record.Visibility, record.SharedWith, principal.Requester()) {
		s.loggerWith(ctx, "GetByUniqueID", "unique_id", uniqueID).
			InfoContext(ctx, "schedule access denied", "owner_id", record.UserID)
		return Schedule{}, ErrNotFound
	}

	return scheduleFromPersistence(record), nil
}

// Update replaces the mutable fields of a schedule owned by the principal.
func (s *ScheduleService) Update(ctx context.Context, principal Principal, scheduleID string, input ScheduleInput) (result Schedule, err error) {
	if s == nil || s.schedules == nil {
		err = fmt.Errorf("schedule service not configured")
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

	logger := s.loggerWith(ctx, "Update", "user_id", principal.UserID, "schedule_id", scheduleID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "schedule update failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule updated")
	}()

	record := persistence.Schedule{
		ID:         scheduleID,
		UserID:     principal.UserID,
		Name:       name,
		Week:       input.Week,
		Visibility: input.Visibility,
		SharedWith: input.SharedWith,
	}

	stored, updateErr := s.schedules.UpdateSchedule(ctx, record)
	if updateErr != nil {
		err = mapLookupError(updateErr)
		return
	}

	s.publicCache.Invalidate()
	result = scheduleFromPersistence(stored)
	return
}

// Delete removes a schedule owned by the principal.
func (s *ScheduleService) Delete(ctx context.Context, principal Principal, scheduleID string) error {
	if s == nil || s.schedules == nil {
		return fmt.Errorf("schedule service not configured")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "Delete", "user_id", principal.UserID, "schedule_id", scheduleID)
	if err := s.schedules.DeleteSchedule(ctx, scheduleID, principal.UserID); err != nil {
		err = mapLookupError(err)
		logger.ErrorContext(ctx, "schedule delete failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	s.publicCache.Invalidate()
	logger.InfoContext(ctx, "schedule deleted")
	return nil
}

func mapLookupError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
