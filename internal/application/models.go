package application

import (
	"time"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID string
	Email  string
}

// Requester converts the principal into the domain read-access identity.
// A zero principal maps to an anonymous requester.
func (p Principal) Requester() domain.Requester {
	if p.UserID == "" {
		return domain.Requester{}
	}
	return domain.Requester{
		Authenticated: true,
		UserID:        p.UserID,
		Email:         p.Email,
	}
}

// RegisterParams carries a registration request.
type RegisterParams struct {
	Email    string
	Password string
}

// RegisterResult reports the identifier of the created account.
type RegisterResult struct {
	UserID string
}

// AuthenticateParams carries a login request.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult is the issued token plus the identity it encodes.
type AuthenticateResult struct {
	Token  string
	UserID string
	Email  string
}

// ScheduleInput captures caller provided schedule fields. SaveAsNew forces
// insertion of a fresh record even when the name collides with an existing
// one.
type ScheduleInput struct {
	Name       string
	Week       domain.WeekData
	Visibility domain.Visibility
	SharedWith []string
	SaveAsNew  bool
}

// Schedule is the service level view of a stored schedule. OwnerEmail is
// populated only by public listings.
type Schedule struct {
	ID         string
	OwnerID    string
	Name       string
	UniqueID   string
	Week       domain.WeekData
	Visibility domain.Visibility
	SharedWith []string
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EmojiLibraryInput captures caller provided library fields.
type EmojiLibraryInput struct {
	Name       string
	Entries    []domain.EmojiEntry
	Visibility domain.Visibility
	SharedWith []string
	SaveAsNew  bool
}

// EmojiLibrary is the service level view of a stored emoji library.
type EmojiLibrary struct {
	ID         string
	OwnerID    string
	Name       string
	UniqueID   string
	Entries    []domain.EmojiEntry
	Visibility domain.Visibility
	SharedWith []string
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MergeLibrariesParams identifies the two libraries of a merge. The target
// must be owned by the principal; the source only has to be visible.
type MergeLibrariesParams struct {
	SourceID string
	TargetID string
}

func scheduleFromPersistence(record persistence.Schedule) Schedule {
	return Schedule{
		ID:         record.ID,
		OwnerID:    record.UserID,
		Name:       record.Name,
		UniqueID:   record.UniqueID,
		Week:       record.Week,
		Visibility: record.Visibility,
		SharedWith: record.SharedWith,
		OwnerEmail: record.OwnerEmail,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func libraryFromPersistence(record persistence.EmojiLibrary) EmojiLibrary {
	return EmojiLibrary{
		ID:         record.ID,
		OwnerID:    record.UserID,
		Name:       record.Name,
		UniqueID:   record.UniqueID,
		Entries:    record.Entries,
		Visibility: record.Visibility,
		SharedWith: record.SharedWith,
		OwnerEmail: record.OwnerEmail,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}
