package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

var (
	userCounter     uint64
	scheduleCounter uint64
	libraryCounter  uint64
)

var referenceTime = time.Date(2026, time.March, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture is a deterministic user record for persistence and service
// tests.
type UserFixture struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// --------------------------- Schedule fixtures ---------------------------

// ScheduleFixture is a deterministic schedule record.
type ScheduleFixture struct {
	ID         string
	UserID     string
	Name       string
	UniqueID   string
	Week       domain.WeekData
	Visibility domain.Visibility
	SharedWith []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ScheduleOption configures the generated schedule fixture.
type ScheduleOption func(*ScheduleFixture)

// NewScheduleFixture returns a deterministic schedule fixture with optional
// overrides.
func NewScheduleFixture(opts ...ScheduleOption) ScheduleFixture {
	idx := atomic.AddUint64(&scheduleCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := ScheduleFixture{
		ID:         fmt.Sprintf("schedule-%03d", idx),
		UserID:     fmt.Sprintf("user-%03d", idx),
		Name:       fmt.Sprintf("Schedule %03d", idx),
		UniqueID:   fmt.Sprintf("share%03d", idx),
		Week:       domain.DefaultWeek(),
		Visibility: domain.VisibilityPrivate,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithScheduleID overrides the schedule ID.
func WithScheduleID(id string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.ID = id
	}
}

// WithScheduleOwner sets the owning user ID.
func WithScheduleOwner(userID string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.UserID = userID
	}
}

// WithScheduleName overrides the name.
func WithScheduleName(name string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.Name = name
	}
}

// WithScheduleUniqueID overrides the share id.
func WithScheduleUniqueID(uniqueID string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.UniqueID = uniqueID
	}
}

// WithScheduleWeek sets the week grid.
func WithScheduleWeek(week domain.WeekData) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.Week = week.Clone()
	}
}

// WithScheduleVisibility sets the visibility tier.
func WithScheduleVisibility(visibility domain.Visibility) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.Visibility = visibility
	}
}

// WithScheduleSharedWith sets the shared-with list.
func WithScheduleSharedWith(emails ...string) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.SharedWith = append([]string(nil), emails...)
	}
}

// Persistence returns the fixture as a persistence.Schedule value.
func (f ScheduleFixture) Persistence() persistence.Schedule {
	return persistence.Schedule{
		ID:         f.ID,
		UserID:     f.UserID,
		Name:       f.Name,
		UniqueID:   f.UniqueID,
		Week:       f.Week.Clone(),
		Visibility: f.Visibility,
		SharedWith: append([]string(nil), f.SharedWith...),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// ----------------------------- Library fixtures --------------------------

// LibraryFixture is a deterministic emoji library record.
type LibraryFixture struct {
	ID         string
	UserID     string
	Name       string
	UniqueID   string
	Entries    []domain.EmojiEntry
	Visibility domain.Visibility
	SharedWith []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LibraryOption configures the generated library fixture.
type LibraryOption func(*LibraryFixture)

// NewLibraryFixture returns a deterministic library fixture with optional
// overrides.
func NewLibraryFixture(opts ...LibraryOption) LibraryFixture {
	idx := atomic.AddUint64(&libraryCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := LibraryFixture{
		ID:         fmt.Sprintf("library-%03d", idx),
		UserID:     fmt.Sprintf("user-%03d", idx),
		Name:       fmt.Sprintf("Library %03d", idx),
		UniqueID:   fmt.Sprintf("libshare%03d", idx),
		Entries:    domain.DefaultLibrary(),
		Visibility: domain.VisibilityPrivate,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithLibraryID overrides the library ID.
func WithLibraryID(id string) LibraryOption {
	return func(f *LibraryFixture) {
		f.ID = id
	}
}

// WithLibraryOwner sets the owning user ID.
func WithLibraryOwner(userID string) LibraryOption {
	return func(f *LibraryFixture) {
		f.UserID = userID
	}
}

// WithLibraryName overrides the name.
func WithLibraryName(name string) LibraryOption {
	return func(f *LibraryFixture) {
		f.Name = name
	}
}

// WithLibraryUniqueID overrides the share id.
func WithLibraryUniqueID(uniqueID string) LibraryOption {
	return func(f *LibraryFixture) {
		f.UniqueID = uniqueID
	}
}

// WithLibraryEntries sets the entry list.
func WithLibraryEntries(entries ...domain.EmojiEntry) LibraryOption {
	return func(f *LibraryFixture) {
		f.Entries = append([]domain.EmojiEntry(nil), entries...)
	}
}

// WithLibraryVisibility sets the visibility tier.
func WithLibraryVisibility(visibility domain.Visibility) LibraryOption {
	return func(f *LibraryFixture) {
		f.Visibility = visibility
	}
}

// WithLibrarySharedWith sets the shared-with list.
func WithLibrarySharedWith(emails ...string) LibraryOption {
	return func(f *LibraryFixture) {
		f.SharedWith = append([]string(nil), emails...)
	}
}

// Persistence returns the fixture as a persistence.EmojiLibrary value.
func (f LibraryFixture) Persistence() persistence.EmojiLibrary {
	return persistence.EmojiLibrary{
		ID:         f.ID,
		UserID:     f.UserID,
		Name:       f.Name,
		UniqueID:   f.UniqueID,
		Entries:    append([]domain.EmojiEntry(nil), f.Entries...),
		Visibility: f.Visibility,
		SharedWith: append([]string(nil), f.SharedWith...),
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

// NewUserDataFixture returns a small but non-empty user data payload.
func NewUserDataFixture() domain.UserData {
	week := domain.DefaultWeek()
	week["monday"][9] = domain.Slot{Emoji: "💻", Activity: "Coding"}
	return domain.UserData{
		WeekSchedule:       week,
		EmojiLibrary:       domain.DefaultLibrary(),
		CurrentLibraryName: "My Library",
	}
}
