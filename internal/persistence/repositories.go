package persistence

import "context"

// UserRepository exposes account storage operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// UserDataRepository stores the per-user combined snapshot document.
type UserDataRepository interface {
	GetUserData(ctx context.Context, userID string) (UserData, error)
	SaveUserData(ctx context.Context, data UserData) error
}

// ScheduleRepository stores weekly schedules. UpsertSchedule is keyed by
// (UserID, Name): repeated saves of the same name replace the content of
// the existing row while keeping its ID and UniqueID. InsertSchedule
// always creates a new row, even when the name collides with an existing
// one, so an owner can hold several records with the same name.
type ScheduleRepository interface {
	UpsertSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	InsertSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	GetSchedule(ctx context.Context, id string) (Schedule, error)
	GetScheduleByUniqueID(ctx context.Context, uniqueID string) (Schedule, error)
	ListSchedulesForUser(ctx context.Context, userID string) ([]Schedule, error)
	ListPublicSchedules(ctx context.Context, search string) ([]Schedule, error)
	UpdateSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id, userID string) error
}

// EmojiLibraryRepository stores emoji libraries with the same keying and
// sharing rules as schedules.
type EmojiLibraryRepository interface {
	UpsertLibrary(ctx context.Context, library EmojiLibrary) (EmojiLibrary, error)
	InsertLibrary(ctx context.Context, library EmojiLibrary) (EmojiLibrary, error)
	GetLibrary(ctx context.Context, id string) (EmojiLibrary, error)
	GetLibraryByUniqueID(ctx context.Context, uniqueID string) (EmojiLibrary, error)
	ListLibrariesForUser(ctx context.Context, userID string) ([]EmojiLibrary, error)
	ListPublicLibraries(ctx context.Context, search string) ([]EmojiLibrary, error)
	UpdateLibrary(ctx context.Context, library EmojiLibrary) (EmojiLibrary, error)
	DeleteLibrary(ctx context.Context, id, userID string) error
}
