package persistence

import (
	"time"

	"github.com/example/emoji-scheduler/internal/domain"
)

// User represents a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserData is the combined snapshot a client pushes for offline-first sync.
// The payload is stored as a single document keyed by the owning user.
type UserData struct {
	UserID    string
	Payload   domain.UserData
	UpdatedAt time.Time
}

// Schedule represents a stored weekly schedule. UniqueID is the stable
// handle used for public and shared links. OwnerEmail is populated only
// by listing queries that join the owning user.
type Schedule struct {
	ID         string
	UserID     string
	Name       string
	UniqueID   string
	Week       domain.WeekData
	Visibility domain.Visibility
	SharedWith []string
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EmojiLibrary represents a stored emoji-to-activity mapping set.
type EmojiLibrary struct {
	ID         string
	UserID     string
	Name       string
	UniqueID   string
	Entries    []domain.EmojiEntry
	Visibility domain.Visibility
	SharedWith []string
	OwnerEmail string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
