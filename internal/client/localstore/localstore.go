// Package localstore keeps the on-device snapshot of the week schedule and
// emoji library, so anonymous edits survive restarts and can be migrated to
// an account on login.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/example/emoji-scheduler/internal/domain"
)

const snapshotKey = "current"

// ErrNoSnapshot is returned by Latest when nothing has been stored yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// StorageError wraps a failure of the underlying disk store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("local store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Snapshot is the single document the store holds. UpdatedAt is stamped on
// every Put.
type Snapshot struct {
	WeekData           domain.WeekData     `json:"weekData"`
	EmojiLibrary       []domain.EmojiEntry `json:"emojiLibrary"`
	CurrentLibraryID   string              `json:"currentLibraryId"`
	CurrentLibraryName string              `json:"currentLibraryName"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// IsEmpty reports whether the snapshot carries nothing worth migrating.
func (s Snapshot) IsEmpty() bool {
	return s.WeekData.IsEmpty() && len(s.EmojiLibrary) == 0
}

// UserData converts the snapshot to the wire payload of the user-data
// endpoints.
func (s Snapshot) UserData() domain.UserData {
	return domain.UserData{
		WeekSchedule:       s.WeekData,
		EmojiLibrary:       s.EmojiLibrary,
		CurrentLibraryID:   s.CurrentLibraryID,
		CurrentLibraryName: s.CurrentLibraryName,
	}
}

// FromUserData builds a snapshot from a wire payload. UpdatedAt is left for
// Put to stamp.
func FromUserData(data domain.UserData) Snapshot {
	return Snapshot{
		WeekData:           data.WeekSchedule,
		EmojiLibrary:       data.EmojiLibrary,
		CurrentLibraryID:   data.CurrentLibraryID,
		CurrentLibraryName: data.CurrentLibraryName,
	}
}

// Store is a diskv backed single-slot snapshot store.
type Store struct {
	d   *diskv.Diskv
	now func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithNow overrides the clock used to stamp UpdatedAt.
func WithNow(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates a Store rooted at baseDir.
func Open(baseDir string, opts ...Option) *Store {
	s := &Store{
		d: diskv.New(diskv.Options{
			BasePath:     baseDir,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put replaces the stored snapshot. The week grid is normalized and the
// library deduplicated before writing, and UpdatedAt is refreshed.
func (s *Store) Put(snapshot Snapshot) (Snapshot, error) {
	snapshot.WeekData = snapshot.WeekData.Normalize()
	snapshot.EmojiLibrary = domain.DedupeEntries(snapshot.EmojiLibrary)
	snapshot.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return Snapshot{}, &StorageError{Op: "encode", Err: err}
	}
	if err := s.d.Write(snapshotKey, data); err != nil {
		return Snapshot{}, &StorageError{Op: "write", Err: err}
	}
	return snapshot, nil
}

// Latest returns the stored snapshot, or ErrNoSnapshot when the slot is
// empty.
func (s *Store) Latest() (Snapshot, error) {
	data, err := s.d.Read(snapshotKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, &StorageError{Op: "read", Err: err}
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, &StorageError{Op: "decode", Err: err}
	}
	snapshot.WeekData = snapshot.WeekData.Normalize()
	return snapshot, nil
}

// Clear erases the stored snapshot. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if err := s.d.Erase(snapshotKey); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &StorageError{Op: "erase", Err: err}
	}
	return nil
}
