package testfixtures

import (
	"path/filepath"
	"testing"

	"github.com/example/emoji-scheduler/internal/persistence"
	"github.com/example/emoji-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Users     persistence.UserRepository
	UserData  persistence.UserDataRepository
	Schedules persistence.ScheduleRepository
	Libraries persistence.EmojiLibraryRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary database
// file. Open applies migrations, so the harness is ready for use
// immediately. Cleanup is registered with the provided testing.TB; calling
// Close earlier is harmless.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "emoji-scheduler.db")

	pool, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	harness := &SQLiteHarness{
		Users:     sqlite.NewUserRepository(pool),
		UserData:  sqlite.NewUserDataRepository(pool),
		Schedules: sqlite.NewScheduleRepository(pool),
		Libraries: sqlite.NewEmojiLibraryRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
