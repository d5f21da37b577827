package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
	"github.com/example/emoji-scheduler/internal/testfixtures"
)

func seedUser(t *testing.T, harness *testfixtures.SQLiteHarness, opts ...testfixtures.UserOption) persistence.User {
	t.Helper()

	user := testfixtures.NewUserFixture(opts...).Persistence()
	if err := harness.Users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	t.Parallel()

	t.Run("creates and reads users", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness, testfixtures.WithUserEmail("alice@example.com"))

		fetched, err := harness.Users.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if fetched.Email != "alice@example.com" {
			t.Fatalf("GetUser email = %q, want alice@example.com", fetched.Email)
		}
		if fetched.PasswordHash != user.PasswordHash {
			t.Fatalf("GetUser hash = %q, want %q", fetched.PasswordHash, user.PasswordHash)
		}

		byEmail, err := harness.Users.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID {
			t.Fatalf("GetUserByEmail id = %q, want %q", byEmail.ID, user.ID)
		}
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		seedUser(t, harness, testfixtures.WithUserEmail("taken@example.com"))

		clash := testfixtures.NewUserFixture(testfixtures.WithUserEmail("taken@example.com")).Persistence()
		err := harness.Users.CreateUser(ctx, clash)
		if !errors.Is(err, persistence.ErrDuplicate) {
			t.Fatalf("CreateUser error = %v, want ErrDuplicate", err)
		}
	})

	t.Run("reports missing users", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)

		if _, err := harness.Users.GetUser(context.Background(), "nope"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("GetUser error = %v, want ErrNotFound", err)
		}
		if _, err := harness.Users.GetUserByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("GetUserByEmail error = %v, want ErrNotFound", err)
		}
	})
}

func TestUserDataRepository(t *testing.T) {
	t.Parallel()

	t.Run("round trips the snapshot document", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)
		payload := testfixtures.NewUserDataFixture()

		if err := harness.UserData.SaveUserData(ctx, persistence.UserData{UserID: user.ID, Payload: payload}); err != nil {
			t.Fatalf("SaveUserData failed: %v", err)
		}

		fetched, err := harness.UserData.GetUserData(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserData failed: %v", err)
		}
		if got := fetched.Payload.WeekSchedule["monday"][9].Emoji; got != "💻" {
			t.Fatalf("monday slot emoji = %q, want 💻", got)
		}
		if fetched.Payload.CurrentLibraryName != "My Library" {
			t.Fatalf("library name = %q, want My Library", fetched.Payload.CurrentLibraryName)
		}
		if fetched.UpdatedAt.IsZero() {
			t.Fatal("UpdatedAt was not stamped")
		}
	})

	t.Run("replaces the previous document on save", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)
		first := testfixtures.NewUserDataFixture()
		if err := harness.UserData.SaveUserData(ctx, persistence.UserData{UserID: user.ID, Payload: first}); err != nil {
			t.Fatalf("SaveUserData failed: %v", err)
		}

		second := testfixtures.NewUserDataFixture()
		second.CurrentLibraryName = "Weekend Library"
		if err := harness.UserData.SaveUserData(ctx, persistence.UserData{UserID: user.ID, Payload: second}); err != nil {
			t.Fatalf("second SaveUserData failed: %v", err)
		}

		fetched, err := harness.UserData.GetUserData(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserData failed: %v", err)
		}
		if fetched.Payload.CurrentLibraryName != "Weekend Library" {
			t.Fatalf("library name = %q, want Weekend Library", fetched.Payload.CurrentLibraryName)
		}
	})

	t.Run("reports missing documents", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)

		if _, err := harness.UserData.GetUserData(context.Background(), "nope"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("GetUserData error = %v, want ErrNotFound", err)
		}
	})
}

func TestScheduleRepositoryUpsert(t *testing.T) {
	t.Parallel()

	t.Run("repeated saves replace content and keep identity", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)
		first, err := harness.Schedules.UpsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(user.ID),
			testfixtures.WithScheduleName("My Schedule"),
		).Persistence())
		if err != nil {
			t.Fatalf("first UpsertSchedule failed: %v", err)
		}

		week := domain.DefaultWeek()
		week["friday"][18] = domain.Slot{Emoji: "🎮", Activity: "Gaming"}

		second, err := harness.Schedules.UpsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(user.ID),
			testfixtures.WithScheduleName("My Schedule"),
			testfixtures.WithScheduleWeek(week),
			testfixtures.WithScheduleVisibility(domain.VisibilityShared),
			testfixtures.WithScheduleSharedWith("friend@example.com"),
		).Persistence())
		if err != nil {
			t.Fatalf("second UpsertSchedule failed: %v", err)
		}

		if second.ID != first.ID {
			t.Fatalf("upsert changed ID: %q -> %q", first.ID, second.ID)
		}
		if second.UniqueID != first.UniqueID {
			t.Fatalf("upsert changed UniqueID: %q -> %q", first.UniqueID, second.UniqueID)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Fatalf("upsert changed CreatedAt: %v -> %v", first.CreatedAt, second.CreatedAt)
		}
		if second.UpdatedAt.Before(first.UpdatedAt) {
			t.Fatalf("UpdatedAt went backwards: %v -> %v", first.UpdatedAt, second.UpdatedAt)
		}
		if second.Visibility != domain.VisibilityShared {
			t.Fatalf("visibility = %q, want shared", second.Visibility)
		}

		fetched, err := harness.Schedules.GetSchedule(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetSchedule failed: %v", err)
		}
		if got := fetched.Week["friday"][18].Activity; got != "Gaming" {
			t.Fatalf("friday slot activity = %q, want Gaming", got)
		}
		if len(fetched.SharedWith) != 1 || fetched.SharedWith[0] != "friend@example.com" {
			t.Fatalf("SharedWith = %v, want [friend@example.com]", fetched.SharedWith)
		}

		all, err := harness.Schedules.ListSchedulesForUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListSchedulesForUser failed: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("got %d schedules, want 1", len(all))
		}
	})

	t.Run("insert allows duplicate names and upsert targets the newest", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)

		older, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(user.ID),
			testfixtures.WithScheduleName("Training"),
		).Persistence())
		if err != nil {
			t.Fatalf("first InsertSchedule failed: %v", err)
		}

		newer, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(user.ID),
			testfixtures.WithScheduleName("Training"),
		).Persistence())
		if err != nil {
			t.Fatalf("second InsertSchedule failed: %v", err)
		}
		if newer.ID == older.ID {
			t.Fatal("insert reused an existing ID")
		}

		all, err := harness.Schedules.ListSchedulesForUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListSchedulesForUser failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("got %d schedules, want 2", len(all))
		}

		// With equal timestamps the upsert target is the row with the lowest ID;
		// either way the duplicate pair must not grow.
		upserted, err := harness.Schedules.UpsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(user.ID),
			testfixtures.WithScheduleName("Training"),
			testfixtures.WithScheduleVisibility(domain.VisibilityPublic),
		).Persistence())
		if err != nil {
			t.Fatalf("UpsertSchedule failed: %v", err)
		}
		if upserted.ID != older.ID && upserted.ID != newer.ID {
			t.Fatalf("upsert created a third row: %q", upserted.ID)
		}

		all, err = harness.Schedules.ListSchedulesForUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListSchedulesForUser failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("got %d schedules after upsert, want 2", len(all))
		}
	})

	t.Run("rejects rows without owner or name", func(t *testing.T) {
		t.Parallel()

		harness := testfixtures.NewSQLiteHarness(t)

		_, err := harness.Schedules.UpsertSchedule(context.Background(), persistence.Schedule{Name: "Orphan"})
		if !errors.Is(err, persistence.ErrConstraintViolation) {
			t.Fatalf("UpsertSchedule error = %v, want ErrConstraintViolation", err)
		}
	})
}

func TestScheduleRepositoryLookups(t *testing.T) {
	t.Parallel()

	t.Run("finds schedules by share handle", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)
		stored, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(user.ID),
			testfixtures.WithScheduleUniqueID("abcd1234"),
		).Persistence())
		if err != nil {
			t.Fatalf("InsertSchedule failed: %v", err)
		}

		fetched, err := harness.Schedules.GetScheduleByUniqueID(ctx, "abcd1234")
		if err != nil {
			t.Fatalf("GetScheduleByUniqueID failed: %v", err)
		}
		if fetched.ID != stored.ID {
			t.Fatalf("share lookup id = %q, want %q", fetched.ID, stored.ID)
		}

		if _, err := harness.Schedules.GetScheduleByUniqueID(ctx, "missing0"); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("GetScheduleByUniqueID error = %v, want ErrNotFound", err)
		}
	})

	t.Run("lists public schedules with the owner email", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		owner := seedUser(t, harness, testfixtures.WithUserEmail("owner@example.com"))

		if _, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(owner.ID),
			testfixtures.WithScheduleName("Morning Run"),
			testfixtures.WithScheduleVisibility(domain.VisibilityPublic),
		).Persistence()); err != nil {
			t.Fatalf("InsertSchedule failed: %v", err)
		}
		if _, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(owner.ID),
			testfixtures.WithScheduleName("Private Plans"),
		).Persistence()); err != nil {
			t.Fatalf("InsertSchedule failed: %v", err)
		}

		listed, err := harness.Schedules.ListPublicSchedules(ctx, "")
		if err != nil {
			t.Fatalf("ListPublicSchedules failed: %v", err)
		}
		if len(listed) != 1 {
			t.Fatalf("got %d public schedules, want 1", len(listed))
		}
		if listed[0].Name != "Morning Run" {
			t.Fatalf("public schedule name = %q, want Morning Run", listed[0].Name)
		}
		if listed[0].OwnerEmail != "owner@example.com" {
			t.Fatalf("owner email = %q, want owner@example.com", listed[0].OwnerEmail)
		}

		matched, err := harness.Schedules.ListPublicSchedules(ctx, "run")
		if err != nil {
			t.Fatalf("ListPublicSchedules search failed: %v", err)
		}
		if len(matched) != 1 {
			t.Fatalf("search got %d schedules, want 1", len(matched))
		}

		none, err := harness.Schedules.ListPublicSchedules(ctx, "yoga")
		if err != nil {
			t.Fatalf("ListPublicSchedules search failed: %v", err)
		}
		if len(none) != 0 {
			t.Fatalf("search got %d schedules, want 0", len(none))
		}
	})
}

func TestScheduleRepositoryOwnerScoping(t *testing.T) {
	t.Parallel()

	t.Run("updates are limited to the owner", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		owner := seedUser(t, harness)
		intruder := seedUser(t, harness)

		stored, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(owner.ID),
		).Persistence())
		if err != nil {
			t.Fatalf("InsertSchedule failed: %v", err)
		}

		hijack := stored
		hijack.UserID = intruder.ID
		hijack.Name = "Stolen"
		if _, err := harness.Schedules.UpdateSchedule(ctx, hijack); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("foreign UpdateSchedule error = %v, want ErrNotFound", err)
		}

		renamed := stored
		renamed.Name = "Renamed"
		updated, err := harness.Schedules.UpdateSchedule(ctx, renamed)
		if err != nil {
			t.Fatalf("UpdateSchedule failed: %v", err)
		}
		if updated.Name != "Renamed" {
			t.Fatalf("updated name = %q, want Renamed", updated.Name)
		}
	})

	t.Run("deletes are limited to the owner", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		owner := seedUser(t, harness)
		intruder := seedUser(t, harness)

		stored, err := harness.Schedules.InsertSchedule(ctx, testfixtures.NewScheduleFixture(
			testfixtures.WithScheduleOwner(owner.ID),
		).Persistence())
		if err != nil {
			t.Fatalf("InsertSchedule failed: %v", err)
		}

		if err := harness.Schedules.DeleteSchedule(ctx, stored.ID, intruder.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("foreign DeleteSchedule error = %v, want ErrNotFound", err)
		}
		if err := harness.Schedules.DeleteSchedule(ctx, stored.ID, owner.ID); err != nil {
			t.Fatalf("DeleteSchedule failed: %v", err)
		}
		if _, err := harness.Schedules.GetSchedule(ctx, stored.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("GetSchedule after delete error = %v, want ErrNotFound", err)
		}
	})
}

func TestEmojiLibraryRepository(t *testing.T) {
	t.Parallel()

	t.Run("upsert replaces entries and keeps identity", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)
		first, err := harness.Libraries.UpsertLibrary(ctx, testfixtures.NewLibraryFixture(
			testfixtures.WithLibraryOwner(user.ID),
			testfixtures.WithLibraryName("My Library"),
		).Persistence())
		if err != nil {
			t.Fatalf("first UpsertLibrary failed: %v", err)
		}

		second, err := harness.Libraries.UpsertLibrary(ctx, testfixtures.NewLibraryFixture(
			testfixtures.WithLibraryOwner(user.ID),
			testfixtures.WithLibraryName("My Library"),
			testfixtures.WithLibraryEntries(domain.EmojiEntry{Emoji: "🎸", Activity: "Guitar"}),
		).Persistence())
		if err != nil {
			t.Fatalf("second UpsertLibrary failed: %v", err)
		}

		if second.ID != first.ID || second.UniqueID != first.UniqueID {
			t.Fatalf("upsert changed identity: %q/%q -> %q/%q", first.ID, first.UniqueID, second.ID, second.UniqueID)
		}

		fetched, err := harness.Libraries.GetLibrary(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetLibrary failed: %v", err)
		}
		if len(fetched.Entries) != 1 || fetched.Entries[0].Activity != "Guitar" {
			t.Fatalf("entries = %v, want single Guitar entry", fetched.Entries)
		}
	})

	t.Run("lists public libraries and scopes deletes", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		owner := seedUser(t, harness, testfixtures.WithUserEmail("curator@example.com"))
		other := seedUser(t, harness)

		stored, err := harness.Libraries.InsertLibrary(ctx, testfixtures.NewLibraryFixture(
			testfixtures.WithLibraryOwner(owner.ID),
			testfixtures.WithLibraryName("Fitness Icons"),
			testfixtures.WithLibraryVisibility(domain.VisibilityPublic),
		).Persistence())
		if err != nil {
			t.Fatalf("InsertLibrary failed: %v", err)
		}

		listed, err := harness.Libraries.ListPublicLibraries(ctx, "fitness")
		if err != nil {
			t.Fatalf("ListPublicLibraries failed: %v", err)
		}
		if len(listed) != 1 || listed[0].OwnerEmail != "curator@example.com" {
			t.Fatalf("public listing = %+v, want one row owned by curator@example.com", listed)
		}

		if err := harness.Libraries.DeleteLibrary(ctx, stored.ID, other.ID); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("foreign DeleteLibrary error = %v, want ErrNotFound", err)
		}
		if err := harness.Libraries.DeleteLibrary(ctx, stored.ID, owner.ID); err != nil {
			t.Fatalf("DeleteLibrary failed: %v", err)
		}
	})

	t.Run("finds libraries by share handle", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		harness := testfixtures.NewSQLiteHarness(t)

		user := seedUser(t, harness)
		stored, err := harness.Libraries.InsertLibrary(ctx, testfixtures.NewLibraryFixture(
			testfixtures.WithLibraryOwner(user.ID),
			testfixtures.WithLibraryUniqueID("feedbeef"),
		).Persistence())
		if err != nil {
			t.Fatalf("InsertLibrary failed: %v", err)
		}

		fetched, err := harness.Libraries.GetLibraryByUniqueID(ctx, "feedbeef")
		if err != nil {
			t.Fatalf("GetLibraryByUniqueID failed: %v", err)
		}
		if fetched.ID != stored.ID {
			t.Fatalf("share lookup id = %q, want %q", fetched.ID, stored.ID)
		}
	})
}
