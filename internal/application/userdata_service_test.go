package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

type fakeUserDataRepo struct {
	mu   sync.Mutex
	docs map[string]persistence.UserData

	saveErr error
}

func newFakeUserDataRepo() *fakeUserDataRepo {
	return &fakeUserDataRepo{docs: make(map[string]persistence.UserData)}
}

func (r *fakeUserDataRepo) GetUserData(_ context.Context, userID string) (persistence.UserData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[userID]
	if !ok {
		return persistence.UserData{}, persistence.ErrNotFound
	}
	return doc, nil
}

func (r *fakeUserDataRepo) SaveUserData(_ context.Context, data persistence.UserData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	r.docs[data.UserID] = data
	return nil
}

func TestUserDataServiceGet(t *testing.T) {
	t.Parallel()

	alice := Principal{UserID: "user-1", Email: "alice@example.com"}

	t.Run("returns an empty payload for fresh accounts", func(t *testing.T) {
		t.Parallel()

		service := NewUserDataService(newFakeUserDataRepo())

		data, err := service.Get(context.Background(), alice)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !data.IsEmpty() {
			t.Fatalf("fresh account payload = %+v, want empty", data)
		}
	})

	t.Run("returns the stored payload", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserDataRepo()
		service := NewUserDataService(repo)

		week := domain.DefaultWeek()
		week["tuesday"][8] = domain.Slot{Emoji: "📚", Activity: "Reading"}
		if err := service.Save(context.Background(), alice, domain.UserData{WeekSchedule: week}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		data, err := service.Get(context.Background(), alice)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got := data.WeekSchedule["tuesday"][8].Activity; got != "Reading" {
			t.Fatalf("tuesday slot activity = %q, want Reading", got)
		}
	})

	t.Run("rejects anonymous callers", func(t *testing.T) {
		t.Parallel()

		service := NewUserDataService(newFakeUserDataRepo())
		if _, err := service.Get(context.Background(), Principal{}); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("Get error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestUserDataServiceSave(t *testing.T) {
	t.Parallel()

	alice := Principal{UserID: "user-1", Email: "alice@example.com"}

	t.Run("normalizes the week and dedupes the library", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserDataRepo()
		service := NewUserDataService(repo)

		err := service.Save(context.Background(), alice, domain.UserData{
			WeekSchedule: domain.WeekData{"monday": []domain.Slot{{Emoji: "💻", Activity: "Coding"}}},
			EmojiLibrary: []domain.EmojiEntry{
				{Emoji: "💻", Activity: "Coding"},
				{Emoji: "💻", Activity: "Hacking"},
			},
		})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		stored := repo.docs[alice.UserID].Payload
		if len(stored.WeekSchedule) != len(domain.DayKeys) {
			t.Fatalf("stored week has %d days, want %d", len(stored.WeekSchedule), len(domain.DayKeys))
		}
		if len(stored.WeekSchedule["monday"]) != domain.SlotsPerDay {
			t.Fatalf("monday has %d slots, want %d", len(stored.WeekSchedule["monday"]), domain.SlotsPerDay)
		}
		if len(stored.EmojiLibrary) != 1 || stored.EmojiLibrary[0].Activity != "Coding" {
			t.Fatalf("stored library = %v, want the first Coding entry only", stored.EmojiLibrary)
		}
	})

	t.Run("surfaces repository failures", func(t *testing.T) {
		t.Parallel()

		repo := newFakeUserDataRepo()
		repo.saveErr = errors.New("disk full")
		service := NewUserDataService(repo)

		if err := service.Save(context.Background(), alice, domain.UserData{}); err == nil {
			t.Fatal("Save succeeded, want an error")
		}
	})
}
