package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/emoji-scheduler/internal/persistence"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]persistence.User

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]persistence.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user persistence.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return persistence.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (persistence.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (persistence.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return persistence.User{}, persistence.ErrNotFound
}

func newTestAuthService(users persistence.UserRepository) *AuthService {
	service := NewAuthService(users, NewTokenManager([]byte("test-secret"), "emoji-scheduler", time.Hour))
	// Plain comparisons keep the tests fast; hashing itself is covered by
	// the password tests.
	service.hashPassword = func(password string) (string, error) { return "hashed:" + password, nil }
	service.verifyPassword = func(hash, password string) error {
		if hash != "hashed:"+password {
			return errors.New("mismatch")
		}
		return nil
	}
	return service
}

func TestAuthServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates an account with a normalized email", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserRepo()
		service := newTestAuthService(users)

		result, err := service.Register(context.Background(), RegisterParams{
			Email:    "  Alice@Example.com ",
			Password: "secret123",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if result.UserID == "" {
			t.Fatal("Register returned an empty user ID")
		}

		stored, err := users.GetUser(context.Background(), result.UserID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if stored.Email != "alice@example.com" {
			t.Fatalf("stored email = %q, want alice@example.com", stored.Email)
		}
	})

	t.Run("reports duplicate emails as ErrAlreadyExists", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserRepo()
		service := newTestAuthService(users)

		if _, err := service.Register(context.Background(), RegisterParams{Email: "taken@example.com", Password: "secret123"}); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		_, err := service.Register(context.Background(), RegisterParams{Email: "taken@example.com", Password: "secret456"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("Register error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("validates credentials", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name     string
			email    string
			password string
			field    string
		}{
			{name: "missing email", email: "", password: "secret123", field: "email"},
			{name: "email without at sign", email: "alice.example.com", password: "secret123", field: "email"},
			{name: "missing password", email: "alice@example.com", password: "", field: "password"},
			{name: "short password", email: "alice@example.com", password: "tiny", field: "password"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				service := newTestAuthService(newFakeUserRepo())
				_, err := service.Register(context.Background(), RegisterParams{Email: tt.email, Password: tt.password})

				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Fatalf("Register error = %v, want ValidationError", err)
				}
				if _, ok := vErr.FieldErrors[tt.field]; !ok {
					t.Fatalf("FieldErrors = %v, want an entry for %q", vErr.FieldErrors, tt.field)
				}
			})
		}
	})
}

func TestAuthServiceAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("issues a verifiable token for valid credentials", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserRepo()
		service := newTestAuthService(users)

		registered, err := service.Register(context.Background(), RegisterParams{Email: "alice@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		result, err := service.Authenticate(context.Background(), AuthenticateParams{Email: "Alice@example.com", Password: "secret123"})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if result.UserID != registered.UserID {
			t.Fatalf("result.UserID = %q, want %q", result.UserID, registered.UserID)
		}
		if result.Email != "alice@example.com" {
			t.Fatalf("result.Email = %q, want alice@example.com", result.Email)
		}

		principal, err := service.VerifyToken(context.Background(), result.Token)
		if err != nil {
			t.Fatalf("VerifyToken failed: %v", err)
		}
		if principal.UserID != registered.UserID || principal.Email != "alice@example.com" {
			t.Fatalf("principal = %+v, want the registered identity", principal)
		}
	})

	t.Run("rejects bad credentials uniformly", func(t *testing.T) {
		t.Parallel()

		users := newFakeUserRepo()
		service := newTestAuthService(users)

		if _, err := service.Register(context.Background(), RegisterParams{Email: "alice@example.com", Password: "secret123"}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		tests := []struct {
			name     string
			email    string
			password string
		}{
			{name: "wrong password", email: "alice@example.com", password: "wrong12345"},
			{name: "unknown account", email: "nobody@example.com", password: "secret123"},
			{name: "empty password", email: "alice@example.com", password: ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := service.Authenticate(context.Background(), AuthenticateParams{Email: tt.email, Password: tt.password})
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("Authenticate error = %v, want ErrInvalidCredentials", err)
				}
			})
		}
	})

	t.Run("rejects tampered tokens", func(t *testing.T) {
		t.Parallel()

		service := newTestAuthService(newFakeUserRepo())

		if _, err := service.VerifyToken(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("VerifyToken error = %v, want ErrInvalidToken", err)
		}
	})
}
