package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/emoji-scheduler/internal/application"
	"github.com/example/emoji-scheduler/internal/domain"
)

type stubAuthService struct {
	registerResult application.RegisterResult
	registerErr    error
	authResult     application.AuthenticateResult
	authErr        error
}

func (s *stubAuthService) Register(ctx context.Context, params application.RegisterParams) (application.RegisterResult, error) {
	return s.registerResult, s.registerErr
}

func (s *stubAuthService) Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error) {
	return s.authResult, s.authErr
}

type stubVerifier struct {
	principal application.Principal
	err       error
}

func (s *stubVerifier) VerifyToken(ctx context.Context, token string) (application.Principal, error) {
	if s.err != nil {
		return application.Principal{}, s.err
	}
	return s.principal, nil
}

type stubScheduleService struct {
	saved     application.Schedule
	saveInput application.ScheduleInput
	listed    []application.Schedule
	shared    application.Schedule
	sharedErr error
}

func (s *stubScheduleService) Save(ctx context.Context, principal application.Principal, input application.ScheduleInput) (application.Schedule, error) {
	s.saveInput = input
	return s.saved, nil
}

func (s *stubScheduleService) Get(ctx context.Context, principal application.Principal, scheduleID string) (application.Schedule, error) {
	return s.saved, nil
}

func (s *stubScheduleService) GetByUniqueID(ctx context.Context, principal application.Principal, uniqueID string) (application.Schedule, error) {
	if s.sharedErr != nil {
		return application.Schedule{}, s.sharedErr
	}
	return s.shared, nil
}

func (s *stubScheduleService) ListMine(ctx context.Context, principal application.Principal) ([]application.Schedule, error) {
	return s.listed, nil
}

func (s *stubScheduleService) ListPublic(ctx context.Context, search string) ([]application.Schedule, error) {
	return s.listed, nil
}

func (s *stubScheduleService) Update(ctx context.Context, principal application.Principal, scheduleID string, input application.ScheduleInput) (application.Schedule, error) {
	s.saveInput = input
	return s.saved, nil
}

func (s *stubScheduleService) Delete(ctx context.Context, principal application.Principal, scheduleID string) error {
	return nil
}

type stubLibraryService struct {
	merged      application.EmojiLibrary
	mergeParams application.MergeLibrariesParams
	mergeErr    error
}

func (s *stubLibraryService) Save(ctx context.Context, principal application.Principal, input application.EmojiLibraryInput) (application.EmojiLibrary, error) {
	return s.merged, nil
}

func (s *stubLibraryService) Get(ctx context.Context, principal application.Principal, libraryID string) (application.EmojiLibrary, error) {
	return s.merged, nil
}

func (s *stubLibraryService) GetByUniqueID(ctx context.Context, principal application.Principal, uniqueID string) (application.EmojiLibrary, error) {
	return s.merged, nil
}

func (s *stubLibraryService) ListMine(ctx context.Context, principal application.Principal) ([]application.EmojiLibrary, error) {
	return nil, nil
}

func (s *stubLibraryService) ListPublic(ctx context.Context, search string) ([]application.EmojiLibrary, error) {
	return nil, nil
}

func (s *stubLibraryService) Update(ctx context.Context, principal application.Principal, libraryID string, input application.EmojiLibraryInput) (application.EmojiLibrary, error) {
	return s.merged, nil
}

func (s *stubLibraryService) Delete(ctx context.Context, principal application.Principal, libraryID string) error {
	return nil
}

func (s *stubLibraryService) Merge(ctx context.Context, principal application.Principal, params application.MergeLibrariesParams) (application.EmojiLibrary, error) {
	s.mergeParams = params
	if s.mergeErr != nil {
		return application.EmojiLibrary{}, s.mergeErr
	}
	return s.merged, nil
}

type stubUserDataService struct {
	data  domain.UserData
	saved domain.UserData
}

func (s *stubUserDataService) Get(ctx context.Context, principal application.Principal) (domain.UserData, error) {
	return s.data, nil
}

func (s *stubUserDataService) Save(ctx context.Context, principal application.Principal, data domain.UserData) error {
	s.saved = data
	return nil
}

func testRouter(t *testing.T, auth *stubAuthService, schedules *stubScheduleService, libraries *stubLibraryService, userData *stubUserDataService, verifier TokenVerifier) http.Handler {
	t.Helper()

	cfg := RouterConfig{Verifier: verifier}
	if auth != nil {
		cfg.Auth = NewAuthHandler(auth, nil)
	}
	if schedules != nil {
		cfg.Schedules = NewScheduleHandler(schedules, nil)
	}
	if libraries != nil {
		cfg.Libraries = NewLibraryHandler(libraries, nil)
	}
	if userData != nil {
		cfg.UserData = NewUserDataHandler(userData, nil)
	}
	return NewRouter(cfg)
}

func TestAuthHandlerRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		service    *stubAuthService
		wantStatus int
	}{
		{
			name:       "created",
			body:       `{"email":"alice@example.com","password":"secret1"}`,
			service:    &stubAuthService{registerResult: application.RegisterResult{UserID: "user-1"}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			body:       `{"email":"alice@example.com","password":"secret1"}`,
			service:    &stubAuthService{registerErr: application.ErrAlreadyExists},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			service:    &stubAuthService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := testRouter(t, tc.service, nil, nil, nil, &stubVerifier{})
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus == http.StatusCreated {
				var resp registerResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.ID != "user-1" {
					t.Errorf("id = %q, want %q", resp.ID, "user-1")
				}
				if resp.Message == "" {
					t.Error("expected a confirmation message")
				}
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		service := &stubAuthService{authResult: application.AuthenticateResult{
			Token:  "signed-token",
			UserID: "user-1",
			Email:  "alice@example.com",
		}}
		router := testRouter(t, service, nil, nil, nil, &stubVerifier{})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"secret1"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		var resp loginResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Token != "signed-token" || resp.UserID != "user-1" || resp.Email != "alice@example.com" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()

		service := &stubAuthService{authErr: application.ErrInvalidCredentials}
		router := testRouter(t, service, nil, nil, nil, &stubVerifier{})

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		var resp errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ErrorCode != "AUTH_INVALID_CREDENTIALS" {
			t.Errorf("error_code = %q, want AUTH_INVALID_CREDENTIALS", resp.ErrorCode)
		}
	})
}

func TestScheduleHandlerSaveForwardsInput(t *testing.T) {
	t.Parallel()

	service := &stubScheduleService{saved: application.Schedule{
		ID:         "sched-1",
		Name:       "Work Week",
		UniqueID:   "abcd1234",
		Visibility: domain.VisibilityPublic,
	}}
	verifier := &stubVerifier{principal: application.Principal{UserID: "user-1", Email: "alice@example.com"}}
	router := testRouter(t, nil, service, nil, nil, verifier)

	body := `{"name":"Work Week","visibility":"public","sharedWith":["bob@example.com"],"saveAsNew":true}`
	req := httptest.NewRequest(http.MethodPost, "/schedules/", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !service.saveInput.SaveAsNew {
		t.Error("saveAsNew was not forwarded")
	}
	if service.saveInput.Visibility != domain.VisibilityPublic {
		t.Errorf("visibility = %q, want public", service.saveInput.Visibility)
	}
	if len(service.saveInput.SharedWith) != 1 || service.saveInput.SharedWith[0] != "bob@example.com" {
		t.Errorf("sharedWith = %v", service.saveInput.SharedWith)
	}

	var dto scheduleDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != "sched-1" || dto.UniqueID != "abcd1234" {
		t.Errorf("unexpected DTO %+v", dto)
	}
}

func TestScheduleHandlerSharedLookup(t *testing.T) {
	t.Parallel()

	t.Run("denied access reads as missing", func(t *testing.T) {
		t.Parallel()

		service := &stubScheduleService{sharedErr: application.ErrNotFound}
		router := testRouter(t, nil, service, nil, nil, &stubVerifier{})

		req := httptest.NewRequest(http.MethodGet, "/schedules/public/abcd1234", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("anonymous fetch of public record", func(t *testing.T) {
		t.Parallel()

		service := &stubScheduleService{shared: application.Schedule{
			ID:         "sched-1",
			Name:       "Work Week",
			UniqueID:   "abcd1234",
			Visibility: domain.VisibilityPublic,
			OwnerEmail: "alice@example.com",
			UpdatedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		}}
		router := testRouter(t, nil, service, nil, nil, &stubVerifier{})

		req := httptest.NewRequest(http.MethodGet, "/schedules/public/abcd1234", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		var dto scheduleDTO
		if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if dto.UserEmail != "alice@example.com" {
			t.Errorf("userEmail = %q, want owner email", dto.UserEmail)
		}
	})
}

func TestLibraryHandlerMerge(t *testing.T) {
	t.Parallel()

	service := &stubLibraryService{merged: application.EmojiLibrary{
		ID:   "lib-target",
		Name: "Mine",
		Entries: []domain.EmojiEntry{
			{Emoji: "🏃", Activity: "Running"},
			{Emoji: "📚", Activity: "Reading"},
		},
	}}
	verifier := &stubVerifier{principal: application.Principal{UserID: "user-1"}}
	router := testRouter(t, nil, nil, service, nil, verifier)

	req := httptest.NewRequest(http.MethodPost, "/merge-emoji-library", strings.NewReader(`{"sourceId":"lib-src","targetId":"lib-target"}`))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if service.mergeParams.SourceID != "lib-src" || service.mergeParams.TargetID != "lib-target" {
		t.Errorf("merge params = %+v", service.mergeParams)
	}
	var dto libraryDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(dto.Emojis) != 2 {
		t.Errorf("emojis = %v, want merged pair", dto.Emojis)
	}
}

func TestUserDataRoundTrip(t *testing.T) {
	t.Parallel()

	service := &stubUserDataService{data: domain.UserData{
		CurrentLibraryID:   "lib-1",
		CurrentLibraryName: "Mine",
		EmojiLibrary: []domain.EmojiEntry{
			{Emoji: "🏃", Activity: "Running"},
		},
	}}
	verifier := &stubVerifier{principal: application.Principal{UserID: "user-1"}}
	router := testRouter(t, nil, nil, nil, service, verifier)

	req := httptest.NewRequest(http.MethodGet, "/user-data", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var data domain.UserData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if data.CurrentLibraryID != "lib-1" || len(data.EmojiLibrary) != 1 {
		t.Errorf("unexpected payload %+v", data)
	}

	post := httptest.NewRequest(http.MethodPost, "/user-data", strings.NewReader(`{"currentLibraryId":"lib-2"}`))
	post.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, post)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if service.saved.CurrentLibraryID != "lib-2" {
		t.Errorf("saved currentLibraryId = %q, want lib-2", service.saved.CurrentLibraryID)
	}
}
