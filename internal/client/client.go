// Package client is the typed HTTP client for the emoji schedule API. It
// pairs with the session store: authenticated calls fail fast when no one
// is logged in, and a 403 from the server clears the stored session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/emoji-scheduler/internal/client/session"
	"github.com/example/emoji-scheduler/internal/domain"
)

// Sessions is the slice of the session store the client needs.
type Sessions interface {
	Current() session.State
	Logout() error
}

// Credentials is the answer to a successful login.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Registration is the answer to a successful register call.
type Registration struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Schedule is the wire representation of a stored schedule.
type Schedule struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	UniqueID   string          `json:"uniqueId"`
	WeekData   domain.WeekData `json:"weekData"`
	Visibility string          `json:"visibility"`
	SharedWith []string        `json:"sharedWith,omitempty"`
	UserEmail  string          `json:"userEmail,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}

// ScheduleInput is the body of schedule save and update calls.
type ScheduleInput struct {
	Name       string          `json:"name"`
	WeekData   domain.WeekData `json:"weekData"`
	Visibility string          `json:"visibility"`
	SharedWith []string        `json:"sharedWith,omitempty"`
	SaveAsNew  bool            `json:"saveAsNew,omitempty"`
}

// EmojiLibrary is the wire representation of a stored emoji library.
type EmojiLibrary struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	UniqueID   string              `json:"uniqueId"`
	Emojis     []domain.EmojiEntry `json:"emojis"`
	Visibility string              `json:"visibility"`
	SharedWith []string            `json:"sharedWith,omitempty"`
	UserEmail  string              `json:"userEmail,omitempty"`
	CreatedAt  string              `json:"createdAt"`
	UpdatedAt  string              `json:"updatedAt"`
}

// EmojiLibraryInput is the body of library save and update calls.
type EmojiLibraryInput struct {
	Name       string              `json:"name"`
	Emojis     []domain.EmojiEntry `json:"emojis"`
	Visibility string              `json:"visibility"`
	SharedWith []string            `json:"sharedWith,omitempty"`
	SaveAsNew  bool                `json:"saveAsNew,omitempty"`
}

// Client talks to one emoji schedule server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   Sessions
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// New creates a Client for the server at baseURL.
func New(baseURL string, sessions Sessions, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   sessions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account on the server.
func (c *Client) Register(ctx context.Context, email, password string) (Registration, error) {
	var out Registration
	err := c.public(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// Login exchanges credentials for a token. The caller decides whether to
// persist the result in the session store.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	var out Credentials
	err := c.public(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

// FetchUserData pulls the account snapshot.
func (c *Client) FetchUserData(ctx context.Context) (domain.UserData, error) {
	var out domain.UserData
	err := c.authed(ctx, http.MethodGet, "/user-data", nil, &out)
	return out, err
}

// PushUserData replaces the account snapshot.
func (c *Client) PushUserData(ctx context.Context, data domain.UserData) error {
	return c.authed(ctx, http.MethodPost, "/user-data", data, nil)
}

// ListSchedules lists the account's schedules.
func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var out []Schedule
	err := c.authed(ctx, http.MethodGet, "/schedules", nil, &out)
	return out, err
}

// SaveSchedule stores a schedule, upserting by name unless SaveAsNew is set.
func (c *Client) SaveSchedule(ctx context.Context, input ScheduleInput) (Schedule, error) {
	var out Schedule
	err := c.authed(ctx, http.MethodPost, "/schedules", input, &out)
	return out, err
}

// GetSchedule fetches one owned schedule.
func (c *Client) GetSchedule(ctx context.Context, id string) (Schedule, error) {
	var out Schedule
	err := c.authed(ctx, http.MethodGet, "/schedules/"+url.PathEscape(id), nil, &out)
	return out, err
}

// UpdateSchedule replaces an owned schedule's content.
func (c *Client) UpdateSchedule(ctx context.Context, id string, input ScheduleInput) (Schedule, error) {
	var out Schedule
	err := c.authed(ctx, http.MethodPut, "/schedules/"+url.PathEscape(id), input, &out)
	return out, err
}

// DeleteSchedule removes an owned schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/schedules/"+url.PathEscape(id), nil, nil)
}

// SearchPublicSchedules lists public schedules matching the search term.
func (c *Client) SearchPublicSchedules(ctx context.Context, search string) ([]Schedule, error) {
	var out []Schedule
	err := c.public(ctx, http.MethodGet, "/schedules/public"+searchQuery(search), nil, &out)
	return out, err
}

// GetSharedSchedule resolves a schedule share link. A token, when present,
// is attached so shared-with access works.
func (c *Client) GetSharedSchedule(ctx context.Context, uniqueID string) (Schedule, error) {
	var out Schedule
	err := c.do(ctx, http.MethodGet, "/schedules/public/"+url.PathEscape(uniqueID), nil, &out, authIfPresent)
	return out, err
}

// ListLibraries lists the account's emoji libraries.
func (c *Client) ListLibraries(ctx context.Context) ([]EmojiLibrary, error) {
	var out []EmojiLibrary
	err := c.authed(ctx, http.MethodGet, "/emoji-libraries", nil, &out)
	return out, err
}

// SaveLibrary stores a library, upserting by name unless SaveAsNew is set.
func (c *Client) SaveLibrary(ctx context.Context, input EmojiLibraryInput) (EmojiLibrary, error) {
	var out EmojiLibrary
	err := c.authed(ctx, http.MethodPost, "/emoji-libraries", input, &out)
	return out, err
}

// GetLibrary fetches one owned library.
func (c *Client) GetLibrary(ctx context.Context, id string) (EmojiLibrary, error) {
	var out EmojiLibrary
	err := c.authed(ctx, http.MethodGet, "/emoji-libraries/"+url.PathEscape(id), nil, &out)
	return out, err
}

// UpdateLibrary replaces an owned library's content.
func (c *Client) UpdateLibrary(ctx context.Context, id string, input EmojiLibraryInput) (EmojiLibrary, error) {
	var out EmojiLibrary
	err := c.authed(ctx, http.MethodPut, "/emoji-libraries/"+url.PathEscape(id), input, &out)
	return out, err
}

// DeleteLibrary removes an owned library.
func (c *Client) DeleteLibrary(ctx context.Context, id string) error {
	return c.authed(ctx, http.MethodDelete, "/emoji-libraries/"+url.PathEscape(id), nil, nil)
}

// SearchPublicLibraries lists public libraries matching the search term.
func (c *Client) SearchPublicLibraries(ctx context.Context, search string) ([]EmojiLibrary, error) {
	var out []EmojiLibrary
	err := c.public(ctx, http.MethodGet, "/emoji-libraries/public"+searchQuery(search), nil, &out)
	return out, err
}

// GetSharedLibrary resolves a library share link.
func (c *Client) GetSharedLibrary(ctx context.Context, uniqueID string) (EmojiLibrary, error) {
	var out EmojiLibrary
	err := c.do(ctx, http.MethodGet, "/emoji-libraries/public/"+url.PathEscape(uniqueID), nil, &out, authIfPresent)
	return out, err
}

// MergeLibraries folds a visible source library into an owned target and
// returns the merged target.
func (c *Client) MergeLibraries(ctx context.Context, sourceID, targetID string) (EmojiLibrary, error) {
	var out EmojiLibrary
	err := c.authed(ctx, http.MethodPost, "/merge-emoji-library", map[string]string{
		"sourceId": sourceID,
		"targetId": targetID,
	}, &out)
	return out, err
}

// authMode controls whether a request carries the stored token.
type authMode int

const (
	// authNone sends the request without a credential even when a session
	// exists, so anonymous surfaces never trip over a stale token.
	authNone authMode = iota
	// authIfPresent attaches the token when one is stored; share links need
	// it for shared-with access but work anonymously too.
	authIfPresent
	// authRequired refuses to send without a token.
	authRequired
)

func (c *Client) public(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, authNone)
}

// authed fails fast with ErrUnauthenticated when the session is anonymous,
// before any network I/O.
func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	if c.sessions == nil || !c.sessions.Current().Authenticated {
		return ErrUnauthenticated
	}
	return c.do(ctx, method, path, body, out, authRequired)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, mode authMode) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if mode != authNone && c.sessions != nil {
		if state := c.sessions.Current(); state.Authenticated {
			req.Header.Set("Authorization", "Bearer "+state.Token)
		} else if mode == authRequired {
			return ErrUnauthenticated
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	// A 403 means the token no longer verifies; discard the stored session
	// so the next call fails fast instead of hammering the server.
	if resp.StatusCode == http.StatusForbidden {
		if c.sessions != nil {
			_ = c.sessions.Logout()
		}
		return ErrSessionExpired
	}

	if !jsonContentType(resp.Header.Get("Content-Type")) {
		return &ProtocolError{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}
	}

	if resp.StatusCode >= 400 {
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return &ProtocolError{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}
		}
		return &RequestError{Status: resp.StatusCode, Message: payload.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}
	}
	return nil
}

func jsonContentType(value string) bool {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func searchQuery(search string) string {
	search = strings.TrimSpace(search)
	if search == "" {
		return ""
	}
	return "?search=" + url.QueryEscape(search)
}
