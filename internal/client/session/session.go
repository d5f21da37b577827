// Package session holds the client's login state: the bearer token and the
// user id it belongs to, persisted on disk so a restart does not log the
// user out.
package session

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const (
	tokenKey  = "token"
	userIDKey = "userId"
)

// State is the current login state. A zero State is anonymous.
type State struct {
	Authenticated bool
	UserID        string
	Token         string
}

// Store persists the session and publishes state changes to subscribers.
type Store struct {
	d *diskv.Diskv

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSub     int
}

// Open creates a Store rooted at baseDir. Call Bootstrap before first use.
func Open(baseDir string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     baseDir,
			CacheSizeMax: 64 * 1024,
		}),
		subscribers: make(map[int]func(State)),
	}
}

// Bootstrap loads any persisted session. A partial record (token without
// user id or vice versa) is discarded as anonymous.
func (s *Store) Bootstrap() error {
	token, tokenErr := s.readKey(tokenKey)
	userID, userErr := s.readKey(userIDKey)
	if tokenErr != nil {
		return tokenErr
	}
	if userErr != nil {
		return userErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" || userID == "" {
		s.state = State{}
		return nil
	}
	s.state = State{Authenticated: true, UserID: userID, Token: token}
	return nil
}

func (s *Store) readKey(key string) (string, error) {
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("session read %s: %w", key, err)
	}
	return string(data), nil
}

// Login persists the token and user id together and flips the in-memory
// state only once both writes have succeeded. A failed second write rolls
// back the first so the stored record never ends up half written.
func (s *Store) Login(token, userID string) error {
	if token == "" || userID == "" {
		return errors.New("session login: token and user id required")
	}

	if err := s.d.Write(tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("session write token: %w", err)
	}
	if err := s.d.Write(userIDKey, []byte(userID)); err != nil {
		_ = s.d.Erase(tokenKey)
		return fmt.Errorf("session write user id: %w", err)
	}

	s.setState(State{Authenticated: true, UserID: userID, Token: token})
	return nil
}

// Logout erases the persisted session. Logging out while anonymous is a
// no-op.
func (s *Store) Logout() error {
	if err := s.d.Erase(tokenKey); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session erase token: %w", err)
	}
	if err := s.d.Erase(userIDKey); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session erase user id: %w", err)
	}

	s.setState(State{})
	return nil
}

// Current returns the in-memory state without touching disk.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a callback invoked on every state change. The
// returned cancel function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	s.state = state
	fns := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	// Callbacks run outside the lock so a subscriber may call back into
	// the store.
	for _, fn := range fns {
		fn(state)
	}
}
