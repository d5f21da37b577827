// Package sync coordinates the local snapshot with the remote account copy:
// saves mirror to the server when logged in, and login migrates local edits
// before adopting the server copy.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/emoji-scheduler/internal/client/localstore"
	"github.com/example/emoji-scheduler/internal/client/session"
	"github.com/example/emoji-scheduler/internal/domain"
)

type snapshotStore interface {
	Put(snapshot localstore.Snapshot) (localstore.Snapshot, error)
	Latest() (localstore.Snapshot, error)
	Clear() error
}

type sessionStore interface {
	Current() session.State
}

type remote interface {
	FetchUserData(ctx context.Context) (domain.UserData, error)
	PushUserData(ctx context.Context, data domain.UserData) error
}

// Engine is the data flow hub between the local store, the session and the
// server.
type Engine struct {
	local    snapshotStore
	sessions sessionStore
	remote   remote
	notify   func(message string)
	logger   *slog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNotifier sets the callback that surfaces non-fatal warnings, such as
// a failed best-effort push during login migration.
func WithNotifier(notify func(message string)) Option {
	return func(e *Engine) {
		if notify != nil {
			e.notify = notify
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an Engine.
func New(local snapshotStore, sessions sessionStore, remoteClient remote, opts ...Option) *Engine {
	e := &Engine{
		local:    local,
		sessions: sessions,
		remote:   remoteClient,
		notify:   func(string) {},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MigrateOnLogin runs the login-time data migration: push local edits to
// the account if there are any, then adopt the server copy. The push is
// best-effort; a failure is reported through the notifier and the login
// stands. The fetch always runs after the push so the returned data
// reflects whatever the server accepted.
func (e *Engine) MigrateOnLogin(ctx context.Context) (domain.UserData, error) {
	snapshot, err := e.local.Latest()
	switch {
	case err == nil && !snapshot.IsEmpty():
		if pushErr := e.remote.PushUserData(ctx, snapshot.UserData()); pushErr != nil {
			e.logger.WarnContext(ctx, "login migration push failed", "error", pushErr)
			e.notify(fmt.Sprintf("Your local changes could not be uploaded: %v", pushErr))
		}
	case err != nil && !errors.Is(err, localstore.ErrNoSnapshot):
		return domain.UserData{}, err
	}

	data, err := e.remote.FetchUserData(ctx)
	if err != nil {
		return domain.UserData{}, err
	}

	if _, err := e.local.Put(localstore.FromUserData(data)); err != nil {
		return domain.UserData{}, err
	}
	return data, nil
}

// Save stores the data locally and, when logged in, mirrors it to the
// account. The local write always happens; a remote failure is returned
// after it.
func (e *Engine) Save(ctx context.Context, data domain.UserData) error {
	if _, err := e.local.Put(localstore.FromUserData(data)); err != nil {
		return err
	}

	if !e.sessions.Current().Authenticated {
		return nil
	}
	if err := e.remote.PushUserData(ctx, data); err != nil {
		e.logger.WarnContext(ctx, "remote mirror failed", "error", err)
		return err
	}
	return nil
}

// Load returns the working data: the local snapshot when one exists, the
// server copy for a logged-in user with a clean disk, and the built-in
// defaults otherwise.
func (e *Engine) Load(ctx context.Context) (domain.UserData, error) {
	snapshot, err := e.local.Latest()
	if err == nil {
		return snapshot.UserData(), nil
	}
	if !errors.Is(err, localstore.ErrNoSnapshot) {
		return domain.UserData{}, err
	}

	if e.sessions.Current().Authenticated {
		data, fetchErr := e.remote.FetchUserData(ctx)
		if fetchErr != nil {
			return domain.UserData{}, fetchErr
		}
		if _, putErr := e.local.Put(localstore.FromUserData(data)); putErr != nil {
			return domain.UserData{}, putErr
		}
		return data, nil
	}

	return domain.UserData{
		WeekSchedule: domain.DefaultWeek(),
		EmojiLibrary: domain.DefaultLibrary(),
	}, nil
}

// Reset clears the local snapshot, typically on logout.
func (e *Engine) Reset() error {
	return e.local.Clear()
}
