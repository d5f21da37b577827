package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

// EmojiLibraryRepository implements persistence.EmojiLibraryRepository
// using SQLite.
type EmojiLibraryRepository struct {
	pool *ConnectionPool
}

// NewEmojiLibraryRepository creates a new SQLite emoji library repository.
func NewEmojiLibraryRepository(pool *ConnectionPool) *EmojiLibraryRepository {
	return &EmojiLibraryRepository{pool: pool}
}

const libraryColumns = "id, user_id, name, unique_id, emojis, visibility, shared_with, created_at, updated_at"

// UpsertLibrary saves a library keyed by (UserID, Name), mirroring the
// schedule upsert: an existing row has its content (entries, visibility,
// shared-with list) fully replaced while keeping its ID, UniqueID and
// creation time.
func (r *EmojiLibraryRepository) UpsertLibrary(ctx context.Context, library persistence.EmojiLibrary) (persistence.EmojiLibrary, error) {
	if library.UserID == "" || library.Name == "" {
		return persistence.EmojiLibrary{}, persistence.ErrConstraintViolation
	}

	library.Entries = domain.DedupeEntries(library.Entries)
	library.SharedWith = domain.NormalizeSharedWith(library.SharedWith)
	if library.Visibility == "" {
		library.Visibility = domain.VisibilityPrivate
	}
	now := time.Now().UTC()

	entriesJSON, err := encodeEntries(library.Entries)
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}
	sharedJSON, err := encodeSharedWith(library.SharedWith)
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}

	var stored persistence.EmojiLibrary
	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.scanLibrary(tx.QueryRowContext(ctx,
			"SELECT "+libraryColumns+" FROM emoji_libraries WHERE user_id = ? AND name = ? ORDER BY updated_at DESC, id ASC LIMIT 1",
			library.UserID, library.Name,
		))
		switch {
		case err == nil:
			_, err := tx.ExecContext(ctx,
				"UPDATE emoji_libraries SET emojis = ?, visibility = ?, shared_with = ?, updated_at = ? WHERE id = ?",
				entriesJSON, string(library.Visibility), sharedJSON, now.Format(time.RFC3339), existing.ID,
			)
			if err != nil {
				return mapError(err)
			}
			existing.Entries = library.Entries
			existing.Visibility = library.Visibility
			existing.SharedWith = library.SharedWith
			existing.UpdatedAt = now
			stored = existing
			return nil
		case errors.Is(err, persistence.ErrNotFound):
			if library.ID == "" || library.UniqueID == "" {
				return persistence.ErrConstraintViolation
			}
			library.CreatedAt = now
			library.UpdatedAt = now
			if err := r.insertTx(ctx, tx, library, entriesJSON); err != nil {
				return err
			}
			stored = library
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}

	return stored, nil
}

// InsertLibrary always creates a new row, even when the name collides with
// an existing library of the same owner.
func (r *EmojiLibraryRepository) InsertLibrary(ctx context.Context, library persistence.EmojiLibrary) (persistence.EmojiLibrary, error) {
	if library.ID == "" || library.UserID == "" || library.Name == "" || library.UniqueID == "" {
		return persistence.EmojiLibrary{}, persistence.ErrConstraintViolation
	}

	library.Entries = domain.DedupeEntries(library.Entries)
	library.SharedWith = domain.NormalizeSharedWith(library.SharedWith)
	now := time.Now().UTC()
	library.CreatedAt = now
	library.UpdatedAt = now

	entriesJSON, err := encodeEntries(library.Entries)
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}

	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.insertTx(ctx, tx, library, entriesJSON)
	})
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}

	return library, nil
}

func (r *EmojiLibraryRepository) insertTx(ctx context.Context, tx *sql.Tx, library persistence.EmojiLibrary, entriesJSON string) error {
	if library.Visibility == "" {
		library.Visibility = domain.VisibilityPrivate
	}

	sharedJSON, err := encodeSharedWith(library.SharedWith)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO emoji_libraries (id, user_id, name, unique_id, emojis, visibility, shared_with, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		library.ID,
		library.UserID,
		library.Name,
		library.UniqueID,
		entriesJSON,
		string(library.Visibility),
		sharedJSON,
		library.CreatedAt.Format(time.RFC3339),
		library.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetLibrary retrieves a library by ID.
func (r *EmojiLibraryRepository) GetLibrary(ctx context.Context, id string) (persistence.EmojiLibrary, error) {
	if id == "" {
		return persistence.EmojiLibrary{}, persistence.ErrNotFound
	}

	return r.scanLibrary(r.pool.db.QueryRowContext(ctx,
		"SELECT "+libraryColumns+" FROM emoji_libraries WHERE id = ?", id,
	))
}

// GetLibraryByUniqueID retrieves a library by its share handle.
func (r *EmojiLibraryRepository) GetLibraryByUniqueID(ctx context.Context, uniqueID string) (persistence.EmojiLibrary, error) {
	if uniqueID == "" {
		return persistence.EmojiLibrary{}, persistence.ErrNotFound
	}

	return r.scanLibrary(r.pool.db.QueryRowContext(ctx,
		"SELECT "+libraryColumns+" FROM emoji_libraries WHERE unique_id = ?", uniqueID,
	))
}

// ListLibrariesForUser returns all libraries owned by a user, newest first.
func (r *EmojiLibraryRepository) ListLibrariesForUser(ctx context.Context, userID string) ([]persistence.EmojiLibrary, error) {
	query := "SELECT " + libraryColumns + " FROM emoji_libraries WHERE user_id = ? ORDER BY updated_at DESC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return r.collectLibraries(rows, false)
}

// ListPublicLibraries returns public libraries joined with the owner's
// email, optionally filtered by a name substring search.
func (r *EmojiLibraryRepository) ListPublicLibraries(ctx context.Context, search string) ([]persistence.EmojiLibrary, error) {
	query := `
		SELECT l.id, l.user_id, l.name, l.unique_id, l.emojis, l.visibility, l.shared_with, l.created_at, l.updated_at, u.email
		FROM emoji_libraries l
		JOIN users u ON u.id = l.user_id
		WHERE l.visibility = 'public' AND (? = '' OR l.name LIKE '%' || ? || '%')
		ORDER BY l.updated_at DESC, l.id ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, search, search)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return r.collectLibraries(rows, true)
}

// UpdateLibrary replaces the mutable fields of an owned library: name,
// entries, visibility and the shared-with list.
func (r *EmojiLibraryRepository) UpdateLibrary(ctx context.Context, library persistence.EmojiLibrary) (persistence.EmojiLibrary, error) {
	if library.ID == "" || library.UserID == "" || library.Name == "" {
		return persistence.EmojiLibrary{}, persistence.ErrConstraintViolation
	}

	library.Entries = domain.DedupeEntries(library.Entries)
	library.SharedWith = domain.NormalizeSharedWith(library.SharedWith)
	if library.Visibility == "" {
		library.Visibility = domain.VisibilityPrivate
	}
	now := time.Now().UTC()

	entriesJSON, err := encodeEntries(library.Entries)
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}
	sharedJSON, err := encodeSharedWith(library.SharedWith)
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}

	var stored persistence.EmojiLibrary
	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.scanLibrary(tx.QueryRowContext(ctx,
			"SELECT "+libraryColumns+" FROM emoji_libraries WHERE id = ? AND user_id = ?",
			library.ID, library.UserID,
		))
		if err != nil {
			return err
		}

		query := `
			UPDATE emoji_libraries
			SET name = ?, emojis = ?, visibility = ?, shared_with = ?, updated_at = ?
			WHERE id = ? AND user_id = ?
		`

		_, err = tx.ExecContext(ctx, query,
			library.Name,
			entriesJSON,
			string(library.Visibility),
			sharedJSON,
			now.Format(time.RFC3339),
			library.ID,
			library.UserID,
		)
		if err != nil {
			return mapError(err)
		}

		existing.Name = library.Name
		existing.Entries = library.Entries
		existing.Visibility = library.Visibility
		existing.SharedWith = library.SharedWith
		existing.UpdatedAt = now
		stored = existing
		return nil
	})
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}

	return stored, nil
}

// DeleteLibrary removes a library owned by userID.
func (r *EmojiLibraryRepository) DeleteLibrary(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM emoji_libraries WHERE id = ? AND user_id = ?", id, userID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func (r *EmojiLibraryRepository) scanLibrary(row rowScanner) (persistence.EmojiLibrary, error) {
	var library persistence.EmojiLibrary
	var entriesStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&library.ID,
		&library.UserID,
		&library.Name,
		&library.UniqueID,
		&entriesStr,
		&visibilityStr,
		&sharedStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.EmojiLibrary{}, mapError(err)
	}

	return r.decodeLibrary(library, entriesStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr)
}

func (r *EmojiLibraryRepository) collectLibraries(rows *sql.Rows, withOwner bool) ([]persistence.EmojiLibrary, error) {
	var libraries []persistence.EmojiLibrary

	for rows.Next() {
		var library persistence.EmojiLibrary
		var entriesStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr string

		dest := []any{
			&library.ID,
			&library.UserID,
			&library.Name,
			&library.UniqueID,
			&entriesStr,
			&visibilityStr,
			&sharedStr,
			&createdAtStr,
			&updatedAtStr,
		}
		if withOwner {
			dest = append(dest, &library.OwnerEmail)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, mapError(err)
		}

		decoded, err := r.decodeLibrary(library, entriesStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		libraries = append(libraries, decoded)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return libraries, nil
}

func (r *EmojiLibraryRepository) decodeLibrary(library persistence.EmojiLibrary, entriesStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr string) (persistence.EmojiLibrary, error) {
	if err := json.Unmarshal([]byte(entriesStr), &library.Entries); err != nil {
		return persistence.EmojiLibrary{}, fmt.Errorf("failed to decode emojis: %w", err)
	}
	library.Visibility = domain.ParseVisibility(visibilityStr)

	sharedWith, err := decodeSharedWith(sharedStr)
	if err != nil {
		return persistence.EmojiLibrary{}, err
	}
	library.SharedWith = sharedWith

	if library.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.EmojiLibrary{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if library.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.EmojiLibrary{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return library, nil
}

func encodeEntries(entries []domain.EmojiEntry) (string, error) {
	if entries == nil {
		entries = []domain.EmojiEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to encode emojis: %w", err)
	}
	return string(data), nil
}
