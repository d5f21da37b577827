package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/emoji-scheduler/internal/domain"
	"github.com/example/emoji-scheduler/internal/persistence"
)

// UserDataRepository implements persistence.UserDataRepository using SQLite.
// The combined snapshot is stored as a single JSON document per user.
type UserDataRepository struct {
	pool *ConnectionPool
}

// NewUserDataRepository creates a new SQLite user-data repository.
func NewUserDataRepository(pool *ConnectionPool) *UserDataRepository {
	return &UserDataRepository{pool: pool}
}

// GetUserData retrieves the snapshot document for a user.
func (r *UserDataRepository) GetUserData(ctx context.Context, userID string) (persistence.UserData, error) {
	if userID == "" {
		return persistence.UserData{}, persistence.ErrNotFound
	}

	query := `
		SELECT user_id, payload, updated_at
		FROM user_data
		WHERE user_id = ?
	`

	var data persistence.UserData
	var payloadStr, updatedAtStr string

	err := r.pool.db.QueryRowContext(ctx, query, userID).Scan(&data.UserID, &payloadStr, &updatedAtStr)
	if err != nil {
		return persistence.UserData{}, mapError(err)
	}

	if err := json.Unmarshal([]byte(payloadStr), &data.Payload); err != nil {
		return persistence.UserData{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	if data.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.UserData{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	data.Payload.WeekSchedule = domain.WeekData(data.Payload.WeekSchedule).Normalize()
	return data, nil
}

// SaveUserData writes the snapshot document for a user, replacing any
// previous version.
func (r *UserDataRepository) SaveUserData(ctx context.Context, data persistence.UserData) error {
	if data.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	if data.UpdatedAt.IsZero() {
		data.UpdatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(data.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO user_data (user_id, payload, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET
				payload = excluded.payload,
				updated_at = excluded.updated_at
		`

		if _, err := tx.ExecContext(ctx, query, data.UserID, string(payload), data.UpdatedAt.Format(time.RFC3339)); err != nil {
			return mapError(err)
		}
		return nil
	})
}
