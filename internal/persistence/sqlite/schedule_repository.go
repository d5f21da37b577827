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

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool *ConnectionPool
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

const scheduleColumns = "id, user_id, name, unique_id, week_data, visibility, shared_with, created_at, updated_at"

// UpsertSchedule saves a schedule keyed by (UserID, Name). When a row with
// that key already exists its content (week data, visibility, shared-with
// list) is fully replaced while its ID, UniqueID and creation time are
// preserved. Otherwise a new row is inserted using the IDs carried by the
// argument. When the owner holds several rows with the same name, the most
// recently updated one is the upsert target.
func (r *ScheduleRepository) UpsertSchedule(ctx context.Context, schedule persistence.Schedule) (persistence.Schedule, error) {
	if schedule.UserID == "" || schedule.Name == "" {
		return persistence.Schedule{}, persistence.ErrConstraintViolation
	}

	schedule.Week = schedule.Week.Normalize()
	schedule.SharedWith = domain.NormalizeSharedWith(schedule.SharedWith)
	if schedule.Visibility == "" {
		schedule.Visibility = domain.VisibilityPrivate
	}
	now := time.Now().UTC()

	weekJSON, err := json.Marshal(schedule.Week)
	if err != nil {
		return persistence.Schedule{}, fmt.Errorf("failed to encode week data: %w", err)
	}
	sharedJSON, err := encodeSharedWith(schedule.SharedWith)
	if err != nil {
		return persistence.Schedule{}, err
	}

	var stored persistence.Schedule
	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.scanSchedule(tx.QueryRowContext(ctx,
			"SELECT "+scheduleColumns+" FROM schedules WHERE user_id = ? AND name = ? ORDER BY updated_at DESC, id ASC LIMIT 1",
			schedule.UserID, schedule.Name,
		))
		switch {
		case err == nil:
			_, err := tx.ExecContext(ctx,
				"UPDATE schedules SET week_data = ?, visibility = ?, shared_with = ?, updated_at = ? WHERE id = ?",
				string(weekJSON), string(schedule.Visibility), sharedJSON, now.Format(time.RFC3339), existing.ID,
			)
			if err != nil {
				return mapError(err)
			}
			existing.Week = schedule.Week
			existing.Visibility = schedule.Visibility
			existing.SharedWith = schedule.SharedWith
			existing.UpdatedAt = now
			stored = existing
			return nil
		case errors.Is(err, persistence.ErrNotFound):
			if schedule.ID == "" || schedule.UniqueID == "" {
				return persistence.ErrConstraintViolation
			}
			schedule.CreatedAt = now
			schedule.UpdatedAt = now
			if err := r.insertTx(ctx, tx, schedule, string(weekJSON)); err != nil {
				return err
			}
			stored = schedule
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return persistence.Schedule{}, err
	}

	return stored, nil
}

// InsertSchedule always creates a new row, even when the name collides
// with an existing schedule of the same owner.
func (r *ScheduleRepository) InsertSchedule(ctx context.Context, schedule persistence.Schedule) (persistence.Schedule, error) {
	if schedule.ID == "" || schedule.UserID == "" || schedule.Name == "" || schedule.UniqueID == "" {
		return persistence.Schedule{}, persistence.ErrConstraintViolation
	}

	schedule.Week = schedule.Week.Normalize()
	schedule.SharedWith = domain.NormalizeSharedWith(schedule.SharedWith)
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	weekJSON, err := json.Marshal(schedule.Week)
	if err != nil {
		return persistence.Schedule{}, fmt.Errorf("failed to encode week data: %w", err)
	}

	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return r.insertTx(ctx, tx, schedule, string(weekJSON))
	})
	if err != nil {
		return persistence.Schedule{}, err
	}

	return schedule, nil
}

func (r *ScheduleRepository) insertTx(ctx context.Context, tx *sql.Tx, schedule persistence.Schedule, weekJSON string) error {
	if schedule.Visibility == "" {
		schedule.Visibility = domain.VisibilityPrivate
	}

	sharedJSON, err := encodeSharedWith(schedule.SharedWith)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO schedules (id, user_id, name, unique_id, week_data, visibility, shared_with, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		schedule.ID,
		schedule.UserID,
		schedule.Name,
		schedule.UniqueID,
		weekJSON,
		string(schedule.Visibility),
		sharedJSON,
		schedule.CreatedAt.Format(time.RFC3339),
		schedule.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (r *ScheduleRepository) GetSchedule(ctx context.Context, id string) (persistence.Schedule, error) {
	if id == "" {
		return persistence.Schedule{}, persistence.ErrNotFound
	}

	return r.scanSchedule(r.pool.db.QueryRowContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE id = ?", id,
	))
}

// GetScheduleByUniqueID retrieves a schedule by its share handle.
func (r *ScheduleRepository) GetScheduleByUniqueID(ctx context.Context, uniqueID string) (persistence.Schedule, error) {
	if uniqueID == "" {
		return persistence.Schedule{}, persistence.ErrNotFound
	}

	return r.scanSchedule(r.pool.db.QueryRowContext(ctx,
		"SELECT "+scheduleColumns+" FROM schedules WHERE unique_id = ?", uniqueID,
	))
}

// ListSchedulesForUser returns all schedules owned by a user, newest first.
func (r *ScheduleRepository) ListSchedulesForUser(ctx context.Context, userID string) ([]persistence.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE user_id = ? ORDER BY updated_at DESC, id ASC"

	rows, err := r.pool.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return r.collectSchedules(rows, false)
}

// ListPublicSchedules returns public schedules joined with the owner's
// email. An empty search matches everything; otherwise names are matched
// with a substring search.
func (r *ScheduleRepository) ListPublicSchedules(ctx context.Context, search string) ([]persistence.Schedule, error) {
	query := `
		SELECT s.id, s.user_id, s.name, s.unique_id, s.week_data, s.visibility, s.shared_with, s.created_at, s.updated_at, u.email
		FROM schedules s
		JOIN users u ON u.id = s.user_id
		WHERE s.visibility = 'public' AND (? = '' OR s.name LIKE '%' || ? || '%')
		ORDER BY s.updated_at DESC, s.id ASC
	`

	rows, err := r.pool.db.QueryContext(ctx, query, search, search)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return r.collectSchedules(rows, true)
}

// UpdateSchedule replaces the mutable fields of an owned schedule: name,
// week data, visibility and the shared-with list. The row must belong to
// schedule.UserID.
func (r *ScheduleRepository) UpdateSchedule(ctx context.Context, schedule persistence.Schedule) (persistence.Schedule, error) {
	if schedule.ID == "" || schedule.UserID == "" || schedule.Name == "" {
		return persistence.Schedule{}, persistence.ErrConstraintViolation
	}

	schedule.Week = schedule.Week.Normalize()
	schedule.SharedWith = domain.NormalizeSharedWith(schedule.SharedWith)
	if schedule.Visibility == "" {
		schedule.Visibility = domain.VisibilityPrivate
	}
	now := time.Now().UTC()

	weekJSON, err := json.Marshal(schedule.Week)
	if err != nil {
		return persistence.Schedule{}, fmt.Errorf("failed to encode week data: %w", err)
	}
	sharedJSON, err := encodeSharedWith(schedule.SharedWith)
	if err != nil {
		return persistence.Schedule{}, err
	}

	var stored persistence.Schedule
	err = r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		existing, err := r.scanSchedule(tx.QueryRowContext(ctx,
			"SELECT "+scheduleColumns+" FROM schedules WHERE id = ? AND user_id = ?",
			schedule.ID, schedule.UserID,
		))
		if err != nil {
			return err
		}

		query := `
			UPDATE schedules
			SET name = ?, week_data = ?, visibility = ?, shared_with = ?, updated_at = ?
			WHERE id = ? AND user_id = ?
		`

		_, err = tx.ExecContext(ctx, query,
			schedule.Name,
			string(weekJSON),
			string(schedule.Visibility),
			sharedJSON,
			now.Format(time.RFC3339),
			schedule.ID,
			schedule.UserID,
		)
		if err != nil {
			return mapError(err)
		}

		existing.Name = schedule.Name
		existing.Week = schedule.Week
		existing.Visibility = schedule.Visibility
		existing.SharedWith = schedule.SharedWith
		existing.UpdatedAt = now
		stored = existing
		return nil
	})
	if err != nil {
		return persistence.Schedule{}, err
	}

	return stored, nil
}

// DeleteSchedule removes a schedule owned by userID.
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id, userID string) error {
	if id == "" || userID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.pool.db.ExecContext(ctx,
		"DELETE FROM schedules WHERE id = ? AND user_id = ?", id, userID,
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

func (r *ScheduleRepository) scanSchedule(row rowScanner) (persistence.Schedule, error) {
	var schedule persistence.Schedule
	var weekStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&schedule.ID,
		&schedule.UserID,
		&schedule.Name,
		&schedule.UniqueID,
		&weekStr,
		&visibilityStr,
		&sharedStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Schedule{}, mapError(err)
	}

	return r.decodeSchedule(schedule, weekStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr)
}

func (r *ScheduleRepository) collectSchedules(rows *sql.Rows, withOwner bool) ([]persistence.Schedule, error) {
	var schedules []persistence.Schedule

	for rows.Next() {
		var schedule persistence.Schedule
		var weekStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr string

		dest := []any{
			&schedule.ID,
			&schedule.UserID,
			&schedule.Name,
			&schedule.UniqueID,
			&weekStr,
			&visibilityStr,
			&sharedStr,
			&createdAtStr,
			&updatedAtStr,
		}
		if withOwner {
			dest = append(dest, &schedule.OwnerEmail)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, mapError(err)
		}

		decoded, err := r.decodeSchedule(schedule, weekStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, decoded)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	return schedules, nil
}

func (r *ScheduleRepository) decodeSchedule(schedule persistence.Schedule, weekStr, visibilityStr, sharedStr, createdAtStr, updatedAtStr string) (persistence.Schedule, error) {
	if err := json.Unmarshal([]byte(weekStr), &schedule.Week); err != nil {
		return persistence.Schedule{}, fmt.Errorf("failed to decode week data: %w", err)
	}
	schedule.Visibility = domain.ParseVisibility(visibilityStr)

	sharedWith, err := decodeSharedWith(sharedStr)
	if err != nil {
		return persistence.Schedule{}, err
	}
	schedule.SharedWith = sharedWith

	if schedule.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return persistence.Schedule{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if schedule.UpdatedAt, err = time.Parse(time.RFC3339, updatedAtStr); err != nil {
		return persistence.Schedule{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return schedule, nil
}

func encodeSharedWith(sharedWith []string) (string, error) {
	if sharedWith == nil {
		sharedWith = []string{}
	}
	data, err := json.Marshal(sharedWith)
	if err != nil {
		return "", fmt.Errorf("failed to encode shared_with: %w", err)
	}
	return string(data), nil
}

func decodeSharedWith(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	var sharedWith []string
	if err := json.Unmarshal([]byte(value), &sharedWith); err != nil {
		return nil, fmt.Errorf("failed to decode shared_with: %w", err)
	}
	if len(sharedWith) == 0 {
		return nil, nil
	}
	return sharedWith, nil
}
