package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
)

// scheduleColumns is the canonical SELECT column list for schedules.
const scheduleColumns = `id, name, date, cascade_changes, day_start_time,
		default_entry_duration_min, duration_fingerprint, created_at, updated_at`

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	query := `INSERT INTO schedules (id, name, date, cascade_changes, day_start_time,
		default_entry_duration_min, duration_fingerprint, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		formatDate(s.Date),
		boolToInt(s.Settings.CascadeChanges),
		s.Settings.DayStartTime,
		s.Settings.DefaultEntryDurationMin,
		s.DurationFingerprint,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = ?`
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

func (r *SQLiteScheduleRepo) List(ctx context.Context) ([]*domain.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY date, created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedules: %w", err)
	}
	return schedules, nil
}

func (r *SQLiteScheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	query := `UPDATE schedules SET name = ?, date = ?, cascade_changes = ?, day_start_time = ?,
		default_entry_duration_min = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		formatDate(s.Date),
		boolToInt(s.Settings.CascadeChanges),
		s.Settings.DayStartTime,
		s.Settings.DefaultEntryDurationMin,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	return requireAffected(res, "schedule", s.ID)
}

func (r *SQLiteScheduleRepo) SetDurationFingerprint(ctx context.Context, id, fingerprint string) error {
	query := `UPDATE schedules SET duration_fingerprint = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, fingerprint, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("storing duration fingerprint: %w", err)
	}
	return requireAffected(res, "schedule", id)
}

func (r *SQLiteScheduleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return requireAffected(res, "schedule", id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row scanner) (*domain.Schedule, error) {
	var s domain.Schedule
	var dateStr, createdAtStr, updatedAtStr string
	var cascade int

	err := row.Scan(
		&s.ID, &s.Name, &dateStr,
		&cascade, &s.Settings.DayStartTime, &s.Settings.DefaultEntryDurationMin,
		&s.DurationFingerprint,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning schedule: %w", err)
	}
	s.Settings.CascadeChanges = intToBool(cascade)

	var parseErr error
	s.Date, parseErr = parseDate(dateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing date: %w", parseErr)
	}
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &s, nil
}
