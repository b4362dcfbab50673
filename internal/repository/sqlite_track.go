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

const trackColumns = `id, schedule_id, name, order_index, created_at`

// SQLiteTrackRepo implements TrackRepo using a SQLite database.
type SQLiteTrackRepo struct {
	db db.DBTX
}

// NewSQLiteTrackRepo creates a new SQLiteTrackRepo.
func NewSQLiteTrackRepo(conn db.DBTX) *SQLiteTrackRepo {
	return &SQLiteTrackRepo{db: conn}
}

func (r *SQLiteTrackRepo) Create(ctx context.Context, t *domain.Track) error {
	query := `INSERT INTO tracks (id, schedule_id, name, order_index, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.ScheduleID, t.Name, t.Order, t.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting track: %w", err)
	}
	return nil
}

func (r *SQLiteTrackRepo) GetByID(ctx context.Context, id string) (*domain.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE id = ?`
	t, err := scanTrack(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("track %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &t, nil
}

func (r *SQLiteTrackRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Track, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE schedule_id = ? ORDER BY order_index, id`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tracks: %w", err)
	}
	return tracks, nil
}

func (r *SQLiteTrackRepo) Update(ctx context.Context, t *domain.Track) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tracks SET name = ?, order_index = ? WHERE id = ?`, t.Name, t.Order, t.ID)
	if err != nil {
		return fmt.Errorf("updating track: %w", err)
	}
	return requireAffected(res, "track", t.ID)
}

func (r *SQLiteTrackRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tracks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting track: %w", err)
	}
	return requireAffected(res, "track", id)
}

func scanTrack(row scanner) (domain.Track, error) {
	var t domain.Track
	var createdAtStr string
	if err := row.Scan(&t.ID, &t.ScheduleID, &t.Name, &t.Order, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scanning track: %w", err)
	}
	created, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return t, fmt.Errorf("parsing created_at: %w", err)
	}
	t.CreatedAt = created
	return t, nil
}
