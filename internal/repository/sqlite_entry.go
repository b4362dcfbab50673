package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/callsheet/internal/db"
	"github.com/alexanderramin/callsheet/internal/domain"
)

// entryColumns is the canonical SELECT column list for schedule_entries.
const entryColumns = `id, schedule_id, type, title, notes, track_id, order_index,
		start_time, duration_min, highlight_variant, highlight_color, highlight_emoji,
		applies_to_track_ids, created_at, updated_at`

// SQLiteEntryRepo implements EntryRepo using a SQLite database.
type SQLiteEntryRepo struct {
	db db.DBTX
}

// NewSQLiteEntryRepo creates a new SQLiteEntryRepo.
func NewSQLiteEntryRepo(conn db.DBTX) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{db: conn}
}

func (r *SQLiteEntryRepo) Create(ctx context.Context, e *domain.Entry) error {
	applies, err := encodeIDs(e.AppliesToTrackIDs)
	if err != nil {
		return fmt.Errorf("encoding applies_to_track_ids: %w", err)
	}
	variant, color, emoji := highlightColumns(e.Highlight)

	query := `INSERT INTO schedule_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		e.ID,
		e.ScheduleID,
		string(e.Type),
		e.Title,
		e.Notes,
		e.TrackID,
		e.Order,
		e.StartTime,
		positiveIntToValue(e.DurationMin),
		variant,
		color,
		emoji,
		applies,
		e.CreatedAt.Format(time.RFC3339),
		e.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}
	return nil
}

func (r *SQLiteEntryRepo) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries WHERE id = ?`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("entry %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteEntryRepo) ListBySchedule(ctx context.Context, scheduleID string) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE schedule_id = ? ORDER BY track_id, order_index, id`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteEntryRepo) Update(ctx context.Context, e *domain.Entry) error {
	applies, err := encodeIDs(e.AppliesToTrackIDs)
	if err != nil {
		return fmt.Errorf("encoding applies_to_track_ids: %w", err)
	}
	variant, color, emoji := highlightColumns(e.Highlight)

	query := `UPDATE schedule_entries SET type = ?, title = ?, notes = ?,
		highlight_variant = ?, highlight_color = ?, highlight_emoji = ?,
		applies_to_track_ids = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		string(e.Type),
		e.Title,
		e.Notes,
		variant,
		color,
		emoji,
		applies,
		e.UpdatedAt.Format(time.RFC3339),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	return requireAffected(res, "entry", e.ID)
}

func (r *SQLiteEntryRepo) ApplyPatches(ctx context.Context, patches []domain.EntryPatch) error {
	now := nowUTC()
	for _, p := range patches {
		if p.Patch.IsEmpty() {
			continue
		}
		var sets []string
		var args []any
		if p.Patch.TrackID != nil {
			sets = append(sets, "track_id = ?")
			args = append(args, *p.Patch.TrackID)
		}
		if p.Patch.Order != nil {
			sets = append(sets, "order_index = ?")
			args = append(args, *p.Patch.Order)
		}
		if p.Patch.StartTime != nil {
			sets = append(sets, "start_time = ?")
			args = append(args, *p.Patch.StartTime)
		}
		if p.Patch.DurationMin != nil {
			sets = append(sets, "duration_min = ?")
			args = append(args, positiveIntToValue(*p.Patch.DurationMin))
		}
		sets = append(sets, "updated_at = ?")
		args = append(args, now, p.EntryID)

		query := `UPDATE schedule_entries SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("patching entry %s: %w", p.EntryID, err)
		}
		if err := requireAffected(res, "entry", p.EntryID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteEntryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return requireAffected(res, "entry", id)
}

func highlightColumns(h *domain.Highlight) (variant, color, emoji string) {
	if h == nil {
		return "", "", ""
	}
	return string(h.Variant), h.Color, h.Emoji
}

func scanEntry(row scanner) (domain.Entry, error) {
	var e domain.Entry
	var typeStr, variant, color, emoji, applies, createdAtStr, updatedAtStr string
	var duration sql.NullInt64

	err := row.Scan(
		&e.ID, &e.ScheduleID, &typeStr, &e.Title, &e.Notes,
		&e.TrackID, &e.Order, &e.StartTime, &duration,
		&variant, &color, &emoji, &applies,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("scanning entry: %w", err)
	}

	e.Type = domain.EntryType(typeStr)
	if duration.Valid {
		e.DurationMin = int(duration.Int64)
	}
	if variant != "" || color != "" || emoji != "" {
		e.Highlight = &domain.Highlight{Variant: domain.HighlightVariant(variant), Color: color, Emoji: emoji}
	}

	var parseErr error
	e.AppliesToTrackIDs, parseErr = decodeIDs(applies)
	if parseErr != nil {
		return e, fmt.Errorf("decoding applies_to_track_ids: %w", parseErr)
	}
	e.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return e, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	e.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return e, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return e, nil
}
