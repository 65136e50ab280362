// Package persistence stores timeline entries. The table is append-only;
// sequence numbers come from the database so concurrent appenders never
// produce colliding positions.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/timeline"
)

const selectEntryColumns = `
	seq, id, entry_type, booking_id, premises_id, occurred_at, source, payload, created_at
`

// SQLRepository implements timeline.Repository.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a new timeline repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

// Append inserts the entry. An entry with an already-stored ID is ignored.
func (r *SQLRepository) Append(ctx context.Context, entry *timeline.Entry) error {
	execer := database.ExecutorFromContext(ctx, r.conn)

	var bookingID, premisesID any
	if entry.BookingID != nil {
		bookingID = entry.BookingID.String()
	}
	if entry.PremisesID != nil {
		premisesID = entry.PremisesID.String()
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := execer.Exec(ctx, `
		INSERT INTO timeline_entries (
			id, entry_type, booking_id, premises_id, occurred_at, source, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`,
		entry.ID.String(),
		string(entry.Type),
		bookingID,
		premisesID,
		database.FormatTime(entry.OccurredAt),
		string(entry.Source),
		string(entry.Payload),
		database.FormatTime(createdAt),
	)
	return err
}

// ForBooking reads one page of a booking's history, oldest first.
func (r *SQLRepository) ForBooking(ctx context.Context, bookingID uuid.UUID, after *timeline.Cursor, limit int) (timeline.Page, error) {
	return r.page(ctx, "booking_id", bookingID, after, limit)
}

// ForPremises reads one page of a premises' history, oldest first.
func (r *SQLRepository) ForPremises(ctx context.Context, premisesID uuid.UUID, after *timeline.Cursor, limit int) (timeline.Page, error) {
	return r.page(ctx, "premises_id", premisesID, after, limit)
}

func (r *SQLRepository) page(ctx context.Context, column string, id uuid.UUID, after *timeline.Cursor, limit int) (timeline.Page, error) {
	if limit <= 0 {
		return timeline.Page{}, shared.NewValidationError("page limit must be positive")
	}

	execer := database.ExecutorFromContext(ctx, r.conn)

	query := `SELECT ` + selectEntryColumns + ` FROM timeline_entries WHERE ` + column + ` = $1`
	args := []any{id.String()}
	if after != nil {
		// Fixed-width RFC 3339 text compares chronologically.
		query += ` AND (occurred_at > $2 OR (occurred_at = $2 AND seq > $3))`
		args = append(args, database.FormatTime(after.OccurredAt), after.Seq)
		query += ` ORDER BY occurred_at, seq LIMIT $4`
	} else {
		query += ` ORDER BY occurred_at, seq LIMIT $2`
	}
	args = append(args, limit+1)

	rows, err := execer.Query(ctx, query, args...)
	if err != nil {
		return timeline.Page{}, err
	}
	defer rows.Close()

	var entries []timeline.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return timeline.Page{}, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return timeline.Page{}, err
	}

	page := timeline.Page{Entries: entries}
	if len(entries) > limit {
		page.Entries = entries[:limit]
		last := page.Entries[limit-1]
		page.Next = &timeline.Cursor{OccurredAt: last.OccurredAt, Seq: last.Seq}
	}
	return page, nil
}

func scanEntry(rows database.Rows) (timeline.Entry, error) {
	var (
		entry                     timeline.Entry
		idStr, typeStr, sourceStr string
		bookingStr, premisesStr   sql.NullString
		occurredStr, createdStr   string
		payloadStr                string
	)
	err := rows.Scan(&entry.Seq, &idStr, &typeStr, &bookingStr, &premisesStr,
		&occurredStr, &sourceStr, &payloadStr, &createdStr)
	if err != nil {
		return timeline.Entry{}, err
	}

	entry.ID, err = uuid.Parse(idStr)
	if err != nil {
		return timeline.Entry{}, err
	}
	entry.Type = timeline.EntryType(typeStr)
	entry.Source = shared.TriggerSource(sourceStr)
	entry.Payload = json.RawMessage(payloadStr)

	if bookingStr.Valid {
		bookingID, err := uuid.Parse(bookingStr.String)
		if err != nil {
			return timeline.Entry{}, err
		}
		entry.BookingID = &bookingID
	}
	if premisesStr.Valid {
		premisesID, err := uuid.Parse(premisesStr.String)
		if err != nil {
			return timeline.Entry{}, err
		}
		entry.PremisesID = &premisesID
	}

	entry.OccurredAt, err = database.ParseTime(occurredStr)
	if err != nil {
		return timeline.Entry{}, err
	}
	entry.CreatedAt, err = database.ParseTime(createdStr)
	if err != nil {
		return timeline.Entry{}, err
	}
	return entry, nil
}
