// Package persistence stores out-of-service periods and their append-only
// revision trails on the shared database abstraction.
package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
)

const selectPeriodColumns = `
	id, bed_id, start_date, end_date, reason_id, reference_number, notes,
	cancelled_at, cancellation_notes, created_at, updated_at
`

// SQLRepository implements domain.Repository.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a new out-of-service period repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

// Save upserts the period row and appends any revision entries recorded since
// the last save. Revision rows already stored are left untouched so the trail
// stays strictly ordered.
func (r *SQLRepository) Save(ctx context.Context, period *domain.OutOfServicePeriod) error {
	execer := database.ExecutorFromContext(ctx, r.conn)

	var cancelledAt, cancellationNotes any
	if c := period.Cancellation(); c != nil {
		cancelledAt = database.FormatTime(c.OccurredAt)
		cancellationNotes = c.Notes
	}

	query := `
		INSERT INTO out_of_service_periods (
			id, bed_id, start_date, end_date, reason_id, reference_number,
			notes, cancelled_at, cancellation_notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			reason_id = excluded.reason_id,
			reference_number = excluded.reference_number,
			notes = excluded.notes,
			cancelled_at = excluded.cancelled_at,
			cancellation_notes = excluded.cancellation_notes,
			updated_at = excluded.updated_at
	`
	_, err := execer.Exec(ctx, query,
		period.ID().String(),
		period.BedID().String(),
		period.Dates().Start.String(),
		period.Dates().End.String(),
		period.ReasonID().String(),
		period.ReferenceNumber(),
		period.Notes(),
		cancelledAt,
		cancellationNotes,
		database.FormatTime(period.CreatedAt()),
		database.FormatTime(period.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	return r.appendRevisions(ctx, execer, period)
}

func (r *SQLRepository) appendRevisions(ctx context.Context, execer database.Executor, period *domain.OutOfServicePeriod) error {
	var stored int
	row := execer.QueryRow(ctx,
		`SELECT COUNT(*) FROM out_of_service_period_revisions WHERE period_id = $1`,
		period.ID().String(),
	)
	if err := row.Scan(&stored); err != nil {
		return err
	}

	revisions := period.Revisions()
	if stored >= len(revisions) {
		return nil
	}

	for _, rev := range revisions[stored:] {
		_, err := execer.Exec(ctx, `
			INSERT INTO out_of_service_period_revisions (id, period_id, change_type, actor_id, recorded_at)
			VALUES ($1, $2, $3, $4, $5)
		`,
			rev.ID.String(),
			period.ID().String(),
			string(rev.ChangeType),
			rev.ActorID.String(),
			database.FormatTime(rev.RecordedAt),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads a period with its full revision history.
func (r *SQLRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OutOfServicePeriod, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	row := execer.QueryRow(ctx,
		`SELECT `+selectPeriodColumns+` FROM out_of_service_periods WHERE id = $1`,
		id.String(),
	)
	period, err := r.scanPeriod(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, shared.NewNotFoundError("out-of-service period not found: " + id.String())
		}
		return nil, err
	}

	return r.attachRevisions(ctx, execer, period)
}

// FindByBed loads every period for a bed, oldest first.
func (r *SQLRepository) FindByBed(ctx context.Context, bedID uuid.UUID) ([]*domain.OutOfServicePeriod, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx,
		`SELECT `+selectPeriodColumns+` FROM out_of_service_periods WHERE bed_id = $1 ORDER BY created_at, id`,
		bedID.String(),
	)
	if err != nil {
		return nil, err
	}
	return r.collectPeriods(ctx, execer, rows)
}

// FindOverlappingForPremises loads every non-cancelled period on any bed of
// the premises whose inclusive range overlaps the window. Dates are stored as
// ISO 8601 text, so string comparison orders chronologically.
func (r *SQLRepository) FindOverlappingForPremises(ctx context.Context, premisesID uuid.UUID, window shared.DateRange) ([]*domain.OutOfServicePeriod, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx, `
		SELECT `+selectPeriodColumns+`
		FROM out_of_service_periods
		WHERE bed_id IN (
			SELECT b.id FROM beds b
			JOIN rooms rm ON rm.id = b.room_id
			WHERE rm.premises_id = $1
		)
		AND cancelled_at IS NULL
		AND start_date <= $2
		AND end_date >= $3
		ORDER BY created_at, id
	`, premisesID.String(), window.End.String(), window.Start.String())
	if err != nil {
		return nil, err
	}
	return r.collectPeriods(ctx, execer, rows)
}

func (r *SQLRepository) collectPeriods(ctx context.Context, execer database.Executor, rows database.Rows) ([]*domain.OutOfServicePeriod, error) {
	defer rows.Close()

	var periods []*domain.OutOfServicePeriod
	for rows.Next() {
		period, err := r.scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, period := range periods {
		withRevisions, err := r.attachRevisions(ctx, execer, period)
		if err != nil {
			return nil, err
		}
		periods[i] = withRevisions
	}
	return periods, nil
}

func (r *SQLRepository) scanPeriod(row database.Row) (*domain.OutOfServicePeriod, error) {
	var (
		idStr, bedStr, startStr, endStr, reasonStr string
		reference, notes                           sql.NullString
		cancelledAt, cancellationNotes             sql.NullString
		createdAt, updatedAt                       string
	)
	err := row.Scan(&idStr, &bedStr, &startStr, &endStr, &reasonStr,
		&reference, &notes, &cancelledAt, &cancellationNotes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	bedID, err := uuid.Parse(bedStr)
	if err != nil {
		return nil, err
	}
	reasonID, err := uuid.Parse(reasonStr)
	if err != nil {
		return nil, err
	}
	start, err := shared.ParseDate(startStr)
	if err != nil {
		return nil, err
	}
	end, err := shared.ParseDate(endStr)
	if err != nil {
		return nil, err
	}
	created, err := database.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := database.ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	var cancellation *domain.Cancellation
	if cancelledAt.Valid {
		var occurred time.Time
		occurred, err = database.ParseTime(cancelledAt.String)
		if err != nil {
			return nil, err
		}
		cancellation = &domain.Cancellation{
			OccurredAt: occurred,
			Notes:      cancellationNotes.String,
		}
	}

	return domain.RehydrateOutOfServicePeriod(
		shared.RehydrateBaseEntity(id, created, updated),
		bedID,
		shared.NewDateRange(start, end),
		reasonID,
		reference.String,
		notes.String,
		cancellation,
		nil,
	), nil
}

func (r *SQLRepository) attachRevisions(ctx context.Context, execer database.Executor, period *domain.OutOfServicePeriod) (*domain.OutOfServicePeriod, error) {
	rows, err := execer.Query(ctx, `
		SELECT id, change_type, actor_id, recorded_at
		FROM out_of_service_period_revisions
		WHERE period_id = $1
		ORDER BY seq
	`, period.ID().String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []domain.Revision
	for rows.Next() {
		var idStr, changeType, actorStr, recordedStr string
		if err := rows.Scan(&idStr, &changeType, &actorStr, &recordedStr); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, err
		}
		actorID, err := uuid.Parse(actorStr)
		if err != nil {
			return nil, err
		}
		recorded, err := database.ParseTime(recordedStr)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, domain.Revision{
			ID:         id,
			ChangeType: domain.ChangeType(changeType),
			ActorID:    actorID,
			RecordedAt: recorded,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return domain.RehydrateOutOfServicePeriod(
		shared.RehydrateBaseEntity(period.ID(), period.CreatedAt(), period.UpdatedAt()),
		period.BedID(),
		period.Dates(),
		period.ReasonID(),
		period.ReferenceNumber(),
		period.Notes(),
		period.Cancellation(),
		revisions,
	), nil
}
