// Package persistence stores space bookings on the shared database
// abstraction.
package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
)

const selectBookingColumns = `
	id, premises_id, person_id, expected_arrival, expected_departure,
	actual_arrival, actual_departure, key_worker_id,
	cancellation_occurred_at, cancellation_reason_id, cancellation_notes,
	non_arrival_confirmed_at, non_arrival_reason_id, non_arrival_notes,
	departure_reason_id, departure_move_on_category_id, departure_notes,
	created_at, updated_at
`

// SQLRepository implements domain.Repository.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a new booking repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

// Save upserts the booking row and replaces its characteristic links.
func (r *SQLRepository) Save(ctx context.Context, booking *domain.SpaceBooking) error {
	execer := database.ExecutorFromContext(ctx, r.conn)

	var (
		actualArrival, actualDeparture, keyWorkerID                         any
		cancellationOccurredAt, cancellationReasonID, cancellationNotes     any
		nonArrivalConfirmedAt, nonArrivalReasonID, nonArrivalNotes          any
		departureReasonID, departureMoveOnCategoryID, departureNotes        any
	)
	if booking.ActualArrival() != nil {
		actualArrival = booking.ActualArrival().String()
	}
	if booking.ActualDeparture() != nil {
		actualDeparture = booking.ActualDeparture().String()
	}
	if booking.KeyWorkerID() != nil {
		keyWorkerID = booking.KeyWorkerID().String()
	}
	if c := booking.Cancellation(); c != nil {
		cancellationOccurredAt = database.FormatTime(c.OccurredAt)
		cancellationReasonID = c.ReasonID.String()
		cancellationNotes = c.Notes
	}
	if n := booking.NonArrival(); n != nil {
		nonArrivalConfirmedAt = database.FormatTime(n.ConfirmedAt)
		nonArrivalReasonID = n.ReasonID.String()
		nonArrivalNotes = n.Notes
	}
	if d := booking.Departure(); d != nil {
		departureReasonID = d.ReasonID.String()
		if d.MoveOnCategoryID != nil {
			departureMoveOnCategoryID = d.MoveOnCategoryID.String()
		}
		departureNotes = d.Notes
	}

	query := `
		INSERT INTO space_bookings (
			id, premises_id, person_id, expected_arrival, expected_departure,
			actual_arrival, actual_departure, key_worker_id,
			cancellation_occurred_at, cancellation_reason_id, cancellation_notes,
			non_arrival_confirmed_at, non_arrival_reason_id, non_arrival_notes,
			departure_reason_id, departure_move_on_category_id, departure_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			expected_arrival = excluded.expected_arrival,
			expected_departure = excluded.expected_departure,
			actual_arrival = excluded.actual_arrival,
			actual_departure = excluded.actual_departure,
			key_worker_id = excluded.key_worker_id,
			cancellation_occurred_at = excluded.cancellation_occurred_at,
			cancellation_reason_id = excluded.cancellation_reason_id,
			cancellation_notes = excluded.cancellation_notes,
			non_arrival_confirmed_at = excluded.non_arrival_confirmed_at,
			non_arrival_reason_id = excluded.non_arrival_reason_id,
			non_arrival_notes = excluded.non_arrival_notes,
			departure_reason_id = excluded.departure_reason_id,
			departure_move_on_category_id = excluded.departure_move_on_category_id,
			departure_notes = excluded.departure_notes,
			updated_at = excluded.updated_at
	`
	_, err := execer.Exec(ctx, query,
		booking.ID().String(),
		booking.PremisesID().String(),
		booking.PersonID().String(),
		booking.ExpectedArrival().String(),
		booking.ExpectedDeparture().String(),
		actualArrival,
		actualDeparture,
		keyWorkerID,
		cancellationOccurredAt,
		cancellationReasonID,
		cancellationNotes,
		nonArrivalConfirmedAt,
		nonArrivalReasonID,
		nonArrivalNotes,
		departureReasonID,
		departureMoveOnCategoryID,
		departureNotes,
		database.FormatTime(booking.CreatedAt()),
		database.FormatTime(booking.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	if _, err := execer.Exec(ctx, `DELETE FROM space_booking_characteristics WHERE booking_id = $1`, booking.ID().String()); err != nil {
		return err
	}
	for _, ch := range booking.Characteristics() {
		_, err := execer.Exec(ctx,
			`INSERT INTO space_booking_characteristics (booking_id, characteristic_id) VALUES ($1, $2)`,
			booking.ID().String(), ch.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByID loads a booking by id.
func (r *SQLRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SpaceBooking, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	row := execer.QueryRow(ctx,
		`SELECT `+selectBookingColumns+` FROM space_bookings WHERE id = $1`,
		id.String(),
	)
	booking, err := r.scanBooking(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, shared.NewNotFoundError("space booking not found: " + id.String())
		}
		return nil, err
	}
	return r.attachCharacteristics(ctx, execer, booking)
}

// FindForPremisesOverlapping loads every booking at the premises whose
// canonical window overlaps the given one. The canonical dates are derived
// in SQL as actual-if-set-else-expected; ISO 8601 text compares
// chronologically.
func (r *SQLRepository) FindForPremisesOverlapping(ctx context.Context, premisesID uuid.UUID, window shared.DateRange) ([]*domain.SpaceBooking, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx, `
		SELECT `+selectBookingColumns+`
		FROM space_bookings
		WHERE premises_id = $1
		AND COALESCE(actual_arrival, expected_arrival) <= $2
		AND COALESCE(actual_departure, expected_departure) >= $3
		ORDER BY expected_arrival, id
	`, premisesID.String(), window.End.String(), window.Start.String())
	if err != nil {
		return nil, err
	}
	return r.collectBookings(ctx, execer, rows)
}

// FindByPerson loads every booking for a person, oldest first.
func (r *SQLRepository) FindByPerson(ctx context.Context, personID shared.PersonID) ([]*domain.SpaceBooking, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx,
		`SELECT `+selectBookingColumns+` FROM space_bookings WHERE person_id = $1 ORDER BY created_at, id`,
		personID.String(),
	)
	if err != nil {
		return nil, err
	}
	return r.collectBookings(ctx, execer, rows)
}

func (r *SQLRepository) collectBookings(ctx context.Context, execer database.Executor, rows database.Rows) ([]*domain.SpaceBooking, error) {
	defer rows.Close()

	var bookings []*domain.SpaceBooking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, booking := range bookings {
		withChars, err := r.attachCharacteristics(ctx, execer, booking)
		if err != nil {
			return nil, err
		}
		bookings[i] = withChars
	}
	return bookings, nil
}

func (r *SQLRepository) scanBooking(row database.Row) (*domain.SpaceBooking, error) {
	var (
		idStr, premisesStr, personStr             string
		expectedArrivalStr, expectedDepartureStr  string
		actualArrivalStr, actualDepartureStr      sql.NullString
		keyWorkerStr                              sql.NullString
		cancOccurredStr, cancReasonStr, cancNotes sql.NullString
		naConfirmedStr, naReasonStr, naNotes      sql.NullString
		depReasonStr, depMoveOnStr, depNotes      sql.NullString
		createdAtStr, updatedAtStr                string
	)
	err := row.Scan(&idStr, &premisesStr, &personStr,
		&expectedArrivalStr, &expectedDepartureStr,
		&actualArrivalStr, &actualDepartureStr, &keyWorkerStr,
		&cancOccurredStr, &cancReasonStr, &cancNotes,
		&naConfirmedStr, &naReasonStr, &naNotes,
		&depReasonStr, &depMoveOnStr, &depNotes,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	premisesID, err := uuid.Parse(premisesStr)
	if err != nil {
		return nil, err
	}
	expectedArrival, err := shared.ParseDate(expectedArrivalStr)
	if err != nil {
		return nil, err
	}
	expectedDeparture, err := shared.ParseDate(expectedDepartureStr)
	if err != nil {
		return nil, err
	}
	createdAt, err := database.ParseTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := database.ParseTime(updatedAtStr)
	if err != nil {
		return nil, err
	}

	actualArrival, err := parseNullableDate(actualArrivalStr)
	if err != nil {
		return nil, err
	}
	actualDeparture, err := parseNullableDate(actualDepartureStr)
	if err != nil {
		return nil, err
	}
	keyWorkerID, err := parseNullableUUID(keyWorkerStr)
	if err != nil {
		return nil, err
	}

	var cancellation *domain.Cancellation
	if cancOccurredStr.Valid {
		var occurred time.Time
		occurred, err = database.ParseTime(cancOccurredStr.String)
		if err != nil {
			return nil, err
		}
		var reasonID uuid.UUID
		if cancReasonStr.Valid {
			reasonID, err = uuid.Parse(cancReasonStr.String)
			if err != nil {
				return nil, err
			}
		}
		cancellation = &domain.Cancellation{
			OccurredAt: occurred,
			ReasonID:   reasonID,
			Notes:      cancNotes.String,
		}
	}

	var nonArrival *domain.NonArrival
	if naConfirmedStr.Valid {
		var confirmed time.Time
		confirmed, err = database.ParseTime(naConfirmedStr.String)
		if err != nil {
			return nil, err
		}
		var reasonID uuid.UUID
		if naReasonStr.Valid {
			reasonID, err = uuid.Parse(naReasonStr.String)
			if err != nil {
				return nil, err
			}
		}
		nonArrival = &domain.NonArrival{
			ConfirmedAt: confirmed,
			ReasonID:    reasonID,
			Notes:       naNotes.String,
		}
	}

	var departure *domain.Departure
	if depReasonStr.Valid {
		reasonID, err := uuid.Parse(depReasonStr.String)
		if err != nil {
			return nil, err
		}
		moveOnID, err := parseNullableUUID(depMoveOnStr)
		if err != nil {
			return nil, err
		}
		departure = &domain.Departure{
			ReasonID:         reasonID,
			MoveOnCategoryID: moveOnID,
			Notes:            depNotes.String,
		}
	}

	return domain.RehydrateSpaceBooking(
		shared.RehydrateBaseEntity(id, createdAt, updatedAt),
		premisesID,
		shared.NewPersonID(personStr),
		expectedArrival,
		expectedDeparture,
		actualArrival,
		actualDeparture,
		nil,
		keyWorkerID,
		cancellation,
		nonArrival,
		departure,
	), nil
}

func (r *SQLRepository) attachCharacteristics(ctx context.Context, execer database.Executor, booking *domain.SpaceBooking) (*domain.SpaceBooking, error) {
	rows, err := execer.Query(ctx,
		`SELECT characteristic_id FROM space_booking_characteristics WHERE booking_id = $1`,
		booking.ID().String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var characteristics []uuid.UUID
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		characteristics = append(characteristics, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return domain.RehydrateSpaceBooking(
		shared.RehydrateBaseEntity(booking.ID(), booking.CreatedAt(), booking.UpdatedAt()),
		booking.PremisesID(),
		booking.PersonID(),
		booking.ExpectedArrival(),
		booking.ExpectedDeparture(),
		booking.ActualArrival(),
		booking.ActualDeparture(),
		characteristics,
		booking.KeyWorkerID(),
		booking.Cancellation(),
		booking.NonArrival(),
		booking.Departure(),
	), nil
}

func parseNullableDate(s sql.NullString) (*shared.Date, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := shared.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseNullableUUID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
