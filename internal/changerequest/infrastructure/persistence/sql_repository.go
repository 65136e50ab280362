// Package persistence stores change requests on the shared database
// abstraction. Request and decision payloads are stored as JSON text.
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
)

const selectRequestColumns = `
	id, booking_id, request_type, reason_id, request_payload,
	decision, decision_payload, rejection_reason_id, decided_at,
	created_at, updated_at
`

// SQLRepository implements domain.Repository.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a new change request repository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

// Save upserts the request.
func (r *SQLRepository) Save(ctx context.Context, request *domain.ChangeRequest) error {
	execer := database.ExecutorFromContext(ctx, r.conn)

	payload, err := domain.MarshalPayload(request.Payload())
	if err != nil {
		return err
	}

	var decision, decisionPayload, rejectionReasonID, decidedAt any
	if d := request.Decision(); d != nil {
		decision = string(d.Outcome)
		if len(d.Payload) > 0 {
			decisionPayload = string(d.Payload)
		}
		if d.RejectionReasonID != nil {
			rejectionReasonID = d.RejectionReasonID.String()
		}
		decidedAt = database.FormatTime(d.DecidedAt)
	}

	query := `
		INSERT INTO change_requests (
			id, booking_id, request_type, reason_id, request_payload,
			decision, decision_payload, rejection_reason_id, decided_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			decision = excluded.decision,
			decision_payload = excluded.decision_payload,
			rejection_reason_id = excluded.rejection_reason_id,
			decided_at = excluded.decided_at,
			updated_at = excluded.updated_at
	`
	_, err = execer.Exec(ctx, query,
		request.ID().String(),
		request.BookingID().String(),
		string(request.Type()),
		request.ReasonID().String(),
		string(payload),
		decision,
		decisionPayload,
		rejectionReasonID,
		decidedAt,
		database.FormatTime(request.CreatedAt()),
		database.FormatTime(request.UpdatedAt()),
	)
	return err
}

// FindByID loads a request by id.
func (r *SQLRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ChangeRequest, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	row := execer.QueryRow(ctx,
		`SELECT `+selectRequestColumns+` FROM change_requests WHERE id = $1`,
		id.String(),
	)
	request, err := scanRequest(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, shared.NewNotFoundError("change request not found: " + id.String())
		}
		return nil, err
	}
	return request, nil
}

// FindByBooking loads every request for a booking, oldest first.
func (r *SQLRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*domain.ChangeRequest, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	rows, err := execer.Query(ctx,
		`SELECT `+selectRequestColumns+` FROM change_requests WHERE booking_id = $1 ORDER BY created_at, id`,
		bookingID.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.ChangeRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

// HasOpenRequest reports whether an undecided request of the type exists for
// the booking.
func (r *SQLRepository) HasOpenRequest(ctx context.Context, bookingID uuid.UUID, requestType domain.RequestType) (bool, error) {
	execer := database.ExecutorFromContext(ctx, r.conn)

	var count int
	row := execer.QueryRow(ctx, `
		SELECT COUNT(*) FROM change_requests
		WHERE booking_id = $1 AND request_type = $2 AND decision IS NULL
	`, bookingID.String(), string(requestType))
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanRequest(row database.Row) (*domain.ChangeRequest, error) {
	var (
		idStr, bookingStr, typeStr, reasonStr, payloadStr string
		decisionStr, decisionPayloadStr                   sql.NullString
		rejectionReasonStr, decidedAtStr                  sql.NullString
		createdAtStr, updatedAtStr                        string
	)
	err := row.Scan(&idStr, &bookingStr, &typeStr, &reasonStr, &payloadStr,
		&decisionStr, &decisionPayloadStr, &rejectionReasonStr, &decidedAtStr,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	bookingID, err := uuid.Parse(bookingStr)
	if err != nil {
		return nil, err
	}
	reasonID, err := uuid.Parse(reasonStr)
	if err != nil {
		return nil, err
	}
	payload, err := domain.UnmarshalPayload(json.RawMessage(payloadStr))
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

	var decision *domain.Decision
	if decisionStr.Valid {
		decision = &domain.Decision{Outcome: domain.Outcome(decisionStr.String)}
		if decisionPayloadStr.Valid {
			decision.Payload = json.RawMessage(decisionPayloadStr.String)
		}
		if rejectionReasonStr.Valid {
			rejectionID, err := uuid.Parse(rejectionReasonStr.String)
			if err != nil {
				return nil, err
			}
			decision.RejectionReasonID = &rejectionID
		}
		if decidedAtStr.Valid {
			decision.DecidedAt, err = database.ParseTime(decidedAtStr.String)
			if err != nil {
				return nil, err
			}
		}
	}

	return domain.RehydrateChangeRequest(
		shared.RehydrateBaseEntity(id, createdAt, updatedAt),
		bookingID,
		domain.RequestType(typeStr),
		reasonID,
		payload,
		decision,
	), nil
}
