package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists change requests.
type Repository interface {
	Save(ctx context.Context, request *ChangeRequest) error

	FindByID(ctx context.Context, id uuid.UUID) (*ChangeRequest, error)

	// FindByBooking loads every request for a booking, oldest first.
	FindByBooking(ctx context.Context, bookingID uuid.UUID) ([]*ChangeRequest, error)

	// HasOpenRequest reports whether an undecided request of the type exists
	// for the booking. Raise commands call this inside their transaction to
	// enforce at-most-one-open per (booking, type).
	HasOpenRequest(ctx context.Context, bookingID uuid.UUID, requestType RequestType) (bool, error)
}
