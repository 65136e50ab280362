package domain

import (
	"context"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Repository persists space bookings.
type Repository interface {
	Save(ctx context.Context, booking *SpaceBooking) error

	FindByID(ctx context.Context, id uuid.UUID) (*SpaceBooking, error)

	// FindForPremisesOverlapping loads every booking at the premises whose
	// canonical window overlaps the given one, including cancelled and
	// non-arrival bookings. Callers apply status filtering.
	FindForPremisesOverlapping(ctx context.Context, premisesID uuid.UUID, window shared.DateRange) ([]*SpaceBooking, error)

	// FindByPerson loads every booking for a person, oldest first.
	FindByPerson(ctx context.Context, personID shared.PersonID) ([]*SpaceBooking, error)
}
