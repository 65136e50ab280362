package domain

import (
	"context"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Repository persists out-of-service periods and their revision trails.
type Repository interface {
	// Save persists the period and appends any revision entries recorded
	// since the last save. Existing revision rows are never rewritten.
	Save(ctx context.Context, period *OutOfServicePeriod) error

	// FindByID loads a period with its full revision history.
	FindByID(ctx context.Context, id uuid.UUID) (*OutOfServicePeriod, error)

	// FindByBed loads every period for a bed, oldest first.
	FindByBed(ctx context.Context, bedID uuid.UUID) ([]*OutOfServicePeriod, error)

	// FindOverlappingForPremises loads every non-cancelled period on any bed
	// of the premises whose date range overlaps the window.
	FindOverlappingForPremises(ctx context.Context, premisesID uuid.UUID, window shared.DateRange) ([]*OutOfServicePeriod, error)
}
