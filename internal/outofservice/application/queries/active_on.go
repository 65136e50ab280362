// Package queries contains the out-of-service read-side handlers.
package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// ActiveOnQuery asks whether a bed is out of service on a given day.
type ActiveOnQuery struct {
	BedID uuid.UUID
	Day   shared.Date
}

// ActiveOnHandler handles the ActiveOnQuery.
type ActiveOnHandler struct {
	periodRepo domain.Repository
}

// NewActiveOnHandler creates a new ActiveOnHandler.
func NewActiveOnHandler(periodRepo domain.Repository) *ActiveOnHandler {
	return &ActiveOnHandler{periodRepo: periodRepo}
}

// Handle reports whether any non-cancelled period covers the day.
func (h *ActiveOnHandler) Handle(ctx context.Context, query ActiveOnQuery) (bool, error) {
	periods, err := h.periodRepo.FindByBed(ctx, query.BedID)
	if err != nil {
		return false, err
	}
	for _, p := range periods {
		if p.ActiveOn(query.Day) {
			return true, nil
		}
	}
	return false, nil
}

// PeriodsForBedQuery lists every period of a bed, oldest first.
type PeriodsForBedQuery struct {
	BedID uuid.UUID
}

// PeriodsForBedHandler handles the PeriodsForBedQuery.
type PeriodsForBedHandler struct {
	periodRepo domain.Repository
}

// NewPeriodsForBedHandler creates a new PeriodsForBedHandler.
func NewPeriodsForBedHandler(periodRepo domain.Repository) *PeriodsForBedHandler {
	return &PeriodsForBedHandler{periodRepo: periodRepo}
}

// Handle loads the bed's periods with their revision history.
func (h *PeriodsForBedHandler) Handle(ctx context.Context, query PeriodsForBedQuery) ([]*domain.OutOfServicePeriod, error) {
	return h.periodRepo.FindByBed(ctx, query.BedID)
}
