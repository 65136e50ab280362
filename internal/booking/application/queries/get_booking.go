// Package queries contains the booking read-side handlers.
package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// GetBookingQuery loads a single booking.
type GetBookingQuery struct {
	BookingID uuid.UUID
}

// GetBookingHandler handles the GetBookingQuery.
type GetBookingHandler struct {
	bookingRepo domain.Repository
}

// NewGetBookingHandler creates a new GetBookingHandler.
func NewGetBookingHandler(bookingRepo domain.Repository) *GetBookingHandler {
	return &GetBookingHandler{bookingRepo: bookingRepo}
}

// Handle loads the booking.
func (h *GetBookingHandler) Handle(ctx context.Context, query GetBookingQuery) (*domain.SpaceBooking, error) {
	return h.bookingRepo.FindByID(ctx, query.BookingID)
}

// BookingsForPremisesQuery lists the bookings whose canonical window overlaps
// the given range at a premises.
type BookingsForPremisesQuery struct {
	PremisesID uuid.UUID
	Window     shared.DateRange
}

// BookingsForPremisesHandler handles the BookingsForPremisesQuery.
type BookingsForPremisesHandler struct {
	bookingRepo domain.Repository
}

// NewBookingsForPremisesHandler creates a new BookingsForPremisesHandler.
func NewBookingsForPremisesHandler(bookingRepo domain.Repository) *BookingsForPremisesHandler {
	return &BookingsForPremisesHandler{bookingRepo: bookingRepo}
}

// Handle loads the overlapping bookings.
func (h *BookingsForPremisesHandler) Handle(ctx context.Context, query BookingsForPremisesQuery) ([]*domain.SpaceBooking, error) {
	return h.bookingRepo.FindForPremisesOverlapping(ctx, query.PremisesID, query.Window)
}

// BookingsForPersonQuery lists every booking for a person, oldest first.
type BookingsForPersonQuery struct {
	PersonID string
}

// BookingsForPersonHandler handles the BookingsForPersonQuery.
type BookingsForPersonHandler struct {
	bookingRepo domain.Repository
}

// NewBookingsForPersonHandler creates a new BookingsForPersonHandler.
func NewBookingsForPersonHandler(bookingRepo domain.Repository) *BookingsForPersonHandler {
	return &BookingsForPersonHandler{bookingRepo: bookingRepo}
}

// Handle loads the person's bookings.
func (h *BookingsForPersonHandler) Handle(ctx context.Context, query BookingsForPersonQuery) ([]*domain.SpaceBooking, error) {
	return h.bookingRepo.FindByPerson(ctx, shared.NewPersonID(query.PersonID))
}
