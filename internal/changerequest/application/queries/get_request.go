// Package queries contains the change request query handlers.
package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
)

// GetRequestQuery fetches a single change request.
type GetRequestQuery struct {
	RequestID uuid.UUID
}

// GetRequestHandler handles the GetRequestQuery.
type GetRequestHandler struct {
	requestRepo domain.Repository
}

// NewGetRequestHandler creates a new GetRequestHandler.
func NewGetRequestHandler(requestRepo domain.Repository) *GetRequestHandler {
	return &GetRequestHandler{requestRepo: requestRepo}
}

// Handle executes the GetRequestQuery.
func (h *GetRequestHandler) Handle(ctx context.Context, query GetRequestQuery) (*domain.ChangeRequest, error) {
	return h.requestRepo.FindByID(ctx, query.RequestID)
}

// RequestsForBookingQuery lists every change request raised against a
// booking, oldest first.
type RequestsForBookingQuery struct {
	BookingID uuid.UUID
}

// RequestsForBookingHandler handles the RequestsForBookingQuery.
type RequestsForBookingHandler struct {
	requestRepo domain.Repository
}

// NewRequestsForBookingHandler creates a new RequestsForBookingHandler.
func NewRequestsForBookingHandler(requestRepo domain.Repository) *RequestsForBookingHandler {
	return &RequestsForBookingHandler{requestRepo: requestRepo}
}

// Handle executes the RequestsForBookingQuery.
func (h *RequestsForBookingHandler) Handle(ctx context.Context, query RequestsForBookingQuery) ([]*domain.ChangeRequest, error) {
	return h.requestRepo.FindByBooking(ctx, query.BookingID)
}
