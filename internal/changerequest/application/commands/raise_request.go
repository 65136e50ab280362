// Package commands contains the change request command handlers.
package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"

	bookingdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
)

// RaiseRequestCommand opens a change request against a booking.
type RaiseRequestCommand struct {
	ActorID     uuid.UUID
	BookingID   uuid.UUID
	RequestType domain.RequestType
	Payload     domain.RequestPayload
	ReasonID    uuid.UUID
}

// RaiseRequestResult contains the result of raising a request.
type RaiseRequestResult struct {
	RequestID uuid.UUID
}

// RaiseRequestHandler handles the RaiseRequestCommand.
type RaiseRequestHandler struct {
	requestRepo domain.Repository
	bookingRepo bookingdomain.Repository
	catalog     *refdata.Catalog
	collector   *outbox.Collector
	uow         sharedApplication.UnitOfWork
}

// NewRaiseRequestHandler creates a new RaiseRequestHandler.
func NewRaiseRequestHandler(requestRepo domain.Repository, bookingRepo bookingdomain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *RaiseRequestHandler {
	return &RaiseRequestHandler{
		requestRepo: requestRepo,
		bookingRepo: bookingRepo,
		catalog:     catalog,
		collector:   collector,
		uow:         uow,
	}
}

// Handle executes the RaiseRequestCommand. The open-request uniqueness check
// runs inside the same transaction as the insert, so two concurrent raises of
// the same type cannot both commit.
func (h *RaiseRequestHandler) Handle(ctx context.Context, cmd RaiseRequestCommand) (*RaiseRequestResult, error) {
	if _, err := h.catalog.Reason(refdata.ReasonChangeReq, cmd.ReasonID); err != nil {
		return nil, err
	}

	var result *RaiseRequestResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if _, err := h.bookingRepo.FindByID(txCtx, cmd.BookingID); err != nil {
			return err
		}

		open, err := h.requestRepo.HasOpenRequest(txCtx, cmd.BookingID, cmd.RequestType)
		if err != nil {
			return err
		}
		if open {
			return domain.ErrDuplicateOpenRequest
		}

		request, err := domain.NewChangeRequest(cmd.BookingID, cmd.RequestType, cmd.Payload, cmd.ReasonID)
		if err != nil {
			return err
		}

		if err := h.requestRepo.Save(txCtx, request); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(request.DomainEvents(), sharedApplication.NewEventMetadata(cmd.ActorID))
		if err := h.collector.CollectFrom(txCtx, request); err != nil {
			return err
		}

		result = &RaiseRequestResult{RequestID: request.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
