package commands

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	bookingdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

// CapacityChecker gates transfer and extension approvals on the capacity
// view.
type CapacityChecker interface {
	HasSpareCapacity(ctx context.Context, premisesID uuid.UUID, window shared.DateRange, requiredCharacteristics []uuid.UUID) (bool, error)
}

// ApproveRequestCommand approves an open change request and applies its
// booking side effects.
type ApproveRequestCommand struct {
	ActorID         uuid.UUID
	RequestID       uuid.UUID
	DecisionPayload json.RawMessage
}

// ApproveRequestResult contains the result of an approval. NewBookingID is
// set only for transfers.
type ApproveRequestResult struct {
	NewBookingID *uuid.UUID
}

// ApproveRequestHandler handles the ApproveRequestCommand.
type ApproveRequestHandler struct {
	requestRepo domain.Repository
	bookingRepo bookingdomain.Repository
	capacity    CapacityChecker
	collector   *outbox.Collector
	uow         sharedApplication.UnitOfWork
}

// NewApproveRequestHandler creates a new ApproveRequestHandler.
func NewApproveRequestHandler(requestRepo domain.Repository, bookingRepo bookingdomain.Repository, capacity CapacityChecker, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *ApproveRequestHandler {
	return &ApproveRequestHandler{
		requestRepo: requestRepo,
		bookingRepo: bookingRepo,
		capacity:    capacity,
		collector:   collector,
		uow:         uow,
	}
}

// Handle executes the ApproveRequestCommand. All side effects run in one unit
// of work: a transfer that cannot book the destination rolls back the source
// truncation, and capacity is always checked before anything is mutated.
func (h *ApproveRequestHandler) Handle(ctx context.Context, cmd ApproveRequestCommand) (*ApproveRequestResult, error) {
	result := &ApproveRequestResult{}
	metadata := sharedApplication.NewEventMetadata(cmd.ActorID)

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		request, err := h.requestRepo.FindByID(txCtx, cmd.RequestID)
		if err != nil {
			return err
		}
		if !request.IsOpen() {
			return domain.ErrNotOpen
		}

		booking, err := h.bookingRepo.FindByID(txCtx, request.BookingID())
		if err != nil {
			return err
		}

		switch {
		case request.Type() == domain.TypePlacementAppeal:
			err = h.applyAppeal(txCtx, booking, metadata)
		case request.Type().IsTransfer():
			result.NewBookingID, err = h.applyTransfer(txCtx, booking, request.Payload().Transfer, metadata)
		case request.Type() == domain.TypePlacementExtension:
			err = h.applyExtension(txCtx, booking, request.Payload().Extension, metadata)
		default:
			err = shared.NewValidationError("unknown change request type: " + string(request.Type()))
		}
		if err != nil {
			return err
		}

		if err := request.Approve(cmd.DecisionPayload); err != nil {
			return err
		}
		if err := h.requestRepo.Save(txCtx, request); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(request.DomainEvents(), metadata)
		return h.collector.CollectFrom(txCtx, request)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *ApproveRequestHandler) applyAppeal(ctx context.Context, booking *bookingdomain.SpaceBooking, metadata shared.EventMetadata) error {
	if err := booking.Reinstate(); err != nil {
		return err
	}
	return h.saveBooking(ctx, booking, metadata)
}

// applyTransfer shortens the source booking to the transfer date and creates
// the destination booking starting that date. Destination capacity is
// validated before either booking is touched.
func (h *ApproveRequestHandler) applyTransfer(ctx context.Context, source *bookingdomain.SpaceBooking, payload *domain.TransferPayload, metadata shared.EventMetadata) (*uuid.UUID, error) {
	if payload == nil {
		return nil, shared.NewValidationError("transfer request has no transfer payload")
	}

	departure := source.CanonicalDeparture()
	window := shared.NewDateRange(payload.TransferDate, departure)
	ok, err := h.capacity.HasSpareCapacity(ctx, payload.DestinationPremisesID, window, source.Characteristics())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.NewNoCapacityError("destination premises has no matching capacity for the transfer window")
	}

	destination, err := bookingdomain.NewSpaceBooking(
		payload.DestinationPremisesID,
		source.PersonID(),
		payload.TransferDate,
		departure,
		source.Characteristics(),
	)
	if err != nil {
		return nil, err
	}

	if err := source.Shorten(payload.TransferDate); err != nil {
		return nil, err
	}

	if err := h.saveBooking(ctx, source, metadata); err != nil {
		return nil, err
	}
	if err := h.saveBooking(ctx, destination, metadata); err != nil {
		return nil, err
	}

	id := destination.ID()
	return &id, nil
}

func (h *ApproveRequestHandler) applyExtension(ctx context.Context, booking *bookingdomain.SpaceBooking, payload *domain.ExtensionPayload, metadata shared.EventMetadata) error {
	if payload == nil {
		return shared.NewValidationError("extension request has no extension payload")
	}

	currentDeparture := booking.CanonicalDeparture()
	if !payload.NewDeparture.After(currentDeparture) {
		return bookingdomain.ErrInvalidExtension
	}

	addedDays := shared.NewDateRange(currentDeparture.AddDays(1), payload.NewDeparture)
	ok, err := h.capacity.HasSpareCapacity(ctx, booking.PremisesID(), addedDays, booking.Characteristics())
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewNoCapacityError("premises has no matching capacity for the extension window")
	}

	if err := booking.Extend(payload.NewDeparture); err != nil {
		return err
	}
	return h.saveBooking(ctx, booking, metadata)
}

func (h *ApproveRequestHandler) saveBooking(ctx context.Context, booking *bookingdomain.SpaceBooking, metadata shared.EventMetadata) error {
	if err := h.bookingRepo.Save(ctx, booking); err != nil {
		return err
	}
	sharedApplication.ApplyEventMetadata(booking.DomainEvents(), metadata)
	return h.collector.CollectFrom(ctx, booking)
}
