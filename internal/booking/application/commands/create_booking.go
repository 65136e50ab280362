// Package commands contains the space booking command handlers. Every
// handler runs its read-then-write cycle inside a unit of work and stages any
// raised events on the outbox within the same transaction.
package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

// CreateBookingCommand places a person into a premises for an expected date
// range. Availability is advisory; callers consult the capacity view before
// issuing this command.
type CreateBookingCommand struct {
	ActorID           uuid.UUID
	PremisesID        uuid.UUID
	PersonID          string
	ExpectedArrival   shared.Date
	ExpectedDeparture shared.Date
	Characteristics   []uuid.UUID
}

// CreateBookingResult contains the result of creating a booking.
type CreateBookingResult struct {
	BookingID uuid.UUID
}

// CreateBookingHandler handles the CreateBookingCommand.
type CreateBookingHandler struct {
	bookingRepo domain.Repository
	catalog     *refdata.Catalog
	collector   *outbox.Collector
	uow         sharedApplication.UnitOfWork
}

// NewCreateBookingHandler creates a new CreateBookingHandler.
func NewCreateBookingHandler(bookingRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *CreateBookingHandler {
	return &CreateBookingHandler{
		bookingRepo: bookingRepo,
		catalog:     catalog,
		collector:   collector,
		uow:         uow,
	}
}

// Handle executes the CreateBookingCommand.
func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	for _, ch := range cmd.Characteristics {
		if _, err := h.catalog.Characteristic(ch); err != nil {
			return nil, err
		}
	}

	var result *CreateBookingResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		booking, err := domain.NewSpaceBooking(
			cmd.PremisesID,
			shared.NewPersonID(cmd.PersonID),
			cmd.ExpectedArrival,
			cmd.ExpectedDeparture,
			cmd.Characteristics,
		)
		if err != nil {
			return err
		}

		if err := h.bookingRepo.Save(txCtx, booking); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(booking.DomainEvents(), sharedApplication.NewEventMetadata(cmd.ActorID))
		if err := h.collector.CollectFrom(txCtx, booking); err != nil {
			return err
		}

		result = &CreateBookingResult{BookingID: booking.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
