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

// bookingMutator carries the dependencies shared by every lifecycle handler
// and runs the common load-mutate-save cycle inside a unit of work.
type bookingMutator struct {
	bookingRepo domain.Repository
	collector   *outbox.Collector
	uow         sharedApplication.UnitOfWork
}

func (m bookingMutator) mutate(ctx context.Context, bookingID, actorID uuid.UUID, apply func(*domain.SpaceBooking) error) error {
	return sharedApplication.WithUnitOfWork(ctx, m.uow, func(txCtx context.Context) error {
		booking, err := m.bookingRepo.FindByID(txCtx, bookingID)
		if err != nil {
			return err
		}

		if err := apply(booking); err != nil {
			return err
		}

		if err := m.bookingRepo.Save(txCtx, booking); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(booking.DomainEvents(), sharedApplication.NewEventMetadata(actorID))
		return m.collector.CollectFrom(txCtx, booking)
	})
}

// RecordArrivalCommand records the person's actual arrival date.
type RecordArrivalCommand struct {
	ActorID       uuid.UUID
	BookingID     uuid.UUID
	ActualArrival shared.Date
}

// RecordArrivalHandler handles the RecordArrivalCommand.
type RecordArrivalHandler struct {
	bookingMutator
}

// NewRecordArrivalHandler creates a new RecordArrivalHandler.
func NewRecordArrivalHandler(bookingRepo domain.Repository, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *RecordArrivalHandler {
	return &RecordArrivalHandler{bookingMutator{bookingRepo, collector, uow}}
}

// Handle executes the RecordArrivalCommand.
func (h *RecordArrivalHandler) Handle(ctx context.Context, cmd RecordArrivalCommand) error {
	return h.mutate(ctx, cmd.BookingID, cmd.ActorID, func(b *domain.SpaceBooking) error {
		return b.RecordArrival(cmd.ActualArrival)
	})
}

// RecordDepartureCommand records the person's actual departure with its
// reason and optional move-on category.
type RecordDepartureCommand struct {
	ActorID          uuid.UUID
	BookingID        uuid.UUID
	ActualDeparture  shared.Date
	ReasonID         uuid.UUID
	MoveOnCategoryID *uuid.UUID
	Notes            string
}

// RecordDepartureHandler handles the RecordDepartureCommand.
type RecordDepartureHandler struct {
	bookingMutator
	catalog *refdata.Catalog
}

// NewRecordDepartureHandler creates a new RecordDepartureHandler.
func NewRecordDepartureHandler(bookingRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *RecordDepartureHandler {
	return &RecordDepartureHandler{bookingMutator{bookingRepo, collector, uow}, catalog}
}

// Handle executes the RecordDepartureCommand.
func (h *RecordDepartureHandler) Handle(ctx context.Context, cmd RecordDepartureCommand) error {
	if _, err := h.catalog.Reason(refdata.ReasonDeparture, cmd.ReasonID); err != nil {
		return err
	}
	if cmd.MoveOnCategoryID != nil {
		if _, err := h.catalog.MoveOnCategory(*cmd.MoveOnCategoryID); err != nil {
			return err
		}
	}

	return h.mutate(ctx, cmd.BookingID, cmd.ActorID, func(b *domain.SpaceBooking) error {
		return b.RecordDeparture(cmd.ActualDeparture, cmd.ReasonID, cmd.MoveOnCategoryID, cmd.Notes)
	})
}

// RecordNonArrivalCommand confirms the person never arrived.
type RecordNonArrivalCommand struct {
	ActorID   uuid.UUID
	BookingID uuid.UUID
	ReasonID  uuid.UUID
	Notes     string
}

// RecordNonArrivalHandler handles the RecordNonArrivalCommand.
type RecordNonArrivalHandler struct {
	bookingMutator
	catalog *refdata.Catalog
}

// NewRecordNonArrivalHandler creates a new RecordNonArrivalHandler.
func NewRecordNonArrivalHandler(bookingRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *RecordNonArrivalHandler {
	return &RecordNonArrivalHandler{bookingMutator{bookingRepo, collector, uow}, catalog}
}

// Handle executes the RecordNonArrivalCommand.
func (h *RecordNonArrivalHandler) Handle(ctx context.Context, cmd RecordNonArrivalCommand) error {
	if _, err := h.catalog.Reason(refdata.ReasonNonArrival, cmd.ReasonID); err != nil {
		return err
	}

	return h.mutate(ctx, cmd.BookingID, cmd.ActorID, func(b *domain.SpaceBooking) error {
		return b.RecordNonArrival(cmd.ReasonID, cmd.Notes)
	})
}

// CancelBookingCommand terminally withdraws a booking.
type CancelBookingCommand struct {
	ActorID   uuid.UUID
	BookingID uuid.UUID
	ReasonID  uuid.UUID
	Notes     string
}

// CancelBookingHandler handles the CancelBookingCommand.
type CancelBookingHandler struct {
	bookingMutator
	catalog *refdata.Catalog
}

// NewCancelBookingHandler creates a new CancelBookingHandler.
func NewCancelBookingHandler(bookingRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *CancelBookingHandler {
	return &CancelBookingHandler{bookingMutator{bookingRepo, collector, uow}, catalog}
}

// Handle executes the CancelBookingCommand.
func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) error {
	if _, err := h.catalog.Reason(refdata.ReasonCancellation, cmd.ReasonID); err != nil {
		return err
	}

	return h.mutate(ctx, cmd.BookingID, cmd.ActorID, func(b *domain.SpaceBooking) error {
		return b.Cancel(cmd.ReasonID, cmd.Notes)
	})
}

// ShortenBookingCommand moves a booking's departure earlier.
type ShortenBookingCommand struct {
	ActorID      uuid.UUID
	BookingID    uuid.UUID
	NewDeparture shared.Date
}

// ShortenBookingHandler handles the ShortenBookingCommand.
type ShortenBookingHandler struct {
	bookingMutator
}

// NewShortenBookingHandler creates a new ShortenBookingHandler.
func NewShortenBookingHandler(bookingRepo domain.Repository, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *ShortenBookingHandler {
	return &ShortenBookingHandler{bookingMutator{bookingRepo, collector, uow}}
}

// Handle executes the ShortenBookingCommand.
func (h *ShortenBookingHandler) Handle(ctx context.Context, cmd ShortenBookingCommand) error {
	return h.mutate(ctx, cmd.BookingID, cmd.ActorID, func(b *domain.SpaceBooking) error {
		return b.Shorten(cmd.NewDeparture)
	})
}

// AllocateKeyWorkerCommand assigns a key worker to a booking.
type AllocateKeyWorkerCommand struct {
	ActorID     uuid.UUID
	BookingID   uuid.UUID
	KeyWorkerID uuid.UUID
}

// AllocateKeyWorkerHandler handles the AllocateKeyWorkerCommand.
type AllocateKeyWorkerHandler struct {
	bookingMutator
}

// NewAllocateKeyWorkerHandler creates a new AllocateKeyWorkerHandler.
func NewAllocateKeyWorkerHandler(bookingRepo domain.Repository, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *AllocateKeyWorkerHandler {
	return &AllocateKeyWorkerHandler{bookingMutator{bookingRepo, collector, uow}}
}

// Handle executes the AllocateKeyWorkerCommand.
func (h *AllocateKeyWorkerHandler) Handle(ctx context.Context, cmd AllocateKeyWorkerCommand) error {
	return h.mutate(ctx, cmd.BookingID, cmd.ActorID, func(b *domain.SpaceBooking) error {
		return b.AllocateKeyWorker(cmd.KeyWorkerID)
	})
}
