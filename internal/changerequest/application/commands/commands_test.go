package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/commands"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

type memoryRequestRepo struct {
	requests map[uuid.UUID]*domain.ChangeRequest
}

func newMemoryRequestRepo() *memoryRequestRepo {
	return &memoryRequestRepo{requests: make(map[uuid.UUID]*domain.ChangeRequest)}
}

func (r *memoryRequestRepo) Save(_ context.Context, request *domain.ChangeRequest) error {
	r.requests[request.ID()] = request
	return nil
}

func (r *memoryRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.ChangeRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, shared.NewNotFoundError("change request not found: " + id.String())
	}
	return request, nil
}

func (r *memoryRequestRepo) FindByBooking(_ context.Context, bookingID uuid.UUID) ([]*domain.ChangeRequest, error) {
	var out []*domain.ChangeRequest
	for _, request := range r.requests {
		if request.BookingID() == bookingID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (r *memoryRequestRepo) HasOpenRequest(_ context.Context, bookingID uuid.UUID, requestType domain.RequestType) (bool, error) {
	for _, request := range r.requests {
		if request.BookingID() == bookingID && request.Type() == requestType && request.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

type memoryBookingRepo struct {
	bookings map[uuid.UUID]*bookingdomain.SpaceBooking
	saves    int
}

func newMemoryBookingRepo() *memoryBookingRepo {
	return &memoryBookingRepo{bookings: make(map[uuid.UUID]*bookingdomain.SpaceBooking)}
}

func (r *memoryBookingRepo) Save(_ context.Context, booking *bookingdomain.SpaceBooking) error {
	r.bookings[booking.ID()] = booking
	r.saves++
	return nil
}

func (r *memoryBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingdomain.SpaceBooking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, shared.NewNotFoundError("booking not found: " + id.String())
	}
	return booking, nil
}

func (r *memoryBookingRepo) FindForPremisesOverlapping(_ context.Context, _ uuid.UUID, _ shared.DateRange) ([]*bookingdomain.SpaceBooking, error) {
	return nil, nil
}

func (r *memoryBookingRepo) FindByPerson(_ context.Context, _ shared.PersonID) ([]*bookingdomain.SpaceBooking, error) {
	return nil, nil
}

type stubCapacity struct {
	available    bool
	lastPremises uuid.UUID
	lastWindow   shared.DateRange
	calls        int
}

func (s *stubCapacity) HasSpareCapacity(_ context.Context, premisesID uuid.UUID, window shared.DateRange, _ []uuid.UUID) (bool, error) {
	s.calls++
	s.lastPremises = premisesID
	s.lastWindow = window
	return s.available, nil
}

type passthroughUoW struct{}

func (passthroughUoW) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (passthroughUoW) Commit(context.Context) error                       { return nil }
func (passthroughUoW) Rollback(context.Context) error                     { return nil }

type harness struct {
	requests  *memoryRequestRepo
	bookings  *memoryBookingRepo
	capacity  *stubCapacity
	catalog   *refdata.Catalog
	collector *outbox.Collector

	changeReqReason uuid.UUID
	rejectionReason uuid.UUID
}

func newHarness() *harness {
	changeReqReason := uuid.New()
	rejectionReason := uuid.New()
	catalog := refdata.NewCatalog(nil, []refdata.Reason{
		{ID: changeReqReason, Name: "riskEscalation", Kind: refdata.ReasonChangeReq},
		{ID: rejectionReason, Name: "noGrounds", Kind: refdata.ReasonCRRejection},
	}, nil)

	return &harness{
		requests:        newMemoryRequestRepo(),
		bookings:        newMemoryBookingRepo(),
		capacity:        &stubCapacity{available: true},
		catalog:         catalog,
		collector:       outbox.NewCollector(outbox.NewInMemoryRepository()),
		changeReqReason: changeReqReason,
		rejectionReason: rejectionReason,
	}
}

func (h *harness) addBooking(t *testing.T) *bookingdomain.SpaceBooking {
	t.Helper()
	booking, err := bookingdomain.NewSpaceBooking(
		uuid.New(),
		shared.NewPersonID("X320741"),
		shared.NewDate(2026, 4, 1),
		shared.NewDate(2026, 4, 30),
		nil,
	)
	require.NoError(t, err)
	booking.ClearDomainEvents()
	h.bookings.bookings[booking.ID()] = booking
	return booking
}

func (h *harness) addOpenRequest(t *testing.T, bookingID uuid.UUID, requestType domain.RequestType, payload domain.RequestPayload) *domain.ChangeRequest {
	t.Helper()
	request, err := domain.NewChangeRequest(bookingID, requestType, payload, h.changeReqReason)
	require.NoError(t, err)
	request.ClearDomainEvents()
	h.requests.requests[request.ID()] = request
	return request
}

func TestRaiseRequestHandler(t *testing.T) {
	t.Run("raises an appeal request", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		handler := commands.NewRaiseRequestHandler(h.requests, h.bookings, h.catalog, h.collector, passthroughUoW{})

		result, err := handler.Handle(context.Background(), commands.RaiseRequestCommand{
			ActorID:     uuid.New(),
			BookingID:   booking.ID(),
			RequestType: domain.TypePlacementAppeal,
			Payload:     domain.RequestPayload{Appeal: &domain.AppealPayload{Notes: "cancelled in error"}},
			ReasonID:    h.changeReqReason,
		})
		require.NoError(t, err)

		stored, err := h.requests.FindByID(context.Background(), result.RequestID)
		require.NoError(t, err)
		assert.True(t, stored.IsOpen())
		assert.Equal(t, booking.ID(), stored.BookingID())
	})

	t.Run("rejects a second open request of the same type", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		h.addOpenRequest(t, booking.ID(), domain.TypePlacementAppeal,
			domain.RequestPayload{Appeal: &domain.AppealPayload{}})
		handler := commands.NewRaiseRequestHandler(h.requests, h.bookings, h.catalog, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.RaiseRequestCommand{
			ActorID:     uuid.New(),
			BookingID:   booking.ID(),
			RequestType: domain.TypePlacementAppeal,
			Payload:     domain.RequestPayload{Appeal: &domain.AppealPayload{}},
			ReasonID:    h.changeReqReason,
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateOpenRequest)
	})

	t.Run("allows a different type while one is open", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		h.addOpenRequest(t, booking.ID(), domain.TypePlacementAppeal,
			domain.RequestPayload{Appeal: &domain.AppealPayload{}})
		handler := commands.NewRaiseRequestHandler(h.requests, h.bookings, h.catalog, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.RaiseRequestCommand{
			ActorID:     uuid.New(),
			BookingID:   booking.ID(),
			RequestType: domain.TypePlacementExtension,
			Payload:     domain.RequestPayload{Extension: &domain.ExtensionPayload{NewDeparture: shared.NewDate(2026, 5, 15)}},
			ReasonID:    h.changeReqReason,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a reason of the wrong kind", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		handler := commands.NewRaiseRequestHandler(h.requests, h.bookings, h.catalog, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.RaiseRequestCommand{
			ActorID:     uuid.New(),
			BookingID:   booking.ID(),
			RequestType: domain.TypePlacementAppeal,
			Payload:     domain.RequestPayload{Appeal: &domain.AppealPayload{}},
			ReasonID:    h.rejectionReason,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("fails for an unknown booking", func(t *testing.T) {
		h := newHarness()
		handler := commands.NewRaiseRequestHandler(h.requests, h.bookings, h.catalog, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.RaiseRequestCommand{
			ActorID:     uuid.New(),
			BookingID:   uuid.New(),
			RequestType: domain.TypePlacementAppeal,
			Payload:     domain.RequestPayload{Appeal: &domain.AppealPayload{}},
			ReasonID:    h.changeReqReason,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestApproveRequestHandler_Transfer(t *testing.T) {
	t.Run("books the destination and shortens the source", func(t *testing.T) {
		h := newHarness()
		source := h.addBooking(t)
		destinationPremises := uuid.New()
		transferDate := shared.NewDate(2026, 4, 15)
		request := h.addOpenRequest(t, source.ID(), domain.TypePlannedTransfer, domain.RequestPayload{
			Transfer: &domain.TransferPayload{
				DestinationPremisesID: destinationPremises,
				TransferDate:          transferDate,
			},
		})
		handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

		result, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
			ActorID:   uuid.New(),
			RequestID: request.ID(),
		})
		require.NoError(t, err)
		require.NotNil(t, result.NewBookingID)

		destination, err := h.bookings.FindByID(context.Background(), *result.NewBookingID)
		require.NoError(t, err)
		assert.Equal(t, destinationPremises, destination.PremisesID())
		assert.Equal(t, source.PersonID(), destination.PersonID())
		assert.True(t, destination.CanonicalArrival().Equal(transferDate))
		assert.True(t, destination.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 30)))

		assert.True(t, source.CanonicalDeparture().Equal(transferDate))
		assert.False(t, request.IsOpen())

		assert.Equal(t, destinationPremises, h.capacity.lastPremises)
		assert.True(t, h.capacity.lastWindow.Start.Equal(transferDate))
	})

	t.Run("leaves the source untouched when the destination has no capacity", func(t *testing.T) {
		h := newHarness()
		h.capacity.available = false
		source := h.addBooking(t)
		request := h.addOpenRequest(t, source.ID(), domain.TypeEmergencyTransfer, domain.RequestPayload{
			Transfer: &domain.TransferPayload{
				DestinationPremisesID: uuid.New(),
				TransferDate:          shared.NewDate(2026, 4, 15),
			},
		})
		handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
			ActorID:   uuid.New(),
			RequestID: request.ID(),
		})
		assert.ErrorIs(t, err, shared.ErrNoCapacity)

		assert.True(t, source.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 30)))
		assert.Len(t, h.bookings.bookings, 1)
		assert.Zero(t, h.bookings.saves)
		assert.True(t, request.IsOpen())
	})
}

func TestApproveRequestHandler_Extension(t *testing.T) {
	t.Run("extends the departure when capacity allows", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		newDeparture := shared.NewDate(2026, 5, 14)
		request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementExtension, domain.RequestPayload{
			Extension: &domain.ExtensionPayload{NewDeparture: newDeparture},
		})
		handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
			ActorID:   uuid.New(),
			RequestID: request.ID(),
		})
		require.NoError(t, err)

		assert.True(t, booking.CanonicalDeparture().Equal(newDeparture))
		assert.False(t, request.IsOpen())

		// Only the added days are checked, not the whole stay.
		assert.True(t, h.capacity.lastWindow.Start.Equal(shared.NewDate(2026, 5, 1)))
		assert.True(t, h.capacity.lastWindow.End.Equal(newDeparture))
	})

	t.Run("fails when the premises has no capacity for the added days", func(t *testing.T) {
		h := newHarness()
		h.capacity.available = false
		booking := h.addBooking(t)
		request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementExtension, domain.RequestPayload{
			Extension: &domain.ExtensionPayload{NewDeparture: shared.NewDate(2026, 5, 14)},
		})
		handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
			ActorID:   uuid.New(),
			RequestID: request.ID(),
		})
		assert.ErrorIs(t, err, shared.ErrNoCapacity)
		assert.True(t, booking.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 30)))
		assert.True(t, request.IsOpen())
	})

	t.Run("fails when the new departure does not extend the stay", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementExtension, domain.RequestPayload{
			Extension: &domain.ExtensionPayload{NewDeparture: shared.NewDate(2026, 4, 20)},
		})
		handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

		_, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
			ActorID:   uuid.New(),
			RequestID: request.ID(),
		})
		assert.ErrorIs(t, err, bookingdomain.ErrInvalidExtension)
		assert.Zero(t, h.capacity.calls)
	})
}

func TestApproveRequestHandler_Appeal(t *testing.T) {
	h := newHarness()
	booking := h.addBooking(t)
	require.NoError(t, booking.Cancel(uuid.New(), "raised in error"))
	booking.ClearDomainEvents()
	request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementAppeal,
		domain.RequestPayload{Appeal: &domain.AppealPayload{}})
	handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

	_, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
		ActorID:   uuid.New(),
		RequestID: request.ID(),
	})
	require.NoError(t, err)

	assert.Equal(t, bookingdomain.StatusUpcoming, booking.Status())
	assert.False(t, request.IsOpen())
}

func TestApproveRequestHandler_AlreadyDecided(t *testing.T) {
	h := newHarness()
	booking := h.addBooking(t)
	request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementAppeal,
		domain.RequestPayload{Appeal: &domain.AppealPayload{}})
	require.NoError(t, request.Reject(h.rejectionReason, nil))
	request.ClearDomainEvents()
	handler := commands.NewApproveRequestHandler(h.requests, h.bookings, h.capacity, h.collector, passthroughUoW{})

	_, err := handler.Handle(context.Background(), commands.ApproveRequestCommand{
		ActorID:   uuid.New(),
		RequestID: request.ID(),
	})
	assert.ErrorIs(t, err, domain.ErrNotOpen)
}

func TestRejectRequestHandler(t *testing.T) {
	t.Run("rejects an open request", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementAppeal,
			domain.RequestPayload{Appeal: &domain.AppealPayload{}})
		handler := commands.NewRejectRequestHandler(h.requests, h.catalog, h.collector, passthroughUoW{})

		err := handler.Handle(context.Background(), commands.RejectRequestCommand{
			ActorID:           uuid.New(),
			RequestID:         request.ID(),
			RejectionReasonID: h.rejectionReason,
		})
		require.NoError(t, err)

		require.NotNil(t, request.Decision())
		assert.Equal(t, domain.OutcomeRejected, request.Decision().Outcome)
		assert.Zero(t, h.bookings.saves)
	})

	t.Run("rejects a rejection reason of the wrong kind", func(t *testing.T) {
		h := newHarness()
		booking := h.addBooking(t)
		request := h.addOpenRequest(t, booking.ID(), domain.TypePlacementAppeal,
			domain.RequestPayload{Appeal: &domain.AppealPayload{}})
		handler := commands.NewRejectRequestHandler(h.requests, h.catalog, h.collector, passthroughUoW{})

		err := handler.Handle(context.Background(), commands.RejectRequestCommand{
			ActorID:           uuid.New(),
			RequestID:         request.ID(),
			RejectionReasonID: h.changeReqReason,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, request.IsOpen())
	})
}
