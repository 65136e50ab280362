// Package domain implements the space booking ledger, the canonical record
// of each placement of a person into a premises.
package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Status is the derived lifecycle state of a booking. It is computed from the
// recorded sub-states, never stored.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusArrived    Status = "arrived"
	StatusDeparted   Status = "departed"
	StatusNotArrived Status = "notArrived"
	StatusCancelled  Status = "cancelled"
)

var (
	// ErrDateRange marks a booking whose expected departure does not fall
	// after its expected arrival.
	ErrDateRange = shared.NewValidationError("expected departure must be after expected arrival")

	// ErrAlreadyArrived marks an operation that requires no arrival to have
	// been recorded yet.
	ErrAlreadyArrived = shared.NewStateConflictError("booking already has an arrival recorded")

	// ErrAlreadyDeparted marks any mutation of a departed booking.
	ErrAlreadyDeparted = shared.NewStateConflictError("booking has already departed")

	// ErrAlreadyCancelled marks any mutation of a cancelled booking.
	ErrAlreadyCancelled = shared.NewStateConflictError("booking is already cancelled")

	// ErrAlreadyNonArrival marks any mutation of a booking confirmed as a
	// non-arrival.
	ErrAlreadyNonArrival = shared.NewStateConflictError("booking is already confirmed as a non-arrival")

	// ErrNotArrived marks a departure recorded before any arrival.
	ErrNotArrived = shared.NewStateConflictError("booking has no arrival recorded")

	// ErrNotCancelled marks a reinstatement of a booking that is not
	// cancelled.
	ErrNotCancelled = shared.NewStateConflictError("booking is not cancelled")

	// ErrInvalidShorten marks a new departure date outside the booking's
	// current canonical window.
	ErrInvalidShorten = shared.NewValidationError("new departure date is outside the booking's current window")

	// ErrInvalidExtension marks a new departure date that does not extend
	// the booking.
	ErrInvalidExtension = shared.NewValidationError("new departure date does not extend the booking")
)

// Cancellation terminally withdraws a booking.
type Cancellation struct {
	OccurredAt time.Time
	ReasonID   uuid.UUID
	Notes      string
}

// NonArrival confirms the person never turned up.
type NonArrival struct {
	ConfirmedAt time.Time
	ReasonID    uuid.UUID
	Notes       string
}

// Departure records why and into what the person moved on.
type Departure struct {
	ReasonID         uuid.UUID
	MoveOnCategoryID *uuid.UUID
	Notes            string
}

// SpaceBooking places a person into a premises for a date range. The expected
// dates are set at creation; actual dates are recorded as they happen; all
// capacity arithmetic uses the canonical date, actual if known else expected.
type SpaceBooking struct {
	shared.BaseAggregateRoot
	premisesID        uuid.UUID
	personID          shared.PersonID
	expectedArrival   shared.Date
	expectedDeparture shared.Date
	actualArrival     *shared.Date
	actualDeparture   *shared.Date
	characteristics   []uuid.UUID
	keyWorkerID       *uuid.UUID
	cancellation      *Cancellation
	nonArrival        *NonArrival
	departure         *Departure
}

// NewSpaceBooking creates a booking in the upcoming state. Availability is
// not checked here; allocation is advisory and decided upstream from the
// capacity view.
func NewSpaceBooking(premisesID uuid.UUID, personID shared.PersonID, expectedArrival, expectedDeparture shared.Date, characteristics []uuid.UUID) (*SpaceBooking, error) {
	if premisesID == uuid.Nil {
		return nil, shared.NewValidationError("booking requires a premises")
	}
	if personID.IsEmpty() {
		return nil, shared.NewValidationError("booking requires a person")
	}
	if !expectedDeparture.After(expectedArrival) {
		return nil, ErrDateRange
	}

	b := &SpaceBooking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		premisesID:        premisesID,
		personID:          personID,
		expectedArrival:   expectedArrival,
		expectedDeparture: expectedDeparture,
		characteristics:   characteristics,
	}
	b.AddDomainEvent(NewBookingMade(b))
	return b, nil
}

// RehydrateSpaceBooking recreates a booking from persisted state.
func RehydrateSpaceBooking(
	entity shared.BaseEntity,
	premisesID uuid.UUID,
	personID shared.PersonID,
	expectedArrival, expectedDeparture shared.Date,
	actualArrival, actualDeparture *shared.Date,
	characteristics []uuid.UUID,
	keyWorkerID *uuid.UUID,
	cancellation *Cancellation,
	nonArrival *NonArrival,
	departure *Departure,
) *SpaceBooking {
	return &SpaceBooking{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(entity),
		premisesID:        premisesID,
		personID:          personID,
		expectedArrival:   expectedArrival,
		expectedDeparture: expectedDeparture,
		actualArrival:     actualArrival,
		actualDeparture:   actualDeparture,
		characteristics:   characteristics,
		keyWorkerID:       keyWorkerID,
		cancellation:      cancellation,
		nonArrival:        nonArrival,
		departure:         departure,
	}
}

func (b *SpaceBooking) PremisesID() uuid.UUID           { return b.premisesID }
func (b *SpaceBooking) PersonID() shared.PersonID       { return b.personID }
func (b *SpaceBooking) ExpectedArrival() shared.Date    { return b.expectedArrival }
func (b *SpaceBooking) ExpectedDeparture() shared.Date  { return b.expectedDeparture }
func (b *SpaceBooking) ActualArrival() *shared.Date     { return b.actualArrival }
func (b *SpaceBooking) ActualDeparture() *shared.Date   { return b.actualDeparture }
func (b *SpaceBooking) Characteristics() []uuid.UUID    { return b.characteristics }
func (b *SpaceBooking) KeyWorkerID() *uuid.UUID         { return b.keyWorkerID }
func (b *SpaceBooking) Cancellation() *Cancellation     { return b.cancellation }
func (b *SpaceBooking) NonArrival() *NonArrival         { return b.nonArrival }
func (b *SpaceBooking) Departure() *Departure           { return b.departure }

// CanonicalArrival is the actual arrival if recorded, else the expected one.
func (b *SpaceBooking) CanonicalArrival() shared.Date {
	if b.actualArrival != nil {
		return *b.actualArrival
	}
	return b.expectedArrival
}

// CanonicalDeparture is the actual departure if recorded, else the expected
// one.
func (b *SpaceBooking) CanonicalDeparture() shared.Date {
	if b.actualDeparture != nil {
		return *b.actualDeparture
	}
	return b.expectedDeparture
}

// CanonicalRange is the inclusive range of days the booking occupies.
func (b *SpaceBooking) CanonicalRange() shared.DateRange {
	return shared.NewDateRange(b.CanonicalArrival(), b.CanonicalDeparture())
}

// Status derives the lifecycle state from the recorded sub-states.
// Cancellation always wins, then non-arrival, then the departure and arrival
// records, and a booking with none of them is upcoming.
func (b *SpaceBooking) Status() Status {
	switch {
	case b.cancellation != nil:
		return StatusCancelled
	case b.nonArrival != nil:
		return StatusNotArrived
	case b.actualDeparture != nil:
		return StatusDeparted
	case b.actualArrival != nil:
		return StatusArrived
	default:
		return StatusUpcoming
	}
}

// OccupiesOn reports whether the booking counts against occupancy on the day.
// Cancelled and non-arrival bookings never occupy a bed.
func (b *SpaceBooking) OccupiesOn(day shared.Date) bool {
	status := b.Status()
	if status == StatusCancelled || status == StatusNotArrived {
		return false
	}
	return b.CanonicalRange().Contains(day)
}

// HasCharacteristic reports whether the booking requires the characteristic.
func (b *SpaceBooking) HasCharacteristic(id uuid.UUID) bool {
	for _, c := range b.characteristics {
		if c == id {
			return true
		}
	}
	return false
}

func (b *SpaceBooking) guardTerminal() error {
	switch {
	case b.cancellation != nil:
		return ErrAlreadyCancelled
	case b.nonArrival != nil:
		return ErrAlreadyNonArrival
	case b.actualDeparture != nil:
		return ErrAlreadyDeparted
	}
	return nil
}

// RecordArrival sets the actual arrival date.
func (b *SpaceBooking) RecordArrival(actualArrival shared.Date) error {
	if err := b.guardTerminal(); err != nil {
		return err
	}
	if b.actualArrival != nil {
		return ErrAlreadyArrived
	}

	b.actualArrival = &actualArrival
	b.Touch()
	b.AddDomainEvent(NewArrivalRecorded(b))
	return nil
}

// RecordDeparture sets the actual departure and its detail. An arrival must
// already be recorded.
func (b *SpaceBooking) RecordDeparture(actualDeparture shared.Date, reasonID uuid.UUID, moveOnCategoryID *uuid.UUID, notes string) error {
	if err := b.guardTerminal(); err != nil {
		return err
	}
	if b.actualArrival == nil {
		return ErrNotArrived
	}
	if actualDeparture.Before(*b.actualArrival) {
		return shared.NewValidationError("departure date is before the recorded arrival")
	}

	b.actualDeparture = &actualDeparture
	b.departure = &Departure{
		ReasonID:         reasonID,
		MoveOnCategoryID: moveOnCategoryID,
		Notes:            notes,
	}
	b.Touch()
	b.AddDomainEvent(NewDepartureRecorded(b))
	return nil
}

// RecordNonArrival confirms the person never arrived. Terminal.
func (b *SpaceBooking) RecordNonArrival(reasonID uuid.UUID, notes string) error {
	if b.actualArrival != nil {
		return ErrAlreadyArrived
	}
	if err := b.guardTerminal(); err != nil {
		return err
	}

	b.nonArrival = &NonArrival{
		ConfirmedAt: time.Now().UTC(),
		ReasonID:    reasonID,
		Notes:       notes,
	}
	b.Touch()
	b.AddDomainEvent(NewNonArrivalRecorded(b))
	return nil
}

// Cancel terminally withdraws the booking.
func (b *SpaceBooking) Cancel(reasonID uuid.UUID, notes string) error {
	if err := b.guardTerminal(); err != nil {
		return err
	}

	b.cancellation = &Cancellation{
		OccurredAt: time.Now().UTC(),
		ReasonID:   reasonID,
		Notes:      notes,
	}
	b.Touch()
	b.AddDomainEvent(NewBookingCancelled(b))
	return nil
}

// Reinstate reverses a cancellation, returning the booking to its derived
// pre-cancellation state. Used when a placement appeal is approved.
func (b *SpaceBooking) Reinstate() error {
	if b.cancellation == nil {
		return ErrNotCancelled
	}

	previous := b.CanonicalDeparture()
	b.cancellation = nil
	b.Touch()
	b.AddDomainEvent(NewBookingChanged(b, previous))
	return nil
}

// Shorten moves the booking's departure earlier. Only legal while the booking
// is upcoming or arrived, and the new departure must stay inside the current
// canonical window.
func (b *SpaceBooking) Shorten(newDeparture shared.Date) error {
	if err := b.guardTerminal(); err != nil {
		return err
	}
	if newDeparture.After(b.CanonicalDeparture()) || newDeparture.Before(b.CanonicalArrival()) {
		return ErrInvalidShorten
	}

	previous := b.CanonicalDeparture()
	b.expectedDeparture = newDeparture
	b.Touch()
	b.AddDomainEvent(NewBookingChanged(b, previous))
	return nil
}

// Extend moves the booking's departure later. Capacity for the added days is
// validated by the caller before this is applied.
func (b *SpaceBooking) Extend(newDeparture shared.Date) error {
	if err := b.guardTerminal(); err != nil {
		return err
	}
	if !newDeparture.After(b.CanonicalDeparture()) {
		return ErrInvalidExtension
	}

	previous := b.CanonicalDeparture()
	b.expectedDeparture = newDeparture
	b.Touch()
	b.AddDomainEvent(NewBookingChanged(b, previous))
	return nil
}

// AllocateKeyWorker assigns or replaces the booking's key worker.
func (b *SpaceBooking) AllocateKeyWorker(keyWorkerID uuid.UUID) error {
	if err := b.guardTerminal(); err != nil {
		return err
	}
	if keyWorkerID == uuid.Nil {
		return shared.NewValidationError("key worker id cannot be empty")
	}

	b.keyWorkerID = &keyWorkerID
	b.Touch()
	b.AddDomainEvent(NewKeyWorkerAssigned(b))
	return nil
}
