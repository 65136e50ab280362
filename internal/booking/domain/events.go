package domain

import (
	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

const aggregateType = "SpaceBooking"

// BookingMade is raised when a booking is created.
type BookingMade struct {
	shared.BaseEvent
	PremisesID        uuid.UUID   `json:"premises_id"`
	PersonID          string      `json:"person_id"`
	ExpectedArrival   shared.Date `json:"expected_arrival"`
	ExpectedDeparture shared.Date `json:"expected_departure"`
	Characteristics   []uuid.UUID `json:"characteristics,omitempty"`
}

// NewBookingMade creates a BookingMade event.
func NewBookingMade(b *SpaceBooking) *BookingMade {
	return &BookingMade{
		BaseEvent:         shared.NewBaseEvent(b.ID(), aggregateType, "booking.made"),
		PremisesID:        b.PremisesID(),
		PersonID:          b.PersonID().String(),
		ExpectedArrival:   b.ExpectedArrival(),
		ExpectedDeparture: b.ExpectedDeparture(),
		Characteristics:   b.Characteristics(),
	}
}

// BookingChanged is raised when a booking's window moves, by a shorten, an
// extension or a reinstated cancellation.
type BookingChanged struct {
	shared.BaseEvent
	PremisesID        uuid.UUID   `json:"premises_id"`
	PreviousDeparture shared.Date `json:"previous_departure"`
	Arrival           shared.Date `json:"arrival"`
	Departure         shared.Date `json:"departure"`
	Status            Status      `json:"status"`
}

// NewBookingChanged creates a BookingChanged event.
func NewBookingChanged(b *SpaceBooking, previousDeparture shared.Date) *BookingChanged {
	return &BookingChanged{
		BaseEvent:         shared.NewBaseEvent(b.ID(), aggregateType, "booking.changed"),
		PremisesID:        b.PremisesID(),
		PreviousDeparture: previousDeparture,
		Arrival:           b.CanonicalArrival(),
		Departure:         b.CanonicalDeparture(),
		Status:            b.Status(),
	}
}

// BookingCancelled is raised when a booking is terminally withdrawn.
type BookingCancelled struct {
	shared.BaseEvent
	PremisesID uuid.UUID `json:"premises_id"`
	ReasonID   uuid.UUID `json:"reason_id"`
	Notes      string    `json:"notes,omitempty"`
}

// NewBookingCancelled creates a BookingCancelled event.
func NewBookingCancelled(b *SpaceBooking) *BookingCancelled {
	e := &BookingCancelled{
		BaseEvent:  shared.NewBaseEvent(b.ID(), aggregateType, "booking.cancelled"),
		PremisesID: b.PremisesID(),
	}
	if c := b.Cancellation(); c != nil {
		e.ReasonID = c.ReasonID
		e.Notes = c.Notes
	}
	return e
}

// ArrivalRecorded is raised when the person arrives.
type ArrivalRecorded struct {
	shared.BaseEvent
	PremisesID    uuid.UUID   `json:"premises_id"`
	ActualArrival shared.Date `json:"actual_arrival"`
}

// NewArrivalRecorded creates an ArrivalRecorded event.
func NewArrivalRecorded(b *SpaceBooking) *ArrivalRecorded {
	e := &ArrivalRecorded{
		BaseEvent:  shared.NewBaseEvent(b.ID(), aggregateType, "booking.arrival"),
		PremisesID: b.PremisesID(),
	}
	if b.ActualArrival() != nil {
		e.ActualArrival = *b.ActualArrival()
	}
	return e
}

// DepartureRecorded is raised when the person departs.
type DepartureRecorded struct {
	shared.BaseEvent
	PremisesID       uuid.UUID  `json:"premises_id"`
	ActualDeparture  shared.Date `json:"actual_departure"`
	ReasonID         uuid.UUID  `json:"reason_id"`
	MoveOnCategoryID *uuid.UUID `json:"move_on_category_id,omitempty"`
}

// NewDepartureRecorded creates a DepartureRecorded event.
func NewDepartureRecorded(b *SpaceBooking) *DepartureRecorded {
	e := &DepartureRecorded{
		BaseEvent:  shared.NewBaseEvent(b.ID(), aggregateType, "booking.departure"),
		PremisesID: b.PremisesID(),
	}
	if b.ActualDeparture() != nil {
		e.ActualDeparture = *b.ActualDeparture()
	}
	if d := b.Departure(); d != nil {
		e.ReasonID = d.ReasonID
		e.MoveOnCategoryID = d.MoveOnCategoryID
	}
	return e
}

// NonArrivalRecorded is raised when the person is confirmed never to have
// arrived.
type NonArrivalRecorded struct {
	shared.BaseEvent
	PremisesID uuid.UUID `json:"premises_id"`
	ReasonID   uuid.UUID `json:"reason_id"`
}

// NewNonArrivalRecorded creates a NonArrivalRecorded event.
func NewNonArrivalRecorded(b *SpaceBooking) *NonArrivalRecorded {
	e := &NonArrivalRecorded{
		BaseEvent:  shared.NewBaseEvent(b.ID(), aggregateType, "booking.non-arrival"),
		PremisesID: b.PremisesID(),
	}
	if n := b.NonArrival(); n != nil {
		e.ReasonID = n.ReasonID
	}
	return e
}

// KeyWorkerAssigned is raised when a key worker is allocated to the booking.
type KeyWorkerAssigned struct {
	shared.BaseEvent
	PremisesID  uuid.UUID `json:"premises_id"`
	KeyWorkerID uuid.UUID `json:"key_worker_id"`
}

// NewKeyWorkerAssigned creates a KeyWorkerAssigned event.
func NewKeyWorkerAssigned(b *SpaceBooking) *KeyWorkerAssigned {
	e := &KeyWorkerAssigned{
		BaseEvent:  shared.NewBaseEvent(b.ID(), aggregateType, "booking.keyworker.assigned"),
		PremisesID: b.PremisesID(),
	}
	if b.KeyWorkerID() != nil {
		e.KeyWorkerID = *b.KeyWorkerID()
	}
	return e
}
