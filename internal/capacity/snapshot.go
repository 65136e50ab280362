// Package capacity derives the per-day availability view of a premises from
// the inventory, out-of-service and booking contexts. It owns no state of its
// own; every snapshot is recomputable purely from those sources, which is the
// central consistency property of the engine.
package capacity

import (
	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// CharacteristicCapacity restricts a day's figures to beds and bookings
// carrying one characteristic.
type CharacteristicCapacity struct {
	CharacteristicID   uuid.UUID `json:"characteristic_id"`
	AvailableBedsCount int       `json:"available_beds_count"`
	BookingsCount      int       `json:"bookings_count"`
}

// PremisesDayCapacity is the derived capacity view of one premises on one
// calendar day. AvailableBedCount tracks physical availability (beds not out
// of service); occupancy is the separate BookingCount.
type PremisesDayCapacity struct {
	PremisesID        uuid.UUID                `json:"premises_id"`
	Date              shared.Date              `json:"date"`
	TotalBedCount     int                      `json:"total_bed_count"`
	AvailableBedCount int                      `json:"available_bed_count"`
	BookingCount      int                      `json:"booking_count"`
	Characteristics   []CharacteristicCapacity `json:"characteristics,omitempty"`
}

// PremisesMatch is one search result: a premises with spare matching capacity
// across the whole requested range and its distance from the target point.
type PremisesMatch struct {
	PremisesID uuid.UUID `json:"premises_id"`
	Name       string    `json:"name"`
	APCode     string    `json:"ap_code"`
	DistanceKm float64   `json:"distance_km"`
}

// SearchCriteria filters and ranks premises for a placement.
type SearchCriteria struct {
	DateRange               shared.DateRange
	RequiredCharacteristics []uuid.UUID
	TargetLatitude          float64
	TargetLongitude         float64
	RadiusKm                float64
}
