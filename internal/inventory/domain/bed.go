package domain

import (
	"strings"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Room groups beds inside a premises.
type Room struct {
	id         uuid.UUID
	premisesID uuid.UUID
	name       string
}

// NewRoom creates a room.
func NewRoom(premisesID uuid.UUID, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("room name cannot be empty")
	}
	return &Room{id: uuid.New(), premisesID: premisesID, name: name}, nil
}

// RehydrateRoom recreates a room from persisted state.
func RehydrateRoom(id, premisesID uuid.UUID, name string) *Room {
	return &Room{id: id, premisesID: premisesID, name: name}
}

func (r *Room) ID() uuid.UUID         { return r.id }
func (r *Room) PremisesID() uuid.UUID { return r.premisesID }
func (r *Room) Name() string          { return r.name }

// Bed is the unit of capacity. A bed with an end date is permanently retired
// after that day and contributes nothing to capacity beyond it.
type Bed struct {
	id              uuid.UUID
	roomID          uuid.UUID
	name            string
	endDate         *shared.Date
	characteristics []uuid.UUID
}

// NewBed creates a bed in a room.
func NewBed(roomID uuid.UUID, name string, characteristics []uuid.UUID) (*Bed, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("bed name cannot be empty")
	}
	return &Bed{id: uuid.New(), roomID: roomID, name: name, characteristics: characteristics}, nil
}

// RehydrateBed recreates a bed from persisted state.
func RehydrateBed(id, roomID uuid.UUID, name string, endDate *shared.Date, characteristics []uuid.UUID) *Bed {
	return &Bed{id: id, roomID: roomID, name: name, endDate: endDate, characteristics: characteristics}
}

func (b *Bed) ID() uuid.UUID                 { return b.id }
func (b *Bed) RoomID() uuid.UUID             { return b.roomID }
func (b *Bed) Name() string                  { return b.name }
func (b *Bed) EndDate() *shared.Date         { return b.endDate }
func (b *Bed) Characteristics() []uuid.UUID  { return b.characteristics }

// Retire sets the bed's end date.
func (b *Bed) Retire(endDate shared.Date) {
	b.endDate = &endDate
}

// ActiveOn reports whether the bed still exists on the given day.
func (b *Bed) ActiveOn(day shared.Date) bool {
	return b.endDate == nil || !day.After(*b.endDate)
}

// HasCharacteristic reports whether the bed itself carries the characteristic.
// Premises-level characteristics are resolved by the repository's
// CharacteristicsOf, which unions both levels.
func (b *Bed) HasCharacteristic(id uuid.UUID) bool {
	for _, c := range b.characteristics {
		if c == id {
			return true
		}
	}
	return false
}
