package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for inventory persistence. The engine
// reads the catalog; writes exist only for administrative seeding.
type Repository interface {
	SavePremises(ctx context.Context, premises *Premises) error
	SaveRoom(ctx context.Context, room *Room) error
	SaveBed(ctx context.Context, bed *Bed) error

	FindPremises(ctx context.Context, id uuid.UUID) (*Premises, error)
	AllPremises(ctx context.Context) ([]*Premises, error)

	// BedsOf returns every bed in the premises, across all rooms.
	BedsOf(ctx context.Context, premisesID uuid.UUID) ([]*Bed, error)

	// CharacteristicsOf returns the bed's effective characteristic set:
	// the union of its own characteristics and its premises' characteristics.
	CharacteristicsOf(ctx context.Context, bedID uuid.UUID) ([]uuid.UUID, error)
}
