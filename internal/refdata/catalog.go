// Package refdata holds the immutable reference-data lookup tables the
// engine consumes: characteristics, reasons, move-on categories and
// change-request rejection reasons. Ids are opaque; the engine only ever
// checks existence and equality.
package refdata

import (
	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// CharacteristicScope says which inventory level a characteristic applies to.
type CharacteristicScope string

const (
	ScopePremises CharacteristicScope = "premises"
	ScopeRoom     CharacteristicScope = "room"
)

// Characteristic is a bookable trait such as en-suite or wheelchair access.
type Characteristic struct {
	ID           uuid.UUID
	PropertyName string
	Scope        CharacteristicScope
}

// ReasonKind partitions the reason tables by the operation they decorate.
type ReasonKind string

const (
	ReasonCancellation ReasonKind = "cancellation"
	ReasonDeparture    ReasonKind = "departure"
	ReasonNonArrival   ReasonKind = "non_arrival"
	ReasonOutOfService ReasonKind = "out_of_service"
	ReasonChangeReq    ReasonKind = "change_request"
	ReasonCRRejection  ReasonKind = "change_request_rejection"
)

// Reason is an entry in one of the reason lookup tables.
type Reason struct {
	ID   uuid.UUID
	Name string
	Kind ReasonKind
}

// MoveOnCategory classifies where a person moved on to after departure.
type MoveOnCategory struct {
	ID   uuid.UUID
	Name string
}

// Catalog is the injected, read-only view over all reference data.
// Construct once at startup and share; it is never mutated afterwards.
type Catalog struct {
	characteristics  map[uuid.UUID]Characteristic
	reasons          map[uuid.UUID]Reason
	moveOnCategories map[uuid.UUID]MoveOnCategory
}

// NewCatalog builds a catalog from the supplied tables.
func NewCatalog(characteristics []Characteristic, reasons []Reason, moveOn []MoveOnCategory) *Catalog {
	c := &Catalog{
		characteristics:  make(map[uuid.UUID]Characteristic, len(characteristics)),
		reasons:          make(map[uuid.UUID]Reason, len(reasons)),
		moveOnCategories: make(map[uuid.UUID]MoveOnCategory, len(moveOn)),
	}
	for _, ch := range characteristics {
		c.characteristics[ch.ID] = ch
	}
	for _, r := range reasons {
		c.reasons[r.ID] = r
	}
	for _, m := range moveOn {
		c.moveOnCategories[m.ID] = m
	}
	return c
}

// Characteristic looks up a characteristic by id.
func (c *Catalog) Characteristic(id uuid.UUID) (Characteristic, error) {
	ch, ok := c.characteristics[id]
	if !ok {
		return Characteristic{}, domain.NewNotFoundError("characteristic not found: " + id.String())
	}
	return ch, nil
}

// Characteristics returns all characteristics.
func (c *Catalog) Characteristics() []Characteristic {
	out := make([]Characteristic, 0, len(c.characteristics))
	for _, ch := range c.characteristics {
		out = append(out, ch)
	}
	return out
}

// Reason looks up a reason, verifying it belongs to the expected table.
func (c *Catalog) Reason(kind ReasonKind, id uuid.UUID) (Reason, error) {
	r, ok := c.reasons[id]
	if !ok {
		return Reason{}, domain.NewNotFoundError("reason not found: " + id.String())
	}
	if r.Kind != kind {
		return Reason{}, domain.NewValidationError("reason " + id.String() + " is not a " + string(kind) + " reason")
	}
	return r, nil
}

// MoveOnCategory looks up a move-on category by id.
func (c *Catalog) MoveOnCategory(id uuid.UUID) (MoveOnCategory, error) {
	m, ok := c.moveOnCategories[id]
	if !ok {
		return MoveOnCategory{}, domain.NewNotFoundError("move-on category not found: " + id.String())
	}
	return m, nil
}

// HasCharacteristic reports whether the id names a known characteristic.
func (c *Catalog) HasCharacteristic(id uuid.UUID) bool {
	_, ok := c.characteristics[id]
	return ok
}
