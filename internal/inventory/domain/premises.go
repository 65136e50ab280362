// Package domain holds the bedspace inventory: the read-only catalog of
// premises, rooms and beds that bounds what capacity can ever exist.
package domain

import (
	"strings"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Premises is an Approved Premises facility.
type Premises struct {
	shared.BaseEntity
	name            string
	apCode          string
	areaName        string
	latitude        float64
	longitude       float64
	characteristics []uuid.UUID
}

// NewPremises creates a premises entry.
func NewPremises(name, apCode, areaName string, latitude, longitude float64, characteristics []uuid.UUID) (*Premises, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("premises name cannot be empty")
	}
	if apCode = strings.TrimSpace(apCode); apCode == "" {
		return nil, shared.NewValidationError("premises AP code cannot be empty")
	}

	return &Premises{
		BaseEntity:      shared.NewBaseEntity(),
		name:            name,
		apCode:          apCode,
		areaName:        areaName,
		latitude:        latitude,
		longitude:       longitude,
		characteristics: characteristics,
	}, nil
}

// RehydratePremises recreates a premises from persisted state.
func RehydratePremises(entity shared.BaseEntity, name, apCode, areaName string, latitude, longitude float64, characteristics []uuid.UUID) *Premises {
	return &Premises{
		BaseEntity:      entity,
		name:            name,
		apCode:          apCode,
		areaName:        areaName,
		latitude:        latitude,
		longitude:       longitude,
		characteristics: characteristics,
	}
}

func (p *Premises) Name() string                 { return p.name }
func (p *Premises) APCode() string               { return p.apCode }
func (p *Premises) AreaName() string             { return p.areaName }
func (p *Premises) Latitude() float64            { return p.latitude }
func (p *Premises) Longitude() float64           { return p.longitude }
func (p *Premises) Characteristics() []uuid.UUID { return p.characteristics }

// HasCharacteristic reports whether the premises carries the characteristic.
func (p *Premises) HasCharacteristic(id uuid.UUID) bool {
	for _, c := range p.characteristics {
		if c == id {
			return true
		}
	}
	return false
}
