package domain

import (
	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

const aggregateType = "OutOfServicePeriod"

// PeriodCreated is raised when a bed is taken out of service.
type PeriodCreated struct {
	shared.BaseEvent
	BedID           uuid.UUID        `json:"bed_id"`
	Dates           shared.DateRange `json:"dates"`
	ReasonID        uuid.UUID        `json:"reason_id"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
}

// NewPeriodCreated creates a PeriodCreated event.
func NewPeriodCreated(p *OutOfServicePeriod) *PeriodCreated {
	return &PeriodCreated{
		BaseEvent:       shared.NewBaseEvent(p.ID(), aggregateType, "outofservice.created"),
		BedID:           p.BedID(),
		Dates:           p.Dates(),
		ReasonID:        p.ReasonID(),
		ReferenceNumber: p.ReferenceNumber(),
	}
}

// PeriodRevised is raised when a period's fields change. ChangeTypes lists
// what the revision touched, in audit-trail order.
type PeriodRevised struct {
	shared.BaseEvent
	BedID       uuid.UUID        `json:"bed_id"`
	Dates       shared.DateRange `json:"dates"`
	ReasonID    uuid.UUID        `json:"reason_id"`
	ChangeTypes []ChangeType     `json:"change_types"`
}

// NewPeriodRevised creates a PeriodRevised event listing the change types
// this revision applied.
func NewPeriodRevised(p *OutOfServicePeriod, changeTypes []ChangeType) *PeriodRevised {
	return &PeriodRevised{
		BaseEvent:   shared.NewBaseEvent(p.ID(), aggregateType, "outofservice.revised"),
		BedID:       p.BedID(),
		Dates:       p.Dates(),
		ReasonID:    p.ReasonID(),
		ChangeTypes: changeTypes,
	}
}

// PeriodCancelled is raised when a period is terminally withdrawn.
type PeriodCancelled struct {
	shared.BaseEvent
	BedID uuid.UUID `json:"bed_id"`
	Notes string    `json:"notes,omitempty"`
}

// NewPeriodCancelled creates a PeriodCancelled event.
func NewPeriodCancelled(p *OutOfServicePeriod) *PeriodCancelled {
	notes := ""
	if p.Cancellation() != nil {
		notes = p.Cancellation().Notes
	}
	return &PeriodCancelled{
		BaseEvent: shared.NewBaseEvent(p.ID(), aggregateType, "outofservice.cancelled"),
		BedID:     p.BedID(),
		Notes:     notes,
	}
}
