// Package domain implements the out-of-service period tracker. A period marks
// a bed unavailable for an inclusive range of days and carries an append-only
// revision trail recording every change made to it.
package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// ChangeType identifies what a revision entry changed.
type ChangeType string

const (
	ChangeTypeCreated                ChangeType = "created"
	ChangeTypeUpdatedStartDate       ChangeType = "updatedStartDate"
	ChangeTypeUpdatedEndDate         ChangeType = "updatedEndDate"
	ChangeTypeUpdatedReason          ChangeType = "updatedReason"
	ChangeTypeUpdatedReferenceNumber ChangeType = "updatedReferenceNumber"
	ChangeTypeUpdatedNotes           ChangeType = "updatedNotes"
	ChangeTypeCancelled              ChangeType = "cancelled"
)

// Revision is one entry in a period's audit trail. Entries are append-only
// and never rewritten.
type Revision struct {
	ID         uuid.UUID
	ChangeType ChangeType
	ActorID    uuid.UUID
	RecordedAt time.Time
}

// Cancellation marks a period as terminally withdrawn.
type Cancellation struct {
	OccurredAt time.Time
	Notes      string
}

var (
	// ErrInvalidRange marks a period whose end date precedes its start date.
	ErrInvalidRange = shared.NewValidationError("out-of-service period end date is before its start date")

	// ErrAlreadyCancelled marks any mutation of a cancelled period.
	ErrAlreadyCancelled = shared.NewStateConflictError("out-of-service period is already cancelled")
)

// OutOfServicePeriod takes a single bed out of the bookable pool for an
// inclusive date range. Overlapping periods on the same bed are permitted;
// the capacity view counts any covered day as unavailable exactly once.
type OutOfServicePeriod struct {
	shared.BaseAggregateRoot
	bedID           uuid.UUID
	dates           shared.DateRange
	reasonID        uuid.UUID
	referenceNumber string
	notes           string
	cancellation    *Cancellation
	revisions       []Revision
}

// NewOutOfServicePeriod creates a period and records its creation revision.
func NewOutOfServicePeriod(bedID uuid.UUID, dates shared.DateRange, reasonID uuid.UUID, referenceNumber, notes string, actorID uuid.UUID) (*OutOfServicePeriod, error) {
	if bedID == uuid.Nil {
		return nil, shared.NewValidationError("out-of-service period requires a bed")
	}
	if reasonID == uuid.Nil {
		return nil, shared.NewValidationError("out-of-service period requires a reason")
	}
	if dates.End.Before(dates.Start) {
		return nil, ErrInvalidRange
	}

	p := &OutOfServicePeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		bedID:             bedID,
		dates:             dates,
		reasonID:          reasonID,
		referenceNumber:   referenceNumber,
		notes:             notes,
	}
	p.appendRevision(ChangeTypeCreated, actorID)
	p.AddDomainEvent(NewPeriodCreated(p))
	return p, nil
}

// RehydrateOutOfServicePeriod recreates a period from persisted state.
func RehydrateOutOfServicePeriod(
	entity shared.BaseEntity,
	bedID uuid.UUID,
	dates shared.DateRange,
	reasonID uuid.UUID,
	referenceNumber, notes string,
	cancellation *Cancellation,
	revisions []Revision,
) *OutOfServicePeriod {
	return &OutOfServicePeriod{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(entity),
		bedID:             bedID,
		dates:             dates,
		reasonID:          reasonID,
		referenceNumber:   referenceNumber,
		notes:             notes,
		cancellation:      cancellation,
		revisions:         revisions,
	}
}

func (p *OutOfServicePeriod) BedID() uuid.UUID            { return p.bedID }
func (p *OutOfServicePeriod) Dates() shared.DateRange     { return p.dates }
func (p *OutOfServicePeriod) ReasonID() uuid.UUID         { return p.reasonID }
func (p *OutOfServicePeriod) ReferenceNumber() string     { return p.referenceNumber }
func (p *OutOfServicePeriod) Notes() string               { return p.notes }
func (p *OutOfServicePeriod) Cancellation() *Cancellation { return p.cancellation }
func (p *OutOfServicePeriod) Revisions() []Revision       { return p.revisions }

// IsCancelled reports whether the period has been terminally withdrawn.
func (p *OutOfServicePeriod) IsCancelled() bool { return p.cancellation != nil }

// ActiveOn reports whether the period makes its bed unavailable on the day.
// Cancelled periods are never active.
func (p *OutOfServicePeriod) ActiveOn(day shared.Date) bool {
	return !p.IsCancelled() && p.dates.Contains(day)
}

// Changes carries the optional field updates of a revise operation. Nil
// fields are left untouched.
type Changes struct {
	StartDate       *shared.Date
	EndDate         *shared.Date
	ReasonID        *uuid.UUID
	ReferenceNumber *string
	Notes           *string
}

// IsEmpty reports whether no field is being changed.
func (c Changes) IsEmpty() bool {
	return c.StartDate == nil && c.EndDate == nil && c.ReasonID == nil &&
		c.ReferenceNumber == nil && c.Notes == nil
}

// Revise applies the given changes, appending one revision entry per changed
// field. The whole revision is rejected before any field is touched if the
// period is cancelled or the resulting range would be invalid.
func (p *OutOfServicePeriod) Revise(changes Changes, actorID uuid.UUID) error {
	if p.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if changes.IsEmpty() {
		return shared.NewValidationError("out-of-service period revision changes nothing")
	}

	newDates := p.dates
	if changes.StartDate != nil {
		newDates.Start = *changes.StartDate
	}
	if changes.EndDate != nil {
		newDates.End = *changes.EndDate
	}
	if newDates.End.Before(newDates.Start) {
		return ErrInvalidRange
	}

	var applied []ChangeType
	if changes.StartDate != nil && !changes.StartDate.Equal(p.dates.Start) {
		applied = append(applied, p.appendRevision(ChangeTypeUpdatedStartDate, actorID))
	}
	if changes.EndDate != nil && !changes.EndDate.Equal(p.dates.End) {
		applied = append(applied, p.appendRevision(ChangeTypeUpdatedEndDate, actorID))
	}
	if changes.ReasonID != nil && *changes.ReasonID != p.reasonID {
		p.reasonID = *changes.ReasonID
		applied = append(applied, p.appendRevision(ChangeTypeUpdatedReason, actorID))
	}
	if changes.ReferenceNumber != nil && *changes.ReferenceNumber != p.referenceNumber {
		p.referenceNumber = *changes.ReferenceNumber
		applied = append(applied, p.appendRevision(ChangeTypeUpdatedReferenceNumber, actorID))
	}
	if changes.Notes != nil && *changes.Notes != p.notes {
		p.notes = *changes.Notes
		applied = append(applied, p.appendRevision(ChangeTypeUpdatedNotes, actorID))
	}
	p.dates = newDates

	if len(applied) == 0 {
		return nil
	}
	p.Touch()
	p.AddDomainEvent(NewPeriodRevised(p, applied))
	return nil
}

// Cancel terminally withdraws the period. The cancellation itself is recorded
// as the final revision entry.
func (p *OutOfServicePeriod) Cancel(notes string, actorID uuid.UUID) error {
	if p.IsCancelled() {
		return ErrAlreadyCancelled
	}

	p.cancellation = &Cancellation{
		OccurredAt: time.Now().UTC(),
		Notes:      notes,
	}
	p.appendRevision(ChangeTypeCancelled, actorID)
	p.Touch()
	p.AddDomainEvent(NewPeriodCancelled(p))
	return nil
}

func (p *OutOfServicePeriod) appendRevision(changeType ChangeType, actorID uuid.UUID) ChangeType {
	p.revisions = append(p.revisions, Revision{
		ID:         uuid.New(),
		ChangeType: changeType,
		ActorID:    actorID,
		RecordedAt: time.Now().UTC(),
	})
	return changeType
}
