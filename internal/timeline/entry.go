// Package timeline projects domain events into an append-only history
// readable per booking or per premises. Entries carry a denormalised payload
// so rendering a timeline never re-queries the source contexts.
package timeline

import (
	"context"
	"encoding/json"
	"iter"
	"time"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// EntryType names what happened. One per consumed event type.
type EntryType string

const (
	EntryBookingMade        EntryType = "bookingMade"
	EntryBookingChanged     EntryType = "bookingChanged"
	EntryBookingCancelled   EntryType = "bookingCancelled"
	EntryArrivalRecorded    EntryType = "arrivalRecorded"
	EntryDepartureRecorded  EntryType = "departureRecorded"
	EntryNonArrivalRecorded EntryType = "nonArrivalRecorded"
	EntryKeyWorkerAssigned  EntryType = "keyWorkerAssigned"

	EntryOutOfServiceCreated   EntryType = "outOfServiceCreated"
	EntryOutOfServiceRevised   EntryType = "outOfServiceRevised"
	EntryOutOfServiceCancelled EntryType = "outOfServiceCancelled"

	EntryChangeRequestCreated  EntryType = "changeRequestCreated"
	EntryChangeRequestApproved EntryType = "changeRequestApproved"
	EntryChangeRequestRejected EntryType = "changeRequestRejected"
)

// Entry is one timeline record. Entries are append-only; Seq is assigned by
// storage and fixes the order of entries sharing an occurrence timestamp.
type Entry struct {
	Seq        int64
	ID         uuid.UUID
	Type       EntryType
	BookingID  *uuid.UUID
	PremisesID *uuid.UUID
	OccurredAt time.Time
	Source     shared.TriggerSource
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// Cursor marks a position in a timeline. Pagination resumes strictly after
// it, ordered by occurrence time then insertion sequence.
type Cursor struct {
	OccurredAt time.Time `json:"occurred_at"`
	Seq        int64     `json:"seq"`
}

// Page is one slice of a timeline. Next is nil when the page is the last.
type Page struct {
	Entries []Entry
	Next    *Cursor
}

// Repository stores and reads timeline entries.
type Repository interface {
	// Append inserts the entry, assigning its sequence number. Appending
	// an entry whose ID is already stored is a no-op, so redelivered
	// events do not duplicate history.
	Append(ctx context.Context, entry *Entry) error

	ForBooking(ctx context.Context, bookingID uuid.UUID, after *Cursor, limit int) (Page, error)

	ForPremises(ctx context.Context, premisesID uuid.UUID, after *Cursor, limit int) (Page, error)
}

// History lazily walks a paged timeline. The pager is called with the cursor
// to resume from; iteration stops at the first error or when a page has no
// successor.
func History(ctx context.Context, pageSize int, pager func(ctx context.Context, after *Cursor, limit int) (Page, error)) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		var cursor *Cursor
		for {
			page, err := pager(ctx, cursor, pageSize)
			if err != nil {
				yield(Entry{}, err)
				return
			}
			for _, entry := range page.Entries {
				if !yield(entry, nil) {
					return
				}
			}
			if page.Next == nil {
				return
			}
			cursor = page.Next
		}
	}
}
