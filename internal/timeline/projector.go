package timeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/integrations/persondirectory"
	inventorydomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/eventbus"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

var entryTypes = map[string]EntryType{
	"booking.made":               EntryBookingMade,
	"booking.changed":            EntryBookingChanged,
	"booking.cancelled":          EntryBookingCancelled,
	"booking.arrival":            EntryArrivalRecorded,
	"booking.departure":          EntryDepartureRecorded,
	"booking.non-arrival":        EntryNonArrivalRecorded,
	"booking.keyworker.assigned": EntryKeyWorkerAssigned,
	"outofservice.created":       EntryOutOfServiceCreated,
	"outofservice.revised":       EntryOutOfServiceRevised,
	"outofservice.cancelled":     EntryOutOfServiceCancelled,
	"change-request.created":     EntryChangeRequestCreated,
	"change-request.approved":    EntryChangeRequestApproved,
	"change-request.rejected":    EntryChangeRequestRejected,
}

// Projector consumes domain events from the bus and appends timeline
// entries. Premises names and person summaries are resolved at projection
// time and embedded in the entry payload.
type Projector struct {
	entries   Repository
	inventory inventorydomain.Repository
	persons   persondirectory.Directory
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewProjector creates a timeline projector.
func NewProjector(entries Repository, inventory inventorydomain.Repository, persons persondirectory.Directory, logger *slog.Logger, metrics observability.Metrics) *Projector {
	if persons == nil {
		persons = persondirectory.NoopDirectory{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Projector{
		entries:   entries,
		inventory: inventory,
		persons:   persons,
		logger:    logger,
		metrics:   metrics,
	}
}

// EventTypes returns every routing key the projector consumes.
func (p *Projector) EventTypes() []string {
	types := make([]string, 0, len(entryTypes))
	for routingKey := range entryTypes {
		types = append(types, routingKey)
	}
	return types
}

// eventRefs are the cross-context references a payload may carry.
type eventRefs struct {
	PremisesID *uuid.UUID `json:"premises_id"`
	BookingID  *uuid.UUID `json:"booking_id"`
	BedID      *uuid.UUID `json:"bed_id"`
	PersonID   string     `json:"person_id"`
}

// Handle appends one entry for the event. Redeliveries are absorbed by the
// repository's idempotent append.
func (p *Projector) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	entryType, ok := entryTypes[event.RoutingKey]
	if !ok {
		return nil
	}
	p.metrics.Counter(observability.MetricEventsConsumed, 1,
		observability.T("routing_key", event.RoutingKey))

	var refs eventRefs
	if err := json.Unmarshal(event.Payload, &refs); err != nil {
		p.logger.Warn("timeline projector could not read event references",
			"event_id", event.EventID,
			"routing_key", event.RoutingKey,
			"error", err,
		)
	}

	bookingID := refs.BookingID
	if event.AggregateType == "SpaceBooking" {
		id := event.AggregateID
		bookingID = &id
	}

	payload, err := p.denormalise(ctx, event, refs)
	if err != nil {
		return err
	}

	source := event.Metadata.Source
	if source == "" {
		source = shared.TriggerSourceSystem
	}

	entry := &Entry{
		ID:         event.EventID,
		Type:       entryType,
		BookingID:  bookingID,
		PremisesID: refs.PremisesID,
		OccurredAt: event.OccurredAt,
		Source:     source,
		Payload:    payload,
	}
	if err := p.entries.Append(ctx, entry); err != nil {
		return err
	}

	p.metrics.Counter(observability.MetricTimelineEntries, 1,
		observability.T("entry_type", string(entryType)))
	return nil
}

// denormalise merges the event payload with display data so an entry renders
// without querying the source contexts.
func (p *Projector) denormalise(ctx context.Context, event *eventbus.ConsumedEvent, refs eventRefs) (json.RawMessage, error) {
	body := make(map[string]any)
	if err := json.Unmarshal(event.Payload, &body); err != nil {
		body = make(map[string]any)
	}

	if refs.PremisesID != nil {
		premises, err := p.inventory.FindPremises(ctx, *refs.PremisesID)
		if err == nil {
			body["premises_name"] = premises.Name()
		} else {
			p.logger.Warn("timeline projector could not resolve premises name",
				"premises_id", refs.PremisesID,
				"error", err,
			)
		}
	}

	if refs.PersonID != "" {
		summary := p.persons.Lookup(ctx, refs.PersonID)
		body["person"] = summary
	}

	return json.Marshal(body)
}
