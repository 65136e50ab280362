package capacity

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	bookingdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	inventorydomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	oosdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

// Aggregator computes capacity snapshots on demand. It is read-only and safe
// for concurrent use.
type Aggregator struct {
	inventory inventorydomain.Repository
	periods   oosdomain.Repository
	bookings  bookingdomain.Repository
	cache     Cache
	logger    *slog.Logger
	metrics   observability.Metrics
}

// NewAggregator creates a capacity aggregator. Pass NoopCache to disable
// caching.
func NewAggregator(
	inventory inventorydomain.Repository,
	periods oosdomain.Repository,
	bookings bookingdomain.Repository,
	cache Cache,
	logger *slog.Logger,
	metrics observability.Metrics,
) *Aggregator {
	if cache == nil {
		cache = NoopCache{}
	}
	return &Aggregator{
		inventory: inventory,
		periods:   periods,
		bookings:  bookings,
		cache:     cache,
		logger:    logger,
		metrics:   metrics,
	}
}

// CapacityForDay computes the snapshot for one premises and day.
func (a *Aggregator) CapacityForDay(ctx context.Context, premisesID uuid.UUID, day shared.Date) (PremisesDayCapacity, error) {
	a.metrics.Counter(observability.MetricCapacityQueries, 1)

	if snapshot, ok := a.cache.Get(ctx, premisesID, day); ok {
		a.metrics.Counter(observability.MetricCapacityCacheHits, 1)
		return snapshot, nil
	}
	a.metrics.Counter(observability.MetricCapacityCacheMiss, 1)

	snapshots, err := a.CapacityForRange(ctx, premisesID, day, day)
	if err != nil {
		return PremisesDayCapacity{}, err
	}
	snapshot := snapshots[0]
	a.cache.Set(ctx, snapshot)
	return snapshot, nil
}

// CapacityForRange computes one snapshot per day, chronologically ordered and
// gap-free over the inclusive range.
func (a *Aggregator) CapacityForRange(ctx context.Context, premisesID uuid.UUID, start, end shared.Date) ([]PremisesDayCapacity, error) {
	if end.Before(start) {
		return nil, shared.NewValidationError("capacity range end is before its start")
	}
	window := shared.NewDateRange(start, end)

	premises, err := a.inventory.FindPremises(ctx, premisesID)
	if err != nil {
		return nil, err
	}
	beds, err := a.inventory.BedsOf(ctx, premisesID)
	if err != nil {
		return nil, err
	}
	periods, err := a.periods.FindOverlappingForPremises(ctx, premisesID, window)
	if err != nil {
		return nil, err
	}
	bookings, err := a.bookings.FindForPremisesOverlapping(ctx, premisesID, window)
	if err != nil {
		return nil, err
	}

	// Effective characteristics of a bed are its own plus the premises'.
	bedCharacteristics := make(map[uuid.UUID][]uuid.UUID, len(beds))
	for _, bed := range beds {
		bedCharacteristics[bed.ID()] = unionCharacteristics(bed.Characteristics(), premises.Characteristics())
	}

	characteristicIDs := collectCharacteristicIDs(bedCharacteristics, bookings)

	snapshots := make([]PremisesDayCapacity, 0, window.Start.DaysUntil(window.End)+1)
	for day := window.Start; !day.After(window.End); day = day.AddDays(1) {
		snapshots = append(snapshots, a.computeDay(premisesID, day, beds, bedCharacteristics, characteristicIDs, periods, bookings))
	}
	return snapshots, nil
}

func (a *Aggregator) computeDay(
	premisesID uuid.UUID,
	day shared.Date,
	beds []*inventorydomain.Bed,
	bedCharacteristics map[uuid.UUID][]uuid.UUID,
	characteristicIDs []uuid.UUID,
	periods []*oosdomain.OutOfServicePeriod,
	bookings []*bookingdomain.SpaceBooking,
) PremisesDayCapacity {
	outOfService := make(map[uuid.UUID]bool)
	for _, p := range periods {
		if p.ActiveOn(day) {
			outOfService[p.BedID()] = true
		}
	}

	snapshot := PremisesDayCapacity{
		PremisesID: premisesID,
		Date:       day,
	}

	availableByCharacteristic := make(map[uuid.UUID]int)
	for _, bed := range beds {
		if !bed.ActiveOn(day) {
			continue
		}
		snapshot.TotalBedCount++
		if outOfService[bed.ID()] {
			continue
		}
		snapshot.AvailableBedCount++
		for _, ch := range bedCharacteristics[bed.ID()] {
			availableByCharacteristic[ch]++
		}
	}

	bookingsByCharacteristic := make(map[uuid.UUID]int)
	for _, b := range bookings {
		if !b.OccupiesOn(day) {
			continue
		}
		snapshot.BookingCount++
		for _, ch := range b.Characteristics() {
			bookingsByCharacteristic[ch]++
		}
	}

	for _, ch := range characteristicIDs {
		snapshot.Characteristics = append(snapshot.Characteristics, CharacteristicCapacity{
			CharacteristicID:   ch,
			AvailableBedsCount: availableByCharacteristic[ch],
			BookingsCount:      bookingsByCharacteristic[ch],
		})
	}
	return snapshot
}

// SearchAvailability finds premises with spare matching capacity on every day
// of the requested range, ranked by distance from the target point.
func (a *Aggregator) SearchAvailability(ctx context.Context, criteria SearchCriteria) ([]PremisesMatch, error) {
	a.metrics.Counter(observability.MetricAvailabilitySearch, 1)
	timer := observability.StartTimer("capacity.search").WithMetrics(a.metrics)
	defer timer.Stop()

	if criteria.DateRange.End.Before(criteria.DateRange.Start) {
		return nil, shared.NewValidationError("search range end is before its start")
	}

	premises, err := a.inventory.AllPremises(ctx)
	if err != nil {
		return nil, err
	}

	var matches []PremisesMatch
	for _, p := range premises {
		distance := haversineKm(criteria.TargetLatitude, criteria.TargetLongitude, p.Latitude(), p.Longitude())
		if criteria.RadiusKm > 0 && distance > criteria.RadiusKm {
			continue
		}

		ok, err := a.HasSpareCapacity(ctx, p.ID(), criteria.DateRange, criteria.RequiredCharacteristics)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		matches = append(matches, PremisesMatch{
			PremisesID: p.ID(),
			Name:       p.Name(),
			APCode:     p.APCode(),
			DistanceKm: distance,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].PremisesID.String() < matches[j].PremisesID.String()
	})

	a.logger.DebugContext(ctx, "availability search completed",
		slog.Int("candidates", len(premises)),
		slog.Int("matches", len(matches)))
	return matches, nil
}

// HasSpareCapacity reports whether the premises has, on every day of the
// window, at least one available bed carrying all required characteristics
// beyond the beds already booked. Transfer and extension approvals use this
// as their capacity gate.
func (a *Aggregator) HasSpareCapacity(ctx context.Context, premisesID uuid.UUID, window shared.DateRange, requiredCharacteristics []uuid.UUID) (bool, error) {
	snapshots, err := a.CapacityForRange(ctx, premisesID, window.Start, window.End)
	if err != nil {
		return false, err
	}

	for _, snapshot := range snapshots {
		// Bookings without a required characteristic only consume the
		// unrestricted pool; each restricted pool is charged its own
		// bookings.
		spare := snapshot.AvailableBedCount - snapshot.BookingCount
		for _, required := range requiredCharacteristics {
			restricted := 0
			for _, ch := range snapshot.Characteristics {
				if ch.CharacteristicID == required {
					restricted = ch.AvailableBedsCount - ch.BookingsCount
					break
				}
			}
			if restricted < spare {
				spare = restricted
			}
		}
		if spare < 1 {
			return false, nil
		}
	}
	return true, nil
}

func unionCharacteristics(own, inherited []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(own)+len(inherited))
	out := make([]uuid.UUID, 0, len(own)+len(inherited))
	for _, set := range [][]uuid.UUID{own, inherited} {
		for _, ch := range set {
			if !seen[ch] {
				seen[ch] = true
				out = append(out, ch)
			}
		}
	}
	return out
}

// collectCharacteristicIDs gathers every characteristic present on a bed or
// booking, sorted by id for a deterministic breakdown order.
func collectCharacteristicIDs(bedCharacteristics map[uuid.UUID][]uuid.UUID, bookings []*bookingdomain.SpaceBooking) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	for _, chars := range bedCharacteristics {
		for _, ch := range chars {
			seen[ch] = true
		}
	}
	for _, b := range bookings {
		for _, ch := range b.Characteristics() {
			seen[ch] = true
		}
	}

	out := make([]uuid.UUID, 0, len(seen))
	for ch := range seen {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
