package capacity_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity"
	inventorydomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	oosdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

type fakeInventory struct {
	premises map[uuid.UUID]*inventorydomain.Premises
	beds     map[uuid.UUID][]*inventorydomain.Bed
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		premises: make(map[uuid.UUID]*inventorydomain.Premises),
		beds:     make(map[uuid.UUID][]*inventorydomain.Bed),
	}
}

func (f *fakeInventory) SavePremises(ctx context.Context, p *inventorydomain.Premises) error {
	f.premises[p.ID()] = p
	return nil
}

func (f *fakeInventory) SaveRoom(ctx context.Context, room *inventorydomain.Room) error { return nil }

func (f *fakeInventory) SaveBed(ctx context.Context, bed *inventorydomain.Bed) error { return nil }

func (f *fakeInventory) FindPremises(ctx context.Context, id uuid.UUID) (*inventorydomain.Premises, error) {
	p, ok := f.premises[id]
	if !ok {
		return nil, shared.NewNotFoundError("premises not found")
	}
	return p, nil
}

func (f *fakeInventory) AllPremises(ctx context.Context) ([]*inventorydomain.Premises, error) {
	var out []*inventorydomain.Premises
	for _, p := range f.premises {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeInventory) BedsOf(ctx context.Context, premisesID uuid.UUID) ([]*inventorydomain.Bed, error) {
	return f.beds[premisesID], nil
}

func (f *fakeInventory) CharacteristicsOf(ctx context.Context, bedID uuid.UUID) ([]uuid.UUID, error) {
	for premisesID, beds := range f.beds {
		for _, bed := range beds {
			if bed.ID() == bedID {
				return append(bed.Characteristics(), f.premises[premisesID].Characteristics()...), nil
			}
		}
	}
	return nil, shared.NewNotFoundError("bed not found")
}

type fakePeriods struct {
	periods []*oosdomain.OutOfServicePeriod
	bedHome map[uuid.UUID]uuid.UUID
}

func newFakePeriods() *fakePeriods {
	return &fakePeriods{bedHome: make(map[uuid.UUID]uuid.UUID)}
}

func (f *fakePeriods) Save(ctx context.Context, p *oosdomain.OutOfServicePeriod) error {
	f.periods = append(f.periods, p)
	return nil
}

func (f *fakePeriods) FindByID(ctx context.Context, id uuid.UUID) (*oosdomain.OutOfServicePeriod, error) {
	for _, p := range f.periods {
		if p.ID() == id {
			return p, nil
		}
	}
	return nil, shared.NewNotFoundError("period not found")
}

func (f *fakePeriods) FindByBed(ctx context.Context, bedID uuid.UUID) ([]*oosdomain.OutOfServicePeriod, error) {
	var out []*oosdomain.OutOfServicePeriod
	for _, p := range f.periods {
		if p.BedID() == bedID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePeriods) FindOverlappingForPremises(ctx context.Context, premisesID uuid.UUID, window shared.DateRange) ([]*oosdomain.OutOfServicePeriod, error) {
	var out []*oosdomain.OutOfServicePeriod
	for _, p := range f.periods {
		if f.bedHome[p.BedID()] == premisesID && !p.IsCancelled() && p.Dates().Overlaps(window) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeBookings struct {
	bookings []*bookingdomain.SpaceBooking
}

func (f *fakeBookings) Save(ctx context.Context, b *bookingdomain.SpaceBooking) error {
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeBookings) FindByID(ctx context.Context, id uuid.UUID) (*bookingdomain.SpaceBooking, error) {
	for _, b := range f.bookings {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, shared.NewNotFoundError("booking not found")
}

func (f *fakeBookings) FindForPremisesOverlapping(ctx context.Context, premisesID uuid.UUID, window shared.DateRange) ([]*bookingdomain.SpaceBooking, error) {
	var out []*bookingdomain.SpaceBooking
	for _, b := range f.bookings {
		if b.PremisesID() == premisesID && b.CanonicalRange().Overlaps(window) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) FindByPerson(ctx context.Context, personID shared.PersonID) ([]*bookingdomain.SpaceBooking, error) {
	var out []*bookingdomain.SpaceBooking
	for _, b := range f.bookings {
		if b.PersonID().Equals(personID) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fixture struct {
	inventory *fakeInventory
	periods   *fakePeriods
	bookings  *fakeBookings
	agg       *capacity.Aggregator
}

func newFixture() *fixture {
	inventory := newFakeInventory()
	periods := newFakePeriods()
	bookings := &fakeBookings{}
	agg := capacity.NewAggregator(inventory, periods, bookings, capacity.NoopCache{},
		slog.New(slog.DiscardHandler), observability.NoopMetrics{})
	return &fixture{inventory: inventory, periods: periods, bookings: bookings, agg: agg}
}

func (f *fixture) addPremises(t *testing.T, name string, lat, lon float64, characteristics []uuid.UUID) *inventorydomain.Premises {
	t.Helper()
	p, err := inventorydomain.NewPremises(name, name, "Test Area", lat, lon, characteristics)
	require.NoError(t, err)
	f.inventory.premises[p.ID()] = p
	return p
}

func (f *fixture) addBed(t *testing.T, premisesID uuid.UUID, name string, characteristics []uuid.UUID) *inventorydomain.Bed {
	t.Helper()
	bed, err := inventorydomain.NewBed(uuid.New(), name, characteristics)
	require.NoError(t, err)
	f.inventory.beds[premisesID] = append(f.inventory.beds[premisesID], bed)
	f.periods.bedHome[bed.ID()] = premisesID
	return bed
}

func (f *fixture) addBooking(t *testing.T, premisesID uuid.UUID, arrival, departure shared.Date, characteristics []uuid.UUID) *bookingdomain.SpaceBooking {
	t.Helper()
	b, err := bookingdomain.NewSpaceBooking(premisesID, shared.NewPersonID("X320741"), arrival, departure, characteristics)
	require.NoError(t, err)
	f.bookings.bookings = append(f.bookings.bookings, b)
	return b
}

func (f *fixture) addPeriod(t *testing.T, bedID uuid.UUID, start, end shared.Date) *oosdomain.OutOfServicePeriod {
	t.Helper()
	p, err := oosdomain.NewOutOfServicePeriod(bedID, shared.NewDateRange(start, end), uuid.New(), "", "", uuid.New())
	require.NoError(t, err)
	f.periods.periods = append(f.periods.periods, p)
	return p
}

func TestAggregator_CapacityForDay(t *testing.T) {
	ctx := context.Background()

	t.Run("occupied bed stays physically available", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		f.addBed(t, p.ID(), "Bed 1", nil)
		f.addBooking(t, p.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 5), nil)

		snapshot, err := f.agg.CapacityForDay(ctx, p.ID(), shared.NewDate(2026, 5, 3))

		require.NoError(t, err)
		assert.Equal(t, 1, snapshot.TotalBedCount)
		assert.Equal(t, 1, snapshot.AvailableBedCount)
		assert.Equal(t, 1, snapshot.BookingCount)
	})

	t.Run("out-of-service bed is unavailable, overlapping periods count once", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		bed := f.addBed(t, p.ID(), "Bed 1", nil)
		f.addBed(t, p.ID(), "Bed 2", nil)
		f.addPeriod(t, bed.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 10))
		f.addPeriod(t, bed.ID(), shared.NewDate(2026, 5, 3), shared.NewDate(2026, 5, 6))

		snapshot, err := f.agg.CapacityForDay(ctx, p.ID(), shared.NewDate(2026, 5, 4))

		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.TotalBedCount)
		assert.Equal(t, 1, snapshot.AvailableBedCount)
	})

	t.Run("cancelled period does not reduce availability", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		bed := f.addBed(t, p.ID(), "Bed 1", nil)
		period := f.addPeriod(t, bed.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 10))
		require.NoError(t, period.Cancel("", uuid.New()))

		snapshot, err := f.agg.CapacityForDay(ctx, p.ID(), shared.NewDate(2026, 5, 4))

		require.NoError(t, err)
		assert.Equal(t, 1, snapshot.AvailableBedCount)
	})

	t.Run("cancelled and non-arrival bookings do not count", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		f.addBed(t, p.ID(), "Bed 1", nil)
		cancelled := f.addBooking(t, p.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 5), nil)
		require.NoError(t, cancelled.Cancel(uuid.New(), ""))
		noShow := f.addBooking(t, p.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 5), nil)
		require.NoError(t, noShow.RecordNonArrival(uuid.New(), ""))

		snapshot, err := f.agg.CapacityForDay(ctx, p.ID(), shared.NewDate(2026, 5, 3))

		require.NoError(t, err)
		assert.Equal(t, 0, snapshot.BookingCount)
	})

	t.Run("counts stay within bounds", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		bed := f.addBed(t, p.ID(), "Bed 1", nil)
		f.addPeriod(t, bed.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 10))

		snapshot, err := f.agg.CapacityForDay(ctx, p.ID(), shared.NewDate(2026, 5, 4))

		require.NoError(t, err)
		assert.GreaterOrEqual(t, snapshot.AvailableBedCount, 0)
		assert.LessOrEqual(t, snapshot.AvailableBedCount, snapshot.TotalBedCount)
	})

	t.Run("characteristic breakdown restricts both counts", func(t *testing.T) {
		f := newFixture()
		enSuite := uuid.New()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		f.addBed(t, p.ID(), "Bed 1", []uuid.UUID{enSuite})
		f.addBed(t, p.ID(), "Bed 2", nil)
		f.addBooking(t, p.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 5), []uuid.UUID{enSuite})

		snapshot, err := f.agg.CapacityForDay(ctx, p.ID(), shared.NewDate(2026, 5, 3))

		require.NoError(t, err)
		require.Len(t, snapshot.Characteristics, 1)
		assert.Equal(t, enSuite, snapshot.Characteristics[0].CharacteristicID)
		assert.Equal(t, 1, snapshot.Characteristics[0].AvailableBedsCount)
		assert.Equal(t, 1, snapshot.Characteristics[0].BookingsCount)
	})

	t.Run("unknown premises", func(t *testing.T) {
		f := newFixture()

		_, err := f.agg.CapacityForDay(ctx, uuid.New(), shared.NewDate(2026, 5, 3))

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAggregator_CapacityForRange(t *testing.T) {
	ctx := context.Background()

	t.Run("one snapshot per day, chronological and gap-free", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		f.addBed(t, p.ID(), "Bed 1", nil)

		start := shared.NewDate(2026, 5, 1)
		end := shared.NewDate(2026, 5, 7)
		snapshots, err := f.agg.CapacityForRange(ctx, p.ID(), start, end)

		require.NoError(t, err)
		require.Len(t, snapshots, 7)
		for i, snapshot := range snapshots {
			assert.True(t, snapshot.Date.Equal(start.AddDays(i)))
		}
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)

		_, err := f.agg.CapacityForRange(ctx, p.ID(), shared.NewDate(2026, 5, 7), shared.NewDate(2026, 5, 1))

		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestAggregator_SearchAvailability(t *testing.T) {
	ctx := context.Background()
	window := shared.NewDateRange(shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 5))

	t.Run("ranks by distance ascending", func(t *testing.T) {
		f := newFixture()
		near := f.addPremises(t, "Near House", 53.50, -2.25, nil)
		far := f.addPremises(t, "Far House", 55.95, -3.19, nil)
		f.addBed(t, near.ID(), "Bed 1", nil)
		f.addBed(t, far.ID(), "Bed 1", nil)

		matches, err := f.agg.SearchAvailability(ctx, capacity.SearchCriteria{
			DateRange:       window,
			TargetLatitude:  53.48,
			TargetLongitude: -2.24,
		})

		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, near.ID(), matches[0].PremisesID)
		assert.Equal(t, far.ID(), matches[1].PremisesID)
		assert.Less(t, matches[0].DistanceKm, matches[1].DistanceKm)
	})

	t.Run("radius excludes distant premises", func(t *testing.T) {
		f := newFixture()
		near := f.addPremises(t, "Near House", 53.50, -2.25, nil)
		far := f.addPremises(t, "Far House", 55.95, -3.19, nil)
		f.addBed(t, near.ID(), "Bed 1", nil)
		f.addBed(t, far.ID(), "Bed 1", nil)

		matches, err := f.agg.SearchAvailability(ctx, capacity.SearchCriteria{
			DateRange:       window,
			TargetLatitude:  53.48,
			TargetLongitude: -2.24,
			RadiusKm:        50,
		})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, near.ID(), matches[0].PremisesID)
	})

	t.Run("fully booked premises is excluded", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		f.addBed(t, p.ID(), "Bed 1", nil)
		f.addBooking(t, p.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 5), nil)

		matches, err := f.agg.SearchAvailability(ctx, capacity.SearchCriteria{
			DateRange:       window,
			TargetLatitude:  53.48,
			TargetLongitude: -2.24,
		})

		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("required characteristics restrict the available count", func(t *testing.T) {
		f := newFixture()
		wheelchair := uuid.New()
		plain := f.addPremises(t, "Plain House", 53.48, -2.24, nil)
		f.addBed(t, plain.ID(), "Bed 1", nil)
		adapted := f.addPremises(t, "Adapted House", 53.49, -2.24, nil)
		f.addBed(t, adapted.ID(), "Bed 1", []uuid.UUID{wheelchair})

		matches, err := f.agg.SearchAvailability(ctx, capacity.SearchCriteria{
			DateRange:               window,
			RequiredCharacteristics: []uuid.UUID{wheelchair},
			TargetLatitude:          53.48,
			TargetLongitude:         -2.24,
		})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, adapted.ID(), matches[0].PremisesID)
	})

	t.Run("unrestricted booking does not consume a characteristic bed", func(t *testing.T) {
		f := newFixture()
		enSuite := uuid.New()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		f.addBed(t, p.ID(), "Bed 1", []uuid.UUID{enSuite})
		f.addBed(t, p.ID(), "Bed 2", nil)
		f.addBooking(t, p.ID(), shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 4), nil)

		matches, err := f.agg.SearchAvailability(ctx, capacity.SearchCriteria{
			DateRange:               shared.NewDateRange(shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 3)),
			RequiredCharacteristics: []uuid.UUID{enSuite},
			TargetLatitude:          53.48,
			TargetLongitude:         -2.24,
		})

		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, p.ID(), matches[0].PremisesID)

		spare, err := f.agg.HasSpareCapacity(ctx, p.ID(),
			shared.NewDateRange(shared.NewDate(2026, 5, 1), shared.NewDate(2026, 5, 3)),
			[]uuid.UUID{enSuite})
		require.NoError(t, err)
		assert.True(t, spare)
	})

	t.Run("single day of shortfall excludes the premises", func(t *testing.T) {
		f := newFixture()
		p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
		bed := f.addBed(t, p.ID(), "Bed 1", nil)
		f.addPeriod(t, bed.ID(), shared.NewDate(2026, 5, 3), shared.NewDate(2026, 5, 3))

		matches, err := f.agg.SearchAvailability(ctx, capacity.SearchCriteria{
			DateRange:       window,
			TargetLatitude:  53.48,
			TargetLongitude: -2.24,
		})

		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

type countingCache struct {
	store map[string]capacity.PremisesDayCapacity
	hits  int
	sets  int
}

func (c *countingCache) Get(ctx context.Context, premisesID uuid.UUID, day shared.Date) (capacity.PremisesDayCapacity, bool) {
	s, ok := c.store[premisesID.String()+day.String()]
	if ok {
		c.hits++
	}
	return s, ok
}

func (c *countingCache) Set(ctx context.Context, snapshot capacity.PremisesDayCapacity) {
	c.sets++
	c.store[snapshot.PremisesID.String()+snapshot.Date.String()] = snapshot
}

func TestAggregator_DayCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.addPremises(t, "Oak House", 53.48, -2.24, nil)
	f.addBed(t, p.ID(), "Bed 1", nil)

	cache := &countingCache{store: make(map[string]capacity.PremisesDayCapacity)}
	agg := capacity.NewAggregator(f.inventory, f.periods, f.bookings, cache,
		slog.New(slog.DiscardHandler), observability.NoopMetrics{})

	day := shared.NewDate(2026, 5, 3)
	first, err := agg.CapacityForDay(ctx, p.ID(), day)
	require.NoError(t, err)
	second, err := agg.CapacityForDay(ctx, p.ID(), day)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.hits)
}
