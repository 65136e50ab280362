package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

func newTestBooking(t *testing.T) *domain.SpaceBooking {
	t.Helper()
	booking, err := domain.NewSpaceBooking(
		uuid.New(),
		shared.NewPersonID("X320741"),
		shared.NewDate(2026, 4, 1),
		shared.NewDate(2026, 4, 15),
		nil,
	)
	require.NoError(t, err)
	return booking
}

func TestNewSpaceBooking(t *testing.T) {
	t.Run("creates an upcoming booking and raises booking.made", func(t *testing.T) {
		booking := newTestBooking(t)

		assert.Equal(t, domain.StatusUpcoming, booking.Status())
		events := booking.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "booking.made", events[0].RoutingKey())
	})

	t.Run("fails when departure is not after arrival", func(t *testing.T) {
		day := shared.NewDate(2026, 4, 1)

		_, err := domain.NewSpaceBooking(uuid.New(), shared.NewPersonID("X320741"), day, day, nil)
		assert.True(t, errors.Is(err, domain.ErrDateRange))

		_, err = domain.NewSpaceBooking(uuid.New(), shared.NewPersonID("X320741"), day, day.AddDays(-1), nil)
		assert.True(t, errors.Is(err, domain.ErrDateRange))
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails without a person", func(t *testing.T) {
		_, err := domain.NewSpaceBooking(uuid.New(), shared.NewPersonID(""), shared.NewDate(2026, 4, 1), shared.NewDate(2026, 4, 2), nil)
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestSpaceBooking_CanonicalDates(t *testing.T) {
	booking := newTestBooking(t)

	assert.True(t, booking.CanonicalArrival().Equal(shared.NewDate(2026, 4, 1)))
	assert.True(t, booking.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 15)))

	require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 2)))
	assert.True(t, booking.CanonicalArrival().Equal(shared.NewDate(2026, 4, 2)))

	require.NoError(t, booking.RecordDeparture(shared.NewDate(2026, 4, 14), uuid.New(), nil, ""))
	assert.True(t, booking.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 14)))
}

func TestSpaceBooking_Status(t *testing.T) {
	t.Run("arrival then departure", func(t *testing.T) {
		booking := newTestBooking(t)

		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))
		assert.Equal(t, domain.StatusArrived, booking.Status())

		require.NoError(t, booking.RecordDeparture(shared.NewDate(2026, 4, 10), uuid.New(), nil, ""))
		assert.Equal(t, domain.StatusDeparted, booking.Status())
	})

	t.Run("cancellation wins over everything else", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))

		require.NoError(t, booking.Cancel(uuid.New(), ""))
		assert.Equal(t, domain.StatusCancelled, booking.Status())
	})

	t.Run("non-arrival", func(t *testing.T) {
		booking := newTestBooking(t)

		require.NoError(t, booking.RecordNonArrival(uuid.New(), "no show"))
		assert.Equal(t, domain.StatusNotArrived, booking.Status())
	})
}

func TestSpaceBooking_RecordArrival(t *testing.T) {
	t.Run("fails if already arrived", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))

		err := booking.RecordArrival(shared.NewDate(2026, 4, 2))
		assert.True(t, errors.Is(err, domain.ErrAlreadyArrived))
	})

	t.Run("fails on a cancelled booking", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.Cancel(uuid.New(), ""))

		err := booking.RecordArrival(shared.NewDate(2026, 4, 1))
		assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
		assert.True(t, errors.Is(err, shared.ErrStateConflict))
	})
}

func TestSpaceBooking_RecordDeparture(t *testing.T) {
	t.Run("fails before any arrival", func(t *testing.T) {
		booking := newTestBooking(t)

		err := booking.RecordDeparture(shared.NewDate(2026, 4, 10), uuid.New(), nil, "")
		assert.True(t, errors.Is(err, domain.ErrNotArrived))
		assert.Nil(t, booking.ActualDeparture())
	})

	t.Run("fails if departure precedes arrival", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 5)))

		err := booking.RecordDeparture(shared.NewDate(2026, 4, 4), uuid.New(), nil, "")
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails if already departed", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))
		require.NoError(t, booking.RecordDeparture(shared.NewDate(2026, 4, 10), uuid.New(), nil, ""))

		err := booking.RecordDeparture(shared.NewDate(2026, 4, 11), uuid.New(), nil, "")
		assert.True(t, errors.Is(err, domain.ErrAlreadyDeparted))
	})
}

func TestSpaceBooking_RecordNonArrival(t *testing.T) {
	t.Run("fails once arrival is recorded and leaves state untouched", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))

		err := booking.RecordNonArrival(uuid.New(), "")

		assert.True(t, errors.Is(err, domain.ErrAlreadyArrived))
		assert.True(t, errors.Is(err, shared.ErrStateConflict))
		assert.Nil(t, booking.NonArrival())
		assert.Equal(t, domain.StatusArrived, booking.Status())
	})

	t.Run("fails if already a non-arrival", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordNonArrival(uuid.New(), ""))

		err := booking.RecordNonArrival(uuid.New(), "")
		assert.True(t, errors.Is(err, domain.ErrAlreadyNonArrival))
	})
}

func TestSpaceBooking_Cancel(t *testing.T) {
	t.Run("fails if already departed", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))
		require.NoError(t, booking.RecordDeparture(shared.NewDate(2026, 4, 10), uuid.New(), nil, ""))

		err := booking.Cancel(uuid.New(), "")
		assert.True(t, errors.Is(err, domain.ErrAlreadyDeparted))
	})

	t.Run("fails if already cancelled", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.Cancel(uuid.New(), ""))

		err := booking.Cancel(uuid.New(), "")
		assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
	})

	t.Run("mutually exclusive with non-arrival", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordNonArrival(uuid.New(), ""))

		err := booking.Cancel(uuid.New(), "")
		assert.True(t, errors.Is(err, domain.ErrAlreadyNonArrival))
	})
}

func TestSpaceBooking_Reinstate(t *testing.T) {
	t.Run("reverses a cancellation", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.Cancel(uuid.New(), ""))

		require.NoError(t, booking.Reinstate())

		assert.Nil(t, booking.Cancellation())
		assert.Equal(t, domain.StatusUpcoming, booking.Status())
	})

	t.Run("fails when not cancelled", func(t *testing.T) {
		booking := newTestBooking(t)

		err := booking.Reinstate()
		assert.True(t, errors.Is(err, domain.ErrNotCancelled))
	})
}

func TestSpaceBooking_Shorten(t *testing.T) {
	t.Run("moves the departure earlier while upcoming", func(t *testing.T) {
		booking := newTestBooking(t)

		require.NoError(t, booking.Shorten(shared.NewDate(2026, 4, 10)))

		assert.True(t, booking.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 10)))
	})

	t.Run("rejects a date after the current departure", func(t *testing.T) {
		booking := newTestBooking(t)

		err := booking.Shorten(shared.NewDate(2026, 4, 20))
		assert.True(t, errors.Is(err, domain.ErrInvalidShorten))
	})

	t.Run("rejects a date before the canonical arrival", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 3)))

		err := booking.Shorten(shared.NewDate(2026, 4, 2))
		assert.True(t, errors.Is(err, domain.ErrInvalidShorten))
	})

	t.Run("fails once departed", func(t *testing.T) {
		booking := newTestBooking(t)
		require.NoError(t, booking.RecordArrival(shared.NewDate(2026, 4, 1)))
		require.NoError(t, booking.RecordDeparture(shared.NewDate(2026, 4, 10), uuid.New(), nil, ""))

		err := booking.Shorten(shared.NewDate(2026, 4, 5))
		assert.True(t, errors.Is(err, domain.ErrAlreadyDeparted))
	})
}

func TestSpaceBooking_Extend(t *testing.T) {
	t.Run("moves the departure later", func(t *testing.T) {
		booking := newTestBooking(t)

		require.NoError(t, booking.Extend(shared.NewDate(2026, 4, 20)))

		assert.True(t, booking.CanonicalDeparture().Equal(shared.NewDate(2026, 4, 20)))
	})

	t.Run("rejects a date that does not extend", func(t *testing.T) {
		booking := newTestBooking(t)

		err := booking.Extend(shared.NewDate(2026, 4, 15))
		assert.True(t, errors.Is(err, domain.ErrInvalidExtension))
	})
}

func TestSpaceBooking_OccupiesOn(t *testing.T) {
	booking := newTestBooking(t)

	assert.True(t, booking.OccupiesOn(shared.NewDate(2026, 4, 1)))
	assert.True(t, booking.OccupiesOn(shared.NewDate(2026, 4, 15)))
	assert.False(t, booking.OccupiesOn(shared.NewDate(2026, 3, 31)))
	assert.False(t, booking.OccupiesOn(shared.NewDate(2026, 4, 16)))

	require.NoError(t, booking.Cancel(uuid.New(), ""))
	assert.False(t, booking.OccupiesOn(shared.NewDate(2026, 4, 5)))
}

func TestSpaceBooking_AllocateKeyWorker(t *testing.T) {
	booking := newTestBooking(t)
	keyWorkerID := uuid.New()

	require.NoError(t, booking.AllocateKeyWorker(keyWorkerID))

	require.NotNil(t, booking.KeyWorkerID())
	assert.Equal(t, keyWorkerID, *booking.KeyWorkerID())

	err := booking.AllocateKeyWorker(uuid.Nil)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}
