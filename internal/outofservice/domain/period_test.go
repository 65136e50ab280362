package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

func newTestPeriod(t *testing.T) *domain.OutOfServicePeriod {
	t.Helper()
	period, err := domain.NewOutOfServicePeriod(
		uuid.New(),
		shared.NewDateRange(shared.NewDate(2026, 3, 1), shared.NewDate(2026, 3, 10)),
		uuid.New(),
		"WO-1234",
		"boiler replacement",
		uuid.New(),
	)
	require.NoError(t, err)
	return period
}

func TestNewOutOfServicePeriod(t *testing.T) {
	t.Run("creates period with creation revision and event", func(t *testing.T) {
		period := newTestPeriod(t)

		require.Len(t, period.Revisions(), 1)
		assert.Equal(t, domain.ChangeTypeCreated, period.Revisions()[0].ChangeType)
		assert.False(t, period.IsCancelled())

		events := period.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "outofservice.created", events[0].RoutingKey())
	})

	t.Run("fails when end precedes start", func(t *testing.T) {
		_, err := domain.NewOutOfServicePeriod(
			uuid.New(),
			shared.NewDateRange(shared.NewDate(2026, 3, 10), shared.NewDate(2026, 3, 1)),
			uuid.New(), "", "", uuid.New(),
		)

		assert.True(t, errors.Is(err, domain.ErrInvalidRange))
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails without a bed or reason", func(t *testing.T) {
		dates := shared.NewDateRange(shared.NewDate(2026, 3, 1), shared.NewDate(2026, 3, 2))

		_, err := domain.NewOutOfServicePeriod(uuid.Nil, dates, uuid.New(), "", "", uuid.New())
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = domain.NewOutOfServicePeriod(uuid.New(), dates, uuid.Nil, "", "", uuid.New())
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestOutOfServicePeriod_ActiveOn(t *testing.T) {
	period := newTestPeriod(t)

	assert.True(t, period.ActiveOn(shared.NewDate(2026, 3, 1)))
	assert.True(t, period.ActiveOn(shared.NewDate(2026, 3, 10)))
	assert.False(t, period.ActiveOn(shared.NewDate(2026, 2, 28)))
	assert.False(t, period.ActiveOn(shared.NewDate(2026, 3, 11)))

	require.NoError(t, period.Cancel("", uuid.New()))
	assert.False(t, period.ActiveOn(shared.NewDate(2026, 3, 5)))
}

func TestOutOfServicePeriod_Revise(t *testing.T) {
	t.Run("appends one revision per changed field", func(t *testing.T) {
		period := newTestPeriod(t)
		actorID := uuid.New()

		newEnd := shared.NewDate(2026, 3, 15)
		newNotes := "extended while parts are on order"
		err := period.Revise(domain.Changes{EndDate: &newEnd, Notes: &newNotes}, actorID)

		require.NoError(t, err)
		require.Len(t, period.Revisions(), 3)
		assert.Equal(t, domain.ChangeTypeUpdatedEndDate, period.Revisions()[1].ChangeType)
		assert.Equal(t, domain.ChangeTypeUpdatedNotes, period.Revisions()[2].ChangeType)
		assert.Equal(t, actorID, period.Revisions()[1].ActorID)
		assert.True(t, period.Dates().End.Equal(newEnd))
		assert.Equal(t, newNotes, period.Notes())
	})

	t.Run("unchanged values add no revision", func(t *testing.T) {
		period := newTestPeriod(t)

		sameEnd := period.Dates().End
		err := period.Revise(domain.Changes{EndDate: &sameEnd}, uuid.New())

		require.NoError(t, err)
		assert.Len(t, period.Revisions(), 1)
	})

	t.Run("rejects a range that would become invalid", func(t *testing.T) {
		period := newTestPeriod(t)

		badStart := shared.NewDate(2026, 4, 1)
		err := period.Revise(domain.Changes{StartDate: &badStart}, uuid.New())

		assert.True(t, errors.Is(err, domain.ErrInvalidRange))
		assert.Len(t, period.Revisions(), 1)
		assert.True(t, period.Dates().Start.Equal(shared.NewDate(2026, 3, 1)))
	})

	t.Run("rejects empty changes", func(t *testing.T) {
		period := newTestPeriod(t)

		err := period.Revise(domain.Changes{}, uuid.New())

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails once cancelled", func(t *testing.T) {
		period := newTestPeriod(t)
		require.NoError(t, period.Cancel("", uuid.New()))

		newEnd := shared.NewDate(2026, 3, 20)
		err := period.Revise(domain.Changes{EndDate: &newEnd}, uuid.New())

		assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
		assert.True(t, errors.Is(err, shared.ErrStateConflict))
	})
}

func TestOutOfServicePeriod_Cancel(t *testing.T) {
	t.Run("records cancellation as the final revision", func(t *testing.T) {
		period := newTestPeriod(t)

		err := period.Cancel("no longer needed", uuid.New())

		require.NoError(t, err)
		require.NotNil(t, period.Cancellation())
		assert.Equal(t, "no longer needed", period.Cancellation().Notes)
		last := period.Revisions()[len(period.Revisions())-1]
		assert.Equal(t, domain.ChangeTypeCancelled, last.ChangeType)
	})

	t.Run("fails if already cancelled", func(t *testing.T) {
		period := newTestPeriod(t)
		require.NoError(t, period.Cancel("", uuid.New()))

		err := period.Cancel("again", uuid.New())

		assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))
	})
}

func TestOutOfServicePeriod_RevisionCompleteness(t *testing.T) {
	// A period revised N times then cancelled carries creation, the N field
	// updates and the cancellation marker, in order.
	period := newTestPeriod(t)
	actorID := uuid.New()

	end1 := shared.NewDate(2026, 3, 12)
	require.NoError(t, period.Revise(domain.Changes{EndDate: &end1}, actorID))
	reason := uuid.New()
	require.NoError(t, period.Revise(domain.Changes{ReasonID: &reason}, actorID))
	require.NoError(t, period.Cancel("", actorID))

	revisions := period.Revisions()
	require.Len(t, revisions, 4)
	assert.Equal(t, domain.ChangeTypeCreated, revisions[0].ChangeType)
	assert.Equal(t, domain.ChangeTypeUpdatedEndDate, revisions[1].ChangeType)
	assert.Equal(t, domain.ChangeTypeUpdatedReason, revisions[2].ChangeType)
	assert.Equal(t, domain.ChangeTypeCancelled, revisions[3].ChangeType)
}
