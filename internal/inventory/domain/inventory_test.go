package domain_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

func TestNewPremises(t *testing.T) {
	charID := uuid.New()

	t.Run("creates premises with valid input", func(t *testing.T) {
		p, err := domain.NewPremises("Oak House", "OAK1", "North West", 53.48, -2.24, []uuid.UUID{charID})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID())
		assert.Equal(t, "Oak House", p.Name())
		assert.Equal(t, "OAK1", p.APCode())
		assert.Equal(t, "North West", p.AreaName())
		assert.InDelta(t, 53.48, p.Latitude(), 0.0001)
		assert.InDelta(t, -2.24, p.Longitude(), 0.0001)
		assert.True(t, p.HasCharacteristic(charID))
		assert.False(t, p.HasCharacteristic(uuid.New()))
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := domain.NewPremises("  ", "OAK1", "North West", 0, 0, nil)

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("fails with empty ap code", func(t *testing.T) {
		_, err := domain.NewPremises("Oak House", "", "North West", 0, 0, nil)

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestNewRoom(t *testing.T) {
	premisesID := uuid.New()

	t.Run("creates room", func(t *testing.T) {
		room, err := domain.NewRoom(premisesID, "Room 1")

		require.NoError(t, err)
		assert.Equal(t, premisesID, room.PremisesID())
		assert.Equal(t, "Room 1", room.Name())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := domain.NewRoom(premisesID, "")

		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestBed_ActiveOn(t *testing.T) {
	roomID := uuid.New()

	t.Run("bed without end date is always active", func(t *testing.T) {
		bed, err := domain.NewBed(roomID, "Bed 1", nil)
		require.NoError(t, err)

		assert.True(t, bed.ActiveOn(shared.NewDate(2026, 1, 1)))
		assert.True(t, bed.ActiveOn(shared.NewDate(2099, 12, 31)))
	})

	t.Run("bed is active up to and including its end date", func(t *testing.T) {
		end := shared.NewDate(2026, 6, 30)
		bed := domain.RehydrateBed(uuid.New(), roomID, "Bed 1", &end, nil)

		assert.True(t, bed.ActiveOn(shared.NewDate(2026, 6, 29)))
		assert.True(t, bed.ActiveOn(shared.NewDate(2026, 6, 30)))
		assert.False(t, bed.ActiveOn(shared.NewDate(2026, 7, 1)))
	})

	t.Run("retire sets the end date", func(t *testing.T) {
		bed, err := domain.NewBed(roomID, "Bed 1", nil)
		require.NoError(t, err)

		end := shared.NewDate(2026, 3, 15)
		bed.Retire(end)

		require.NotNil(t, bed.EndDate())
		assert.True(t, bed.EndDate().Equal(end))
		assert.False(t, bed.ActiveOn(shared.NewDate(2026, 3, 16)))
	})
}

func TestBed_HasCharacteristic(t *testing.T) {
	charID := uuid.New()
	bed, err := domain.NewBed(uuid.New(), "Bed 2", []uuid.UUID{charID})
	require.NoError(t, err)

	assert.True(t, bed.HasCharacteristic(charID))
	assert.False(t, bed.HasCharacteristic(uuid.New()))
}
