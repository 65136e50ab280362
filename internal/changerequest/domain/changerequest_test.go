package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

func newAppealRequest(t *testing.T) *domain.ChangeRequest {
	t.Helper()
	request, err := domain.NewChangeRequest(
		uuid.New(),
		domain.TypePlacementAppeal,
		domain.RequestPayload{Appeal: &domain.AppealPayload{Notes: "wrong cancellation"}},
		uuid.New(),
	)
	require.NoError(t, err)
	return request
}

func TestNewChangeRequest(t *testing.T) {
	t.Run("creates open request with created event", func(t *testing.T) {
		request := newAppealRequest(t)

		assert.True(t, request.IsOpen())
		assert.Nil(t, request.Decision())

		events := request.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "change-request.created", events[0].RoutingKey())
	})

	t.Run("fails without a booking", func(t *testing.T) {
		_, err := domain.NewChangeRequest(
			uuid.Nil,
			domain.TypePlacementAppeal,
			domain.RequestPayload{Appeal: &domain.AppealPayload{}},
			uuid.New(),
		)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("fails without a reason", func(t *testing.T) {
		_, err := domain.NewChangeRequest(
			uuid.New(),
			domain.TypePlacementAppeal,
			domain.RequestPayload{Appeal: &domain.AppealPayload{}},
			uuid.Nil,
		)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestRequestPayload_Validation(t *testing.T) {
	transfer := &domain.TransferPayload{
		DestinationPremisesID: uuid.New(),
		TransferDate:          shared.NewDate(2026, 5, 10),
	}
	extension := &domain.ExtensionPayload{NewDeparture: shared.NewDate(2026, 5, 20)}

	cases := []struct {
		name        string
		requestType domain.RequestType
		payload     domain.RequestPayload
		wantErr     bool
	}{
		{"appeal with appeal payload", domain.TypePlacementAppeal, domain.RequestPayload{Appeal: &domain.AppealPayload{}}, false},
		{"appeal with transfer payload", domain.TypePlacementAppeal, domain.RequestPayload{Transfer: transfer}, true},
		{"appeal with extra variant", domain.TypePlacementAppeal, domain.RequestPayload{Appeal: &domain.AppealPayload{}, Extension: extension}, true},
		{"planned transfer with transfer payload", domain.TypePlannedTransfer, domain.RequestPayload{Transfer: transfer}, false},
		{"emergency transfer with transfer payload", domain.TypeEmergencyTransfer, domain.RequestPayload{Transfer: transfer}, false},
		{"transfer without destination", domain.TypePlannedTransfer, domain.RequestPayload{Transfer: &domain.TransferPayload{TransferDate: shared.NewDate(2026, 5, 10)}}, true},
		{"transfer without date", domain.TypePlannedTransfer, domain.RequestPayload{Transfer: &domain.TransferPayload{DestinationPremisesID: uuid.New()}}, true},
		{"extension with extension payload", domain.TypePlacementExtension, domain.RequestPayload{Extension: extension}, false},
		{"extension without new departure", domain.TypePlacementExtension, domain.RequestPayload{Extension: &domain.ExtensionPayload{}}, true},
		{"extension with appeal payload", domain.TypePlacementExtension, domain.RequestPayload{Appeal: &domain.AppealPayload{}}, true},
		{"unknown type", domain.RequestType("SOMETHING_ELSE"), domain.RequestPayload{Appeal: &domain.AppealPayload{}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewChangeRequest(uuid.New(), tc.requestType, tc.payload, uuid.New())
			if tc.wantErr {
				assert.ErrorIs(t, err, shared.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChangeRequest_Approve(t *testing.T) {
	t.Run("closes request as approved", func(t *testing.T) {
		request := newAppealRequest(t)
		request.ClearDomainEvents()

		err := request.Approve(json.RawMessage(`{"notes":"agreed"}`))
		require.NoError(t, err)

		assert.False(t, request.IsOpen())
		require.NotNil(t, request.Decision())
		assert.Equal(t, domain.OutcomeApproved, request.Decision().Outcome)

		events := request.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "change-request.approved", events[0].RoutingKey())
	})

	t.Run("fails when already decided", func(t *testing.T) {
		request := newAppealRequest(t)
		require.NoError(t, request.Approve(nil))

		err := request.Approve(nil)
		assert.ErrorIs(t, err, domain.ErrNotOpen)
		assert.True(t, errors.Is(err, shared.ErrStateConflict))
	})
}

func TestChangeRequest_Reject(t *testing.T) {
	t.Run("closes request as rejected with reason", func(t *testing.T) {
		request := newAppealRequest(t)
		request.ClearDomainEvents()
		rejectionReason := uuid.New()

		err := request.Reject(rejectionReason, json.RawMessage(`{"notes":"no grounds"}`))
		require.NoError(t, err)

		assert.False(t, request.IsOpen())
		require.NotNil(t, request.Decision())
		assert.Equal(t, domain.OutcomeRejected, request.Decision().Outcome)
		require.NotNil(t, request.Decision().RejectionReasonID)
		assert.Equal(t, rejectionReason, *request.Decision().RejectionReasonID)

		events := request.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "change-request.rejected", events[0].RoutingKey())
	})

	t.Run("requires a rejection reason", func(t *testing.T) {
		request := newAppealRequest(t)

		err := request.Reject(uuid.Nil, nil)
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.True(t, request.IsOpen())
	})

	t.Run("fails when already decided", func(t *testing.T) {
		request := newAppealRequest(t)
		require.NoError(t, request.Reject(uuid.New(), nil))

		err := request.Reject(uuid.New(), nil)
		assert.ErrorIs(t, err, domain.ErrNotOpen)
	})
}

func TestRequestType(t *testing.T) {
	assert.True(t, domain.TypePlannedTransfer.IsTransfer())
	assert.True(t, domain.TypeEmergencyTransfer.IsTransfer())
	assert.False(t, domain.TypePlacementAppeal.IsTransfer())
	assert.False(t, domain.TypePlacementExtension.IsTransfer())

	assert.True(t, domain.TypePlacementAppeal.Valid())
	assert.False(t, domain.RequestType("BED_SWAP").Valid())
}
