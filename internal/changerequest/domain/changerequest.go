// Package domain implements the change request workflow layered on the
// booking ledger: appeals, transfers and extensions raised against a booking
// and decided as approved or rejected.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// RequestType discriminates the change request variants.
type RequestType string

const (
	TypePlacementAppeal    RequestType = "PLACEMENT_APPEAL"
	TypePlacementExtension RequestType = "PLACEMENT_EXTENSION"
	TypePlannedTransfer    RequestType = "PLANNED_TRANSFER"
	TypeEmergencyTransfer  RequestType = "EMERGENCY_TRANSFER"
)

// IsTransfer reports whether the type carries transfer semantics.
func (t RequestType) IsTransfer() bool {
	return t == TypePlannedTransfer || t == TypeEmergencyTransfer
}

// Valid reports whether the type is one of the known variants.
func (t RequestType) Valid() bool {
	switch t {
	case TypePlacementAppeal, TypePlacementExtension, TypePlannedTransfer, TypeEmergencyTransfer:
		return true
	}
	return false
}

// Outcome is the terminal decision of a request.
type Outcome string

const (
	OutcomeApproved Outcome = "APPROVED"
	OutcomeRejected Outcome = "REJECTED"
)

var (
	// ErrDuplicateOpenRequest marks a raise while an open request of the
	// same type already exists for the booking.
	ErrDuplicateOpenRequest = shared.NewStateConflictError("an open change request of this type already exists for the booking")

	// ErrNotOpen marks a decision on a request that is already decided.
	ErrNotOpen = shared.NewStateConflictError("change request is not open")
)

// AppealPayload reinstates a cancelled booking.
type AppealPayload struct {
	Notes string `json:"notes,omitempty"`
}

// TransferPayload moves the person to another premises on the transfer date.
type TransferPayload struct {
	DestinationPremisesID uuid.UUID   `json:"destination_premises_id"`
	TransferDate          shared.Date `json:"transfer_date"`
	Notes                 string      `json:"notes,omitempty"`
}

// ExtensionPayload moves the booking's departure later.
type ExtensionPayload struct {
	NewDeparture shared.Date `json:"new_departure"`
	Notes        string      `json:"notes,omitempty"`
}

// RequestPayload is the tagged union of the per-type request bodies. Exactly
// the variant matching the request type is set.
type RequestPayload struct {
	Appeal    *AppealPayload    `json:"appeal,omitempty"`
	Transfer  *TransferPayload  `json:"transfer,omitempty"`
	Extension *ExtensionPayload `json:"extension,omitempty"`
}

// validateFor checks the payload variant matches the request type.
func (p RequestPayload) validateFor(requestType RequestType) error {
	switch requestType {
	case TypePlacementAppeal:
		if p.Appeal == nil || p.Transfer != nil || p.Extension != nil {
			return shared.NewValidationError("appeal request requires exactly the appeal payload")
		}
	case TypePlannedTransfer, TypeEmergencyTransfer:
		if p.Transfer == nil || p.Appeal != nil || p.Extension != nil {
			return shared.NewValidationError("transfer request requires exactly the transfer payload")
		}
		if p.Transfer.DestinationPremisesID == uuid.Nil {
			return shared.NewValidationError("transfer request requires a destination premises")
		}
		if p.Transfer.TransferDate.IsZero() {
			return shared.NewValidationError("transfer request requires a transfer date")
		}
	case TypePlacementExtension:
		if p.Extension == nil || p.Appeal != nil || p.Transfer != nil {
			return shared.NewValidationError("extension request requires exactly the extension payload")
		}
		if p.Extension.NewDeparture.IsZero() {
			return shared.NewValidationError("extension request requires a new departure date")
		}
	default:
		return shared.NewValidationError("unknown change request type: " + string(requestType))
	}
	return nil
}

// MarshalPayload encodes the payload for storage.
func MarshalPayload(p RequestPayload) (json.RawMessage, error) {
	return json.Marshal(p)
}

// UnmarshalPayload decodes a stored payload.
func UnmarshalPayload(data json.RawMessage) (RequestPayload, error) {
	var p RequestPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return RequestPayload{}, err
	}
	return p, nil
}

// Decision closes a request. Terminal.
type Decision struct {
	Outcome           Outcome
	Payload           json.RawMessage
	RejectionReasonID *uuid.UUID
	DecidedAt         time.Time
}

// ChangeRequest is a request to appeal, transfer or extend a space booking,
// open until approved or rejected.
type ChangeRequest struct {
	shared.BaseAggregateRoot
	bookingID   uuid.UUID
	requestType RequestType
	reasonID    uuid.UUID
	payload     RequestPayload
	decision    *Decision
}

// NewChangeRequest raises a request against a booking. The at-most-one-open
// invariant per (booking, type) is enforced by the raise command inside its
// transaction, not here.
func NewChangeRequest(bookingID uuid.UUID, requestType RequestType, payload RequestPayload, reasonID uuid.UUID) (*ChangeRequest, error) {
	if bookingID == uuid.Nil {
		return nil, shared.NewValidationError("change request requires a booking")
	}
	if reasonID == uuid.Nil {
		return nil, shared.NewValidationError("change request requires a reason")
	}
	if err := payload.validateFor(requestType); err != nil {
		return nil, err
	}

	cr := &ChangeRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		bookingID:         bookingID,
		requestType:       requestType,
		reasonID:          reasonID,
		payload:           payload,
	}
	cr.AddDomainEvent(NewRequestCreated(cr))
	return cr, nil
}

// RehydrateChangeRequest recreates a request from persisted state.
func RehydrateChangeRequest(
	entity shared.BaseEntity,
	bookingID uuid.UUID,
	requestType RequestType,
	reasonID uuid.UUID,
	payload RequestPayload,
	decision *Decision,
) *ChangeRequest {
	return &ChangeRequest{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(entity),
		bookingID:         bookingID,
		requestType:       requestType,
		reasonID:          reasonID,
		payload:           payload,
		decision:          decision,
	}
}

func (cr *ChangeRequest) BookingID() uuid.UUID    { return cr.bookingID }
func (cr *ChangeRequest) Type() RequestType       { return cr.requestType }
func (cr *ChangeRequest) ReasonID() uuid.UUID     { return cr.reasonID }
func (cr *ChangeRequest) Payload() RequestPayload { return cr.payload }
func (cr *ChangeRequest) Decision() *Decision     { return cr.decision }

// IsOpen reports whether the request is still undecided.
func (cr *ChangeRequest) IsOpen() bool { return cr.decision == nil }

// Approve closes the request as approved. Booking side effects are applied
// by the approval command in the same transaction.
func (cr *ChangeRequest) Approve(decisionPayload json.RawMessage) error {
	if !cr.IsOpen() {
		return ErrNotOpen
	}

	cr.decision = &Decision{
		Outcome:   OutcomeApproved,
		Payload:   decisionPayload,
		DecidedAt: time.Now().UTC(),
	}
	cr.Touch()
	cr.AddDomainEvent(NewRequestApproved(cr))
	return nil
}

// Reject closes the request as rejected. No booking side effects.
func (cr *ChangeRequest) Reject(rejectionReasonID uuid.UUID, decisionPayload json.RawMessage) error {
	if !cr.IsOpen() {
		return ErrNotOpen
	}
	if rejectionReasonID == uuid.Nil {
		return shared.NewValidationError("rejection requires a reason")
	}

	cr.decision = &Decision{
		Outcome:           OutcomeRejected,
		Payload:           decisionPayload,
		RejectionReasonID: &rejectionReasonID,
		DecidedAt:         time.Now().UTC(),
	}
	cr.Touch()
	cr.AddDomainEvent(NewRequestRejected(cr))
	return nil
}
