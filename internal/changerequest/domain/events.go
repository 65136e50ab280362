package domain

import (
	"github.com/google/uuid"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

const aggregateType = "ChangeRequest"

// RequestCreated is raised when a change request is opened.
type RequestCreated struct {
	shared.BaseEvent
	BookingID   uuid.UUID   `json:"booking_id"`
	RequestType RequestType `json:"request_type"`
	ReasonID    uuid.UUID   `json:"reason_id"`
}

// NewRequestCreated creates a RequestCreated event.
func NewRequestCreated(cr *ChangeRequest) *RequestCreated {
	return &RequestCreated{
		BaseEvent:   shared.NewBaseEvent(cr.ID(), aggregateType, "change-request.created"),
		BookingID:   cr.BookingID(),
		RequestType: cr.Type(),
		ReasonID:    cr.ReasonID(),
	}
}

// RequestApproved is raised when a request is approved.
type RequestApproved struct {
	shared.BaseEvent
	BookingID   uuid.UUID   `json:"booking_id"`
	RequestType RequestType `json:"request_type"`
}

// NewRequestApproved creates a RequestApproved event.
func NewRequestApproved(cr *ChangeRequest) *RequestApproved {
	return &RequestApproved{
		BaseEvent:   shared.NewBaseEvent(cr.ID(), aggregateType, "change-request.approved"),
		BookingID:   cr.BookingID(),
		RequestType: cr.Type(),
	}
}

// RequestRejected is raised when a request is rejected.
type RequestRejected struct {
	shared.BaseEvent
	BookingID         uuid.UUID   `json:"booking_id"`
	RequestType       RequestType `json:"request_type"`
	RejectionReasonID *uuid.UUID  `json:"rejection_reason_id,omitempty"`
}

// NewRequestRejected creates a RequestRejected event.
func NewRequestRejected(cr *ChangeRequest) *RequestRejected {
	e := &RequestRejected{
		BaseEvent:   shared.NewBaseEvent(cr.ID(), aggregateType, "change-request.rejected"),
		BookingID:   cr.BookingID(),
		RequestType: cr.Type(),
	}
	if cr.Decision() != nil {
		e.RejectionReasonID = cr.Decision().RejectionReasonID
	}
	return e
}
