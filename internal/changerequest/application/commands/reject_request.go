package commands

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

// RejectRequestCommand rejects an open change request. The booking is left
// untouched.
type RejectRequestCommand struct {
	ActorID           uuid.UUID
	RequestID         uuid.UUID
	RejectionReasonID uuid.UUID
	DecisionPayload   json.RawMessage
}

// RejectRequestHandler handles the RejectRequestCommand.
type RejectRequestHandler struct {
	requestRepo domain.Repository
	catalog     *refdata.Catalog
	collector   *outbox.Collector
	uow         sharedApplication.UnitOfWork
}

// NewRejectRequestHandler creates a new RejectRequestHandler.
func NewRejectRequestHandler(requestRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *RejectRequestHandler {
	return &RejectRequestHandler{
		requestRepo: requestRepo,
		catalog:     catalog,
		collector:   collector,
		uow:         uow,
	}
}

// Handle executes the RejectRequestCommand.
func (h *RejectRequestHandler) Handle(ctx context.Context, cmd RejectRequestCommand) error {
	if _, err := h.catalog.Reason(refdata.ReasonCRRejection, cmd.RejectionReasonID); err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		request, err := h.requestRepo.FindByID(txCtx, cmd.RequestID)
		if err != nil {
			return err
		}

		if err := request.Reject(cmd.RejectionReasonID, cmd.DecisionPayload); err != nil {
			return err
		}

		if err := h.requestRepo.Save(txCtx, request); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(request.DomainEvents(), sharedApplication.NewEventMetadata(cmd.ActorID))
		return h.collector.CollectFrom(txCtx, request)
	})
}
