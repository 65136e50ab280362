package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

// RevisePeriodCommand updates one or more fields of an out-of-service period.
// Every changed field gets its own entry in the revision trail.
type RevisePeriodCommand struct {
	ActorID  uuid.UUID
	PeriodID uuid.UUID
	Changes  domain.Changes
}

// RevisePeriodHandler handles the RevisePeriodCommand.
type RevisePeriodHandler struct {
	periodRepo domain.Repository
	catalog    *refdata.Catalog
	collector  *outbox.Collector
	uow        sharedApplication.UnitOfWork
}

// NewRevisePeriodHandler creates a new RevisePeriodHandler.
func NewRevisePeriodHandler(periodRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *RevisePeriodHandler {
	return &RevisePeriodHandler{
		periodRepo: periodRepo,
		catalog:    catalog,
		collector:  collector,
		uow:        uow,
	}
}

// Handle executes the RevisePeriodCommand.
func (h *RevisePeriodHandler) Handle(ctx context.Context, cmd RevisePeriodCommand) error {
	if cmd.Changes.ReasonID != nil {
		if _, err := h.catalog.Reason(refdata.ReasonOutOfService, *cmd.Changes.ReasonID); err != nil {
			return err
		}
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		period, err := h.periodRepo.FindByID(txCtx, cmd.PeriodID)
		if err != nil {
			return err
		}

		if err := period.Revise(cmd.Changes, cmd.ActorID); err != nil {
			return err
		}

		if err := h.periodRepo.Save(txCtx, period); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(period.DomainEvents(), sharedApplication.NewEventMetadata(cmd.ActorID))
		return h.collector.CollectFrom(txCtx, period)
	})
}
