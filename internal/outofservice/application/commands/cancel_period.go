package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

// CancelPeriodCommand terminally withdraws an out-of-service period.
type CancelPeriodCommand struct {
	ActorID  uuid.UUID
	PeriodID uuid.UUID
	Notes    string
}

// CancelPeriodHandler handles the CancelPeriodCommand.
type CancelPeriodHandler struct {
	periodRepo domain.Repository
	collector  *outbox.Collector
	uow        sharedApplication.UnitOfWork
}

// NewCancelPeriodHandler creates a new CancelPeriodHandler.
func NewCancelPeriodHandler(periodRepo domain.Repository, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *CancelPeriodHandler {
	return &CancelPeriodHandler{
		periodRepo: periodRepo,
		collector:  collector,
		uow:        uow,
	}
}

// Handle executes the CancelPeriodCommand.
func (h *CancelPeriodHandler) Handle(ctx context.Context, cmd CancelPeriodCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		period, err := h.periodRepo.FindByID(txCtx, cmd.PeriodID)
		if err != nil {
			return err
		}

		if err := period.Cancel(cmd.Notes, cmd.ActorID); err != nil {
			return err
		}

		if err := h.periodRepo.Save(txCtx, period); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(period.DomainEvents(), sharedApplication.NewEventMetadata(cmd.ActorID))
		return h.collector.CollectFrom(txCtx, period)
	})
}
