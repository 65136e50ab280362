// Package commands contains the out-of-service period command handlers.
package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
)

// CreatePeriodCommand takes a bed out of service for an inclusive date range.
type CreatePeriodCommand struct {
	ActorID         uuid.UUID
	BedID           uuid.UUID
	StartDate       shared.Date
	EndDate         shared.Date
	ReasonID        uuid.UUID
	ReferenceNumber string
	Notes           string
}

// CreatePeriodResult contains the result of creating a period.
type CreatePeriodResult struct {
	PeriodID uuid.UUID
}

// CreatePeriodHandler handles the CreatePeriodCommand.
type CreatePeriodHandler struct {
	periodRepo domain.Repository
	catalog    *refdata.Catalog
	collector  *outbox.Collector
	uow        sharedApplication.UnitOfWork
}

// NewCreatePeriodHandler creates a new CreatePeriodHandler.
func NewCreatePeriodHandler(periodRepo domain.Repository, catalog *refdata.Catalog, collector *outbox.Collector, uow sharedApplication.UnitOfWork) *CreatePeriodHandler {
	return &CreatePeriodHandler{
		periodRepo: periodRepo,
		catalog:    catalog,
		collector:  collector,
		uow:        uow,
	}
}

// Handle executes the CreatePeriodCommand.
func (h *CreatePeriodHandler) Handle(ctx context.Context, cmd CreatePeriodCommand) (*CreatePeriodResult, error) {
	if _, err := h.catalog.Reason(refdata.ReasonOutOfService, cmd.ReasonID); err != nil {
		return nil, err
	}

	var result *CreatePeriodResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		period, err := domain.NewOutOfServicePeriod(
			cmd.BedID,
			shared.NewDateRange(cmd.StartDate, cmd.EndDate),
			cmd.ReasonID,
			cmd.ReferenceNumber,
			cmd.Notes,
			cmd.ActorID,
		)
		if err != nil {
			return err
		}

		if err := h.periodRepo.Save(txCtx, period); err != nil {
			return err
		}

		sharedApplication.ApplyEventMetadata(period.DomainEvents(), sharedApplication.NewEventMetadata(cmd.ActorID))
		if err := h.collector.CollectFrom(txCtx, period); err != nil {
			return err
		}

		result = &CreatePeriodResult{PeriodID: period.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
