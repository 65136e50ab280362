package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	cliBooking "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli/booking"
	cliCapacity "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli/capacity"
	cliRequest "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli/changerequest"
	cliOOS "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli/outofservice"
	cliPremises "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli/premises"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/app"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/config"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

func main() {
	// Setup logger
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// In development without .env, use defaults
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	cli.SetLogger(logger)

	// Try to initialize the full container
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Start outbox processor in background (optional in CLI)
		if cfg.OutboxProcessorEnabled {
			go func() {
				if err := container.OutboxProcessor.Start(ctx); err != nil {
					logger.Error("failed to start outbox processor", "error", err)
				}
			}()
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		// Create CLI app with handlers
		cliApp := cli.NewApp(
			container.CreatePeriodHandler,
			container.RevisePeriodHandler,
			container.CancelPeriodHandler,
			container.ActiveOnHandler,
			container.PeriodsForBedHandler,
			container.CreateBookingHandler,
			container.RecordArrivalHandler,
			container.RecordDepartureHandler,
			container.RecordNonArrivalHandler,
			container.CancelBookingHandler,
			container.ShortenBookingHandler,
			container.AllocateKeyWorkerHandler,
			container.GetBookingHandler,
			container.BookingsForPremisesHandler,
			container.BookingsForPersonHandler,
			container.RaiseRequestHandler,
			container.ApproveRequestHandler,
			container.RejectRequestHandler,
			container.GetRequestHandler,
			container.RequestsForBookingHandler,
			container.CapacityAggregator,
			container.TimelineRepo,
			container.InventoryRepo,
		)
		cli.SetApp(cliApp)
	}

	// Register command groups
	cli.AddCommand(cliPremises.Cmd)
	cli.AddCommand(cliOOS.Cmd)
	cli.AddCommand(cliBooking.Cmd)
	cli.AddCommand(cliRequest.Cmd)
	cli.AddCommand(cliCapacity.Cmd)

	// Execute the root command
	cli.Execute()
}
