// Package app wires the engine's contexts into a runnable container. The
// container owns every infrastructure resource and exposes the command and
// query handlers the adapters call.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	bookingdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	bookingPersistence "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/infrastructure/persistence"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity/rediscache"
	crPersistence "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/infrastructure/persistence"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/integrations/persondirectory"
	inventorydomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	inventoryPersistence "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/infrastructure/persistence"
	oosdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
	oosPersistence "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/infrastructure/persistence"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/refdata"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/timeline"
	timelinePersistence "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/timeline/persistence"

	bookingCommands "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/commands"
	bookingQueries "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/queries"
	crCommands "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/commands"
	crQueries "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/queries"
	crdomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	oosCommands "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/commands"
	oosQueries "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/queries"

	sharedApplication "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/application"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database"
	_ "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database/postgres" // register PostgreSQL driver
	_ "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/database/sqlite"   // register SQLite driver
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/eventbus"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/migrations"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/infrastructure/outbox"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/config"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis (nil when the capacity cache is disabled)
	RedisClient *redis.Client

	// Reference data
	Catalog *refdata.Catalog

	// Repositories
	InventoryRepo inventorydomain.Repository
	PeriodRepo    oosdomain.Repository
	BookingRepo   bookingdomain.Repository
	RequestRepo   crdomain.Repository
	TimelineRepo  timeline.Repository
	OutboxRepo    outbox.Repository

	// Unit of work and outbox collection
	UnitOfWork sharedApplication.UnitOfWork
	Collector  *outbox.Collector

	// Event bus
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus

	// Capacity
	CapacityCache      capacity.Cache
	CapacityAggregator *capacity.Aggregator

	// Person directory
	PersonDirectory persondirectory.Directory

	// Timeline
	TimelineProjector *timeline.Projector

	// Out-of-service command handlers
	CreatePeriodHandler *oosCommands.CreatePeriodHandler
	RevisePeriodHandler *oosCommands.RevisePeriodHandler
	CancelPeriodHandler *oosCommands.CancelPeriodHandler

	// Out-of-service query handlers
	ActiveOnHandler      *oosQueries.ActiveOnHandler
	PeriodsForBedHandler *oosQueries.PeriodsForBedHandler

	// Booking command handlers
	CreateBookingHandler     *bookingCommands.CreateBookingHandler
	RecordArrivalHandler     *bookingCommands.RecordArrivalHandler
	RecordDepartureHandler   *bookingCommands.RecordDepartureHandler
	RecordNonArrivalHandler  *bookingCommands.RecordNonArrivalHandler
	CancelBookingHandler     *bookingCommands.CancelBookingHandler
	ShortenBookingHandler    *bookingCommands.ShortenBookingHandler
	AllocateKeyWorkerHandler *bookingCommands.AllocateKeyWorkerHandler

	// Booking query handlers
	GetBookingHandler          *bookingQueries.GetBookingHandler
	BookingsForPremisesHandler *bookingQueries.BookingsForPremisesHandler
	BookingsForPersonHandler   *bookingQueries.BookingsForPersonHandler

	// Change request command handlers
	RaiseRequestHandler   *crCommands.RaiseRequestHandler
	ApproveRequestHandler *crCommands.ApproveRequestHandler
	RejectRequestHandler  *crCommands.RejectRequestHandler

	// Change request query handlers
	GetRequestHandler         *crQueries.GetRequestHandler
	RequestsForBookingHandler *crQueries.RequestsForBookingHandler

	// Outbox processor
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies. DatabaseURL selects
// PostgreSQL; without it the engine runs on embedded SQLite.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NoopMetrics{},
	}
	if cfg.IsDevelopment() {
		c.Metrics = observability.NewInMemoryMetrics()
	}

	dbConfig := database.Config{URL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}
	if cfg.DatabaseURL == "" {
		dbConfig = database.DefaultLocalConfig()
		if cfg.SQLitePath != "" {
			dbConfig.SQLitePath = cfg.SQLitePath
		}
	}

	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver)

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.Catalog = refdata.SeedCatalog()

	// Repositories
	c.InventoryRepo = inventoryPersistence.NewSQLRepository(conn)
	c.PeriodRepo = oosPersistence.NewSQLRepository(conn)
	c.BookingRepo = bookingPersistence.NewSQLRepository(conn)
	c.RequestRepo = crPersistence.NewSQLRepository(conn)
	c.TimelineRepo = timelinePersistence.NewSQLRepository(conn)
	c.OutboxRepo = outbox.NewSQLRepository(conn)

	c.UnitOfWork = database.NewUnitOfWork(conn)
	c.Collector = outbox.NewCollector(c.OutboxRepo)

	// Event bus. RabbitMQ when configured; otherwise an in-process bus so
	// local mode still projects timelines.
	c.InProcessEventBus = eventbus.NewInProcessEventBus(logger)
	c.EventPublisher = c.InProcessEventBus
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using in-process event bus", "error", err)
		} else {
			c.EventPublisher = publisher
		}
	}

	// Capacity cache
	c.CapacityCache = capacity.NoopCache{}
	if cfg.CapacityCacheEnable && cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, capacity cache disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					conn.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, capacity cache disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				c.CapacityCache = rediscache.New(redisClient, cfg.CapacityCacheTTL, logger)
				logger.Info("capacity cache enabled", "ttl", cfg.CapacityCacheTTL)
			}
		}
	}

	c.CapacityAggregator = capacity.NewAggregator(
		c.InventoryRepo, c.PeriodRepo, c.BookingRepo, c.CapacityCache, logger, c.Metrics)

	// Person directory
	c.PersonDirectory = persondirectory.NoopDirectory{}
	if cfg.PersonDirectoryURL != "" && cfg.PersonDirectoryTokenURL != "" {
		c.PersonDirectory = persondirectory.NewClient(persondirectory.Config{
			BaseURL:      cfg.PersonDirectoryURL,
			TokenURL:     cfg.PersonDirectoryTokenURL,
			ClientID:     cfg.PersonDirectoryClientID,
			ClientSecret: cfg.PersonDirectoryClientSecret,
			Timeout:      cfg.PersonDirectoryTimeout,
		}, logger, c.Metrics)
	}

	// Timeline projection. In local mode the in-process bus delivers events
	// published by the outbox processor straight to the projector.
	c.TimelineProjector = timeline.NewProjector(
		c.TimelineRepo, c.InventoryRepo, c.PersonDirectory, logger, c.Metrics)
	c.InProcessEventBus.RegisterConsumer(c.TimelineProjector)

	// Out-of-service handlers
	c.CreatePeriodHandler = oosCommands.NewCreatePeriodHandler(c.PeriodRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.RevisePeriodHandler = oosCommands.NewRevisePeriodHandler(c.PeriodRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.CancelPeriodHandler = oosCommands.NewCancelPeriodHandler(c.PeriodRepo, c.Collector, c.UnitOfWork)
	c.ActiveOnHandler = oosQueries.NewActiveOnHandler(c.PeriodRepo)
	c.PeriodsForBedHandler = oosQueries.NewPeriodsForBedHandler(c.PeriodRepo)

	// Booking handlers
	c.CreateBookingHandler = bookingCommands.NewCreateBookingHandler(c.BookingRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.RecordArrivalHandler = bookingCommands.NewRecordArrivalHandler(c.BookingRepo, c.Collector, c.UnitOfWork)
	c.RecordDepartureHandler = bookingCommands.NewRecordDepartureHandler(c.BookingRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.RecordNonArrivalHandler = bookingCommands.NewRecordNonArrivalHandler(c.BookingRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.CancelBookingHandler = bookingCommands.NewCancelBookingHandler(c.BookingRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.ShortenBookingHandler = bookingCommands.NewShortenBookingHandler(c.BookingRepo, c.Collector, c.UnitOfWork)
	c.AllocateKeyWorkerHandler = bookingCommands.NewAllocateKeyWorkerHandler(c.BookingRepo, c.Collector, c.UnitOfWork)
	c.GetBookingHandler = bookingQueries.NewGetBookingHandler(c.BookingRepo)
	c.BookingsForPremisesHandler = bookingQueries.NewBookingsForPremisesHandler(c.BookingRepo)
	c.BookingsForPersonHandler = bookingQueries.NewBookingsForPersonHandler(c.BookingRepo)

	// Change request handlers
	c.RaiseRequestHandler = crCommands.NewRaiseRequestHandler(c.RequestRepo, c.BookingRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.ApproveRequestHandler = crCommands.NewApproveRequestHandler(c.RequestRepo, c.BookingRepo, c.CapacityAggregator, c.Collector, c.UnitOfWork)
	c.RejectRequestHandler = crCommands.NewRejectRequestHandler(c.RequestRepo, c.Catalog, c.Collector, c.UnitOfWork)
	c.GetRequestHandler = crQueries.NewGetRequestHandler(c.RequestRepo)
	c.RequestsForBookingHandler = crQueries.NewRequestsForBookingHandler(c.RequestRepo)

	// Outbox processor
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
	}, logger)

	return c, nil
}

// Close releases all container resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("failed to close event publisher", "error", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("failed to close database connection", "error", err)
		}
	}
}
