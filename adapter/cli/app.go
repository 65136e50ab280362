package cli

import (
	bookingCommands "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/commands"
	bookingQueries "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/queries"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity"
	crCommands "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/commands"
	crQueries "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/queries"
	inventorydomain "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/inventory/domain"
	oosCommands "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/commands"
	oosQueries "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/queries"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/timeline"

	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
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

	// Derived capacity
	CapacityAggregator *capacity.Aggregator

	// Timeline reads
	TimelineRepo timeline.Repository

	// Inventory reads
	InventoryRepo inventorydomain.Repository

	// Default acting user when --actor is not given
	DefaultActorID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	createPeriodHandler *oosCommands.CreatePeriodHandler,
	revisePeriodHandler *oosCommands.RevisePeriodHandler,
	cancelPeriodHandler *oosCommands.CancelPeriodHandler,
	activeOnHandler *oosQueries.ActiveOnHandler,
	periodsForBedHandler *oosQueries.PeriodsForBedHandler,
	createBookingHandler *bookingCommands.CreateBookingHandler,
	recordArrivalHandler *bookingCommands.RecordArrivalHandler,
	recordDepartureHandler *bookingCommands.RecordDepartureHandler,
	recordNonArrivalHandler *bookingCommands.RecordNonArrivalHandler,
	cancelBookingHandler *bookingCommands.CancelBookingHandler,
	shortenBookingHandler *bookingCommands.ShortenBookingHandler,
	allocateKeyWorkerHandler *bookingCommands.AllocateKeyWorkerHandler,
	getBookingHandler *bookingQueries.GetBookingHandler,
	bookingsForPremisesHandler *bookingQueries.BookingsForPremisesHandler,
	bookingsForPersonHandler *bookingQueries.BookingsForPersonHandler,
	raiseRequestHandler *crCommands.RaiseRequestHandler,
	approveRequestHandler *crCommands.ApproveRequestHandler,
	rejectRequestHandler *crCommands.RejectRequestHandler,
	getRequestHandler *crQueries.GetRequestHandler,
	requestsForBookingHandler *crQueries.RequestsForBookingHandler,
	capacityAggregator *capacity.Aggregator,
	timelineRepo timeline.Repository,
	inventoryRepo inventorydomain.Repository,
) *App {
	return &App{
		CreatePeriodHandler:        createPeriodHandler,
		RevisePeriodHandler:        revisePeriodHandler,
		CancelPeriodHandler:        cancelPeriodHandler,
		ActiveOnHandler:            activeOnHandler,
		PeriodsForBedHandler:       periodsForBedHandler,
		CreateBookingHandler:       createBookingHandler,
		RecordArrivalHandler:       recordArrivalHandler,
		RecordDepartureHandler:     recordDepartureHandler,
		RecordNonArrivalHandler:    recordNonArrivalHandler,
		CancelBookingHandler:       cancelBookingHandler,
		ShortenBookingHandler:      shortenBookingHandler,
		AllocateKeyWorkerHandler:   allocateKeyWorkerHandler,
		GetBookingHandler:          getBookingHandler,
		BookingsForPremisesHandler: bookingsForPremisesHandler,
		BookingsForPersonHandler:   bookingsForPersonHandler,
		RaiseRequestHandler:        raiseRequestHandler,
		ApproveRequestHandler:      approveRequestHandler,
		RejectRequestHandler:       rejectRequestHandler,
		GetRequestHandler:          getRequestHandler,
		RequestsForBookingHandler:  requestsForBookingHandler,
		CapacityAggregator:         capacityAggregator,
		TimelineRepo:               timelineRepo,
		InventoryRepo:              inventoryRepo,
	}
}

// SetDefaultActorID updates the default acting user ID.
func (a *App) SetDefaultActorID(id uuid.UUID) {
	a.DefaultActorID = id
}

var currentApp *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	currentApp = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return currentApp
}
