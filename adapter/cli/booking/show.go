package booking

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/queries"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

var showCmd = &cobra.Command{
	Use:   "show [booking-id]",
	Short: "Show a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetBookingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}

		b, err := app.GetBookingHandler.Handle(cmd.Context(), queries.GetBookingQuery{BookingID: bookingID})
		if err != nil {
			return fmt.Errorf("failed to load booking: %w", err)
		}

		printBooking(b)
		return nil
	},
}

var (
	listPremises string
	listPerson   string
	listFrom     string
	listTo       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookings for a premises window or a person",
	Long: `List bookings. Give either a premises with a date window, or a person.

Examples:
  apctl booking list --premises 9a3f... --from 2026-09-01 --to 2026-09-30
  apctl booking list --person X320741`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BookingsForPremisesHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		var (
			bookings []*domain.SpaceBooking
			err      error
		)
		switch {
		case listPerson != "":
			bookings, err = app.BookingsForPersonHandler.Handle(cmd.Context(), queries.BookingsForPersonQuery{
				PersonID: listPerson,
			})
		case listPremises != "":
			premisesID, perr := parseUUIDArg("--premises", listPremises)
			if perr != nil {
				return perr
			}
			from, perr := parseDateFlag("--from", listFrom)
			if perr != nil {
				return perr
			}
			to, perr := parseDateFlag("--to", listTo)
			if perr != nil {
				return perr
			}
			bookings, err = app.BookingsForPremisesHandler.Handle(cmd.Context(), queries.BookingsForPremisesQuery{
				PremisesID: premisesID,
				Window:     shared.NewDateRange(from, to),
			})
		default:
			return fmt.Errorf("give either --premises with --from/--to, or --person")
		}
		if err != nil {
			return fmt.Errorf("failed to list bookings: %w", err)
		}

		if len(bookings) == 0 {
			fmt.Println("No bookings found.")
			return nil
		}
		for _, b := range bookings {
			fmt.Printf("%s  %-12s %-10s %s to %s\n",
				b.ID(), b.PersonID(), b.Status(), b.CanonicalArrival(), b.CanonicalDeparture())
		}
		return nil
	},
}

func printBooking(b *domain.SpaceBooking) {
	fmt.Printf("Booking %s\n", b.ID())
	fmt.Printf("  premises:  %s\n", b.PremisesID())
	fmt.Printf("  person:    %s\n", b.PersonID())
	fmt.Printf("  status:    %s\n", b.Status())
	fmt.Printf("  expected:  %s to %s\n", b.ExpectedArrival(), b.ExpectedDeparture())
	if arrival := b.ActualArrival(); arrival != nil {
		fmt.Printf("  arrived:   %s\n", *arrival)
	}
	if departure := b.ActualDeparture(); departure != nil {
		fmt.Printf("  departed:  %s\n", *departure)
	}
	if kw := b.KeyWorkerID(); kw != nil {
		fmt.Printf("  keyworker: %s\n", *kw)
	}
	if c := b.Cancellation(); c != nil {
		fmt.Printf("  cancelled: reason %s\n", c.ReasonID)
	}
	if na := b.NonArrival(); na != nil {
		fmt.Printf("  non-arrival: reason %s\n", na.ReasonID)
	}
}

func init() {
	listCmd.Flags().StringVar(&listPremises, "premises", "", "premises ID (UUID)")
	listCmd.Flags().StringVar(&listPerson, "person", "", "person CRN")
	listCmd.Flags().StringVar(&listFrom, "from", "", "window start (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "window end (YYYY-MM-DD)")
}
