package capacity

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity"
)

var dayDate string

var dayCmd = &cobra.Command{
	Use:   "day [premises-id]",
	Short: "Show a premises' capacity for one day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CapacityAggregator == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		premisesID, err := parseUUIDArg("premises-id", args[0])
		if err != nil {
			return err
		}
		day, err := parseDateFlag("--day", dayDate)
		if err != nil {
			return err
		}

		snapshot, err := app.CapacityAggregator.CapacityForDay(cmd.Context(), premisesID, day)
		if err != nil {
			return fmt.Errorf("failed to compute capacity: %w", err)
		}

		printDay(snapshot)
		return nil
	},
}

var (
	rangeFrom string
	rangeTo   string
)

var rangeCmd = &cobra.Command{
	Use:   "range [premises-id]",
	Short: "Show a premises' capacity over a date range",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CapacityAggregator == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		premisesID, err := parseUUIDArg("premises-id", args[0])
		if err != nil {
			return err
		}
		from, err := parseDateFlag("--from", rangeFrom)
		if err != nil {
			return err
		}
		to, err := parseDateFlag("--to", rangeTo)
		if err != nil {
			return err
		}

		days, err := app.CapacityAggregator.CapacityForRange(cmd.Context(), premisesID, from, to)
		if err != nil {
			return fmt.Errorf("failed to compute capacity: %w", err)
		}

		for _, snapshot := range days {
			fmt.Printf("%s  beds=%d available=%d booked=%d\n",
				snapshot.Date, snapshot.TotalBedCount, snapshot.AvailableBedCount, snapshot.BookingCount)
		}
		return nil
	},
}

func printDay(snapshot capacity.PremisesDayCapacity) {
	fmt.Printf("Capacity for %s on %s\n", snapshot.PremisesID, snapshot.Date)
	fmt.Printf("  total beds:     %d\n", snapshot.TotalBedCount)
	fmt.Printf("  available beds: %d\n", snapshot.AvailableBedCount)
	fmt.Printf("  bookings:       %d\n", snapshot.BookingCount)
	for _, cc := range snapshot.Characteristics {
		fmt.Printf("  characteristic %s: available=%d booked=%d\n",
			cc.CharacteristicID, cc.AvailableBedsCount, cc.BookingsCount)
	}
}

func init() {
	dayCmd.Flags().StringVar(&dayDate, "day", "", "day to compute (YYYY-MM-DD)")
	_ = dayCmd.MarkFlagRequired("day")

	rangeCmd.Flags().StringVar(&rangeFrom, "from", "", "first day (YYYY-MM-DD)")
	rangeCmd.Flags().StringVar(&rangeTo, "to", "", "last day (YYYY-MM-DD)")
	_ = rangeCmd.MarkFlagRequired("from")
	_ = rangeCmd.MarkFlagRequired("to")
}
