package outofservice

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/queries"
)

var listCmd = &cobra.Command{
	Use:   "list [bed-id]",
	Short: "List a bed's out-of-service periods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.PeriodsForBedHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bedID, err := parseUUIDArg("bed-id", args[0])
		if err != nil {
			return err
		}

		periods, err := app.PeriodsForBedHandler.Handle(cmd.Context(), queries.PeriodsForBedQuery{BedID: bedID})
		if err != nil {
			return fmt.Errorf("failed to list out-of-service periods: %w", err)
		}

		if len(periods) == 0 {
			fmt.Println("No out-of-service periods found.")
			return nil
		}
		for _, p := range periods {
			status := "active"
			if p.IsCancelled() {
				status = "cancelled"
			}
			fmt.Printf("%s  %s to %s  %-9s revisions=%d",
				p.ID(), p.Dates().Start, p.Dates().End, status, len(p.Revisions()))
			if p.ReferenceNumber() != "" {
				fmt.Printf("  ref=%s", p.ReferenceNumber())
			}
			fmt.Println()
		}
		return nil
	},
}

var activeDay string

var activeCmd = &cobra.Command{
	Use:   "active [bed-id]",
	Short: "Check whether a bed is out of service on a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ActiveOnHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bedID, err := parseUUIDArg("bed-id", args[0])
		if err != nil {
			return err
		}
		day, err := parseDateFlag("--day", activeDay)
		if err != nil {
			return err
		}

		active, err := app.ActiveOnHandler.Handle(cmd.Context(), queries.ActiveOnQuery{BedID: bedID, Day: day})
		if err != nil {
			return fmt.Errorf("failed to check bed: %w", err)
		}

		if active {
			fmt.Printf("Bed %s is out of service on %s\n", bedID, day)
		} else {
			fmt.Printf("Bed %s is in service on %s\n", bedID, day)
		}
		return nil
	},
}

func init() {
	activeCmd.Flags().StringVar(&activeDay, "day", "", "day to check (YYYY-MM-DD)")
	_ = activeCmd.MarkFlagRequired("day")
}
