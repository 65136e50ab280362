package booking

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/timeline"
)

var timelinePageSize int

var timelineCmd = &cobra.Command{
	Use:   "timeline [booking-id]",
	Short: "Show the event history of a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.TimelineRepo == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}

		pager := func(ctx context.Context, after *timeline.Cursor, limit int) (timeline.Page, error) {
			return app.TimelineRepo.ForBooking(ctx, bookingID, after, limit)
		}

		count := 0
		for entry, err := range timeline.History(cmd.Context(), timelinePageSize, pager) {
			if err != nil {
				return fmt.Errorf("failed to read timeline: %w", err)
			}
			fmt.Printf("%s  %-28s %s  %s\n",
				entry.OccurredAt.Format("2006-01-02 15:04:05"), entry.Type, entry.Source, entry.Payload)
			count++
		}
		if count == 0 {
			fmt.Println("No timeline entries.")
		}
		return nil
	},
}

func init() {
	timelineCmd.Flags().IntVar(&timelinePageSize, "page-size", 50, "entries fetched per page")
}
