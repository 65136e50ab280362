package changerequest

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/queries"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
)

var showCmd = &cobra.Command{
	Use:   "show [request-id]",
	Short: "Show a change request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetRequestHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		requestID, err := parseUUIDArg("request-id", args[0])
		if err != nil {
			return err
		}

		cr, err := app.GetRequestHandler.Handle(cmd.Context(), queries.GetRequestQuery{RequestID: requestID})
		if err != nil {
			return fmt.Errorf("failed to load change request: %w", err)
		}

		fmt.Printf("Change request %s\n", cr.ID())
		fmt.Printf("  booking: %s\n", cr.BookingID())
		fmt.Printf("  type:    %s\n", cr.Type())
		fmt.Printf("  reason:  %s\n", cr.ReasonID())
		fmt.Printf("  status:  %s\n", requestStatus(cr))
		if d := cr.Decision(); d != nil {
			fmt.Printf("  decided: %s\n", d.DecidedAt.Format("2006-01-02 15:04:05"))
			if d.RejectionReasonID != nil {
				fmt.Printf("  rejection reason: %s\n", *d.RejectionReasonID)
			}
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list [booking-id]",
	Short: "List a booking's change requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RequestsForBookingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}

		requests, err := app.RequestsForBookingHandler.Handle(cmd.Context(), queries.RequestsForBookingQuery{
			BookingID: bookingID,
		})
		if err != nil {
			return fmt.Errorf("failed to list change requests: %w", err)
		}

		if len(requests) == 0 {
			fmt.Println("No change requests found.")
			return nil
		}
		for _, cr := range requests {
			fmt.Printf("%s  %-20s %s\n", cr.ID(), cr.Type(), requestStatus(cr))
		}
		return nil
	},
}

func requestStatus(cr *domain.ChangeRequest) string {
	if cr.IsOpen() {
		return "open"
	}
	return string(cr.Decision().Outcome)
}
