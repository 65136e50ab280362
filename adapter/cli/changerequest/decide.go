package changerequest

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/commands"
)

func decisionPayload(notes string) (json.RawMessage, error) {
	if notes == "" {
		return nil, nil
	}
	return json.Marshal(map[string]string{"notes": notes})
}

var approveNotes string

var approveCmd = &cobra.Command{
	Use:   "approve [request-id]",
	Short: "Approve a change request",
	Long: `Approve a change request and apply its booking side effects. A
transfer approval creates the destination booking and returns its ID; the
whole decision succeeds or fails as one unit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ApproveRequestHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		requestID, err := parseUUIDArg("request-id", args[0])
		if err != nil {
			return err
		}
		payload, err := decisionPayload(approveNotes)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		result, err := app.ApproveRequestHandler.Handle(cmd.Context(), commands.ApproveRequestCommand{
			ActorID:         actorID,
			RequestID:       requestID,
			DecisionPayload: payload,
		})
		if err != nil {
			return fmt.Errorf("failed to approve change request: %w", err)
		}

		fmt.Printf("Change request approved: %s\n", requestID)
		if result.NewBookingID != nil {
			fmt.Printf("  new booking: %s\n", *result.NewBookingID)
		}
		return nil
	},
}

var (
	rejectReason string
	rejectNotes  string
)

var rejectCmd = &cobra.Command{
	Use:   "reject [request-id]",
	Short: "Reject a change request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RejectRequestHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		requestID, err := parseUUIDArg("request-id", args[0])
		if err != nil {
			return err
		}
		reasonID, err := parseUUIDArg("--reason", rejectReason)
		if err != nil {
			return err
		}
		payload, err := decisionPayload(rejectNotes)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.RejectRequestHandler.Handle(cmd.Context(), commands.RejectRequestCommand{
			ActorID:           actorID,
			RequestID:         requestID,
			RejectionReasonID: reasonID,
			DecisionPayload:   payload,
		}); err != nil {
			return fmt.Errorf("failed to reject change request: %w", err)
		}

		fmt.Printf("Change request rejected: %s\n", requestID)
		return nil
	},
}

func init() {
	approveCmd.Flags().StringVar(&approveNotes, "notes", "", "decision notes")

	rejectCmd.Flags().StringVar(&rejectReason, "reason", "", "rejection reason ID (UUID)")
	rejectCmd.Flags().StringVar(&rejectNotes, "notes", "", "decision notes")
	_ = rejectCmd.MarkFlagRequired("reason")
}
