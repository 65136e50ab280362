package changerequest

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/application/commands"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
)

var (
	raiseType         string
	raiseReason       string
	raiseNotes        string
	raiseDestination  string
	raiseTransferDate string
	raiseNewDeparture string
)

var raiseCmd = &cobra.Command{
	Use:   "raise [booking-id]",
	Short: "Raise a change request against a booking",
	Long: `Raise a change request. The payload flags depend on the type:
appeal takes only --notes, transfers take --destination and --transfer-date,
extension takes --new-departure.

Examples:
  apctl request raise 7f1a... --type appeal --reason 1b7c... --notes "cancelled in error"
  apctl request raise 7f1a... --type planned-transfer --reason 1b7c... \
    --destination 9a3f... --transfer-date 2026-10-01
  apctl request raise 7f1a... --type extension --reason 1b7c... --new-departure 2026-12-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RaiseRequestHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bookingID, err := parseUUIDArg("booking-id", args[0])
		if err != nil {
			return err
		}

		requestType, ok := requestTypes[raiseType]
		if !ok {
			names := make([]string, 0, len(requestTypes))
			for name := range requestTypes {
				names = append(names, name)
			}
			return fmt.Errorf("unknown --type %q (one of: %s)", raiseType, strings.Join(names, ", "))
		}

		reasonID, err := parseUUIDArg("--reason", raiseReason)
		if err != nil {
			return err
		}

		var payload domain.RequestPayload
		switch {
		case requestType == domain.TypePlacementAppeal:
			payload.Appeal = &domain.AppealPayload{Notes: raiseNotes}
		case requestType.IsTransfer():
			destination, err := parseUUIDArg("--destination", raiseDestination)
			if err != nil {
				return err
			}
			transferDate, err := parseDateFlag("--transfer-date", raiseTransferDate)
			if err != nil {
				return err
			}
			payload.Transfer = &domain.TransferPayload{
				DestinationPremisesID: destination,
				TransferDate:          transferDate,
				Notes:                 raiseNotes,
			}
		default:
			newDeparture, err := parseDateFlag("--new-departure", raiseNewDeparture)
			if err != nil {
				return err
			}
			payload.Extension = &domain.ExtensionPayload{
				NewDeparture: newDeparture,
				Notes:        raiseNotes,
			}
		}

		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		result, err := app.RaiseRequestHandler.Handle(cmd.Context(), commands.RaiseRequestCommand{
			ActorID:     actorID,
			BookingID:   bookingID,
			RequestType: requestType,
			Payload:     payload,
			ReasonID:    reasonID,
		})
		if err != nil {
			return fmt.Errorf("failed to raise change request: %w", err)
		}

		fmt.Printf("Change request raised: %s\n", result.RequestID)
		fmt.Printf("  booking: %s\n", bookingID)
		fmt.Printf("  type:    %s\n", requestType)
		return nil
	},
}

func init() {
	raiseCmd.Flags().StringVar(&raiseType, "type", "", "request type (appeal, extension, planned-transfer, emergency-transfer)")
	raiseCmd.Flags().StringVar(&raiseReason, "reason", "", "request reason ID (UUID)")
	raiseCmd.Flags().StringVar(&raiseNotes, "notes", "", "free-text notes")
	raiseCmd.Flags().StringVar(&raiseDestination, "destination", "", "destination premises ID for transfers (UUID)")
	raiseCmd.Flags().StringVar(&raiseTransferDate, "transfer-date", "", "transfer date for transfers (YYYY-MM-DD)")
	raiseCmd.Flags().StringVar(&raiseNewDeparture, "new-departure", "", "new departure date for extensions (YYYY-MM-DD)")
	_ = raiseCmd.MarkFlagRequired("type")
	_ = raiseCmd.MarkFlagRequired("reason")
}
