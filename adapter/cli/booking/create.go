package booking

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/booking/application/commands"
)

var (
	createPremises        string
	createArrival         string
	createDeparture       string
	createCharacteristics []string
)

var createCmd = &cobra.Command{
	Use:   "create [crn]",
	Short: "Create a new space booking",
	Long: `Create a space booking for a person at a premises.

Examples:
  apctl booking create X320741 --premises 9a3f... --arrival 2026-09-01 --departure 2026-11-24
  apctl booking create X320741 --premises 9a3f... --arrival 2026-09-01 --departure 2026-11-24 \
    --characteristic 1b7c... --characteristic 4e2d...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreateBookingHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		premisesID, err := parseUUIDArg("--premises", createPremises)
		if err != nil {
			return err
		}
		arrival, err := parseDateFlag("--arrival", createArrival)
		if err != nil {
			return err
		}
		departure, err := parseDateFlag("--departure", createDeparture)
		if err != nil {
			return err
		}

		characteristics := make([]uuid.UUID, 0, len(createCharacteristics))
		for _, raw := range createCharacteristics {
			id, err := parseUUIDArg("--characteristic", raw)
			if err != nil {
				return err
			}
			characteristics = append(characteristics, id)
		}

		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		result, err := app.CreateBookingHandler.Handle(cmd.Context(), commands.CreateBookingCommand{
			ActorID:           actorID,
			PremisesID:        premisesID,
			PersonID:          args[0],
			ExpectedArrival:   arrival,
			ExpectedDeparture: departure,
			Characteristics:   characteristics,
		})
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		fmt.Printf("Booking created: %s\n", result.BookingID)
		fmt.Printf("  person: %s\n", args[0])
		fmt.Printf("  window: %s to %s\n", arrival, departure)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createPremises, "premises", "", "premises ID (UUID)")
	createCmd.Flags().StringVar(&createArrival, "arrival", "", "expected arrival date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createDeparture, "departure", "", "expected departure date (YYYY-MM-DD)")
	createCmd.Flags().StringArrayVar(&createCharacteristics, "characteristic", nil, "required characteristic ID, repeatable")
	_ = createCmd.MarkFlagRequired("premises")
	_ = createCmd.MarkFlagRequired("arrival")
	_ = createCmd.MarkFlagRequired("departure")
}
