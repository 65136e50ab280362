package outofservice

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/commands"
)

var (
	createStart     string
	createEnd       string
	createReason    string
	createReference string
	createNotes     string
)

var createCmd = &cobra.Command{
	Use:   "create [bed-id]",
	Short: "Take a bed out of service",
	Long: `Take a bed out of service for a date range.

Examples:
  apctl oos create 4e2d... --start 2026-09-10 --end 2026-09-20 --reason 1b7c... --reference WO-4411`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CreatePeriodHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		bedID, err := parseUUIDArg("bed-id", args[0])
		if err != nil {
			return err
		}
		start, err := parseDateFlag("--start", createStart)
		if err != nil {
			return err
		}
		end, err := parseDateFlag("--end", createEnd)
		if err != nil {
			return err
		}
		reasonID, err := parseUUIDArg("--reason", createReason)
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		result, err := app.CreatePeriodHandler.Handle(cmd.Context(), commands.CreatePeriodCommand{
			ActorID:         actorID,
			BedID:           bedID,
			StartDate:       start,
			EndDate:         end,
			ReasonID:        reasonID,
			ReferenceNumber: createReference,
			Notes:           createNotes,
		})
		if err != nil {
			return fmt.Errorf("failed to create out-of-service period: %w", err)
		}

		fmt.Printf("Out-of-service period created: %s\n", result.PeriodID)
		fmt.Printf("  bed:    %s\n", bedID)
		fmt.Printf("  window: %s to %s\n", start, end)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createStart, "start", "", "first out-of-service day (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createEnd, "end", "", "last out-of-service day (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createReason, "reason", "", "out-of-service reason ID (UUID)")
	createCmd.Flags().StringVar(&createReference, "reference", "", "work order reference")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "free-text notes")
	_ = createCmd.MarkFlagRequired("start")
	_ = createCmd.MarkFlagRequired("end")
	_ = createCmd.MarkFlagRequired("reason")
}
