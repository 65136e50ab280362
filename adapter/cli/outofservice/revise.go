package outofservice

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/application/commands"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/outofservice/domain"
)

var (
	reviseStart     string
	reviseEnd       string
	reviseReason    string
	reviseReference string
	reviseNotes     string
)

var reviseCmd = &cobra.Command{
	Use:   "revise [period-id]",
	Short: "Revise an out-of-service period",
	Long: `Revise an out-of-service period. Only the given flags change; the
rest of the period is untouched. Every revision is kept in the period's
revision history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RevisePeriodHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		periodID, err := parseUUIDArg("period-id", args[0])
		if err != nil {
			return err
		}

		var changes domain.Changes
		if cmd.Flags().Changed("start") {
			start, err := parseDateFlag("--start", reviseStart)
			if err != nil {
				return err
			}
			changes.StartDate = &start
		}
		if cmd.Flags().Changed("end") {
			end, err := parseDateFlag("--end", reviseEnd)
			if err != nil {
				return err
			}
			changes.EndDate = &end
		}
		if cmd.Flags().Changed("reason") {
			reasonID, err := parseUUIDArg("--reason", reviseReason)
			if err != nil {
				return err
			}
			changes.ReasonID = &reasonID
		}
		if cmd.Flags().Changed("reference") {
			changes.ReferenceNumber = &reviseReference
		}
		if cmd.Flags().Changed("notes") {
			changes.Notes = &reviseNotes
		}

		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.RevisePeriodHandler.Handle(cmd.Context(), commands.RevisePeriodCommand{
			ActorID:  actorID,
			PeriodID: periodID,
			Changes:  changes,
		}); err != nil {
			return fmt.Errorf("failed to revise out-of-service period: %w", err)
		}

		fmt.Printf("Out-of-service period revised: %s\n", periodID)
		return nil
	},
}

var cancelNotes string

var cancelCmd = &cobra.Command{
	Use:   "cancel [period-id]",
	Short: "Cancel an out-of-service period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CancelPeriodHandler == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		periodID, err := parseUUIDArg("period-id", args[0])
		if err != nil {
			return err
		}
		actorID, err := cli.ActorID()
		if err != nil {
			return err
		}

		if err := app.CancelPeriodHandler.Handle(cmd.Context(), commands.CancelPeriodCommand{
			ActorID:  actorID,
			PeriodID: periodID,
			Notes:    cancelNotes,
		}); err != nil {
			return fmt.Errorf("failed to cancel out-of-service period: %w", err)
		}

		fmt.Printf("Out-of-service period cancelled: %s\n", periodID)
		return nil
	},
}

func init() {
	reviseCmd.Flags().StringVar(&reviseStart, "start", "", "new first day (YYYY-MM-DD)")
	reviseCmd.Flags().StringVar(&reviseEnd, "end", "", "new last day (YYYY-MM-DD)")
	reviseCmd.Flags().StringVar(&reviseReason, "reason", "", "new reason ID (UUID)")
	reviseCmd.Flags().StringVar(&reviseReference, "reference", "", "new work order reference")
	reviseCmd.Flags().StringVar(&reviseNotes, "notes", "", "new free-text notes")

	cancelCmd.Flags().StringVar(&cancelNotes, "notes", "", "free-text notes")
}
