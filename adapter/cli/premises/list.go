package premises

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all premises",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InventoryRepo == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		all, err := app.InventoryRepo.AllPremises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list premises: %w", err)
		}

		if len(all) == 0 {
			fmt.Println("No premises found.")
			return nil
		}
		for _, p := range all {
			fmt.Printf("%s  %-6s %-30s %s\n", p.ID(), p.APCode(), p.Name(), p.AreaName())
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [premises-id]",
	Short: "Show a premises",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InventoryRepo == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		premisesID, err := parseUUIDArg("premises-id", args[0])
		if err != nil {
			return err
		}

		p, err := app.InventoryRepo.FindPremises(cmd.Context(), premisesID)
		if err != nil {
			return fmt.Errorf("failed to load premises: %w", err)
		}

		fmt.Printf("Premises %s\n", p.ID())
		fmt.Printf("  name:     %s\n", p.Name())
		fmt.Printf("  AP code:  %s\n", p.APCode())
		fmt.Printf("  area:     %s\n", p.AreaName())
		fmt.Printf("  location: %.4f, %.4f\n", p.Latitude(), p.Longitude())
		for _, c := range p.Characteristics() {
			fmt.Printf("  characteristic: %s\n", c)
		}
		return nil
	},
}

var bedsCmd = &cobra.Command{
	Use:   "beds [premises-id]",
	Short: "List a premises' beds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InventoryRepo == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		premisesID, err := parseUUIDArg("premises-id", args[0])
		if err != nil {
			return err
		}

		beds, err := app.InventoryRepo.BedsOf(cmd.Context(), premisesID)
		if err != nil {
			return fmt.Errorf("failed to list beds: %w", err)
		}

		if len(beds) == 0 {
			fmt.Println("No beds found.")
			return nil
		}
		for _, b := range beds {
			fmt.Printf("%s  %-12s room=%s", b.ID(), b.Name(), b.RoomID())
			if end := b.EndDate(); end != nil {
				fmt.Printf("  retired-after=%s", *end)
			}
			fmt.Println()
		}
		return nil
	},
}
