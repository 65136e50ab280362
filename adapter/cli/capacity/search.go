package capacity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/adapter/cli"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/capacity"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

var (
	searchFrom            string
	searchTo              string
	searchCharacteristics []string
	searchLatitude        float64
	searchLongitude       float64
	searchRadius          float64
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find premises with spare matching capacity",
	Long: `Find premises that have spare capacity, matching every required
characteristic, on every day of the requested range. Results are ordered by
distance from the target point.

Examples:
  apctl capacity search --from 2026-09-01 --to 2026-09-14 \
    --lat 54.97 --lon -1.61 --radius 50 --characteristic 1b7c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.CapacityAggregator == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		from, err := parseDateFlag("--from", searchFrom)
		if err != nil {
			return err
		}
		to, err := parseDateFlag("--to", searchTo)
		if err != nil {
			return err
		}

		characteristics := make([]uuid.UUID, 0, len(searchCharacteristics))
		for _, raw := range searchCharacteristics {
			id, err := parseUUIDArg("--characteristic", raw)
			if err != nil {
				return err
			}
			characteristics = append(characteristics, id)
		}

		matches, err := app.CapacityAggregator.SearchAvailability(cmd.Context(), capacity.SearchCriteria{
			DateRange:               shared.NewDateRange(from, to),
			RequiredCharacteristics: characteristics,
			TargetLatitude:          searchLatitude,
			TargetLongitude:         searchLongitude,
			RadiusKm:                searchRadius,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(matches) == 0 {
			fmt.Println("No premises with matching capacity found.")
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%s  %-30s %-6s %.1f km\n", m.PremisesID, m.Name, m.APCode, m.DistanceKm)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "first day of the stay (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "last day of the stay (YYYY-MM-DD)")
	searchCmd.Flags().StringArrayVar(&searchCharacteristics, "characteristic", nil, "required characteristic ID, repeatable")
	searchCmd.Flags().Float64Var(&searchLatitude, "lat", 0, "target latitude")
	searchCmd.Flags().Float64Var(&searchLongitude, "lon", 0, "target longitude")
	searchCmd.Flags().Float64Var(&searchRadius, "radius", 0, "search radius in km (0 for unlimited)")
	_ = searchCmd.MarkFlagRequired("from")
	_ = searchCmd.MarkFlagRequired("to")
}
