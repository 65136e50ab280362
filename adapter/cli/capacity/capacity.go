package capacity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Cmd is the capacity command group
var Cmd = &cobra.Command{
	Use:   "capacity",
	Short: "Inspect derived premises capacity",
	Long:  `Compute per-day capacity for a premises and search for premises with spare matching capacity.`,
}

func init() {
	Cmd.AddCommand(dayCmd)
	Cmd.AddCommand(rangeCmd)
	Cmd.AddCommand(searchCmd)
}

func parseUUIDArg(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s (expected a UUID): %w", name, err)
	}
	return id, nil
}

func parseDateFlag(name, value string) (shared.Date, error) {
	d, err := shared.ParseDate(value)
	if err != nil {
		return shared.Date{}, fmt.Errorf("invalid %s (use YYYY-MM-DD): %w", name, err)
	}
	return d, nil
}
