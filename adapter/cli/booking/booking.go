package booking

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Cmd is the booking command group
var Cmd = &cobra.Command{
	Use:   "booking",
	Short: "Manage space bookings",
	Long:  `Create bookings and record arrivals, departures, non-arrivals, cancellations and key worker allocations.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(arriveCmd)
	Cmd.AddCommand(departCmd)
	Cmd.AddCommand(nonArrivalCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(shortenCmd)
	Cmd.AddCommand(keyworkerCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(timelineCmd)
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
