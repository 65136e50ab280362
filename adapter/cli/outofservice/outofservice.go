package outofservice

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Cmd is the out-of-service command group
var Cmd = &cobra.Command{
	Use:   "oos",
	Short: "Manage out-of-service periods",
	Long:  `Take beds out of service, revise or cancel the periods, and inspect a bed's history.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(reviseCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(activeCmd)
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
