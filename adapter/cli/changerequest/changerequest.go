package changerequest

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/changerequest/domain"
	shared "github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/shared/domain"
)

// Cmd is the change request command group
var Cmd = &cobra.Command{
	Use:   "request",
	Short: "Manage booking change requests",
	Long:  `Raise appeals, transfers and extensions against bookings, and approve or reject them.`,
}

func init() {
	Cmd.AddCommand(raiseCmd)
	Cmd.AddCommand(approveCmd)
	Cmd.AddCommand(rejectCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
}

// requestTypes maps the CLI spelling to the domain variant.
var requestTypes = map[string]domain.RequestType{
	"appeal":             domain.TypePlacementAppeal,
	"extension":          domain.TypePlacementExtension,
	"planned-transfer":   domain.TypePlannedTransfer,
	"emergency-transfer": domain.TypeEmergencyTransfer,
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
