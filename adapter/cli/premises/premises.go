package premises

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the premises command group
var Cmd = &cobra.Command{
	Use:   "premises",
	Short: "Browse the premises catalog",
	Long:  `List premises and inspect their beds and characteristics.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(bedsCmd)
}

func parseUUIDArg(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s (expected a UUID): %w", name, err)
	}
	return id, nil
}
