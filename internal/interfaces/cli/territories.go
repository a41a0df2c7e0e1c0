package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewTerritoriesCommand creates the territories command, which lists the
// directory a lookup territory must come from.
func NewTerritoriesCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "territories",
		Short: "List the known territory codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			api, err := newAPIClient(root)
			if err != nil {
				return err
			}

			list, err := api.Territories(cmd.Context())
			if err != nil {
				return err
			}

			if strings.EqualFold(root.OutputFormat, "json") {
				return printJSON(cmd, list)
			}

			rows := make([][]string, 0, len(list))
			for _, t := range list {
				rows = append(rows, []string{t.Code, t.Name})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatTable([]string{"CODE", "NAME"}, rows))
			return nil
		},
	}
}
