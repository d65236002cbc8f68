package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orangeserver/orangeprobe/packages/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list [scenario]",
	Short: "List scenarios and the cases they issue",
	Long: `List every probe scenario with its case names, or only the named one.
Nothing is sent to the API.

Examples:
  orangeprobe list
  orangeprobe list asset`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeScenarios,
	RunE:              listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	scenarios := scenario.All()
	if len(args) > 0 {
		s, err := scenario.Lookup(args[0])
		if err != nil {
			return err
		}
		scenarios = []*scenario.Scenario{s}
	}

	for _, s := range scenarios {
		name := s.Name
		if name == scenario.Default {
			name += " (default)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s: %s\n", name, s.Description)
		for _, c := range s.Cases {
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", c)
		}
	}

	return nil
}
