package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/scenario"
)

var versionJSONFlag bool

type versionInfo struct {
	Version   string   `json:"version"`
	Built     string   `json:"built"`
	Go        string   `json:"go"`
	BaseURL   string   `json:"defaultBaseUrl"`
	Scenarios []string `json:"scenarios"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := versionInfo{
			Version:   version,
			Built:     buildTime,
			Go:        runtime.Version(),
			BaseURL:   runner.DefaultBaseURL,
			Scenarios: scenario.Names(),
		}

		out := cmd.OutOrStdout()
		if versionJSONFlag {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		fmt.Fprintf(out, "orangeprobe version %s (%s)\n", info.Version, info.Go)
		fmt.Fprintf(out, "Built: %s\n", info.Built)
		fmt.Fprintf(out, "Default base URL: %s\n", info.BaseURL)
		fmt.Fprintf(out, "Scenarios: %s\n", strings.Join(info.Scenarios, ", "))
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSONFlag, "json", false, "Print version information as JSON")
}
