package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orangeserver/orangeprobe/packages/core/config"
	"github.com/orangeserver/orangeprobe/packages/scenario"
)

var (
	forceInit    bool
	initFileArg  string
	initBaseURL  string
	initScenario string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write the default configuration to a config file in the current
directory so it can be edited instead of passing flags.

The format follows the extension: .yml/.yaml is YAML, anything else JSON.

Examples:
  orangeprobe init
  orangeprobe init --base-url http://staging:8080/orange/api --scenario department
  orangeprobe init --file .orangeprobe.json --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing file")
	initCmd.Flags().StringVar(&initFileArg, "file", config.ConfigFilenames[0], "Config file to write")
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "Base URL to record instead of the default")
	initCmd.Flags().StringVar(&initScenario, "scenario", "", "Scenario to record instead of the default")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := initFileArg
	if !forceInit {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := config.DefaultConfig().Merge(&config.Config{
		BaseURL:  strings.TrimSpace(initBaseURL),
		Scenario: initScenario,
	})
	if _, err := scenario.Lookup(cfg.Scenario); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := cfg.SaveConfig(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.WithField("file", path).Debug("config written")
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	return nil
}
