package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	logLevelFlag  string
	logFormatFlag string
)

// log carries diagnostics to stderr; stdout is reserved for reports.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "orangeprobe",
	Short: "Probe the Orange asset API end to end.",
	Long: `orangeprobe drives ordered request chains against the Orange asset
management API (departments, locations, assignees, assets) and prints every
raw response. It needs no arguments against a local deployment:

  orangeprobe run

runs the composite asset lifecycle against http://localhost:8080/orange/api.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

func init() {
	log.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("ORANGEPROBE_LOG_LEVEL", "warn"), "Diagnostics level: debug, info, warn, error (env: ORANGEPROBE_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", getEnvString("ORANGEPROBE_LOG_FORMAT", "text"), "Diagnostics format: text, json (env: ORANGEPROBE_LOG_FORMAT)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(mockCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevelFlag)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevelFlag, err)
	}
	log.SetLevel(level)

	switch logFormatFlag {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q (use text or json)", logFormatFlag)
	}
	return nil
}
