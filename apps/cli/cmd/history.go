package cmd

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/orangeserver/orangeprobe/packages/history"
	"github.com/orangeserver/orangeprobe/packages/output"
)

var (
	historyRunFlag   string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse runs recorded with --history",
	Long: `List recorded runs, newest first, or replay one run's records in the
console format.

The database is taken from --history, ORANGEPROBE_HISTORY or the "history"
key of the config file.

Examples:
  orangeprobe history --history probes.db
  orangeprobe history --history probes.db --run 0f8fad5b`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlag, "history", "", "SQLite database written by run --history (env: ORANGEPROBE_HISTORY)")
	historyCmd.Flags().StringVar(&configFlag, "config", getEnvString("ORANGEPROBE_CONFIG", ""), "Path to config file (env: ORANGEPROBE_CONFIG)")
	historyCmd.Flags().StringVar(&historyRunFlag, "run", "", "Show the records of this run (id or unambiguous prefix)")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Number of runs to list")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.History == "" {
		return fmt.Errorf("no history database configured (use --history or set history in the config file)")
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()

	if historyRunFlag != "" {
		id, records, err := store.Records(cmd.Context(), historyRunFlag)
		if err != nil {
			return err
		}
		log.WithField("run", id).Debug("replaying run")

		console := output.NewConsoleFormatter(output.WithWriter(cmd.OutOrStdout()), output.WithNoColor(cfg.GetNoColor()))
		for _, rec := range records {
			console.Record(rec)
		}
		return nil
	}

	runs, err := store.ListRuns(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Run", "Scenario", "Started", "Requests", "Duration", "Error"})
	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.Scenario,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(run.Requests),
			run.Duration.String(),
			run.Error,
		})
	}
	table.Render()
	return nil
}
