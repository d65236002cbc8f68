package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/orangeserver/orangeprobe/packages/core/config"
	"github.com/orangeserver/orangeprobe/packages/core/runner"
	"github.com/orangeserver/orangeprobe/packages/fixture"
	"github.com/orangeserver/orangeprobe/packages/history"
	"github.com/orangeserver/orangeprobe/packages/output"
	"github.com/orangeserver/orangeprobe/packages/scenario"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	baseURLFlag       string
	timeoutFlag       string
	rateFlag          float64
	outputFlag        string
	noColorFlag       bool
	verboseFlag       bool
	configFlag        string
	historyFlag       string
	checkEnvelopeFlag bool
	watchFlag         bool
	proxyFlag         string
	insecureFlag      bool
	headerFlags       []string
	suffixFlag        string
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a probe scenario against the Orange API",
	Long: `Run a probe scenario. Each request prints one block:

  [case_name] HTTP <status>
  <raw response body>
  -

Any HTTP status is reported and the run continues. A transport error or
timeout stops the run with exit status 1. When an id the chain needs is
missing from a create response, the remaining steps are skipped and the
run still succeeds.

Scenarios: smoke, department, location, assignee, asset (default).

Examples:
  orangeprobe run
  orangeprobe run department --base-url http://10.0.0.5:8080/orange/api
  orangeprobe run asset --output json --history probes.db
  orangeprobe run location --rate 2 --check-envelope -v`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeScenarios,
	RunE:              runCommand,
}

func init() {
	runCmd.Flags().StringVar(&baseURLFlag, "base-url", "", "API base URL (env: "+config.EnvBaseURL+")")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Per-request timeout, e.g. 5s, 500ms (env: "+config.EnvTimeout+" in ms)")
	runCmd.Flags().Float64Var(&rateFlag, "rate", 0, "Maximum requests per second, 0 for unpaced (env: "+config.EnvRate+")")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, json (env: "+config.EnvOutput+")")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: "+config.EnvNoColor+")")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print envelope findings and a latency summary after the run")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString(config.EnvConfig, ""), "Path to config file (env: "+config.EnvConfig+")")
	runCmd.Flags().StringVar(&historyFlag, "history", "", "Record the run in this SQLite database (env: "+config.EnvHistory+")")
	runCmd.Flags().BoolVar(&checkEnvelopeFlag, "check-envelope", false, "Check every body against the {code,msg,data} envelope (env: "+config.EnvCheckEnvelope+")")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-run whenever the config file changes")
	runCmd.Flags().StringVar(&proxyFlag, "proxy", "", "Proxy URL for HTTP requests (env: "+config.EnvProxy+")")
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", false, "Disable SSL certificate validation")
	runCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, `Extra request header "Name: value" (repeatable)`)
	runCmd.Flags().StringVar(&suffixFlag, "suffix", "", "Fixed suffix for generated entity values instead of the current unix time")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func completeScenarios(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return scenario.Names(), cobra.ShellCompDirectiveNoFileComp
}

// flagConfig turns the flags the user actually set into a partial config.
func flagConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	c := &config.Config{}

	if flags.Changed("base-url") {
		c.BaseURL = strings.TrimSpace(baseURLFlag)
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout value %q: %w (use format like 5s, 500ms)", timeoutFlag, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.Timeout = int(d.Milliseconds())
		if c.Timeout == 0 {
			c.Timeout = 1
		}
	}
	if flags.Changed("rate") {
		c.Rate = config.Float64Ptr(rateFlag)
	}
	if flags.Changed("output") {
		c.Output = strings.ToLower(outputFlag)
	}
	if flags.Changed("history") {
		c.History = historyFlag
	}
	if flags.Changed("proxy") {
		c.Proxy = proxyFlag
	}
	if flags.Changed("no-color") {
		c.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("verbose") {
		c.Verbose = config.BoolPtr(verboseFlag)
	}
	if flags.Changed("check-envelope") {
		c.CheckEnvelope = config.BoolPtr(checkEnvelopeFlag)
	}
	if flags.Changed("insecure") {
		c.ValidateSSL = config.BoolPtr(!insecureFlag)
	}

	if len(headerFlags) > 0 {
		c.Headers = make(map[string]string, len(headerFlags))
		for _, h := range headerFlags {
			name, value, ok := strings.Cut(h, ":")
			if !ok || strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("invalid header %q (use \"Name: value\")", h)
			}
			c.Headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		}
	}

	return c, nil
}

// resolveConfig layers defaults, the config file, ORANGEPROBE_* variables
// and explicit flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	envConfig, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	flags, err := flagConfig(cmd)
	if err != nil {
		return nil, err
	}

	cfg := fileConfig.Merge(envConfig).Merge(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runnerConfig(cfg *config.Config) *runner.Config {
	return &runner.Config{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.TimeoutDuration(),
		Rate:          cfg.GetRate(),
		Headers:       cfg.Headers,
		NoRedirects:   !cfg.GetFollowRedirects(),
		Insecure:      !cfg.GetValidateSSL(),
		Proxy:         cfg.Proxy,
		CheckEnvelope: cfg.GetCheckEnvelope(),
	}
}

func fixtureValues() fixture.Values {
	if suffixFlag != "" {
		return fixture.FromSuffix(suffixFlag)
	}
	return fixture.New(time.Now())
}

func runCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	name := cfg.Scenario
	if len(args) > 0 {
		name = args[0]
	}
	if _, err := scenario.Lookup(name); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = probe(ctx, cmd, cfg, name)
	if !watchFlag {
		return err
	}
	if err != nil {
		log.WithError(err).Error("run failed")
	}
	return watch(ctx, cmd, name)
}

// probe runs one scenario, reports it and records it in history if configured.
func probe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, name string) error {
	s, err := scenario.Lookup(name)
	if err != nil {
		return err
	}

	rep, err := output.New(cfg.Output, output.Options{
		Writer:  cmd.OutOrStdout(),
		Verbose: cfg.GetVerbose(),
		NoColor: cfg.GetNoColor(),
	})
	if err != nil {
		return err
	}

	r := runner.NewRunner(runnerConfig(cfg), runner.WithReporter(rep))

	log.WithFields(logrus.Fields{
		"scenario": s.Name,
		"baseUrl":  cfg.BaseURL,
		"timeout":  r.Timeout(),
		"rate":     cfg.GetRate(),
	}).Info("starting run")

	result, runErr := scenario.Execute(ctx, r, s, fixtureValues())

	if err := rep.Finish(result); err != nil {
		log.WithError(err).Warn("failed to write report")
	}

	if cfg.History != "" {
		saveHistory(ctx, cfg.History, result)
	}

	log.WithFields(logrus.Fields{
		"run":      result.ID,
		"requests": len(result.Records),
		"duration": result.Duration,
	}).Info("run finished")

	return runErr
}

// saveHistory never fails the run; a broken history database is a warning.
func saveHistory(ctx context.Context, path string, result *runner.RunResult) {
	store, err := history.Open(path)
	if err != nil {
		log.WithError(err).Warn("history disabled")
		return
	}
	defer store.Close()

	if err := store.Save(context.WithoutCancel(ctx), result); err != nil {
		log.WithError(err).Warn("failed to record run")
	}
}

// watch re-runs name whenever a config file in the working directory (or the
// one given with --config) is written. It returns when ctx is done.
func watch(ctx context.Context, cmd *cobra.Command, name string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := "."
	if configFlag != "" {
		dir = filepath.Dir(configFlag)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for config changes... (press Ctrl+C to stop)\n")

	rerun := make(chan string, 1)
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isConfigFile(event.Name) {
				continue
			}

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			changed := event.Name
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				select {
				case rerun <- changed:
				default:
				}
			})

		case changed := <-rerun:
			fmt.Fprintf(cmd.ErrOrStderr(), "\nConfig changed: %s\nRe-running %s...\n\n", changed, name)

			cfg, err := resolveConfig(cmd)
			if err != nil {
				log.WithError(err).Error("config rejected, keeping watch")
				continue
			}
			if err := probe(ctx, cmd, cfg, name); err != nil {
				log.WithError(err).Error("run failed")
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for config changes... (press Ctrl+C to stop)\n")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")
		}
	}
}

func isConfigFile(path string) bool {
	if configFlag != "" {
		return filepath.Clean(path) == filepath.Clean(configFlag)
	}
	base := filepath.Base(path)
	for _, name := range config.ConfigFilenames {
		if base == name {
			return true
		}
	}
	return false
}
