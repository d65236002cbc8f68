package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/orangeserver/orangeprobe/packages/mock"
)

var (
	mockPortFlag   int
	mockDelayFlag  string
	mockPrefixFlag string
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Start an in-memory Orange API sandbox",
	Long: `Start an HTTP server that implements the Orange asset API in memory.

The sandbox:
- Serves health, departments, locations, assignees and assets under /orange/api
- Answers HTTP 200 with a {code, msg, data} envelope, like the real servlets
- Enforces unique codes and the delete/assign/return conflicts
- Can add an artificial delay to exercise request timeouts
- Describes its routes as OpenAPI 3 at <prefix>/openapi.json

Examples:
  orangeprobe mock
  orangeprobe mock --port 9090 --delay 100ms
  orangeprobe mock --prefix /api`,
	Args: cobra.NoArgs,
	RunE: mockCommand,
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", getEnvInt("ORANGEPROBE_MOCK_PORT", mock.DefaultPort), "Port to run the sandbox on (env: ORANGEPROBE_MOCK_PORT)")
	mockCmd.Flags().StringVarP(&mockDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	mockCmd.Flags().StringVar(&mockPrefixFlag, "prefix", mock.DefaultPrefix, "Path prefix the API is mounted under")
}

func mockCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	var delay time.Duration
	if mockDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(mockDelayFlag)
		if err != nil {
			return fmt.Errorf("invalid delay value %q: %w", mockDelayFlag, err)
		}
	}

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(delay),
		mock.WithPrefix(mockPrefixFlag),
		mock.WithLogger(log),
	)

	fmt.Fprintf(cmd.OutOrStdout(), "Orange API sandbox on http://localhost:%d%s (%d routes)\n",
		mockPortFlag, server.Prefix(), len(server.GetRoutes()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.StartWithContext(ctx)
}
