package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sniff-cli/internal/core/ports/driving"
	"github.com/custodia-labs/sniff-cli/internal/logger"
)

// skipBootstrap marks commands that run without services.
const skipBootstrap = "skip-bootstrap"

var (
	version = "dev"

	verbose   bool
	configDir string

	classifierService driving.ClassifierService
	historyService    driving.HistoryService
	settingsService   driving.SettingsService
	metricsHandler    http.Handler

	bootstrap func(configDir string) error
)

var rootCmd = &cobra.Command{
	Use:   "sniff",
	Short: "Identify binary data file formats from their signatures",
	Long: `sniff identifies the binary format of data files by comparing a small
fixed-size header against known magic-number signatures.

Recognised formats:
  cel     Affymetrix CEL v4
  celcc1  Affymetrix Command Console v1 CEL`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sniff)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services once flags are parsed.
func SetBootstrap(fn func(configDir string) error) {
	bootstrap = fn
}

// SetClassifierService sets the classifier used by the commands.
func SetClassifierService(s driving.ClassifierService) {
	classifierService = s
}

// SetHistoryService sets the classification history service.
func SetHistoryService(s driving.HistoryService) {
	historyService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// SetMetricsHandler sets the handler served at /metrics by mcp serve.
func SetMetricsHandler(h http.Handler) {
	metricsHandler = h
}

// Execute runs the root command, cancelling its context on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[skipBootstrap] == "true" {
		return nil
	}
	return bootstrap(configDir)
}

func requireClassifier() error {
	if classifierService == nil {
		return errors.New("classifier service not configured")
	}
	return nil
}

// commandContext returns the command's context, or Background when run
// without ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
