package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sniff-cli/internal/adapters/driving/watcher"
)

var (
	watchPatterns []string
	watchDebounce time.Duration
	watchRate     float64
	watchJSON     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Classify files as they arrive in a directory",
	Long: `Watches a directory tree and classifies files once they have stopped
changing for the debounce period. Use it on an upload inbox so each file
is tagged with its format as soon as it lands.

Runs until interrupted. Flags override the watch.* and scan.patterns settings.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVarP(&watchPatterns, "pattern", "p", nil, "glob pattern to include (repeatable)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 0, "quiet period before a file is classified")
	watchCmd.Flags().Float64Var(&watchRate, "rate", 0, "maximum classifications per second")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "print one JSON object per classification")
	rootCmd.AddCommand(watchCmd)
}

// watchConfig merges settings with any flags the user set.
func watchConfig(cmd *cobra.Command) (watcher.Config, error) {
	config := watcher.DefaultConfig()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return config, fmt.Errorf("failed to get settings: %w", err)
		}
		config.Debounce = settings.Watch.Debounce
		config.Rate = settings.Watch.Rate
		config.Patterns = settings.Scan.Patterns
	}

	if cmd.Flags().Changed("pattern") {
		config.Patterns = watchPatterns
	}
	if cmd.Flags().Changed("debounce") {
		config.Debounce = watchDebounce
	}
	if cmd.Flags().Changed("rate") {
		config.Rate = watchRate
	}
	return config, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireClassifier(); err != nil {
		return err
	}

	config, err := watchConfig(cmd)
	if err != nil {
		return err
	}

	w, err := watcher.New(args[0], classifierService, config)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}

	ctx := commandContext(cmd)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	out := cmd.OutOrStdout()
	styles := stylesFor(out)
	cmd.PrintErrf("Watching %s (Ctrl+C to stop)\n", w.Root())

	for event := range w.Events() {
		if event.Err != nil {
			cmd.PrintErrln(styles.Error.Render(fmt.Sprintf("error: %v", event.Err)))
			continue
		}
		if watchJSON {
			if err := writeJSONLine(out, toJSON(*event.Classification)); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", formatLabel(styles, *event.Classification), event.Path)
	}

	if dropped := w.Dropped(); dropped > 0 {
		cmd.PrintErrf("%d results dropped\n", dropped)
	}
	return <-done
}
