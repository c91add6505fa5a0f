package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

var (
	scanPatterns []string
	scanJSON     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Identify the format of every file in a directory tree",
	Long: `Walks a directory and classifies every regular file whose path, relative
to the directory, matches one of the glob patterns. Hidden files and
directories are skipped.

Patterns use doublestar syntax, for example '**/*.cel' or 'run-*/**'.
Without --pattern the scan.patterns setting is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVarP(&scanPatterns, "pattern", "p", nil, "glob pattern to include (repeatable)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := requireClassifier(); err != nil {
		return err
	}

	patterns := scanPatterns
	if len(patterns) == 0 && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		patterns = settings.Scan.Patterns
	}

	results, scanErr := classifierService.Scan(commandContext(cmd), args[0], patterns)

	if scanJSON {
		if err := writeClassificationsJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		if err := writeClassificationTable(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		writeScanSummary(cmd.OutOrStdout(), results)
	}

	if scanErr != nil {
		return fmt.Errorf("scan failed: %w", scanErr)
	}
	return nil
}

// writeScanSummary prints per-format counts after the result table.
func writeScanSummary(w io.Writer, results []domain.Classification) {
	styles := stylesFor(w)
	counts, unrecognised := summarise(results)
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.Title.Render(fmt.Sprintf("%d files classified", len(results))))
	for _, id := range ids {
		fmt.Fprintf(w, "  %s %d\n", styles.Recognised.Render(id), counts[id])
	}
	if unrecognised > 0 {
		fmt.Fprintf(w, "  %s %d\n", styles.Unrecognised.Render("unrecognised"), unrecognised)
	}
}
