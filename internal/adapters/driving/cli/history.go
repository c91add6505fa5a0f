package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
	historyKeep  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent classifications",
	Long: `Shows recorded classifications, newest first.

History is kept in ~/.sniff/data/history.db unless history.backend is
set to memory or history.enabled is false.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one recorded classification",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryGet,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest classifications",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of classifications")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output results as JSON")
	historyGetCmd.Flags().BoolVar(&historyJSON, "json", false, "output result as JSON")
	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 100, "number of classifications to keep")

	historyCmd.AddCommand(historyGetCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func requireHistory() error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	return nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	results, err := historyService.History(commandContext(cmd), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	w := cmd.OutOrStdout()
	if historyJSON {
		return writeClassificationsJSON(w, results)
	}

	if len(results) == 0 {
		cmd.Println("No classifications recorded.")
		return nil
	}

	styles := stylesFor(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i := range results {
		c := results[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			styles.Muted.Render(c.ClassifiedAt.Local().Format(time.DateTime)),
			formatLabel(styles, c),
			c.Path,
			styles.Muted.Render(c.ID))
	}
	return tw.Flush()
}

func runHistoryGet(cmd *cobra.Command, args []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	c, err := historyService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get classification: %w", err)
	}

	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), toJSON(*c))
	}

	cmd.Printf("ID:         %s\n", c.ID)
	cmd.Printf("Path:       %s\n", c.Path)
	cmd.Printf("Format:     %s\n", c.Label())
	if c.Extension != "" {
		cmd.Printf("Extension:  .%s\n", c.Extension)
	}
	cmd.Printf("Size:       %d bytes\n", c.Size)
	if !c.ModTime.IsZero() {
		cmd.Printf("Modified:   %s\n", c.ModTime.Local().Format(time.DateTime))
	}
	cmd.Printf("Probed:     %v\n", c.Probed)
	cmd.Printf("Classified: %s\n", c.ClassifiedAt.Local().Format(time.DateTime))
	return nil
}

func runHistoryPrune(cmd *cobra.Command, _ []string) error {
	if err := requireHistory(); err != nil {
		return err
	}

	removed, err := historyService.Prune(commandContext(cmd), historyKeep)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	cmd.Printf("Removed %d classifications.\n", removed)
	return nil
}
