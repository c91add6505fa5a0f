package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// stdinArg classifies standard input instead of a file.
const stdinArg = "-"

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <path>...",
	Short: "Identify the format of files",
	Long: `Reads the fixed-size header of each file and reports the first format
whose signature matches. Detectors run in priority order (see 'sniff formats').

Use - once to classify standard input, for example an upload being piped through.
Results are printed in argument order.

A file that matches no signature is reported as unrecognised; it is not
an error. Unreadable files are reported and make the command fail.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if err := requireClassifier(); err != nil {
		return err
	}
	if countStdin(args) > 1 {
		return errors.New("standard input (-) can only be classified once")
	}
	ctx := commandContext(cmd)

	var (
		results []domain.Classification
		errs    []error
		paths   []string
	)
	// Paths between stdin arguments are classified as one batch so that
	// results keep argument order.
	flush := func() {
		if len(paths) == 0 {
			return
		}
		classified, err := classifierService.ClassifyAll(ctx, paths)
		results = append(results, classified...)
		if err != nil {
			errs = append(errs, err)
		}
		paths = nil
	}

	for _, arg := range args {
		if arg != stdinArg {
			paths = append(paths, arg)
			continue
		}
		flush()
		c, err := classifierService.ClassifyStream(ctx, "stdin", cmd.InOrStdin())
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, *c)
	}
	flush()

	if classifyJSON {
		if err := writeClassificationsJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else if err := writeClassificationTable(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}
	return nil
}

func countStdin(args []string) int {
	n := 0
	for _, arg := range args {
		if arg == stdinArg {
			n++
		}
	}
	return n
}
