package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var formatsJSON bool

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List recognised formats in priority order",
	Long: `Lists the registered formats in the order their detectors run.
The first detector that matches a file decides its format.

Change the order with 'sniff config set detectors.order celcc1,cel'.`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	formatsCmd.Flags().BoolVar(&formatsJSON, "json", false, "output formats as JSON")
	rootCmd.AddCommand(formatsCmd)
}

type formatJSON struct {
	ID          string `json:"id"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
	HeaderLen   int    `json:"header_len"`
}

func runFormats(cmd *cobra.Command, _ []string) error {
	if err := requireClassifier(); err != nil {
		return err
	}

	formats := classifierService.Formats()
	w := cmd.OutOrStdout()

	if formatsJSON {
		out := make([]formatJSON, len(formats))
		for i, f := range formats {
			out[i] = formatJSON{
				ID:          f.ID,
				Extension:   f.Extension,
				Description: f.Description,
				HeaderLen:   f.HeaderLen,
			}
		}
		return writeJSON(w, out)
	}

	if len(formats) == 0 {
		cmd.Println("No formats registered.")
		return nil
	}

	styles := stylesFor(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, styles.Title.Render("PRIORITY")+"\t"+styles.Title.Render("ID")+"\t"+
		styles.Title.Render("EXT")+"\t"+styles.Title.Render("HEADER")+"\t"+styles.Title.Render("DESCRIPTION"))
	for i, f := range formats {
		fmt.Fprintf(tw, "%d\t%s\t.%s\t%d bytes\t%s\n",
			i+1, styles.Recognised.Render(f.ID), f.Extension, f.HeaderLen, styles.Muted.Render(f.Description))
	}
	return tw.Flush()
}
