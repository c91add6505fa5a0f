package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/custodia-labs/sniff-cli/internal/core/domain"
)

// classificationJSON is the JSON shape of a classification.
type classificationJSON struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	Format       string    `json:"format"`
	Extension    string    `json:"extension,omitempty"`
	Recognised   bool      `json:"recognised"`
	Size         int64     `json:"size"`
	Probed       []string  `json:"probed"`
	ClassifiedAt time.Time `json:"classified_at"`
}

func toJSON(c domain.Classification) classificationJSON {
	probed := c.Probed
	if probed == nil {
		probed = []string{}
	}
	return classificationJSON{
		ID:           c.ID,
		Path:         c.Path,
		Format:       c.Label(),
		Extension:    c.Extension,
		Recognised:   c.Recognised(),
		Size:         c.Size,
		Probed:       probed,
		ClassifiedAt: c.ClassifiedAt,
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeClassificationsJSON(w io.Writer, results []domain.Classification) error {
	out := make([]classificationJSON, len(results))
	for i := range results {
		out[i] = toJSON(results[i])
	}
	return writeJSON(w, out)
}

// formatLabel renders a classification's format in the result colour.
func formatLabel(styles *Styles, c domain.Classification) string {
	if c.Recognised() {
		return styles.Recognised.Render(c.Label())
	}
	return styles.Unrecognised.Render(c.Label())
}

// writeClassificationTable prints one "format  path" row per result.
func writeClassificationTable(w io.Writer, results []domain.Classification) error {
	styles := stylesFor(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i := range results {
		fmt.Fprintf(tw, "%s\t%s\n", formatLabel(styles, results[i]), results[i].Path)
	}
	return tw.Flush()
}

// summarise counts recognised results per format.
func summarise(results []domain.Classification) (map[string]int, int) {
	counts := make(map[string]int)
	unrecognised := 0
	for i := range results {
		if results[i].Recognised() {
			counts[results[i].FormatID]++
		} else {
			unrecognised++
		}
	}
	return counts, unrecognised
}

// writeJSONLine writes v as a single line of JSON.
func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
