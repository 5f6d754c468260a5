package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/dp-headlines/internal/monitor"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format
func WriteOutput(w io.Writer, summary *monitor.Summary, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeText(w, summary)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, summary *monitor.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, summary *monitor.Summary) error {
	if len(summary.Results) == 0 {
		fmt.Fprintln(w, "No rules were run.")
		return nil
	}

	for _, r := range summary.Results {
		switch r.Outcome {
		case monitor.OutcomeSaved:
			text := fmt.Sprintf("%q", r.Text)
			if r.Text == "" {
				text = "(empty)"
			}
			if r.Changed {
				fmt.Fprintf(w, "%s: %s\n", r.Rule, text)
			} else {
				fmt.Fprintf(w, "%s: %s (unchanged)\n", r.Rule, text)
			}
		case monitor.OutcomeScrapeFail:
			fmt.Fprintf(w, "%s: no data point (%s)\n", r.Rule, r.Error)
		case monitor.OutcomeSaveFail:
			fmt.Fprintf(w, "%s: not saved (%s)\n", r.Rule, r.Error)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d of %d rules saved for %s\n", summary.Saved(), len(summary.Results), summary.Date)
	return nil
}
