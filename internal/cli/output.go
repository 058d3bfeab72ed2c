package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/suitekeep/concert-updater/internal/concert"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// localLayout is how dates are shown to people, in the venue's zone.
const localLayout = "Mon Jan 2 2006, 3:04 PM"

// OutputResult contains the outcome of an update run
type OutputResult struct {
	CheckedAt   time.Time         `json:"checked_at"`
	RunID       string            `json:"run_id"`
	Source      string            `json:"source"`
	DataFile    string            `json:"data_file"`
	Scraped     int               `json:"scraped"`
	Existing    int               `json:"existing"`
	NewConcerts []concert.Concert `json:"new_concerts"`
	AddedCount  int               `json:"added_count"`
	Total       int               `json:"total"`
	Written     bool              `json:"written"`
	DryRun      bool              `json:"dry_run,omitempty"`
}

// ExtractResult contains the concerts found on a listing page
type ExtractResult struct {
	Source   string              `json:"source"`
	Year     int                 `json:"year"`
	Concerts []concert.Candidate `json:"concerts"`
	Count    int                 `json:"count"`
}

// WriteOutput writes the result in the specified format. Dates in text
// output are shown in loc.
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool, loc *time.Location) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose, loc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteExtract writes extracted concerts in the specified format.
func WriteExtract(w io.Writer, result *ExtractResult, format OutputFormat, loc *time.Location) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeExtractText(w, result, loc)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool, loc *time.Location) error {
	if result.AddedCount == 0 {
		fmt.Fprintln(w, "No new concerts found. JSON is up to date.")
		fmt.Fprintf(w, "Total: %d concerts\n", result.Total)
		return nil
	}

	for _, c := range result.NewConcerts {
		fmt.Fprintf(w, "NEW: %s (%s)\n", c.Artist, formatLocal(c.Date.Time(), loc))
		if verbose {
			fmt.Fprintf(w, "     ID: %d\n", c.ID)
			fmt.Fprintf(w, "     Date: %s\n", c.Date)
			fmt.Fprintf(w, "     Seats: %d\n", len(c.Seats))
		}
	}

	if result.DryRun {
		fmt.Fprintf(w, "\nDry run: %d new concert(s) not written. Total would be %d\n", result.AddedCount, result.Total)
	} else {
		fmt.Fprintf(w, "\nAdded %d new concert(s) to %s. Total: %d\n", result.AddedCount, result.DataFile, result.Total)
	}

	return nil
}

func writeExtractText(w io.Writer, result *ExtractResult, loc *time.Location) error {
	if result.Count == 0 {
		fmt.Fprintf(w, "No %d concerts found.\n", result.Year)
		return nil
	}

	for _, c := range result.Concerts {
		fmt.Fprintf(w, "%s: %s\n", formatLocal(c.Date, loc), c.Artist)
	}
	fmt.Fprintf(w, "\nTotal: %d concerts\n", result.Count)

	return nil
}

func formatLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(localLayout)
}
