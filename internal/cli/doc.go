// Package cli implements the command-line interface for update-concerts.
//
// The root command runs one reconciliation pass against the dataset file and
// reports the result as text or JSON. The extract subcommand shows what the
// extractor finds on a listing page without touching the dataset.
package cli
