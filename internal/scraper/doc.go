// Package scraper provides HTTP fetching and HTML parsing for the Ford
// Amphitheater event listing.
//
// Fetching is bounded by a fixed timeout and reports network failures with
// typed errors. Parsing runs two strategies: a structured pass over
// heading/anchor blocks and, only when that finds nothing, a plain-text pass
// that pairs each date with the capitalized phrase in front of it. Blocks that
// cannot be understood are skipped rather than failing the run.
package scraper
