// Package concert provides the concert dataset model and the reconciliation logic
// used to merge freshly scraped concerts into it.
//
// The package handles artist-name normalization, local date/time resolution,
// duplicate detection against the persisted dataset and the append-only merge
// that assigns new identifiers. Records read from disk keep their original JSON
// so a rewrite of the dataset never alters them.
package concert
