package cli

import (
	"sort"
	"strings"

	"github.com/suitekeep/concert-updater/internal/concert"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByArtist SortOrder = "artist"
	SortByID     SortOrder = "id"
)

// sortConcerts sorts concerts for display based on the specified sort order
func sortConcerts(concerts []concert.Concert, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		concert.SortByDate(concerts)
	case SortByArtist:
		sort.SliceStable(concerts, func(i, j int) bool {
			ai, aj := strings.ToLower(concerts[i].Artist), strings.ToLower(concerts[j].Artist)
			if ai != aj {
				return ai < aj
			}
			// If artists are equal, sort by date
			return concerts[i].Date.Time().Before(concerts[j].Date.Time())
		})
	case SortByID:
		sort.SliceStable(concerts, func(i, j int) bool {
			return concerts[i].ID < concerts[j].ID
		})
	}
}

// sortCandidates sorts extracted concerts for display. Candidates have no id
// yet, so SortByID leaves them in extraction order.
func sortCandidates(candidates []concert.Candidate, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		concert.SortCandidates(candidates)
	case SortByArtist:
		sort.SliceStable(candidates, func(i, j int) bool {
			ai, aj := strings.ToLower(candidates[i].Artist), strings.ToLower(candidates[j].Artist)
			if ai != aj {
				return ai < aj
			}
			return candidates[i].Date.Before(candidates[j].Date)
		})
	}
}
