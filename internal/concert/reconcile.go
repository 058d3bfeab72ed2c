package concert

import (
	"encoding/json"
	"sort"
	"time"
)

// Defaults for records created by Reconcile.
const (
	DefaultSeatCount   = 8
	DefaultSeatCost    = 25
	DefaultParkingCost = 0
)

// ReconcileOptions controls how new records are initialized.
type ReconcileOptions struct {
	SeatCount   int
	SeatCost    float64
	ParkingCost float64
	// Now supplies the creation timestamp; time.Now when nil.
	Now func() time.Time
}

// DefaultReconcileOptions returns the options the website expects.
func DefaultReconcileOptions() ReconcileOptions {
	return ReconcileOptions{
		SeatCount:   DefaultSeatCount,
		SeatCost:    DefaultSeatCost,
		ParkingCost: DefaultParkingCost,
		Now:         time.Now,
	}
}

func (o ReconcileOptions) now() time.Time {
	if o.Now == nil {
		return time.Now().UTC()
	}
	return o.Now().UTC()
}

// NewConcert builds a fresh record with every seat and the parking ticket
// available.
func NewConcert(id int, c Candidate, opts ReconcileOptions) Concert {
	now := NewTimestamp(opts.now())

	seats := make([]Seat, opts.SeatCount)
	for i := range seats {
		seats[i] = Seat{
			Status:                    StatusAvailable,
			Cost:                      opts.SeatCost,
			ModificationHistory:       []json.RawMessage{},
			LastModifiedDate:          now,
			ConflictResolutionVersion: 1,
		}
	}

	return Concert{
		SharedVersion:    1,
		Seats:            seats,
		Date:             NewTimestamp(c.Date),
		ID:               id,
		ParkingTicket:    ParkingTicket{Status: StatusAvailable, Cost: opts.ParkingCost},
		LastModifiedDate: now,
		Artist:           c.Artist,
	}
}

// Reconcile appends one record per candidate, in order, with ids continuing
// from the dataset's current maximum, then sorts all concerts by date and
// stamps BackupDate.
//
// The input dataset is not modified. With no candidates it is returned as is.
// The second return value holds the records that were added.
func Reconcile(ds *Dataset, candidates []Candidate, opts ReconcileOptions) (*Dataset, []Concert) {
	if len(candidates) == 0 {
		return ds, nil
	}

	nextID := ds.MaxID() + 1
	added := make([]Concert, 0, len(candidates))
	for _, c := range candidates {
		added = append(added, NewConcert(nextID, c, opts))
		nextID++
	}

	concerts := make([]Concert, 0, len(ds.Concerts)+len(added))
	concerts = append(concerts, ds.Concerts...)
	concerts = append(concerts, added...)
	SortByDate(concerts)

	next := *ds
	next.BackupDate = NewTimestamp(opts.now())
	next.Concerts = concerts
	return &next, added
}

// SortByDate orders concerts by ascending date, keeping the relative order of
// concerts on the same instant.
func SortByDate(concerts []Concert) {
	sort.SliceStable(concerts, func(i, j int) bool {
		return concerts[i].Date.Time().Before(concerts[j].Date.Time())
	})
}

// SortCandidates orders candidates by ascending date, stable.
func SortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Date.Before(candidates[j].Date)
	})
}
