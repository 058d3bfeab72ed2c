// Package updater runs one reconciliation pass: fetch the listing page,
// extract concerts, merge the new ones into the dataset and report.
package updater

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/logger"
	"github.com/suitekeep/concert-updater/internal/notifier"
)

// Fetcher returns the listing page HTML.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Extractor turns listing HTML into candidates.
type Extractor interface {
	Extract(r io.Reader) ([]concert.Candidate, error)
}

// Store reads and writes the dataset.
type Store interface {
	Load() (*concert.Dataset, error)
	Save(ds *concert.Dataset) error
}

// Options controls a run.
type Options struct {
	// DryRun computes the additions without writing the dataset.
	DryRun    bool
	Reconcile concert.ReconcileOptions
}

// Result describes a finished run.
type Result struct {
	RunID    string
	Scraped  []concert.Candidate
	Existing int
	Added    []concert.Concert
	Dataset  *concert.Dataset
	Written  bool
	DryRun   bool
	Duration time.Duration
}

// Report converts the result for notifiers.
func (r *Result) Report() *notifier.Report {
	return &notifier.Report{
		Added:   r.Added,
		Total:   len(r.Dataset.Concerts),
		Scraped: len(r.Scraped),
	}
}

// Updater wires the steps of a run together.
type Updater struct {
	fetcher   Fetcher
	extractor Extractor
	store     Store
	notifier  notifier.Notifier
	opts      Options
	metrics   *logger.Metrics
	log       *logger.Logger
}

// New creates an updater. n may be nil.
func New(f Fetcher, e Extractor, s Store, n notifier.Notifier, opts Options) *Updater {
	return &Updater{
		fetcher:   f,
		extractor: e,
		store:     s,
		notifier:  n,
		opts:      opts,
		metrics:   logger.NewMetrics(),
		log:       logger.Default(),
	}
}

// WithLogger replaces the logger, mainly for tests.
func (u *Updater) WithLogger(l *logger.Logger) *Updater {
	u.log = l
	return u
}

// Metrics returns the counters and timings of the runs so far.
func (u *Updater) Metrics() *logger.Metrics {
	return u.metrics
}

// Run performs one pass. The dataset is written only when at least one
// concert was added and the run is not a dry run. Any fetch, parse or
// dataset error aborts the run before anything is written.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := u.log.With(logger.Fields{"run_id": runID})
	res := &Result{RunID: runID, DryRun: u.opts.DryRun}

	log.Info("Fetching listing page", nil)
	fetchStart := time.Now()
	html, err := u.fetcher.Fetch(ctx)
	u.metrics.RecordTiming("fetch", time.Since(fetchStart))
	if err != nil {
		return nil, err
	}
	log.Info("Fetched listing page", logger.Fields{"bytes": len(html)})

	scraped, err := u.extractor.Extract(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("extracting concerts: %w", err)
	}
	res.Scraped = scraped
	u.metrics.AddCounter("concerts.scraped", int64(len(scraped)))
	log.Info("Scraped concerts", logger.Fields{"count": len(scraped)})
	for _, c := range scraped {
		log.Info("Scraped concert", logger.Fields{
			"artist": c.Artist,
			"date":   concert.NewTimestamp(c.Date).String(),
		})
	}

	ds, err := u.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	res.Existing = len(ds.Concerts)
	log.Info("Loaded existing concerts", logger.Fields{"count": res.Existing})

	fresh := concert.FindNew(scraped, ds.Concerts)
	merged, added := concert.Reconcile(ds, fresh, u.opts.Reconcile)
	res.Dataset = merged
	res.Added = added
	u.metrics.AddCounter("concerts.added", int64(len(added)))

	if len(added) == 0 {
		log.Info("No new concerts found. JSON is up to date.", logger.Fields{"total": len(merged.Concerts)})
	} else {
		for _, c := range added {
			log.Info("Adding concert", logger.Fields{
				"id":     c.ID,
				"artist": c.Artist,
				"date":   c.Date.String(),
			})
		}

		if u.opts.DryRun {
			log.Info("Dry run, dataset not written", logger.Fields{"added": len(added)})
		} else {
			if err := u.store.Save(merged); err != nil {
				return nil, fmt.Errorf("saving dataset: %w", err)
			}
			res.Written = true
			log.Info("Updated dataset", logger.Fields{
				"added": len(added),
				"total": len(merged.Concerts),
			})
		}
	}

	res.Duration = time.Since(start)

	if u.notifier != nil {
		if err := u.notifier.Notify(res.Report()); err != nil {
			return res, fmt.Errorf("reporting run: %w", err)
		}
	}

	log.Info("Run complete", u.metrics.Summary())
	return res, nil
}
