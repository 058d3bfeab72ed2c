package updater

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/logger"
	"github.com/suitekeep/concert-updater/internal/notifier"
	"github.com/suitekeep/concert-updater/internal/scraper"
	"github.com/suitekeep/concert-updater/internal/storage"
)

const listingHTML = `<html><body>
<div class="event">
  <h4><a href="/e/1">Phish</a></h4>
  <p>Saturday, September 19, 2026</p>
  <p>Show Time: 7:30pm</p>
</div>
<a class="buy-tickets" href="/t/1">Buy Tickets</a>
<div class="event">
  <h4><a href="/e/2">My Morning Jacket</a></h4>
  <p>Saturday, August 1, 2026</p>
</div>
<a class="buy-tickets" href="/t/2">Buy Tickets</a>
</body></html>`

const datasetJSON = `{
  "backupDate": "2026-01-15T10:00:00.000Z",
  "concerts": [
    {
      "sharedVersion": 2,
      "seats": [],
      "date": "2026-09-20T01:30:00.000Z",
      "id": 5,
      "parkingTicket": {"status": "sold", "cost": 15},
      "lastModifiedDate": "2026-01-10T00:00:00.000Z",
      "artist": "Phish"
    }
  ]
}
`

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Fetch(context.Context) (string, error) {
	return f.html, f.err
}

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(r io.Reader) ([]concert.Candidate, error) {
	return nil, f.err
}

type fakeStore struct {
	ds      *concert.Dataset
	loadErr error
	saveErr error
	saved   []*concert.Dataset
}

func (s *fakeStore) Load() (*concert.Dataset, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.ds, nil
}

func (s *fakeStore) Save(ds *concert.Dataset) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, ds)
	return nil
}

type recordingNotifier struct {
	reports []*notifier.Report
	err     error
}

func (n *recordingNotifier) Notify(r *notifier.Report) error {
	n.reports = append(n.reports, r)
	return n.err
}

func testOptions(dryRun bool) Options {
	rec := concert.DefaultReconcileOptions()
	rec.Now = func() time.Time { return fixedNow }
	return Options{DryRun: dryRun, Reconcile: rec}
}

func newExtractor() *scraper.Extractor {
	return scraper.NewExtractor(scraper.Options{
		Year:        2026,
		DefaultTime: concert.DefaultShowTime,
		Location:    concert.FixedZone(-6),
	})
}

func quietLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New("info", "console", buf)
}

func TestRun_AddsNewConcerts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concerts.json")
	if err := os.WriteFile(path, []byte(datasetJSON), 0644); err != nil {
		t.Fatal(err)
	}
	store, err := storage.New(path)
	if err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	n := &recordingNotifier{}
	u := New(&fakeFetcher{html: listingHTML}, newExtractor(), store, n, testOptions(false)).
		WithLogger(quietLogger(&logs))

	res, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Scraped) != 2 {
		t.Errorf("scraped = %d, want 2", len(res.Scraped))
	}
	if res.Existing != 1 {
		t.Errorf("existing = %d, want 1", res.Existing)
	}
	if len(res.Added) != 1 || res.Added[0].Artist != "My Morning Jacket" || res.Added[0].ID != 6 {
		t.Fatalf("added = %+v, want My Morning Jacket with id 6", res.Added)
	}
	if !res.Written {
		t.Error("expected dataset to be written")
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}

	reloaded, err := store.Load()
	if err != nil {
		t.Fatalf("reloading dataset: %v", err)
	}
	if len(reloaded.Concerts) != 2 {
		t.Fatalf("reloaded %d concerts, want 2", len(reloaded.Concerts))
	}
	if reloaded.Concerts[0].Artist != "My Morning Jacket" || reloaded.Concerts[1].Artist != "Phish" {
		t.Errorf("dataset not sorted by date: %s, %s", reloaded.Concerts[0].Artist, reloaded.Concerts[1].Artist)
	}
	if got := reloaded.Concerts[0].Date.String(); got != "2026-08-02T01:30:00.000Z" {
		t.Errorf("new concert date = %s, want 2026-08-02T01:30:00.000Z", got)
	}
	if got := reloaded.BackupDate.String(); got != "2026-03-01T12:00:00.000Z" {
		t.Errorf("backupDate = %s, want 2026-03-01T12:00:00.000Z", got)
	}

	if len(n.reports) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(n.reports))
	}
	if r := n.reports[0]; len(r.Added) != 1 || r.Total != 2 || r.Scraped != 2 {
		t.Errorf("report = %+v", r)
	}

	if got := u.Metrics().Counter("concerts.added"); got != 1 {
		t.Errorf("concerts.added = %d, want 1", got)
	}
	if got := u.Metrics().Counter("concerts.scraped"); got != 2 {
		t.Errorf("concerts.scraped = %d, want 2", got)
	}
	if !strings.Contains(logs.String(), "My Morning Jacket") {
		t.Errorf("expected progress lines to name the added concert:\n%s", logs.String())
	}
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concerts.json")
	if err := os.WriteFile(path, []byte(datasetJSON), 0644); err != nil {
		t.Fatal(err)
	}
	store, err := storage.New(path)
	if err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	u := New(&fakeFetcher{html: listingHTML}, newExtractor(), store, nil, testOptions(false)).
		WithLogger(quietLogger(&logs))

	if _, err := u.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	res, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(res.Added) != 0 || res.Written {
		t.Errorf("second run added %d, written %v; want nothing", len(res.Added), res.Written)
	}

	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("second run changed the dataset file")
	}
	if !strings.Contains(logs.String(), "No new concerts found") {
		t.Error("expected the up-to-date message")
	}
}

func TestRun_NothingNew(t *testing.T) {
	ds := &concert.Dataset{Concerts: []concert.Concert{}}
	store := &fakeStore{ds: ds}
	n := &recordingNotifier{}

	var logs bytes.Buffer
	u := New(&fakeFetcher{html: "<html><body><p>No shows yet</p></body></html>"}, newExtractor(), store, n, testOptions(false)).
		WithLogger(quietLogger(&logs))

	res, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("dataset should not be written when nothing was added")
	}
	if res.Dataset != ds {
		t.Error("dataset should be returned unchanged")
	}
	if len(n.reports) != 1 || n.reports[0].Total != 0 {
		t.Errorf("expected one report with total 0, got %+v", n.reports)
	}
}

func TestRun_DryRun(t *testing.T) {
	store := &fakeStore{ds: &concert.Dataset{Concerts: []concert.Concert{}}}

	var logs bytes.Buffer
	u := New(&fakeFetcher{html: listingHTML}, newExtractor(), store, nil, testOptions(true)).
		WithLogger(quietLogger(&logs))

	res, err := u.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Added) != 2 {
		t.Errorf("added = %d, want 2", len(res.Added))
	}
	if res.Written || len(store.saved) != 0 {
		t.Error("dry run must not write the dataset")
	}
	if !res.DryRun {
		t.Error("result should be marked as dry run")
	}
	if res.Added[0].ID != 1 || res.Added[1].ID != 2 {
		t.Errorf("ids = %d, %d; want 1, 2 for an empty dataset", res.Added[0].ID, res.Added[1].ID)
	}
}

func TestRun_Errors(t *testing.T) {
	errLoad := errors.New("permission denied")
	errSave := errors.New("disk full")
	errParse := errors.New("broken document")

	tests := []struct {
		name      string
		fetcher   *fakeFetcher
		extractor Extractor
		store     *fakeStore
		wantErr   error
		wantSaved int
	}{
		{
			name:      "fetch failure",
			fetcher:   &fakeFetcher{err: scraper.ErrTimeout},
			extractor: newExtractor(),
			store:     &fakeStore{ds: &concert.Dataset{}},
			wantErr:   scraper.ErrTimeout,
		},
		{
			name:      "extract failure",
			fetcher:   &fakeFetcher{html: listingHTML},
			extractor: &fakeExtractor{err: errParse},
			store:     &fakeStore{ds: &concert.Dataset{}},
			wantErr:   errParse,
		},
		{
			name:      "load failure",
			fetcher:   &fakeFetcher{html: listingHTML},
			extractor: newExtractor(),
			store:     &fakeStore{loadErr: errLoad},
			wantErr:   errLoad,
		},
		{
			name:      "save failure",
			fetcher:   &fakeFetcher{html: listingHTML},
			extractor: newExtractor(),
			store:     &fakeStore{ds: &concert.Dataset{}, saveErr: errSave},
			wantErr:   errSave,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			n := &recordingNotifier{}
			u := New(tt.fetcher, tt.extractor, tt.store, n, testOptions(false)).
				WithLogger(quietLogger(&logs))

			res, err := u.Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if res != nil {
				t.Errorf("expected nil result on failure, got %+v", res)
			}
			if len(tt.store.saved) != tt.wantSaved {
				t.Errorf("saved %d times, want %d", len(tt.store.saved), tt.wantSaved)
			}
			if len(n.reports) != 0 {
				t.Error("failed runs must not be reported")
			}
		})
	}
}

func TestRun_NotifierError(t *testing.T) {
	errNotify := errors.New("summary unwritable")
	store := &fakeStore{ds: &concert.Dataset{Concerts: []concert.Concert{}}}

	var logs bytes.Buffer
	u := New(&fakeFetcher{html: listingHTML}, newExtractor(), store, &recordingNotifier{err: errNotify}, testOptions(false)).
		WithLogger(quietLogger(&logs))

	res, err := u.Run(context.Background())
	if !errors.Is(err, errNotify) {
		t.Fatalf("Run() error = %v, want %v", err, errNotify)
	}
	if res == nil || !res.Written {
		t.Error("dataset should already be written when reporting fails")
	}
}

func TestResult_Report(t *testing.T) {
	res := &Result{
		Scraped: make([]concert.Candidate, 3),
		Added:   make([]concert.Concert, 1),
		Dataset: &concert.Dataset{Concerts: make([]concert.Concert, 4)},
	}

	r := res.Report()
	if r.Scraped != 3 || r.Total != 4 || len(r.Added) != 1 {
		t.Errorf("Report() = %+v", r)
	}
}
