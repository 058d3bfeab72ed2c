package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	// Timeout bounds a single fetch of the listing page.
	Timeout = 30 * time.Second
	Accept  = "text/html,application/xhtml+xml"

	maxPageBytes = 10 << 20
)

var (
	// ErrFetch wraps every failure to retrieve the listing page.
	ErrFetch = errors.New("fetching listing page")
	// ErrTimeout marks a fetch that ran out of time. Errors carrying it also
	// match ErrFetch.
	ErrTimeout = errors.New("request timed out")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: HTTP %s", ErrFetch, e.Status)
}

// Unwrap makes StatusError match ErrFetch.
func (e *StatusError) Unwrap() error {
	return ErrFetch
}

// Scraper fetches the listing page.
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
	timeout   time.Duration
}

// New creates a Scraper for url. A zero timeout means Timeout.
func New(url, userAgent string, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
		url:       url,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// URL returns the page the scraper fetches.
func (s *Scraper) URL() string {
	return s.url
}

// Fetch downloads the listing page and returns its HTML.
func (s *Scraper) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", Accept)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", s.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes+1))
	if err != nil {
		return "", s.wrapTransportError(err)
	}
	if len(body) > maxPageBytes {
		return "", fmt.Errorf("%w: page too large (over %d bytes)", ErrFetch, maxPageBytes)
	}

	return string(body), nil
}

func (s *Scraper) wrapTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w after %s", ErrFetch, ErrTimeout, s.timeout)
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}
