package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testUserAgent = "Mozilla/5.0 (test)"

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		htmlContent string
		statusCode  int
		wantError   bool
		wantStatus  int
	}{
		{
			name:        "successful fetch",
			htmlContent: `<html><body><h4><a>Phish</a></h4></body></html>`,
			statusCode:  http.StatusOK,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			wantError:  true,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "server error",
			statusCode: http.StatusBadGateway,
			wantError:  true,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:        "other 2xx is accepted",
			htmlContent: `<html></html>`,
			statusCode:  http.StatusNonAuthoritativeInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if ua := r.Header.Get("User-Agent"); ua != testUserAgent {
					t.Errorf("User-Agent = %q, want %q", ua, testUserAgent)
				}
				if accept := r.Header.Get("Accept"); !strings.Contains(accept, "text/html") {
					t.Errorf("Accept = %q, should contain text/html", accept)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.htmlContent))
			}))
			defer server.Close()

			s := New(server.URL, testUserAgent, time.Second)
			body, err := s.Fetch(context.Background())

			if !tt.wantError {
				if err != nil {
					t.Fatalf("Fetch() unexpected error: %v", err)
				}
				if body != tt.htmlContent {
					t.Errorf("Fetch() body = %q, want %q", body, tt.htmlContent)
				}
				return
			}

			if err == nil {
				t.Fatal("Fetch() expected error, got nil")
			}
			if !errors.Is(err, ErrFetch) {
				t.Errorf("Fetch() error = %v, should match ErrFetch", err)
			}
			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("Fetch() error = %T, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestFetch_PageSizeLimit(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		wantError bool
	}{
		{"at limit", maxPageBytes, false},
		{"over limit", maxPageBytes + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := strings.Repeat("a", tt.size)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(page))
			}))
			defer server.Close()

			body, err := New(server.URL, testUserAgent, 10*time.Second).Fetch(context.Background())

			if !tt.wantError {
				if err != nil {
					t.Fatalf("Fetch() unexpected error: %v", err)
				}
				if len(body) != tt.size {
					t.Errorf("Fetch() returned %d bytes, want %d", len(body), tt.size)
				}
				return
			}

			if !errors.Is(err, ErrFetch) {
				t.Fatalf("Fetch() error = %v, want ErrFetch", err)
			}
			if !strings.Contains(err.Error(), "page too large") {
				t.Errorf("Fetch() error = %v, want page too large", err)
			}
			if body != "" {
				t.Error("Fetch() should not return a truncated page")
			}
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	s := New(server.URL, testUserAgent, 50*time.Millisecond)

	start := time.Now()
	_, err := s.Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() expected timeout error, got nil")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Fetch() error = %v, should match ErrTimeout", err)
	}
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, should match ErrFetch", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch() took %v, should give up near the timeout", elapsed)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(url, testUserAgent, time.Second).Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() expected error, got nil")
	}
	if !errors.Is(err, ErrFetch) {
		t.Errorf("Fetch() error = %v, should match ErrFetch", err)
	}
	if errors.Is(err, ErrTimeout) {
		t.Errorf("Fetch() error = %v, should not be a timeout", err)
	}
}

func TestNew(t *testing.T) {
	s := New("https://example.com/", testUserAgent, 0)

	if s.client == nil {
		t.Fatal("scraper client is nil")
	}
	if s.timeout != Timeout || s.client.Timeout != Timeout {
		t.Errorf("timeout = %v/%v, want %v", s.timeout, s.client.Timeout, Timeout)
	}
	if s.URL() != "https://example.com/" {
		t.Errorf("URL() = %q", s.URL())
	}
}
