// Command announce-concerts posts the concerts reported by
// `update-concerts --format json` to Twitter or Telegram.
//
//	update-concerts --format json | announce-concerts --channel telegram
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/config"
	"github.com/suitekeep/concert-updater/internal/notifier"
)

var (
	resultFile = flag.String("result-file", "", "Path to update-concerts JSON output (or read from stdin)")
	channel    = flag.String("channel", "twitter", "Where to announce: twitter or telegram")
	dryRun     = flag.Bool("dry-run", false, "Print announcements without posting")
	maxPosts   = flag.Int("max-posts", 10, "Maximum number of concerts to announce")
	envFile    = flag.String("env-file", ".env", "Optional .env file with CONCERTS_* settings")
)

// readNewConcerts reads the new_concerts list from update-concerts output
func readNewConcerts(r io.Reader) ([]concert.Concert, error) {
	var result struct {
		NewConcerts []concert.Concert `json:"new_concerts"`
	}

	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return result.NewConcerts, nil
}

func limit(concerts []concert.Concert, n int) []concert.Concert {
	if n > 0 && len(concerts) > n {
		return concerts[:n]
	}
	return concerts
}

func newNotifier(name string, dry bool, cfg *config.Config) (notifier.Notifier, error) {
	if dry {
		return notifier.NewDryRunNotifier(os.Stdout, cfg.Location()), nil
	}

	switch name {
	case "twitter":
		tw, err := notifier.NewTwitterNotifier(cfg.Location())
		if err != nil {
			return nil, err
		}
		return tw, nil
	case "telegram":
		tg, err := notifier.NewTelegramNotifier(cfg.Location())
		if err != nil {
			return nil, err
		}
		return tg, nil
	default:
		return nil, fmt.Errorf("unknown channel: %s (must be 'twitter' or 'telegram')", name)
	}
}

func run() error {
	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}

	var reader io.Reader = os.Stdin
	if *resultFile != "" {
		f, err := os.Open(*resultFile)
		if err != nil {
			return fmt.Errorf("opening result file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	concerts, err := readNewConcerts(reader)
	if err != nil {
		return err
	}

	if len(concerts) == 0 {
		fmt.Println("No new concerts to announce")
		return nil
	}
	concerts = limit(concerts, *maxPosts)

	n, err := newNotifier(*channel, *dryRun, cfg)
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Printf("DRY RUN MODE - Would announce %d concerts on %s:\n\n", len(concerts), *channel)
	}

	if err := n.Notify(&notifier.Report{Added: concerts, Total: len(concerts)}); err != nil {
		return fmt.Errorf("announcing concerts: %w", err)
	}

	if !*dryRun {
		fmt.Printf("Successfully announced %d concerts on %s\n", len(concerts), *channel)
	}
	return nil
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
