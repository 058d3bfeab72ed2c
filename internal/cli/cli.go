package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/suitekeep/concert-updater/internal/calendar"
	"github.com/suitekeep/concert-updater/internal/concert"
	"github.com/suitekeep/concert-updater/internal/config"
	"github.com/suitekeep/concert-updater/internal/logger"
	"github.com/suitekeep/concert-updater/internal/notifier"
	"github.com/suitekeep/concert-updater/internal/scraper"
	"github.com/suitekeep/concert-updater/internal/storage"
	"github.com/suitekeep/concert-updater/internal/updater"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time.
var Version = "dev"

type rootFlags struct {
	envFile  string
	url      string
	dataFile string
	year     int
	dryRun   bool
	format   string
	sort     string
	verbose  bool
	icsFile  string
	tweet    bool
	telegram bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "update-concerts",
		Short: "Merge newly announced Ford Amphitheater concerts into the dataset",
		Long: `Fetches the Ford Amphitheater listing page, extracts concerts for the
target year and appends the ones not yet in the dataset file. Existing
records are never modified; the file is only rewritten when something new
was found.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, f)
		},
	}

	cmd.PersistentFlags().StringVar(&f.envFile, "env-file", ".env", "Optional .env file with CONCERTS_* settings")
	cmd.PersistentFlags().StringVar(&f.url, "url", "", "Listing page URL (default from CONCERTS_URL or "+config.DefaultSourceURL+")")
	cmd.PersistentFlags().IntVar(&f.year, "year", 0, "Target year (default from CONCERTS_YEAR or the current season)")
	cmd.PersistentFlags().StringVar(&f.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&f.sort, "sort", "date", "Sort order for listed concerts: date, artist or id")
	cmd.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "Enable debug logging")

	cmd.Flags().StringVar(&f.dataFile, "data-file", "", "Dataset JSON file (default from CONCERTS_FILE or "+config.DefaultDataFile+")")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Report new concerts without writing the dataset")
	cmd.Flags().StringVar(&f.icsFile, "ics-file", "", "Also write the reconciled schedule as an iCalendar file")
	cmd.Flags().BoolVar(&f.tweet, "tweet", false, "Announce added concerts on Twitter (printed instead with --dry-run)")
	cmd.Flags().BoolVar(&f.telegram, "telegram", false, "Announce added concerts in a Telegram chat (printed instead with --dry-run)")

	cmd.AddCommand(newExtractCmd(f))

	return cmd
}

// loadConfig merges flags that were set over the environment configuration
// and installs the logger.
func loadConfig(cmd *cobra.Command, f *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.SourceURL = f.url
	}
	if flags.Changed("year") {
		cfg.TargetYear = f.year
	}
	if flags.Changed("data-file") {
		cfg.DataFile = f.dataFile
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.SetDefault(logger.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()))
	return cfg, nil
}

func parseOutputFlags(f *rootFlags) (OutputFormat, SortOrder, error) {
	format := OutputFormat(strings.ToLower(f.format))
	if format != FormatText && format != FormatJSON {
		return "", "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", f.format)
	}

	order := SortOrder(strings.ToLower(f.sort))
	if order != SortByDate && order != SortByArtist && order != SortByID {
		return "", "", fmt.Errorf("invalid sort order: %s (must be 'date', 'artist' or 'id')", f.sort)
	}

	return format, order, nil
}

func newExtractor(cfg *config.Config) *scraper.Extractor {
	return scraper.NewExtractor(scraper.Options{
		Year:        cfg.TargetYear,
		DefaultTime: cfg.DefaultShowTime,
		Location:    cfg.Location(),
	})
}

func buildNotifier(cmd *cobra.Command, cfg *config.Config, f *rootFlags) (notifier.Notifier, error) {
	var notifiers notifier.Multi

	// Nothing is written in a dry run, so the workflow is not told about
	// new concerts.
	if f.dryRun {
		if f.tweet || f.telegram {
			notifiers = append(notifiers, notifier.NewDryRunNotifier(cmd.ErrOrStderr(), cfg.Location()))
		}
		return notifiers, nil
	}

	if gh := notifier.NewGitHubActions(cfg.StepSummaryPath, cfg.OutputPath); gh.Enabled() {
		notifiers = append(notifiers, gh)
	}
	if f.tweet {
		tw, err := notifier.NewTwitterNotifier(cfg.Location())
		if err != nil {
			return nil, fmt.Errorf("initializing Twitter notifier: %w", err)
		}
		notifiers = append(notifiers, tw)
	}
	if f.telegram {
		tg, err := notifier.NewTelegramNotifier(cfg.Location())
		if err != nil {
			return nil, fmt.Errorf("initializing Telegram notifier: %w", err)
		}
		notifiers = append(notifiers, tg)
	}

	return notifiers, nil
}

// runUpdate is the main command logic
func runUpdate(cmd *cobra.Command, f *rootFlags) error {
	format, order, err := parseOutputFlags(f)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	defer logger.Default().Sync() //nolint:errcheck

	logger.Debug("Configuration loaded", logger.Fields{
		"url":      cfg.SourceURL,
		"dataFile": cfg.DataFile,
		"year":     cfg.TargetYear,
		"dryRun":   f.dryRun,
	})

	store, err := storage.New(cfg.DataFile)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	n, err := buildNotifier(cmd, cfg, f)
	if err != nil {
		return err
	}

	u := updater.New(
		scraper.New(cfg.SourceURL, cfg.UserAgent, cfg.Timeout),
		newExtractor(cfg),
		store,
		n,
		updater.Options{DryRun: f.dryRun, Reconcile: cfg.ReconcileOptions()},
	)

	res, err := u.Run(commandContext(cmd))
	if err != nil {
		return err
	}

	if f.icsFile != "" {
		ics := calendar.GenerateICS(res.Dataset.Concerts, time.Now())
		if err := os.WriteFile(f.icsFile, []byte(ics), 0644); err != nil {
			return fmt.Errorf("writing calendar: %w", err)
		}
		logger.Info("Wrote calendar", logger.Fields{
			"path":     f.icsFile,
			"concerts": len(res.Dataset.Concerts),
		})
	}

	result := &OutputResult{
		CheckedAt:   time.Now().UTC(),
		RunID:       res.RunID,
		Source:      cfg.SourceURL,
		DataFile:    store.Path(),
		Scraped:     len(res.Scraped),
		Existing:    res.Existing,
		NewConcerts: sortedCopy(res.Added, order),
		AddedCount:  len(res.Added),
		Total:       len(res.Dataset.Concerts),
		Written:     res.Written,
		DryRun:      res.DryRun,
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, f.verbose, cfg.Location()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func newExtractCmd(f *rootFlags) *cobra.Command {
	var htmlFile string

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Show the concerts found on a listing page",
		Long: `Extracts concerts from the listing page (or a saved HTML file) and prints
them without reading or writing the dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, f, htmlFile)
		},
	}

	cmd.Flags().StringVar(&htmlFile, "html", "", "Read the listing from a local HTML file instead of fetching it")

	return cmd
}

func runExtract(cmd *cobra.Command, f *rootFlags, htmlFile string) error {
	format, order, err := parseOutputFlags(f)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	defer logger.Default().Sync() //nolint:errcheck

	var (
		src    io.Reader
		source string
	)
	if htmlFile != "" {
		file, err := os.Open(htmlFile)
		if err != nil {
			return fmt.Errorf("opening HTML file: %w", err)
		}
		defer file.Close()
		src, source = file, htmlFile
	} else {
		html, err := scraper.New(cfg.SourceURL, cfg.UserAgent, cfg.Timeout).Fetch(commandContext(cmd))
		if err != nil {
			return err
		}
		src, source = strings.NewReader(html), cfg.SourceURL
	}

	candidates, err := newExtractor(cfg).Extract(src)
	if err != nil {
		return fmt.Errorf("extracting concerts: %w", err)
	}
	sortCandidates(candidates, order)

	result := &ExtractResult{
		Source:   source,
		Year:     cfg.TargetYear,
		Concerts: candidates,
		Count:    len(candidates),
	}
	return WriteExtract(cmd.OutOrStdout(), result, format, cfg.Location())
}

// commandContext returns the command's context, which is nil when the command
// is executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func sortedCopy(concerts []concert.Concert, order SortOrder) []concert.Concert {
	out := make([]concert.Concert, len(concerts))
	copy(out, concerts)
	sortConcerts(out, order)
	return out
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
