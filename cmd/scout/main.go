// Command scout runs one scrape pass as an offline, human-supervised batch:
// fetch the listing page, extract and deduplicate listings, write the batch
// file, load it into PostgreSQL and publish the newly stored rows.
package main

import (
	"context"
	"flag"
	"io"
	"net/url"

	"github.com/joho/godotenv"

	"sudburyscout/carscout/config"
	"sudburyscout/carscout/internal/fetch"
	"sudburyscout/carscout/internal/scrape"
	"sudburyscout/carscout/internal/store"
	"sudburyscout/carscout/logger"
	"sudburyscout/carscout/services/cache"
	"sudburyscout/carscout/services/notify"
)

func main() {
	cleanLinks := flag.Bool("clean-links", false, "delete stored listings with broken links and exit")
	skipFetch := flag.String("from-batch", "", "skip fetching and load an existing batch file")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	if *cleanLinks {
		runCleanLinks(cfg)
		return
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("target", cfg.TargetURL).
		Bool("browser", cfg.UseBrowser).
		Msg("Starting scout batch")

	listings := collectListings(cfg, *skipFetch)
	if len(listings) == 0 {
		log.Warn().Msg("No listings extracted; nothing to load")
		return
	}

	if *skipFetch == "" {
		if err := scrape.WriteBatch(cfg.BatchFile, listings); err != nil {
			log.Fatal().Err(err).Str("file", cfg.BatchFile).Msg("Batch file write failed")
		}
		log.Info().Int("count", len(listings)).Str("file", cfg.BatchFile).Msg("Batch file written")
	}

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set; skipping database load")
		return
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Store open failed")
	}
	defer st.Close()

	inserted, skipped, err := st.LoadBatch(listings)
	if err != nil {
		log.Fatal().Err(err).Msg("Database load failed")
	}
	log.Info().
		Int("inserted", len(inserted)).
		Int("skipped", skipped).
		Msg("Database load complete")

	notifyNewListings(cfg, st, inserted)
}

// collectListings produces the listing set for this pass, either from a
// fresh page fetch or from a previously written batch file.
func collectListings(cfg *config.Config, batchPath string) []scrape.Listing {
	log := logger.Default

	if batchPath != "" {
		listings, err := scrape.ReadBatch(batchPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", batchPath).Msg("Batch file read failed")
		}
		log.Info().Int("count", len(listings)).Str("file", batchPath).Msg("Loaded existing batch")
		return listings
	}

	markup, err := fetchMarkup(cfg)
	if err != nil {
		// Network failure is fatal to the attempt: fail closed, no retry.
		log.Fatal().Err(err).Msg("Page fetch failed")
	}

	policy := scrape.SignatureTitlePrice
	if cfg.StrictDedup {
		policy = scrape.SignatureTitlePriceMileage
	}

	pipeline := scrape.NewPipeline(cfg.SiteOrigin, seedSelector(cfg.SeedClassHints), policy)
	listings, err := pipeline.Run(markup)
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}
	return listings
}

func fetchMarkup(cfg *config.Config) (io.Reader, error) {
	if cfg.UseBrowser {
		return fetch.NewBrowserFetcher(cfg.Headless, cfg.BrowserTimeout).Fetch(cfg.TargetURL)
	}

	cacheKey := "fetch"
	if u, err := url.Parse(cfg.TargetURL); err == nil {
		cacheKey = "fetch:" + u.Host
	}
	fetcher := fetch.NewFetcher(
		cfg.TargetURL,
		cacheKey,
		cache.NewMemcacheService(cfg.MemcacheAddr),
		cfg.FetchBlockTime,
	)
	return fetcher.Fetch()
}

func seedSelector(classHints []string) scrape.Selector {
	sel := make(scrape.AnySelector, 0, len(classHints))
	for _, hint := range classHints {
		sel = append(sel, scrape.ClassSubstringSelector{Fragment: hint})
	}
	return sel
}

// notifyNewListings publishes inserted listings and any alert matches.
// Publishing is best-effort; failures are logged and the batch still counts.
func notifyNewListings(cfg *config.Config, st *store.Store, inserted []scrape.Listing) {
	if len(inserted) == 0 {
		return
	}
	log := logger.ForNotifier()

	notifier := notify.NewRedisNotifier(
		context.Background(),
		cfg.RedisAddr,
		cfg.RedisDB,
		cfg.RedisStream,
		cfg.RedisStreamCount,
		cfg.RedisStreamMaxLength,
	)
	defer notifier.Close()

	alerts, err := st.ListAlerts()
	if err != nil {
		log.Warn().Err(err).Msg("Alert lookup failed; publishing listings only")
		alerts = nil
	}

	for _, listing := range inserted {
		if err := notifier.PublishListing(listing); err != nil {
			log.Warn().Err(err).Str("link", listing.Link).Msg("Listing publish failed")
		}
		for _, alert := range alerts {
			if notify.Matches(alert, listing) {
				if err := notifier.PublishAlertMatch(alert, listing); err != nil {
					log.Warn().Err(err).Str("email", alert.Email).Msg("Alert match publish failed")
				}
			}
		}
	}

	if err := notifier.TrimStreams(); err != nil {
		log.Warn().Err(err).Msg("Stream trim failed")
	}
	log.Info().Int("published", len(inserted)).Msg("Notifications published")
}

func runCleanLinks(cfg *config.Config) {
	log := logger.ForStore()

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL must be set for -clean-links")
	}
	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Store open failed")
	}
	defer st.Close()

	removed, remaining, err := st.CleanBrokenLinks()
	if err != nil {
		log.Fatal().Err(err).Msg("Broken link cleanup failed")
	}
	log.Info().
		Int64("removed", removed).
		Int64("remaining", remaining).
		Msg("Broken link cleanup complete")
}
