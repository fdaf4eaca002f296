package fetch

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"sudburyscout/carscout/logger"
	"sudburyscout/carscout/pkg/errors"
)

// renderWait gives the page's scripts time to paint the listing cards before
// the DOM is captured.
const renderWait = 5 * time.Second

// challengeMarkers are substrings that betray an anti-automation
// interstitial instead of the listing page.
var challengeMarkers = []string{
	"captcha",
	"are you a human",
	"attention required",
	"access denied",
}

// BrowserFetcher drives a headless (or headful, for supervised runs) browser
// session to render the dynamic listing page.
type BrowserFetcher struct {
	Headless bool
	Timeout  time.Duration

	log *logger.Logger
}

func NewBrowserFetcher(headless bool, timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{
		Headless: headless,
		Timeout:  timeout,
		log:      logger.ForFetcher(),
	}
}

// Fetch navigates to url and returns the rendered markup. When the page
// comes back as an anti-automation challenge the fetcher parks on the
// operator gate and re-reads the DOM after the operator clears it by hand.
func (b *BrowserFetcher) Fetch(url string) (io.Reader, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	var markup string
	err := b.run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(renderWait),
		chromedp.OuterHTML("html", &markup),
	)
	if err != nil {
		return nil, errors.NewNetwork("browser", "page load failed", err)
	}

	if looksLikeChallenge(markup) {
		b.log.Warn().Str("url", url).Msg("Anti-automation challenge detected")
		AwaitOperator(os.Stdin, os.Stderr)

		// Re-read the DOM after the operator cleared the challenge.
		if err := b.run(ctx, chromedp.OuterHTML("html", &markup)); err != nil {
			return nil, errors.NewNetwork("browser", "post-challenge read failed", err)
		}
	}

	b.log.Info().Str("url", url).Int("bytes", len(markup)).Msg("Page rendered")
	return strings.NewReader(markup), nil
}

// run executes actions under the navigation timeout. The timeout covers one
// browser round-trip, never the operator gate.
func (b *BrowserFetcher) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func looksLikeChallenge(markup string) bool {
	lower := strings.ToLower(markup)
	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
