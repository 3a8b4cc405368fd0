package alertscraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/bayrail/bayrail/pkg/cache"
)

const scrapeCacheExpiry = 5 * time.Minute

// PageFetcher abstracts how raw alert text is obtained. The parsing above is
// pure; only this boundary touches the network.
type PageFetcher interface {
	FetchAlertText(ctx context.Context) (string, error)
}

// HTTPPageFetcher loads the operator alerts page over plain HTTP and
// extracts the text of the alert containers with goquery.
type HTTPPageFetcher struct {
	URL        string
	HTTPClient *http.Client
}

func NewHTTPPageFetcher(url string) *HTTPPageFetcher {
	return &HTTPPageFetcher{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *HTTPPageFetcher) FetchAlertText(ctx context.Context) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.HTTPClient.Do(request)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("alerts page returned %d", resp.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	var fragments []string
	document.Find(".pads_service_alerts, .gtfs_rt_service_alerts").Each(func(_ int, container *goquery.Selection) {
		container.Find("div, p, li").Each(func(_ int, element *goquery.Selection) {
			text := strings.TrimSpace(element.Text())
			if len(text) <= 10 {
				return
			}
			// Skip page boilerplate around the alert list
			if strings.Contains(text, "Tip:") ||
				strings.Contains(text, "These are official") ||
				strings.Contains(text, "These alerts") {
				return
			}

			fragments = append(fragments, text)
		})
	})

	return strings.Join(fragments, "\n"), nil
}

// Scraper is the text alert-scraping delay source. Failures degrade to an
// empty alert list; results are cached for 5 minutes.
type Scraper struct {
	Fetcher PageFetcher

	cached *cache.TTL[[]Alert]
}

func NewScraper(fetcher PageFetcher) *Scraper {
	return &Scraper{
		Fetcher: fetcher,
		cached:  cache.NewTTL[[]Alert](scrapeCacheExpiry),
	}
}

func (s *Scraper) FetchAlerts(ctx context.Context) []Alert {
	if s.Fetcher == nil {
		return nil
	}

	alerts, err := s.cached.Fetch(func() ([]Alert, error) {
		text, err := s.Fetcher.FetchAlertText(ctx)
		if err != nil {
			return nil, err
		}

		alerts := ParseAlertsFromText(text)
		log.Info().Int("alerts", len(alerts)).Msg("Parsed scraped alert text")

		return alerts, nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to scrape alerts page")
		return nil
	}

	return alerts
}
