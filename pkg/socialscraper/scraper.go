package socialscraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/bayrail/bayrail/pkg/cache"
	"github.com/bayrail/bayrail/pkg/util"
)

const scrapeCacheExpiry = 5 * time.Minute

// TimelineFetcher abstracts how timeline posts are obtained. A headless
// browser implementation would scroll the timeline to force more posts to
// render; that behaviour belongs entirely to the fetcher, the parser only
// ever sees text and timestamps.
type TimelineFetcher interface {
	FetchPosts(ctx context.Context) ([]Post, error)
}

// HTTPTimelineFetcher loads the timeline page over plain HTTP and extracts
// whatever posts are present in the served markup.
type HTTPTimelineFetcher struct {
	URL        string
	HTTPClient *http.Client
	UserAgent  string
}

func NewHTTPTimelineFetcher(url string) *HTTPTimelineFetcher {
	return &HTTPTimelineFetcher{
		URL:        url,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

func (f *HTTPTimelineFetcher) FetchPosts(ctx context.Context) ([]Post, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timeline returned %d", resp.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var posts []Post
	document.Find("article").Each(func(_ int, article *goquery.Selection) {
		timestamp, exists := article.Find("time").First().Attr("datetime")
		if !exists {
			return
		}

		postedAt, err := time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return
		}

		text := strings.TrimSpace(article.Find(`div[data-testid="tweetText"]`).First().Text())
		if text == "" {
			text = strings.TrimSpace(article.Text())
		}
		if text == "" {
			return
		}

		// Article fallback text can drag in the whole thread
		posts = append(posts, Post{Text: util.TrimString(text, 500), PostedAt: postedAt})
	})

	return posts, nil
}

// Scraper is the social feed delay source. Failures degrade to an empty
// delay list.
type Scraper struct {
	Fetcher TimelineFetcher

	cached *cache.TTL[[]TrainDelay]
}

func NewScraper(fetcher TimelineFetcher) *Scraper {
	return &Scraper{
		Fetcher: fetcher,
		cached:  cache.NewTTL[[]TrainDelay](scrapeCacheExpiry),
	}
}

func (s *Scraper) FetchDelays(ctx context.Context) []TrainDelay {
	if s.Fetcher == nil {
		return nil
	}

	delays, err := s.cached.Fetch(func() ([]TrainDelay, error) {
		posts, err := s.Fetcher.FetchPosts(ctx)
		if err != nil {
			return nil, err
		}

		delays := ParseTimeline(posts, time.Now())
		log.Info().Int("posts", len(posts)).Int("delays", len(delays)).Msg("Parsed social timeline")

		return delays, nil
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to scrape social timeline")
		return nil
	}

	return delays
}
