package venues

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"golang.org/x/exp/slices"

	"github.com/bayrail/bayrail/pkg/cache"
)

const eventCacheExpiry = 24 * time.Hour

type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "low"
	CrowdModerate CrowdLevel = "moderate"
	CrowdHigh     CrowdLevel = "high"
)

// Event is a single crowd-generating happening at a venue on the line.
type Event struct {
	VenueID         string     `json:"venue_id" groups:"basic"`
	VenueName       string     `json:"venue_name" groups:"basic"`
	Name            string     `json:"name" groups:"basic"`
	Type            string     `json:"type" groups:"basic"`
	StartTime       time.Time  `json:"start_time" groups:"basic"`
	NearestStations []string   `json:"nearest_stations" groups:"basic"`
	CrowdLevel      CrowdLevel `json:"crowd_level" groups:"basic"`
}

// Aggregator fans out to every event source concurrently and merges the
// results into one chronological list, cached for a day. Individual source
// failures are logged and drop that source's events, never the whole list.
type Aggregator struct {
	MLB          *MLBClient
	Ticketmaster *TicketmasterClient
	Moscone      *MosconeClient

	cached *cache.TTL[[]Event]
}

func NewAggregator(ticketmasterAPIKey string) *Aggregator {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	return &Aggregator{
		MLB:          &MLBClient{HTTPClient: httpClient},
		Ticketmaster: &TicketmasterClient{APIKey: ticketmasterAPIKey, HTTPClient: httpClient},
		Moscone:      &MosconeClient{HTTPClient: httpClient},
		cached:       cache.NewTTL[[]Event](eventCacheExpiry),
	}
}

// UpcomingEvents returns events starting within the next week, sorted by
// start time.
func (a *Aggregator) UpcomingEvents(ctx context.Context) []Event {
	events, err := a.cached.Fetch(func() ([]Event, error) {
		return a.collect(ctx), nil
	})
	if err != nil {
		return nil
	}

	return events
}

func (a *Aggregator) collect(ctx context.Context) []Event {
	var mutex sync.Mutex
	var events []Event

	appendEvents := func(source string, found []Event, err error) {
		if err != nil {
			log.Error().Err(err).Str("source", source).Msg("Event source failed")
			return
		}

		mutex.Lock()
		events = append(events, found...)
		mutex.Unlock()
	}

	wait := conc.NewWaitGroup()
	wait.Go(func() {
		found, err := a.MLB.HomeGames(ctx)
		appendEvents("mlb", found, err)
	})
	wait.Go(func() {
		found, err := a.Moscone.Conventions(ctx)
		appendEvents("moscone", found, err)
	})
	for _, venue := range Venues {
		if venue.TicketmasterID == "" {
			continue
		}

		venue := venue
		wait.Go(func() {
			found, err := a.Ticketmaster.VenueEvents(ctx, venue)
			appendEvents("ticketmaster", found, err)
		})
	}
	wait.Wait()

	cutoff := time.Now().Add(7 * 24 * time.Hour)
	filtered := events[:0]
	for _, event := range events {
		if event.StartTime.Before(cutoff) {
			filtered = append(filtered, event)
		}
	}

	slices.SortFunc(filtered, func(a Event, b Event) int {
		return a.StartTime.Compare(b.StartTime)
	})

	return filtered
}
