package realtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/proto"

	"github.com/bayrail/bayrail/pkg/cache"
	"github.com/bayrail/bayrail/pkg/rail"
)

const cacheExpiry = 30 * time.Second

type StopTimeEvent struct {
	DelaySeconds int
	Time         int64
}

type StopTimeUpdate struct {
	StopID               string
	StopSequence         int
	Arrival              *StopTimeEvent
	Departure            *StopTimeEvent
	ScheduleRelationship string
}

type TripUpdate struct {
	TripID    string
	RouteID   string
	StartDate string
	StartTime string

	StopTimeUpdates []StopTimeUpdate
}

type DelayInfo struct {
	Minutes int
	Status  rail.Status
}

// Client decodes the operator's GTFS-Realtime trip update feed. All failures
// degrade to an empty update list; a missing API key means the feed is simply
// not configured for this deployment.
type Client struct {
	APIBase string
	APIKey  string
	Agency  string

	HTTPClient *http.Client

	cached *cache.TTL[[]TripUpdate]
}

func NewClient(apiBase string, apiKey string, agency string) *Client {
	return &Client{
		APIBase:    apiBase,
		APIKey:     apiKey,
		Agency:     agency,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		cached:     cache.NewTTL[[]TripUpdate](cacheExpiry),
	}
}

// FetchTripUpdates returns the current snapshot of trip updates, cached for
// 30 seconds. It never returns an error: no credentials or a failed fetch
// both yield an empty list.
func (c *Client) FetchTripUpdates(ctx context.Context) []TripUpdate {
	if c.APIKey == "" {
		return nil
	}

	updates, err := c.cached.Fetch(func() ([]TripUpdate, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch trip updates feed")
		return nil
	}

	return updates
}

func (c *Client) fetch(ctx context.Context) ([]TripUpdate, error) {
	url := fmt.Sprintf("%s/tripupdates?api_key=%s&agency=%s", c.APIBase, c.APIKey, c.Agency)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trip updates feed returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	feed := gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding trip updates feed: %w", err)
	}

	return DecodeFeed(&feed), nil
}

// DecodeFeed flattens a feed snapshot into trip updates, dropping entities
// without a trip descriptor.
func DecodeFeed(feed *gtfs.FeedMessage) []TripUpdate {
	var updates []TripUpdate

	for _, entity := range feed.Entity {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil || tripUpdate.GetTrip() == nil {
			continue
		}

		trip := tripUpdate.GetTrip()
		update := TripUpdate{
			TripID:    trip.GetTripId(),
			RouteID:   trip.GetRouteId(),
			StartDate: trip.GetStartDate(),
			StartTime: trip.GetStartTime(),
		}

		for _, stu := range tripUpdate.GetStopTimeUpdate() {
			decoded := StopTimeUpdate{
				StopID:               stu.GetStopId(),
				StopSequence:         int(stu.GetStopSequence()),
				ScheduleRelationship: stu.GetScheduleRelationship().String(),
			}

			if stu.Arrival != nil {
				decoded.Arrival = &StopTimeEvent{
					DelaySeconds: int(stu.Arrival.GetDelay()),
					Time:         stu.Arrival.GetTime(),
				}
			}
			if stu.Departure != nil {
				decoded.Departure = &StopTimeEvent{
					DelaySeconds: int(stu.Departure.GetDelay()),
					Time:         stu.Departure.GetTime(),
				}
			}

			update.StopTimeUpdates = append(update.StopTimeUpdates, decoded)
		}

		updates = append(updates, update)
	}

	return updates
}

func isCancelledRelationship(relationship string) bool {
	return strings.EqualFold(relationship, "SKIPPED") || strings.EqualFold(relationship, "CANCELED")
}

// TripDelay finds the delay for a trip, matching by exact trip identifier
// first and falling back to the human train number (the feed sometimes keys
// trips by the bare number, or embeds it as a suffix of a longer identifier).
// Returns nil when the feed carries nothing for this trip.
func TripDelay(updates []TripUpdate, tripID string, trainNumber string) *DelayInfo {
	for _, update := range updates {
		if update.TripID == tripID {
			return calculateTripDelay(update)
		}
	}

	if trainNumber != "" {
		for _, update := range updates {
			if update.TripID == trainNumber || strings.HasSuffix(update.TripID, "-"+trainNumber) {
				return calculateTripDelay(update)
			}
		}
	}

	return nil
}

// calculateTripDelay reduces a trip's stop-time updates to a single delay:
// the maximum absolute delay observed along the journey, with any skipped or
// cancelled stop marking the whole trip cancelled regardless of the numbers.
// The reduction is commutative, so the result is independent of update order.
func calculateTripDelay(update TripUpdate) *DelayInfo {
	if len(update.StopTimeUpdates) == 0 {
		return nil
	}

	maxDelaySeconds := 0
	for _, stop := range update.StopTimeUpdates {
		if isCancelledRelationship(stop.ScheduleRelationship) {
			return &DelayInfo{Minutes: 0, Status: rail.StatusCancelled}
		}

		stopDelay := 0
		if stop.Departure != nil {
			stopDelay = stop.Departure.DelaySeconds
		} else if stop.Arrival != nil {
			stopDelay = stop.Arrival.DelaySeconds
		}

		if abs(stopDelay) > abs(maxDelaySeconds) {
			maxDelaySeconds = stopDelay
		}
	}

	delayMinutes := int(float64(maxDelaySeconds)/60 + 0.5)
	if maxDelaySeconds < 0 {
		delayMinutes = -int(float64(-maxDelaySeconds)/60 + 0.5)
	}

	status := rail.StatusOnTime
	if abs(delayMinutes) >= 1 {
		status = rail.StatusDelayed
	}

	return &DelayInfo{Minutes: delayMinutes, Status: status}
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
