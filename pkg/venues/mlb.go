package venues

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	giantsTeamID   = 137
	mlbScheduleURL = "https://statsapi.mlb.com/api/v1/schedule"
)

type mlbScheduleResponse struct {
	Dates []struct {
		Games []struct {
			GameDate time.Time `json:"gameDate"`
			Teams    struct {
				Home struct {
					Team struct {
						ID   int    `json:"id"`
						Name string `json:"name"`
					} `json:"team"`
				} `json:"home"`
				Away struct {
					Team struct {
						Name string `json:"name"`
					} `json:"team"`
				} `json:"away"`
			} `json:"teams"`
		} `json:"games"`
	} `json:"dates"`
}

// MLBClient reads the public MLB Stats API, which needs no key. Only Giants
// home games matter to the line; Oracle Park sits a block from the San
// Francisco terminus.
type MLBClient struct {
	HTTPClient *http.Client
}

func (c *MLBClient) HomeGames(ctx context.Context) ([]Event, error) {
	now := time.Now()
	url := fmt.Sprintf(
		"%s?sportId=1&teamId=%d&startDate=%s&endDate=%s",
		mlbScheduleURL, giantsTeamID,
		now.Format("2006-01-02"), now.AddDate(0, 0, 7).Format("2006-01-02"),
	)

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
		return nil, fmt.Errorf("mlb stats api returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var schedule mlbScheduleResponse
	if err := json.Unmarshal(body, &schedule); err != nil {
		return nil, err
	}

	venue := GetByID("oracle-park")

	var events []Event
	for _, date := range schedule.Dates {
		for _, game := range date.Games {
			if game.Teams.Home.Team.ID != giantsTeamID {
				continue
			}

			events = append(events, Event{
				VenueID:         venue.ID,
				VenueName:       venue.Name,
				Name:            fmt.Sprintf("Giants vs %s", game.Teams.Away.Team.Name),
				Type:            "baseball",
				StartTime:       game.GameDate,
				NearestStations: venue.NearestStations,
				CrowdLevel:      CrowdHigh,
			})
		}
	}

	return events, nil
}
