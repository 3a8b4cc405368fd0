package venues

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const mosconeCalendarURL = "https://www.moscone.com/attendees/upcoming-events"

var attendancePattern = regexp.MustCompile(`(?i)([\d,]+)\s*(?:expected\s+)?attendees`)

// MosconeClient scrapes the convention centre's public event calendar.
// Attendance figures, when listed, drive the crowd estimate; the biggest
// conventions put tens of thousands of riders onto the morning trains.
type MosconeClient struct {
	HTTPClient *http.Client
}

func (c *MosconeClient) Conventions(ctx context.Context) ([]Event, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, mosconeCalendarURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moscone calendar returned %d", resp.StatusCode)
	}

	document, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	venue := GetByID("moscone-center")

	var events []Event
	document.Find(".event-item, .views-row").Each(func(_ int, selection *goquery.Selection) {
		name := strings.TrimSpace(selection.Find("h3, .event-title").First().Text())
		if name == "" {
			return
		}

		startTime, ok := parseEventDate(selection.Find(".event-date, time").First().Text())
		if !ok {
			return
		}

		events = append(events, Event{
			VenueID:         venue.ID,
			VenueName:       venue.Name,
			Name:            name,
			Type:            "convention",
			StartTime:       startTime,
			NearestStations: venue.NearestStations,
			CrowdLevel:      crowdLevelForAttendance(selection.Text()),
		})
	})

	return events, nil
}

func parseEventDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "2006-01-02"} {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}

func crowdLevelForAttendance(text string) CrowdLevel {
	match := attendancePattern.FindStringSubmatch(text)
	if match == nil {
		return CrowdModerate
	}

	attendance, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return CrowdModerate
	}

	switch {
	case attendance >= 20000:
		return CrowdHigh
	case attendance >= 5000:
		return CrowdModerate
	default:
		return CrowdLow
	}
}
