package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/bayrail/bayrail/pkg/util"
	"github.com/bayrail/bayrail/pkg/venues"
)

func EventsRouter(router fiber.Router, aggregator *venues.Aggregator) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getEvents(c, aggregator)
	})
}

// getEvents lists crowd-generating venue events over the coming week,
// optionally filtered to one calendar date or to events near one station.
func getEvents(c *fiber.Ctx, aggregator *venues.Aggregator) error {
	events := aggregator.UpcomingEvents(c.Context())

	if dateFilter := c.Query("date"); dateFilter != "" {
		if _, err := time.Parse("2006-01-02", dateFilter); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Date must be formatted YYYY-MM-DD",
			})
		}

		filtered := []venues.Event{}
		for _, event := range events {
			if event.StartTime.Format("2006-01-02") == dateFilter {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	if stationFilter := c.Query("station"); stationFilter != "" {
		filtered := []venues.Event{}
		for _, event := range events {
			if util.ContainsString(event.NearestStations, stationFilter) {
				filtered = append(filtered, event)
			}
		}
		events = filtered
	}

	eventsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, events)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Events",
		})
	}

	return c.JSON(fiber.Map{
		"events": eventsReduced,
	})
}
