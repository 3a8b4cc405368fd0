package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/sourcegraph/conc"

	"github.com/bayrail/bayrail/pkg/alertscraper"
	"github.com/bayrail/bayrail/pkg/realtime"
)

type AlertSources struct {
	Scraper *alertscraper.Scraper
	Feed    *realtime.AlertsClient
}

func AlertsRouter(router fiber.Router, sources AlertSources) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getAlerts(c, sources)
	})
}

func getAlerts(c *fiber.Ctx, sources AlertSources) error {
	var scraped []alertscraper.Alert
	var feedAlerts []realtime.ServiceAlert

	wait := conc.NewWaitGroup()
	wait.Go(func() {
		scraped = sources.Scraper.FetchAlerts(c.Context())
	})
	wait.Go(func() {
		feedAlerts = sources.Feed.FetchServiceAlerts(c.Context())
	})
	wait.Wait()

	mockData := false
	if len(scraped) == 0 && len(feedAlerts) == 0 {
		scraped = mockAlerts()
		mockData = true
	}

	scrapedReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, scraped)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Alerts",
		})
	}

	feedReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, feedAlerts)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Service Alerts",
		})
	}

	return c.JSON(fiber.Map{
		"alerts":         scrapedReduced,
		"service_alerts": feedReduced,
		"mock_data":      mockData,
	})
}

// mockAlerts keeps the endpoint demonstrable when every upstream is
// unreachable, clearly flagged via mock_data.
func mockAlerts() []alertscraper.Alert {
	return []alertscraper.Alert{
		alertscraper.ParseAlert("Train 152 is delayed by 12 minutes due to mechanical issues"),
		alertscraper.ParseAlert("Elevator at Hillsdale station is out of service"),
	}
}
