package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bayrail/bayrail/pkg/alertscraper"
	"github.com/bayrail/bayrail/pkg/api/routes"
	"github.com/bayrail/bayrail/pkg/config"
	"github.com/bayrail/bayrail/pkg/departures"
	"github.com/bayrail/bayrail/pkg/realtime"
	"github.com/bayrail/bayrail/pkg/socialscraper"
	"github.com/bayrail/bayrail/pkg/timetable"
	"github.com/bayrail/bayrail/pkg/venues"
	"github.com/bayrail/bayrail/pkg/weather"
)

func SetupServer(listen string) error {
	transit := config.Config.Transit

	store := timetable.NewStore(transit.ScheduleURL, transit.LocalGTFSDir, transit.APIKey)
	planner := departures.NewPlanner(store)

	alertFetcher := alertscraper.NewHTTPPageFetcher(config.Config.Scrapers.AlertsURL)
	socialFetcher := socialscraper.NewHTTPTimelineFetcher(config.Config.Scrapers.TimelineURL)

	delaySources := routes.DelaySources{
		TripUpdates:  realtime.NewClient(transit.RealtimeAPIBase, transit.APIKey, transit.Agency),
		AlertScraper: alertscraper.NewScraper(alertFetcher),
		Social:       socialscraper.NewScraper(socialFetcher),
	}
	alertSources := routes.AlertSources{
		Scraper: delaySources.AlertScraper,
		Feed:    realtime.NewAlertsClient(transit.RealtimeAPIBase, transit.APIKey, transit.Agency),
	}

	webApp := fiber.New()
	webApp.Use(NewLogger())

	webApp.Get("version", routes.APIVersion)

	routes.StationsRouter(webApp.Group("/stations"))
	routes.TrainsRouter(webApp.Group("/trains"), planner, delaySources)
	routes.AlertsRouter(webApp.Group("/alerts"), alertSources)
	routes.WeatherRouter(webApp.Group("/weather"), weather.NewClient(config.Config.Enrichment.WeatherAPIKey))
	routes.EventsRouter(webApp.Group("/events"), venues.NewAggregator(config.Config.Enrichment.TicketmasterAPIKey))

	return webApp.Listen(listen)
}
