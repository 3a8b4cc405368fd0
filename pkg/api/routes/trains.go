package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/sourcegraph/conc"

	"github.com/bayrail/bayrail/pkg/alertscraper"
	"github.com/bayrail/bayrail/pkg/departures"
	"github.com/bayrail/bayrail/pkg/realtime"
	"github.com/bayrail/bayrail/pkg/reconcile"
	"github.com/bayrail/bayrail/pkg/socialscraper"
	"github.com/bayrail/bayrail/pkg/stations"
)

// DelaySources are the live collaborators consulted on every trains request.
// Each one caches internally and never returns an error, only an empty
// result, so a flaky upstream degrades the answer instead of failing it.
type DelaySources struct {
	TripUpdates  *realtime.Client
	AlertScraper *alertscraper.Scraper
	Social       *socialscraper.Scraper
}

func TrainsRouter(router fiber.Router, planner *departures.Planner, sources DelaySources) {
	router.Get("/", func(c *fiber.Ctx) error {
		return getTrains(c, planner, sources)
	})
}

func getTrains(c *fiber.Ctx, planner *departures.Planner, sources DelaySources) error {
	originID := c.Query("origin")
	destinationID := c.Query("destination")

	if originID == "" || destinationID == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Both origin and destination must be provided",
		})
	}

	origin := stations.GetByID(originID)
	destination := stations.GetByID(destinationID)
	if origin == nil || destination == nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Could not find Station matching Station Identifier",
		})
	}

	direction, err := stations.ResolveDirection(originID, destinationID)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Origin and destination must be distinct stations",
		})
	}

	asOf := time.Now()
	if dateQuery := c.Query("date"); dateQuery != "" {
		date, err := time.ParseInLocation("2006-01-02", dateQuery, planner.Store.Location)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Date must be formatted YYYY-MM-DD",
			})
		}

		if date.Format("2006-01-02") != asOf.In(planner.Store.Location).Format("2006-01-02") {
			asOf = date
		}
	}

	delayCtx := collectDelays(c, sources)

	trains, err := planner.UpcomingTrains(originID, destinationID, asOf, delayCtx)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	scheduleSynthetic := false
	if len(trains) == 0 {
		trains = departures.SyntheticSchedule(originID, destinationID, asOf, planner.Store.Location)
		scheduleSynthetic = true
	}

	trains, delaysSynthetic := reconcile.Apply(trains, delayCtx)

	trainsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, trains)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Trains",
		})
	}

	return c.JSON(fiber.Map{
		"origin":             reduceStation(origin),
		"destination":        reduceStation(destination),
		"direction":          direction,
		"trains":             trainsReduced,
		"schedule_synthetic": scheduleSynthetic,
		"delays_synthetic":   delaysSynthetic,
	})
}

// collectDelays fans out to every delay source at once and joins before
// returning; reconciliation must never observe a half-fetched context. The
// alert_text query bypasses the scraper so callers can replay a known
// advisory text.
func collectDelays(c *fiber.Ctx, sources DelaySources) reconcile.DelayContext {
	ctx := c.Context()

	var tripUpdates []realtime.TripUpdate
	var alerts []alertscraper.Alert
	var socialDelays []socialscraper.TrainDelay

	alertTextOverride := c.Query("alert_text")

	wait := conc.NewWaitGroup()
	wait.Go(func() {
		tripUpdates = sources.TripUpdates.FetchTripUpdates(ctx)
	})
	wait.Go(func() {
		if alertTextOverride != "" {
			alerts = alertscraper.ParseAlertsFromText(alertTextOverride)
		} else {
			alerts = sources.AlertScraper.FetchAlerts(ctx)
		}
	})
	wait.Go(func() {
		socialDelays = sources.Social.FetchDelays(ctx)
	})
	wait.Wait()

	return reconcile.DelayContext{
		TripUpdates:      tripUpdates,
		AlertDelays:      alertscraper.ExtractTrainDelays(alerts),
		SystemWideAlerts: alertscraper.SystemWideDelays(alerts),
		SocialDelays:     socialscraper.DelayMap(socialDelays),
	}
}

func reduceStation(station *stations.Station) interface{} {
	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, station)
	if err != nil {
		return nil
	}

	return reduced
}
