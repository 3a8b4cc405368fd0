package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/bayrail/bayrail/pkg/stations"
	"github.com/bayrail/bayrail/pkg/weather"
)

func WeatherRouter(router fiber.Router, client *weather.Client) {
	router.Get("/:station", func(c *fiber.Ctx) error {
		return getWeather(c, client)
	})
}

func getWeather(c *fiber.Ctx, client *weather.Client) error {
	station := stations.GetByID(c.Params("station"))
	if station == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Station matching Station Identifier",
		})
	}

	data, mockData := client.ForStation(c.Context(), station)

	dataReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, data)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Weather",
		})
	}

	return c.JSON(fiber.Map{
		"station":   reduceStation(station),
		"weather":   dataReduced,
		"mock_data": mockData,
	})
}
