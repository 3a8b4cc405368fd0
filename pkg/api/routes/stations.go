package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/bayrail/bayrail/pkg/stations"
)

func StationsRouter(router fiber.Router) {
	router.Get("/", listStations)
	router.Get("/:identifier", getStation)
}

// listStations returns every station in north to south order.
func listStations(c *fiber.Ctx) error {
	stationsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, stations.Stations)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Stations",
		})
	}

	return c.JSON(stationsReduced)
}

func getStation(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	station := stations.GetByID(identifier)
	if station == nil {
		station = stations.GetByName(identifier)
	}

	if station == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Station matching Station Identifier",
		})
	}

	return c.JSON(reduceStation(station))
}
