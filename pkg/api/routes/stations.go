package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/trainboard/trainboard/pkg/stations"
	"github.com/trainboard/trainboard/pkg/traffic"
)

// StationDirectory hands out a resolver over the current reference tables.
type StationDirectory interface {
	Resolver() *stations.Resolver
}

type stationResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Kind       traffic.StationKind `json:"kind"`
	MaxDisplay *int                `json:"maxDisplay,omitempty"`
	LineCode   string              `json:"lineCode"`
}

func newStationResponse(resolver *stations.Resolver, record traffic.StationRecord) stationResponse {
	return stationResponse{
		ID:         record.ID,
		Name:       record.Name,
		Kind:       record.Kind,
		MaxDisplay: record.MaxDisplay,
		LineCode:   resolver.DeriveLineCode(record.ID),
	}
}

func StationsRouter(router fiber.Router, directory StationDirectory) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listLocations(c, directory.Resolver(), (*stations.Resolver).Stations)
	})
	router.Get("/sections", func(c *fiber.Ctx) error {
		return listLocations(c, directory.Resolver(), (*stations.Resolver).Sections)
	})
	router.Get("/id/:id", func(c *fiber.Ctx) error {
		return getLocation(c, directory.Resolver(), c.Params("id"))
	})
	router.Get("/name/:name", func(c *fiber.Ctx) error {
		return getLocation(c, directory.Resolver(), c.Params("name"))
	})
}

func listLocations(c *fiber.Ctx, resolver *stations.Resolver, list func(*stations.Resolver) []traffic.StationRecord) error {
	records := list(resolver)

	response := make([]stationResponse, 0, len(records))
	for _, record := range records {
		response = append(response, newStationResponse(resolver, record))
	}

	return c.JSON(response)
}

func getLocation(c *fiber.Ctx, resolver *stations.Resolver, identifier string) error {
	record, err := resolver.Resolve(identifier)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(newStationResponse(resolver, record))
}
