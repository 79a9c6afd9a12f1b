package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/trainboard/trainboard/pkg/api/routes"
)

type Services struct {
	Trains   routes.TrainService
	Stations routes.StationDirectory
	Assets   routes.AssetReader

	RequestTimeout   time.Duration
	CORSAllowOrigins string
}

func NewApp(services Services) *fiber.App {
	webApp := fiber.New(fiber.Config{
		UnescapePath: true,
	})
	webApp.Use(NewLogger())
	webApp.Use(cors.New(cors.Config{
		AllowOrigins: services.CORSAllowOrigins,
	}))

	webApp.Get("version", routes.APIVersion)

	group := webApp.Group("/api")

	routes.TrainsRouter(group.Group("/trains"), services.Trains, services.RequestTimeout)
	routes.StationsRouter(group.Group("/stations"), services.Stations)

	routes.AssetsRouter(webApp.Group("/assets"), services.Assets)

	return webApp
}

func SetupServer(listen string, services Services) error {
	return NewApp(services).Listen(listen)
}
