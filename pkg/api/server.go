package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modalmesh/modalmesh/pkg/api/routes"
	"github.com/modalmesh/modalmesh/pkg/coordinator"
)

func SetupServer(listen string, coord *coordinator.Coordinator) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.PlannerRouter(group.Group("/planner"), coord)

	routes.JourneysRouter(group.Group("/journeys"), coord)

	routes.ProvidersRouter(group.Group("/providers"), coord)

	return webApp.Listen(listen)
}
