package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modalmesh/modalmesh/pkg/coordinator"
	"github.com/modalmesh/modalmesh/pkg/provider"
)

func ProvidersRouter(router fiber.Router, coord *coordinator.Coordinator) {
	router.Get("/", listProviders(coord))
}

type providerResponse struct {
	Name         string                `json:"name"`
	Capabilities provider.Capabilities `json:"capabilities"`
}

func listProviders(coord *coordinator.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		providers := []providerResponse{}

		for _, registered := range coord.Registry.All() {
			providers = append(providers, providerResponse{
				Name:         registered.Name(),
				Capabilities: registered.Capabilities(),
			})
		}

		return c.JSON(providers)
	}
}
