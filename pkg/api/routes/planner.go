package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/modalmesh/modalmesh/pkg/coordinator"
	"github.com/modalmesh/modalmesh/pkg/mmdf"
)

var validate = validator.New()

func PlannerRouter(router fiber.Router, coord *coordinator.Coordinator) {
	router.Post("/", planJourney(coord))
}

type planLocationRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`

	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
}

type planJourneyRequest struct {
	Origin      planLocationRequest  `json:"origin" validate:"required"`
	Destination planLocationRequest  `json:"destination" validate:"required"`
	Preferences mmdf.UserPreferences `json:"preferences"`
}

func (r planLocationRequest) toLocationPoint() mmdf.LocationPoint {
	kind := mmdf.LocationPointKind(r.Kind)
	if r.Kind == "" {
		kind = mmdf.LocationPointKindAddress
	}

	return mmdf.LocationPoint{
		Name: r.Name,
		Kind: kind,

		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func planJourney(coord *coordinator.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var request planJourneyRequest

		if err := c.BodyParser(&request); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Request body must be a valid plan request",
			})
		}

		if err := validate.Struct(request); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		plans, err := coord.PlanJourney(
			c.Context(),
			request.Origin.toLocationPoint(),
			request.Destination.toLocationPoint(),
			request.Preferences,
		)

		if err != nil {
			c.SendStatus(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		groups := []string{"basic"}
		if c.QueryBool("detailed") {
			groups = append(groups, "detailed")
		}

		plansReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: groups,
		}, plans)

		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce JourneyPlans",
			})
		}

		return c.JSON(plansReduced)
	}
}
