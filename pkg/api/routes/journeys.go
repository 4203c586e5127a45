package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"

	"github.com/modalmesh/modalmesh/pkg/coordinator"
)

func JourneysRouter(router fiber.Router, coord *coordinator.Coordinator) {
	router.Get("/", listJourneys(coord))
	router.Get("/:identifier", getJourney(coord))
	router.Post("/:identifier/book", bookJourney(coord))
	router.Delete("/:identifier", cancelJourneyMonitoring(coord))
}

type trackedJourneyResponse struct {
	Plan  interface{}              `json:"plan"`
	State coordinator.JourneyState `json:"state"`
}

func reduceTrackedJourney(journey *coordinator.TrackedJourney, groups []string) (*trackedJourneyResponse, error) {
	planReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, journey.Plan)

	if err != nil {
		return nil, err
	}

	return &trackedJourneyResponse{
		Plan:  planReduced,
		State: journey.State,
	}, nil
}

func listJourneys(coord *coordinator.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		journeys := []*trackedJourneyResponse{}

		for _, journey := range coord.TrackedJourneys() {
			journeyReduced, err := reduceTrackedJourney(journey, []string{"basic"})
			if err != nil {
				c.SendStatus(fiber.StatusInternalServerError)
				return c.JSON(fiber.Map{
					"error": "Sherrif could not reduce JourneyPlan",
				})
			}

			journeys = append(journeys, journeyReduced)
		}

		return c.JSON(journeys)
	}
}

func getJourney(coord *coordinator.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")

		journey, err := coord.GetTrackedJourney(identifier)
		if err != nil {
			c.SendStatus(fiber.StatusNotFound)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		journeyReduced, err := reduceTrackedJourney(journey, []string{"basic", "detailed"})
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce JourneyPlan",
			})
		}

		return c.JSON(journeyReduced)
	}
}

func bookJourney(coord *coordinator.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("identifier")

		bookings, err := coord.BookJourney(c.Context(), identifier)

		if err != nil {
			status := fiber.StatusConflict
			if errors.Is(err, coordinator.ErrJourneyNotFound) {
				status = fiber.StatusNotFound
			}

			c.SendStatus(status)
			return c.JSON(fiber.Map{
				"error":    err.Error(),
				"bookings": bookings,
			})
		}

		return c.JSON(fiber.Map{
			"bookings": bookings,
		})
	}
}

func cancelJourneyMonitoring(coord *coordinator.Coordinator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		coord.CancelJourneyMonitoring(c.Params("identifier"))

		return c.SendStatus(fiber.StatusNoContent)
	}
}
