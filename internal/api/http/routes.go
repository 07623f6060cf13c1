package httpapi

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tomorrowcast/internal/geocode"
	"tomorrowcast/internal/pipeline"
)

var validate = validator.New()

// addressRequest is the payload for both the geocode proxy and the forecast
// submission route.
type addressRequest struct {
	Address string `json:"address" validate:"required"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, geocoder geocode.Client, session *pipeline.Session) {
	// Liveness.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello!")
	})

	// Geocode proxy: forwards a one-line address to the Census geocoder and
	// normalizes the response to a bare coordinate pair.
	app.Post("/getCoordinates", func(c *fiber.Ctx) error {
		var req addressRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Address input is incorrect!")
		}
		if err := validate.Struct(req); err != nil {
			return badRequest(c, "Address input is incorrect!")
		}

		coords, err := geocoder.Geocode(c.Context(), req.Address)
		if err != nil {
			slog.Warn("geocode proxy failed", "error", err.Error())
			return badRequest(c, "Something went wrong trying to geocode address.")
		}

		return c.JSON(coords)
	})

	// Submit an address and run the pipeline to a fresh forecast window.
	app.Post("/forecast", func(c *fiber.Ctx) error {
		var req addressRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Address input is incorrect!")
		}
		if err := validate.Struct(req); err != nil {
			return badRequest(c, "Address input is incorrect!")
		}

		state, err := session.Submit(c.Context(), req.Address)
		switch {
		case err == nil:
			return c.JSON(state)
		case errors.Is(err, pipeline.ErrEmptyAddress), errors.Is(err, geocode.ErrNoAddressMatch):
			return badRequest(c, err.Error())
		case errors.Is(err, pipeline.ErrSuperseded):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": err.Error(),
			})
		default:
			slog.Warn("forecast pipeline failed", "error", err.Error())
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "Something went wrong fetching the forecast.",
			})
		}
	})

	// Current session state: window, station, loading flag, last error.
	app.Get("/forecast", func(c *fiber.Ctx) error {
		return c.JSON(session.Snapshot())
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
