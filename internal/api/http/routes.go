package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/lunar-insights/internal/geo"
	"github.com/i474232898/lunar-insights/internal/location"
	"github.com/i474232898/lunar-insights/internal/store"
	"github.com/i474232898/lunar-insights/internal/view"
	"github.com/i474232898/lunar-insights/internal/weather"
)

var validate = weather.Validator()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, resolver *location.Resolver, snapshots *store.MemoryStore, canvas view.Canvas) {
	v1 := app.Group("/api/v1")

	v1.Post("/location/device", func(c *fiber.Ctx) error {
		seq, err := resolver.ResolveFromDevice(c.UserContext())
		if err != nil {
			return fiber.NewError(geoStatus(err), geo.Message(err))
		}
		return c.Status(fiber.StatusAccepted).JSON(issued(resolver, seq, true))
	})

	v1.Post("/location/zip", func(c *fiber.Ctx) error {
		var req zipRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		seq, err := resolver.ResolveFromZip(req.Zip)
		if err != nil {
			if errors.Is(err, weather.ErrInvalidZip) {
				return fiber.NewError(fiber.StatusBadRequest, "zip code must start with five digits")
			}
			return err
		}
		if seq == 0 {
			return c.JSON(issued(resolver, 0, false))
		}
		return c.Status(fiber.StatusAccepted).JSON(issued(resolver, seq, true))
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		seq, ok := resolver.Refresh()
		if !ok {
			return c.JSON(issued(resolver, 0, false))
		}
		return c.Status(fiber.StatusAccepted).JSON(issued(resolver, seq, true))
	})

	v1.Get("/status", func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{
			Phase:    resolver.Phase(),
			Location: resolver.State(),
			Fetch:    snapshots.Current(),
		})
	})

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		// The latest loaded snapshot stays readable while a newer fetch is
		// loading or after it failed; Stale tells the renderer which case it is.
		snap, err := snapshots.GetLatest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data loaded yet")
			}
			return err
		}
		return c.JSON(dashboardResponse{
			Stale:     snapshots.Current().State != store.StateLoaded,
			Dashboard: view.Build(snap, canvas),
		})
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		snaps, err := snapshots.History()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history")
			}
			return err
		}
		return c.JSON(fiber.Map{"snapshots": snaps})
	})
}

// zipRequest is the body of a zip search.
type zipRequest struct {
	Zip string `json:"zip" validate:"required"`
}

type issuedResponse struct {
	Accepted bool           `json:"accepted"`
	Seq      uint64         `json:"seq,omitempty"`
	Phase    location.Phase `json:"phase"`
}

func issued(r *location.Resolver, seq uint64, accepted bool) issuedResponse {
	return issuedResponse{Accepted: accepted, Seq: seq, Phase: r.Phase()}
}

type statusResponse struct {
	Phase    location.Phase            `json:"phase"`
	Location location.GeolocationState `json:"location"`
	Fetch    store.FetchStatus         `json:"fetch"`
}

type dashboardResponse struct {
	Stale     bool           `json:"stale"`
	Dashboard view.Dashboard `json:"dashboard"`
}

func geoStatus(err error) int {
	switch {
	case errors.Is(err, geo.ErrDenied):
		return fiber.StatusForbidden
	case errors.Is(err, geo.ErrTimeout):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusServiceUnavailable
	}
}
