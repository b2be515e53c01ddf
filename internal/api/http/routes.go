package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/surfwatch/internal/marine"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *marine.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/buoys/:station/latest", func(c *fiber.Ctx) error {
		obs, err := service.GetLatest(c.UserContext(), c.Params("station"))
		if err != nil {
			return mapError(err, "failed to fetch buoy data")
		}
		return c.JSON(obs)
	})

	v1.Get("/buoys/:station/recent", func(c *fiber.Ctx) error {
		limit := parseLimit(c.Query("limit"))

		observations, err := service.GetRecent(c.UserContext(), c.Params("station"), limit)
		if err != nil {
			return mapError(err, "failed to fetch buoy history")
		}
		if observations == nil {
			observations = []marine.Observation{}
		}
		return c.JSON(fiber.Map{"data": observations})
	})

	v1.Get("/spots/nearby", func(c *fiber.Ctx) error {
		var q nearbyQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		spots, err := service.Nearby(c.UserContext(), *q.Lat, *q.Lng, q.RadiusMiles)
		if err != nil {
			return mapError(err, "failed to search spots")
		}
		if spots == nil {
			spots = []marine.SpotDistance{}
		}
		return c.JSON(fiber.Map{"data": spots})
	})

	v1.Get("/spots/search", func(c *fiber.Ctx) error {
		q := marine.SpotQuery{
			Text:  c.Query("q"),
			Limit: parseSearchLimit(c.Query("limit")),
		}
		// Either coordinate missing or unparseable means a plain text search.
		lat, latErr := parseCoordinate(c.Query("lat"))
		lng, lngErr := parseCoordinate(c.Query("lng"))
		if latErr == nil && lngErr == nil {
			q.Lat, q.Lng = lat, lng
		}

		result, err := service.Search(c.UserContext(), q)
		if err != nil {
			return mapError(err, "failed to search spots")
		}
		return c.JSON(result)
	})

	v1.Get("/spots/:id/current", func(c *fiber.Ctx) error {
		obs, err := service.CurrentForSpot(c.UserContext(), c.Params("id"))
		if err != nil {
			return mapError(err, "failed to fetch current conditions")
		}
		if obs == nil {
			return c.JSON(fiber.Map{"data": nil, "status": "no_data"})
		}
		return c.JSON(fiber.Map{"data": obs})
	})
}

// ErrorHandler renders every handler error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func mapError(err error, fallback string) error {
	switch {
	case errors.Is(err, marine.ErrInvalidStation),
		errors.Is(err, marine.ErrInvalidLimit),
		errors.Is(err, marine.ErrInvalidSpot):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, marine.ErrSpotNotFound):
		return fiber.NewError(fiber.StatusNotFound, "spot not found")
	case errors.Is(err, marine.ErrUpstreamFetch), errors.Is(err, marine.ErrMalformedFeed):
		return fiber.NewError(fiber.StatusBadGateway, fallback)
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}

// parseLimit falls back to the default for missing or non-numeric values, then clamps.
func parseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		limit = marine.DefaultRecentLimit
	}
	return marine.ClampRecentLimit(limit)
}

func parseSearchLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		limit = marine.DefaultSearchLimit
	}
	return marine.ClampSearchLimit(limit)
}

// nearbyQuery holds query parameters for the nearby spot search.
type nearbyQuery struct {
	Lat         *float64 `validate:"required,latitude"`
	Lng         *float64 `validate:"required,longitude"`
	RadiusMiles float64  `validate:"gt=0"`
}

func (q *nearbyQuery) bind(c *fiber.Ctx) error {
	var err error
	if q.Lat, err = parseCoordinate(c.Query("lat")); err != nil {
		return errors.New("lat must be a number")
	}
	if q.Lng, err = parseCoordinate(c.Query("lng")); err != nil {
		return errors.New("lng must be a number")
	}

	q.RadiusMiles = marine.DefaultNearbyRadiusMiles
	if raw := strings.TrimSpace(c.Query("radiusMiles")); raw != "" {
		if r, err := strconv.ParseFloat(raw, 64); err == nil && r > 0 {
			q.RadiusMiles = r
		}
	}

	return validate.Struct(q)
}

func parseCoordinate(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
