package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/pumpedcity/internal/core/domain"
	"github.com/samirrijal/pumpedcity/internal/pkg/metrics"
)

// NearbyParkingsHandler answers the search page: parkings within radius of
// a point as a JSON array of wire records, nearest first.
func NearbyParkingsHandler(deps *Dependencies) fiber.Handler {
	limits := deps.searchLimits()

	return func(c *fiber.Ctx) error {
		var p nearbyParams
		if err := c.QueryParser(&p); err != nil {
			metrics.ParkingSearches.WithLabelValues("rest", "rejected").Inc()
			return errBadRequest(c, "invalid query parameters")
		}
		q, msg := params.resolve(p, limits)
		if msg != "" {
			metrics.ParkingSearches.WithLabelValues("rest", "rejected").Inc()
			return errBadRequest(c, msg)
		}

		parkings, err := deps.Parkings.FindNearby(c.UserContext(), q.Lat, q.Lon, q.Radius, q.Limit)
		if err != nil {
			metrics.ParkingSearches.WithLabelValues("rest", "error").Inc()
			LoggerFromCtx(c.UserContext()).Error("find nearby parkings", "error", err)
			return errInternal(c, "parking search failed")
		}

		records := make([]domain.ParkingRecord, 0, len(parkings))
		for _, pk := range parkings {
			records = append(records, pk.Record())
		}
		metrics.ParkingSearches.WithLabelValues("rest", "ok").Inc()
		metrics.ParkingSearchResults.WithLabelValues("rest").Observe(float64(len(records)))

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(records)
	}
}

// GetParkingHandler returns a single stored parking by ID.
func GetParkingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "parking id is required")
		}
		p, err := deps.Parkings.GetByID(c.UserContext(), id)
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound(c, "parking not found")
		}
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("get parking", "id", id, "error", err)
			return errInternal(c, "parking lookup failed")
		}
		return c.JSON(p)
	}
}
