package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"stockroom/internal/cache"
	applog "stockroom/internal/log"
)

type HealthHandler struct {
	DB    *sqlx.DB
	Cache *cache.Cache
}

// GET /healthz
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		applog.Error(c, "health.db.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	out := fiber.Map{"ok": true}
	if h.Cache != nil {
		if err := h.Cache.Ping(ctx); err != nil {
			// Reads fall back to the store, so a cache outage only degrades.
			applog.Warn(c, "health.cache.fail", err, nil)
			out["cache"] = "down"
		} else {
			out["cache"] = h.Cache.Stats()
		}
	}
	return c.JSON(out)
}
