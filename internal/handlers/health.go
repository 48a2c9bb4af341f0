package handlers

import (
	"splitbuy/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewHealthHandler(db *gorm.DB, cacheService *cache.CacheService) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheService}
}

func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "connected"
	if err := h.cache.HealthCheck(c.Context()); err != nil {
		redisStatus = "unavailable"
	}

	status := "ok"
	httpStatus := fiber.StatusOK
	if dbStatus != "connected" || redisStatus != "connected" {
		status = "degraded"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	stats := h.cache.GetStats(c.Context())

	return c.JSON(fiber.Map{
		"pool_stats": fiber.Map{
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"timeouts":    stats.Timeouts,
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		},
	})
}
