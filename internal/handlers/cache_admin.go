package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/makerlink/server/internal/config"
	"github.com/makerlink/server/pkg/cache"
)

type CacheAdminHandler struct {
	cache *cache.Cache
	cfg   *config.Config
}

func NewCacheAdminHandler(c *cache.Cache, cfg *config.Config) *CacheAdminHandler {
	return &CacheAdminHandler{cache: c, cfg: cfg}
}

// SetupCacheAdminRoutes registers the internal cache administration
// surface. 내부 API - API Key 인증 필요.
func SetupCacheAdminRoutes(router fiber.Router, c *cache.Cache, cfg *config.Config) {
	h := NewCacheAdminHandler(c, cfg)

	router.Get("/stats", h.Stats)
	router.Delete("/", h.ClearAll)
	router.Delete("/:prefix", h.ClearPrefix)
}

// requireAPIKey API Key 검증
func (h *CacheAdminHandler) requireAPIKey(c *fiber.Ctx) bool {
	apiKey := c.Get("X-API-Key")
	return apiKey != "" && apiKey == h.cfg.InternalAPIKey
}

// Stats godoc
// @Summary Aggregate cache statistics
// @Tags internal
// @Param X-API-Key header string true "Internal API Key"
// @Success 200 {object} cache.Stats
// @Router /internal/cache/stats [get]
func (h *CacheAdminHandler) Stats(c *fiber.Ctx) error {
	if !h.requireAPIKey(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid or missing API key"})
	}
	return c.JSON(h.cache.Stats())
}

// ClearAll godoc
// @Summary Clear all cache entries
// @Tags internal
// @Param X-API-Key header string true "Internal API Key"
// @Router /internal/cache [delete]
func (h *CacheAdminHandler) ClearAll(c *fiber.Ctx) error {
	if !h.requireAPIKey(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid or missing API key"})
	}
	removed := h.cache.Clear()
	return c.JSON(fiber.Map{"removed": removed})
}

// ClearPrefix godoc
// @Summary Clear cache entries by logical table prefix
// @Tags internal
// @Param X-API-Key header string true "Internal API Key"
// @Param prefix path string true "Logical table prefix (e.g. service, resource)"
// @Router /internal/cache/{prefix} [delete]
func (h *CacheAdminHandler) ClearPrefix(c *fiber.Ctx) error {
	if !h.requireAPIKey(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid or missing API key"})
	}

	prefix := c.Params("prefix")
	if prefix == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Prefix required"})
	}

	// "service" → "service:" 형태의 논리 테이블 프리픽스로 정규화
	if prefix[len(prefix)-1] != ':' {
		prefix += ":"
	}

	removed := h.cache.InvalidatePrefix(prefix)
	return c.JSON(fiber.Map{"prefix": prefix, "removed": removed})
}
