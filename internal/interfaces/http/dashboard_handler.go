package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/gyadistribucion/gya-api/internal/application/dashboard"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/cache"
)

// DashboardHandler maneja el resumen operativo del día.
type DashboardHandler struct {
	uc    *dashboard.Usecase
	cache *cache.Cache
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *dashboard.Usecase, c *cache.Cache) *DashboardHandler {
	return &DashboardHandler{uc: uc, cache: c}
}

// Get devuelve el resumen del dashboard (cacheado).
// GET /api/dashboard
func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	if val, ok := h.cache.Get(c.Context(), cacheDashboard); ok {
		return c.Type("json").SendString(val)
	}
	resumen, err := h.uc.Resumen(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	if b, err := json.Marshal(resumen); err == nil {
		h.cache.Set(c.Context(), cacheDashboard, string(b))
	}
	return c.JSON(resumen)
}
