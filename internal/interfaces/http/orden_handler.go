package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/cache"
)

// OrdenHandler maneja los pagos a distribuidores contra órdenes de compra.
type OrdenHandler struct {
	engine *ledger.Engine
	cache  *cache.Cache
}

// NewOrdenHandler construye el handler.
func NewOrdenHandler(engine *ledger.Engine, c *cache.Cache) *OrdenHandler {
	return &OrdenHandler{engine: engine, cache: c}
}

// Pagar registra un pago al distribuidor de la orden.
// POST /api/ordenes/:id/pagos
func (h *OrdenHandler) Pagar(c *fiber.Ctx) error {
	var in dto.PagoDistribuidorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := dto.Validar(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	resp, err := h.engine.PagarDistribuidor(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidar(c.Context(), cacheBancos, cacheDashboard)
	return c.Status(fiber.StatusCreated).JSON(resp)
}
