package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/cache"
)

// BancoHandler maneja las peticiones HTTP de los bancos y transferencias.
type BancoHandler struct {
	engine  *ledger.Engine
	queries *ledger.Queries
	cache   *cache.Cache
}

// NewBancoHandler construye el handler.
func NewBancoHandler(engine *ledger.Engine, queries *ledger.Queries, c *cache.Cache) *BancoHandler {
	return &BancoHandler{engine: engine, queries: queries, cache: c}
}

// List devuelve todos los bancos con sus métricas (cacheado).
// GET /api/bancos
func (h *BancoHandler) List(c *fiber.Ctx) error {
	key := cacheBancos + "all"
	if val, ok := h.cache.Get(c.Context(), key); ok {
		return c.Type("json").SendString(val)
	}
	bancos, err := h.queries.ListarBancos()
	if err != nil {
		return respondError(c, err)
	}
	if b, err := json.Marshal(bancos); err == nil {
		h.cache.Set(c.Context(), key, string(b))
	}
	return c.JSON(bancos)
}

// Movimientos devuelve los últimos movimientos de un banco.
// GET /api/bancos/:id/movimientos
func (h *BancoHandler) Movimientos(c *fiber.Ctx) error {
	movs, err := h.queries.MovimientosDeBanco(c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovimientoDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, movimientoADTO(m))
	}
	return c.JSON(out)
}

// Transferir mueve capital entre dos bancos.
// POST /api/bancos/transferencias
func (h *BancoHandler) Transferir(c *fiber.Ctx) error {
	var in dto.TransferenciaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := dto.Validar(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	resp, err := h.engine.Transferir(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	h.cache.Invalidar(c.Context(), cacheBancos, cacheDashboard)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func movimientoADTO(m *entity.Movimiento) dto.MovimientoDTO {
	return dto.MovimientoDTO{
		ID:             m.ID,
		BancoID:        m.BancoID,
		Tipo:           m.Tipo,
		Monto:          m.Monto,
		Descripcion:    m.Descripcion,
		ReferenciaID:   m.ReferenciaID,
		ReferenciaTipo: m.ReferenciaTipo,
		Fecha:          m.Fecha,
	}
}
