package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gyadistribucion/gya-api/internal/application/alert"
	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
)

// AlertaHandler maneja la consulta y cierre de alertas.
type AlertaHandler struct {
	engine *alert.Engine
}

// NewAlertaHandler construye el handler.
func NewAlertaHandler(engine *alert.Engine) *AlertaHandler {
	return &AlertaHandler{engine: engine}
}

// List devuelve las alertas; por defecto las activas, o por estado con ?estado=.
// GET /api/alertas
func (h *AlertaHandler) List(c *fiber.Ctx) error {
	var (
		alertas []*entity.Alerta
		err     error
	)
	if estado := c.Query("estado"); estado != "" {
		alertas, err = h.engine.ListPorEstado(estado, c.QueryInt("limit"))
	} else {
		alertas, err = h.engine.ListActivas()
	}
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AlertaResponse, 0, len(alertas))
	for _, a := range alertas {
		out = append(out, alertaADTO(a))
	}
	return c.JSON(out)
}

// Scan dispara un barrido manual de las reglas de alerta.
// POST /api/alertas/scan
func (h *AlertaHandler) Scan(c *fiber.Ctx) error {
	if err := h.engine.Scan(time.Now()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Resolver marca una alerta activa como resuelta.
// PUT /api/alertas/:id/resolver
func (h *AlertaHandler) Resolver(c *fiber.Ctx) error {
	if err := h.engine.Resolver(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Descartar silencia una alerta activa. Si la condición persiste, el
// siguiente scan la reabre.
// PUT /api/alertas/:id/descartar
func (h *AlertaHandler) Descartar(c *fiber.Ctx) error {
	if err := h.engine.Descartar(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func alertaADTO(a *entity.Alerta) dto.AlertaResponse {
	return dto.AlertaResponse{
		ID:          a.ID,
		Tipo:        a.Tipo,
		EntidadTipo: a.EntidadTipo,
		EntidadID:   a.EntidadID,
		Severidad:   a.Severidad,
		Mensaje:     a.Mensaje,
		Estado:      a.Estado,
		CreatedAt:   a.CreatedAt,
		ResueltaAt:  a.ResueltaAt,
	}
}
