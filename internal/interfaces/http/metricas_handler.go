package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gyadistribucion/gya-api/internal/application/pipeline"
)

// MetricasHandler expone el recálculo manual del pipeline de métricas.
type MetricasHandler struct {
	pipeline *pipeline.Pipeline
}

// NewMetricasHandler construye el handler.
func NewMetricasHandler(p *pipeline.Pipeline) *MetricasHandler {
	return &MetricasHandler{pipeline: p}
}

// Recalcular fuerza un barrido completo de métricas derivadas. Es la red de
// seguridad cuando el pipeline descartó eventos por saturación.
// POST /api/metricas/recalcular
func (h *MetricasHandler) Recalcular(c *fiber.Ctx) error {
	if err := h.pipeline.RecomputarTodo(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok", "detalle": "métricas recalculadas"})
}
