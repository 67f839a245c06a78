package http

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/infrastructure/cache"
)

// Prefijos de las claves de caché por superficie de lectura.
const (
	cacheVentas    = "ventas:"
	cacheBancos    = "bancos:"
	cacheDashboard = "dashboard"
)

// ReciboGenerator genera el PDF del recibo de una venta.
type ReciboGenerator interface {
	GenerarRecibo(venta *entity.Venta, cliente *entity.Cliente, producto *entity.Producto, abonos []*entity.Abono) ([]byte, error)
}

// VentaHandler maneja las peticiones HTTP del ciclo de vida de una venta.
type VentaHandler struct {
	engine  *ledger.Engine
	queries *ledger.Queries
	recibos ReciboGenerator
	cache   *cache.Cache
}

// NewVentaHandler construye el handler.
func NewVentaHandler(engine *ledger.Engine, queries *ledger.Queries, recibos ReciboGenerator, c *cache.Cache) *VentaHandler {
	return &VentaHandler{engine: engine, queries: queries, recibos: recibos, cache: c}
}

// Create registra una venta con su distribución GYA.
// POST /api/ventas
func (h *VentaHandler) Create(c *fiber.Ctx) error {
	var in dto.CrearVentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := dto.Validar(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	resp, err := h.engine.CrearVenta(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidar(c)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List devuelve el listado paginado de ventas (cacheado).
// GET /api/ventas
func (h *VentaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de página inválidos"})
	}
	page.DefaultPage()

	key := fmt.Sprintf("%s%d:%d", cacheVentas, page.Limit, page.Offset)
	if val, ok := h.cache.Get(c.Context(), key); ok {
		return c.Type("json").SendString(val)
	}

	resp, err := h.queries.ListarVentas(page)
	if err != nil {
		return respondError(c, err)
	}
	if b, err := json.Marshal(resp); err == nil {
		h.cache.Set(c.Context(), key, string(b))
	}
	return c.JSON(resp)
}

// GetByID devuelve el detalle de una venta con abonos y devoluciones.
// GET /api/ventas/:id
func (h *VentaHandler) GetByID(c *fiber.Ctx) error {
	venta, abonos, devoluciones, err := h.queries.ObtenerVenta(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ventaDetalle(venta, abonos, devoluciones))
}

// Abono registra un pago parcial contra la venta.
// POST /api/ventas/:id/abonos
func (h *VentaHandler) Abono(c *fiber.Ctx) error {
	var in dto.RegistrarAbonoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := dto.Validar(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	resp, err := h.engine.RegistrarAbono(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidar(c)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Devolucion procesa la devolución parcial o total de una venta.
// POST /api/ventas/:id/devoluciones
func (h *VentaHandler) Devolucion(c *fiber.Ctx) error {
	var in dto.ProcesarDevolucionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := dto.Validar(in); fields != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	resp, err := h.engine.ProcesarDevolucion(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidar(c)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Corregir aplica un override administrativo de la distribución o el pago.
// PUT /api/ventas/:id
func (h *VentaHandler) Corregir(c *fiber.Ctx) error {
	var in dto.CorregirVentaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	venta, err := h.engine.CorregirVenta(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	h.invalidar(c)
	return c.JSON(ventaDetalle(venta, nil, nil))
}

// Eliminar borra la venta revirtiendo todos sus efectos contables.
// DELETE /api/ventas/:id
func (h *VentaHandler) Eliminar(c *fiber.Ctx) error {
	if err := h.engine.EliminarVenta(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	h.invalidar(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Recibo genera y devuelve el recibo de la venta en PDF.
// GET /api/ventas/:id/recibo
func (h *VentaHandler) Recibo(c *fiber.Ctx) error {
	venta, cliente, producto, abonos, err := h.queries.DatosRecibo(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, err := h.recibos.GenerarRecibo(venta, cliente, producto, abonos)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="recibo-%s.pdf"`, venta.ID))
	return c.Send(pdfBytes)
}

// Auditoria devuelve el historial de auditoría de la venta.
// GET /api/ventas/:id/auditoria
func (h *VentaHandler) Auditoria(c *fiber.Ctx) error {
	entradas, err := h.queries.HistorialAuditoria("venta", c.Params("id"), c.QueryInt("limit"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.AuditEntryDTO, 0, len(entradas))
	for _, e := range entradas {
		out = append(out, auditEntryADTO(e))
	}
	return c.JSON(out)
}

// invalidar borra el caché de las superficies afectadas por una escritura.
func (h *VentaHandler) invalidar(c *fiber.Ctx) {
	h.cache.Invalidar(c.Context(), cacheVentas, cacheBancos, cacheDashboard)
}

func ventaDetalle(v *entity.Venta, abonos []*entity.Abono, devoluciones []*entity.Devolucion) dto.VentaDetalleResponse {
	resp := dto.VentaDetalleResponse{
		ID:                 v.ID,
		ClienteID:          v.ClienteID,
		ProductoID:         v.ProductoID,
		OrdenCompraID:      v.OrdenCompraID,
		Cantidad:           v.Cantidad,
		PrecioVentaUnidad:  v.PrecioVentaUnidad,
		PrecioCompraUnidad: v.PrecioCompraUnidad,
		PrecioFleteUnidad:  v.PrecioFleteUnidad,
		PrecioTotalVenta:   v.PrecioTotalVenta,
		MontoPagado:        v.MontoPagado,
		MontoRestante:      v.MontoRestante,
		EstadoPago:         v.EstadoPago,
		DistribucionGYA: dto.DistribucionDTO{
			BovedaMonte: v.MontoBovedaMonte,
			Fletes:      v.MontoFletes,
			Utilidades:  v.MontoUtilidades,
			Total:       v.PrecioTotalVenta,
		},
		CapitalGYA: dto.DistribucionDTO{
			BovedaMonte: v.CapitalBovedaMonte,
			Fletes:      v.CapitalFletes,
			Utilidades:  v.CapitalUtilidades,
			Total:       v.MontoPagado,
		},
		FechaVenta:   v.FechaVenta,
		Abonos:       []dto.AbonoItemDTO{},
		Devoluciones: []dto.DevolucionItemDTO{},
	}
	for _, a := range abonos {
		resp.Abonos = append(resp.Abonos, dto.AbonoItemDTO{
			ID:                   a.ID,
			Monto:                a.Monto,
			MontoPagadoAcumulado: a.MontoPagadoAcumulado,
			Distribucion: dto.DistribucionDTO{
				BovedaMonte: a.BovedaMonte,
				Fletes:      a.Fletes,
				Utilidades:  a.Utilidades,
				Total:       a.Monto,
			},
			Fecha: a.Fecha,
		})
	}
	for _, d := range devoluciones {
		resp.Devoluciones = append(resp.Devoluciones, dto.DevolucionItemDTO{
			ID:               d.ID,
			CantidadDevuelta: d.CantidadDevuelta,
			Motivo:           d.Motivo,
			MontoReembolso:   d.MontoReembolso,
			EsTotal:          d.EsTotal,
			Reversion: dto.DistribucionDTO{
				BovedaMonte: d.MontoBovedaMonte,
				Fletes:      d.MontoFletes,
				Utilidades:  d.MontoUtilidades,
				Total:       d.MontoBovedaMonte.Add(d.MontoFletes).Add(d.MontoUtilidades),
			},
			Fecha: d.Fecha,
		})
	}
	return resp
}

func auditEntryADTO(e *entity.AuditLogEntry) dto.AuditEntryDTO {
	return dto.AuditEntryDTO{
		ID:              e.ID,
		Accion:          e.Accion,
		EntidadTipo:     e.EntidadTipo,
		EntidadID:       e.EntidadID,
		Actor:           e.Actor,
		Antes:           json.RawMessage(e.Antes),
		Despues:         json.RawMessage(e.Despues),
		Descripcion:     e.Descripcion,
		Monto:           e.Monto,
		BancosAfectados: e.BancosAfectados,
		CreatedAt:       e.CreatedAt,
	}
}
