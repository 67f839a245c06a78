package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/domain"
)

// respondError mapea los errores de dominio a códigos HTTP. El motor envuelve
// los centinelas con fmt.Errorf("%w"), por eso errors.Is y no comparación directa.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en la orden de compra"})
	case errors.Is(err, domain.ErrMargenNegativo):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MARGEN_NEGATIVO", Message: "la venta quedaría por debajo del costo"})
	case errors.Is(err, domain.ErrMontoExcedeRestante):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MONTO_EXCEDE_RESTANTE", Message: "el abono excede el monto restante de la venta"})
	case errors.Is(err, domain.ErrMontoExcedeSaldoOC):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MONTO_EXCEDE_SALDO", Message: "el pago excede el saldo pendiente de la orden"})
	case errors.Is(err, domain.ErrSaldoInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SALDO_INSUFICIENTE", Message: "capital insuficiente en el banco de origen"})
	case errors.Is(err, domain.ErrMismoBanco):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISMO_BANCO", Message: "banco origen y destino deben ser distintos"})
	case errors.Is(err, domain.ErrVentaDevuelta):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "VENTA_DEVUELTA", Message: "la venta ya fue devuelta en su totalidad"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	default:
		// El detalle del error queda en el log; al cliente solo llega un
		// mensaje genérico para no filtrar SQL ni rutas internas.
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno sin mapear")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
