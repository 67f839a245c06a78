package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrMargenNegativo      = errors.New("venta por debajo del costo: margen negativo")
	ErrMontoExcedeRestante = errors.New("el abono excede el monto restante de la venta")
	ErrSaldoInsuficiente   = errors.New("capital insuficiente en el banco de origen")
	ErrMismoBanco          = errors.New("banco origen y destino deben ser distintos")
	ErrVentaDevuelta       = errors.New("la venta ya fue devuelta en su totalidad")
	ErrMontoExcedeSaldoOC  = errors.New("el pago excede el saldo pendiente de la orden de compra")
)
