package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento bancario. Un Movimiento se crea siempre en la misma
// transacción que su evento padre; es el rastro append-only contra el que se
// reconcilian los bancos.
const (
	MovimientoDistribucionGYA      = "distribucion_gya"
	MovimientoAbono                = "abono"
	MovimientoDevolucion           = "devolucion"
	MovimientoTransferenciaEntrada = "transferencia_entrada"
	MovimientoTransferenciaSalida  = "transferencia_salida"
	MovimientoPago                 = "pago"
)

// Tipos de entidad referenciada por un movimiento.
const (
	RefVenta         = "venta"
	RefAbono         = "abono"
	RefDevolucion    = "devolucion"
	RefTransferencia = "transferencia"
	RefOrdenCompra   = "orden_compra"
)

// Movimiento es una fila por evento que afecta a un banco.
// Monto lleva signo: negativo para devoluciones y salidas.
type Movimiento struct {
	ID             string
	BancoID        string
	Tipo           string
	Monto          decimal.Decimal
	Descripcion    string
	ReferenciaID   string
	ReferenciaTipo string
	Fecha          time.Time
	CreatedAt      time.Time
}
