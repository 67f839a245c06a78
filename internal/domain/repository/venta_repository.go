package repository

import "github.com/gyadistribucion/gya-api/internal/domain/entity"

// VentaDetalle es la fila del listado de ventas con los campos de display
// de las entidades relacionadas ya resueltos por el join.
type VentaDetalle struct {
	entity.Venta
	ClienteNombre      string
	ProductoNombre     string
	DistribuidorNombre string
}

// VentaRepository define el puerto de persistencia para Venta.
type VentaRepository interface {
	Create(venta *entity.Venta) error
	GetByID(id string) (*entity.Venta, error)
	// GetForUpdate bloquea la fila de la venta; solo válido dentro de una tx.
	GetForUpdate(id string) (*entity.Venta, error)
	Update(venta *entity.Venta) error
	Delete(id string) error
	List(limit, offset int) ([]*VentaDetalle, int, error)
	ListByCliente(clienteID string) ([]*entity.Venta, error)
}

// AbonoRepository define el puerto para los registros append-only de abonos.
type AbonoRepository interface {
	Create(abono *entity.Abono) error
	ListByVenta(ventaID string) ([]*entity.Abono, error)
	DeleteByVenta(ventaID string) error
}

// DevolucionRepository define el puerto para devoluciones.
type DevolucionRepository interface {
	Create(devolucion *entity.Devolucion) error
	ListByVenta(ventaID string) ([]*entity.Devolucion, error)
	DeleteByVenta(ventaID string) error
}

// MovimientoRepository define el puerto para el rastro de movimientos bancarios.
type MovimientoRepository interface {
	Create(mov *entity.Movimiento) error
	ListByBanco(bancoID string, limit int) ([]*entity.Movimiento, error)
	DeleteByReferencia(referenciaTipo, referenciaID string) error
}
