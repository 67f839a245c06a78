package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
)

// ClienteDeltas incrementos relativos sobre los saldos de un cliente.
type ClienteDeltas struct {
	SaldoPendiente decimal.Decimal
	TotalCompras   decimal.Decimal
	TotalPagado    decimal.Decimal
}

// ClienteRepository define el puerto de persistencia para Cliente.
// Los campos derivados solo se escriben vía UpdateMetricas (pipeline).
type ClienteRepository interface {
	Create(cliente *entity.Cliente) error
	GetByID(id string) (*entity.Cliente, error)
	GetForUpdate(id string) (*entity.Cliente, error)
	AplicarDeltas(id string, d ClienteDeltas) error
	UpdateMetricas(id string, m metrics.MetricasCliente, ultimaCompra *time.Time, actualizadas time.Time) error
	ListIDs() ([]string, error)
	ListConDeuda() ([]*entity.Cliente, error)
}

// DistribuidorRepository define el puerto de persistencia para Distribuidor.
type DistribuidorRepository interface {
	Create(distribuidor *entity.Distribuidor) error
	GetByID(id string) (*entity.Distribuidor, error)
	UpdateMetricas(id string, m metrics.MetricasDistribuidor, actualizadas time.Time) error
	ListIDs() ([]string, error)
}

// ProductoRepository define el puerto de persistencia para Producto.
type ProductoRepository interface {
	Create(producto *entity.Producto) error
	GetByID(id string) (*entity.Producto, error)
	GetForUpdate(id string) (*entity.Producto, error)
	AjustarStock(id string, delta decimal.Decimal) error
	UpdateMetricas(id string, m metrics.MetricasProducto, actualizadas time.Time) error
	ListIDs() ([]string, error)
}

// OrdenCompraRepository define el puerto de persistencia para OrdenCompra.
type OrdenCompraRepository interface {
	Create(orden *entity.OrdenCompra) error
	GetByID(id string) (*entity.OrdenCompra, error)
	GetForUpdate(id string) (*entity.OrdenCompra, error)
	AjustarStock(id string, delta decimal.Decimal) error
	// AplicarPago incrementa montoPagado y decrementa saldoPendiente.
	AplicarPago(id string, monto decimal.Decimal) error
	UpdateRotacion(id string, m metrics.MetricasOrden, actualizadas time.Time) error
	ListAbiertas() ([]*entity.OrdenCompra, error)
	ListIDs() ([]string, error)
}
