package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/domain"
	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// Queries agrupa las lecturas del libro mayor. Van contra el pool, sin
// transacción: son listados y detalles para la capa HTTP.
type Queries struct {
	repos *Repos
}

func NewQueries(repos *Repos) *Queries {
	return &Queries{repos: repos}
}

// ListarVentas devuelve la página pedida con los nombres ya resueltos.
func (q *Queries) ListarVentas(page dto.PageRequest) (*dto.VentaListResponse, error) {
	page.DefaultPage()
	filas, total, err := q.repos.Ventas.List(page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar ventas: %w", err)
	}
	ventas := make([]dto.VentaResponse, 0, len(filas))
	for _, f := range filas {
		ventas = append(ventas, ventaDetalleADTO(f))
	}
	return &dto.VentaListResponse{
		Ventas: ventas,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ObtenerVenta devuelve una venta con sus abonos y devoluciones.
func (q *Queries) ObtenerVenta(ventaID string) (*entity.Venta, []*entity.Abono, []*entity.Devolucion, error) {
	venta, err := q.repos.Ventas.GetByID(ventaID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("cargar venta: %w", err)
	}
	if venta == nil {
		return nil, nil, nil, fmt.Errorf("venta %s: %w", ventaID, domain.ErrNotFound)
	}
	abonos, err := q.repos.Abonos.ListByVenta(ventaID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listar abonos: %w", err)
	}
	devoluciones, err := q.repos.Devoluciones.ListByVenta(ventaID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("listar devoluciones: %w", err)
	}
	return venta, abonos, devoluciones, nil
}

// DatosRecibo carga todo lo necesario para generar el recibo PDF de una
// venta. El producto puede ser nil si la venta no está trazada a uno.
func (q *Queries) DatosRecibo(ventaID string) (*entity.Venta, *entity.Cliente, *entity.Producto, []*entity.Abono, error) {
	venta, abonos, _, err := q.ObtenerVenta(ventaID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cliente, err := q.repos.Clientes.GetByID(venta.ClienteID)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("cargar cliente: %w", err)
	}
	if cliente == nil {
		return nil, nil, nil, nil, fmt.Errorf("cliente %s: %w", venta.ClienteID, domain.ErrNotFound)
	}
	var producto *entity.Producto
	if venta.ProductoID != "" {
		producto, err = q.repos.Productos.GetByID(venta.ProductoID)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("cargar producto: %w", err)
		}
	}
	return venta, cliente, producto, abonos, nil
}

// ListarBancos devuelve todos los bancos con sus métricas derivadas.
func (q *Queries) ListarBancos() ([]dto.BancoResponse, error) {
	bancos, err := q.repos.Bancos.ListAll()
	if err != nil {
		return nil, fmt.Errorf("listar bancos: %w", err)
	}
	out := make([]dto.BancoResponse, 0, len(bancos))
	for _, b := range bancos {
		out = append(out, BancoADTO(b))
	}
	return out, nil
}

// MovimientosDeBanco devuelve los últimos movimientos de un banco.
func (q *Queries) MovimientosDeBanco(bancoID string, limit int) ([]*entity.Movimiento, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	banco, err := q.repos.Bancos.GetByID(bancoID)
	if err != nil {
		return nil, fmt.Errorf("cargar banco: %w", err)
	}
	if banco == nil {
		return nil, fmt.Errorf("banco %s: %w", bancoID, domain.ErrNotFound)
	}
	return q.repos.Movimientos.ListByBanco(bancoID, limit)
}

// HistorialAuditoria devuelve las entradas de auditoría de una entidad.
func (q *Queries) HistorialAuditoria(entidadTipo, entidadID string, limit int) ([]*entity.AuditLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.repos.Audit.ListByEntidad(entidadTipo, entidadID, limit)
}

// BancoADTO mapea un banco a su representación HTTP.
func BancoADTO(b *entity.Banco) dto.BancoResponse {
	return dto.BancoResponse{
		ID:                b.ID,
		Nombre:            b.Nombre,
		Codigo:            b.Codigo,
		Tipo:              b.Tipo,
		CapitalActual:     b.CapitalActual,
		HistoricoIngresos: b.HistoricoIngresos,
		HistoricoGastos:   b.HistoricoGastos,
		Tendencia:         b.Tendencia,
		SaludFinanciera:   b.SaludFinanciera,
		DiasAgotamiento:   b.DiasAgotamiento,
	}
}

func ventaDetalleADTO(f *repository.VentaDetalle) dto.VentaResponse {
	margen := decimal.Zero
	if f.PrecioTotalVenta.GreaterThan(decimal.Zero) {
		margen = f.MontoUtilidades.Div(f.PrecioTotalVenta).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return dto.VentaResponse{
		ID:                 f.ID,
		ClienteID:          f.ClienteID,
		ClienteNombre:      f.ClienteNombre,
		ProductoID:         f.ProductoID,
		ProductoNombre:     f.ProductoNombre,
		OrdenCompraID:      f.OrdenCompraID,
		DistribuidorNombre: f.DistribuidorNombre,
		Cantidad:           f.Cantidad,
		PrecioVentaUnidad:  f.PrecioVentaUnidad,
		PrecioTotalVenta:   f.PrecioTotalVenta,
		MontoPagado:        f.MontoPagado,
		MontoRestante:      f.MontoRestante,
		EstadoPago:         f.EstadoPago,
		DistribucionGYA: dto.DistribucionDTO{
			BovedaMonte: f.MontoBovedaMonte,
			Fletes:      f.MontoFletes,
			Utilidades:  f.MontoUtilidades,
			Total:       f.PrecioTotalVenta,
		},
		Rentabilidad: dto.RentabilidadDTO{
			Utilidad:  f.MontoUtilidades,
			MargenPct: margen,
		},
		FechaVenta: f.FechaVenta,
	}
}
