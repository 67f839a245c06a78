package ledger

import (
	"context"

	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

// Repos agrupa los puertos de persistencia que una operación del libro mayor
// puede tocar dentro de una misma transacción. El TxRunner entrega una
// instancia ligada a la tx activa; fuera de una tx los repos van contra el pool.
type Repos struct {
	Ventas         repository.VentaRepository
	Abonos         repository.AbonoRepository
	Devoluciones   repository.DevolucionRepository
	Movimientos    repository.MovimientoRepository
	Bancos         repository.BancoRepository
	Clientes       repository.ClienteRepository
	Productos      repository.ProductoRepository
	Ordenes        repository.OrdenCompraRepository
	Distribuidores repository.DistribuidorRepository
	Audit          repository.AuditRepository
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn retorna nil,
// rollback en cualquier otro caso. Ninguna operación de escritura del motor
// corre fuera de un TxRunner.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Repos) error) error
}

// Tipos de evento post-commit.
const (
	EventoVenta         = "venta"
	EventoAbono         = "abono"
	EventoDevolucion    = "devolucion"
	EventoTransferencia = "transferencia"
	EventoPago          = "pago"
	EventoCorreccion    = "correccion"
)

// Evento notifica al pipeline de métricas qué entidades tocó una operación
// ya confirmada. Solo IDs: el pipeline relee el estado desde la base.
type Evento struct {
	Tipo           string
	ClienteID      string
	ProductoID     string
	OrdenCompraID  string
	DistribuidorID string
	BancoIDs       []string
}

// Publicador entrega eventos al pipeline. La publicación ocurre después del
// commit y nunca bloquea ni falla la operación que la origina.
type Publicador interface {
	Publicar(evt Evento)
}
