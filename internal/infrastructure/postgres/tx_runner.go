package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyadistribucion/gya-api/internal/application/ledger"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks del motor dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos atados a la tx y hace
// Commit o Rollback según el resultado.
func (r *TxRunner) Run(ctx context.Context, fn func(repos *ledger.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos arma el conjunto de repos sobre un Querier (pool o tx).
func NewRepos(q Querier) *ledger.Repos {
	return &ledger.Repos{
		Ventas:         NewVentaRepository(q),
		Abonos:         NewAbonoRepository(q),
		Devoluciones:   NewDevolucionRepository(q),
		Movimientos:    NewMovimientoRepository(q),
		Bancos:         NewBancoRepository(q),
		Clientes:       NewClienteRepository(q),
		Productos:      NewProductoRepository(q),
		Ordenes:        NewOrdenCompraRepository(q),
		Distribuidores: NewDistribuidorRepository(q),
		Audit:          NewAuditRepository(q),
	}
}
