package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gyadistribucion/gya-api/internal/domain/entity"
	"github.com/gyadistribucion/gya-api/internal/domain/metrics"
)

// BancoDeltas son incrementos relativos sobre los contadores de un banco.
// Todas las mutaciones bancarias usan escrituras relativas (UPDATE ... SET x = x + $n)
// en lugar de leer-y-escribir, para reducir el riesgo de lost updates.
type BancoDeltas struct {
	Capital               decimal.Decimal
	HistoricoIngresos     decimal.Decimal
	HistoricoGastos       decimal.Decimal
	TransferenciasEntrada decimal.Decimal
	TransferenciasSalida  decimal.Decimal
}

// BancoRepository define el puerto de persistencia para Banco.
type BancoRepository interface {
	Create(banco *entity.Banco) error
	GetByID(id string) (*entity.Banco, error)
	GetByCodigo(codigo string) (*entity.Banco, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); solo válido dentro de una tx.
	GetForUpdate(id string) (*entity.Banco, error)
	ListAll() ([]*entity.Banco, error)
	AplicarDeltas(id string, d BancoDeltas) error
	UpdateMetricas(id string, m metrics.MetricasBanco, actualizadas time.Time) error
}
