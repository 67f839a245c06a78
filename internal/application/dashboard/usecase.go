// Package dashboard arma el resumen operativo del día: ventas, deuda viva,
// alertas abiertas y el estado de los bancos.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gyadistribucion/gya-api/internal/application/dto"
	"github.com/gyadistribucion/gya-api/internal/application/ledger"
	"github.com/gyadistribucion/gya-api/internal/domain/repository"
)

type Usecase struct {
	agregados repository.MetricsRepository
	bancos    repository.BancoRepository
	alertas   repository.AlertaRepository
}

func NewUsecase(agregados repository.MetricsRepository, bancos repository.BancoRepository,
	alertas repository.AlertaRepository) *Usecase {
	return &Usecase{agregados: agregados, bancos: bancos, alertas: alertas}
}

// Resumen compone el dashboard releyendo los agregados; la capa HTTP lo
// cachea y lo invalida con cada escritura.
func (u *Usecase) Resumen(ctx context.Context) (*dto.DashboardResponse, error) {
	res, err := u.agregados.ResumenDashboard(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("resumen del libro mayor: %w", err)
	}

	bancos, err := u.bancos.ListAll()
	if err != nil {
		return nil, fmt.Errorf("listar bancos: %w", err)
	}
	bancosDTO := make([]dto.BancoResponse, 0, len(bancos))
	for _, b := range bancos {
		bancosDTO = append(bancosDTO, ledger.BancoADTO(b))
	}

	activas, err := u.alertas.ListActivas()
	if err != nil {
		return nil, fmt.Errorf("listar alertas: %w", err)
	}

	return &dto.DashboardResponse{
		VentasHoy:        res.VentasHoy,
		IngresosHoy:      res.IngresosHoy,
		DeudaTotal:       res.DeudaTotal,
		VentasPendientes: res.VentasPendientes,
		AlertasActivas:   len(activas),
		Bancos:           bancosDTO,
	}, nil
}
