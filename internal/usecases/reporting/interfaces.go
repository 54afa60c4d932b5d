package reporting

import (
	"context"
	"time"

	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

// Reporter define os relatórios financeiros derivados do histórico de vendas
type Reporter interface {
	// ProfitAndLoss monta o relatório de resultados do período
	ProfitAndLoss(ctx context.Context, period domain.Period) (*domain.ProfitAndLossReport, error)

	// Dashboard retorna contagens e faturamento total
	Dashboard(ctx context.Context) (*domain.DashboardStats, error)

	// Location é o fuso usado nos limites de período e nos meses
	Location() *time.Location
}
