package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/boutique-manager-api/internal/config"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

type stubLowStock struct {
	products []*domain.Product
	err      error
	calls    int
}

func (s *stubLowStock) LowStock(context.Context) ([]*domain.Product, error) {
	s.calls++
	return s.products, s.err
}

type stubReporter struct {
	period domain.Period
	report *domain.ProfitAndLossReport
	err    error
}

func (s *stubReporter) ProfitAndLoss(_ context.Context, period domain.Period) (*domain.ProfitAndLossReport, error) {
	s.period = period
	return s.report, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Location:      time.UTC,
		Inventory:     config.Inventory{LowStockThreshold: 5},
		LowStockAlert: config.LowStockAlert{CronSchedule: "0 8 * * *"},
		MonthlyReport: config.MonthlyReport{CronSchedule: "0 5 1 * *"},
	}
}

func TestLowStockAlertService_checkLowStock(t *testing.T) {
	tests := []struct {
		name          string
		lister        *stubLowStock
		expectedCount int
	}{
		{
			name: "Registra os produtos com estoque baixo",
			lister: &stubLowStock{products: []*domain.Product{
				{ID: "p1", Name: "Camisa", Quantity: 2},
				{ID: "p2", Name: "Lenço", Quantity: 5},
			}},
			expectedCount: 2,
		},
		{
			name:          "Erro na consulta não altera o último alerta",
			lister:        &stubLowStock{err: errors.New("falha")},
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewLowStockAlertService(tt.lister, testConfig())

			service.checkLowStock(context.Background())

			status := service.GetStatus()
			assert.Equal(t, 1, tt.lister.calls)
			assert.Equal(t, tt.expectedCount, status["last_alert_count"])
			assert.Equal(t, false, status["sync_running"])
			assert.Equal(t, 5, status["threshold"])
		})
	}
}

func TestLowStockAlertService_Start_Desabilitado(t *testing.T) {
	lister := &stubLowStock{}
	service := NewLowStockAlertService(lister, testConfig())

	require.NoError(t, service.Start(context.Background()))
	assert.Equal(t, 0, lister.calls)
}

func TestLowStockAlertService_Start_CronInvalido(t *testing.T) {
	cfg := testConfig()
	cfg.LowStockAlert.Enabled = true
	cfg.LowStockAlert.CronSchedule = "não é cron"

	service := NewLowStockAlertService(&stubLowStock{}, cfg)

	assert.Error(t, service.Start(context.Background()))
}

func TestMonthlyReportService_closeLastMonth(t *testing.T) {
	reporter := &stubReporter{report: &domain.ProfitAndLossReport{
		Summary: domain.Summary{
			TotalSales:   decimal.NewFromInt(1000),
			TotalCost:    decimal.NewFromInt(600),
			TotalProfit:  decimal.NewFromInt(400),
			ProfitMargin: decimal.NewFromInt(40),
			Transactions: 3,
		},
	}}
	service := NewMonthlyReportService(reporter, testConfig())

	service.closeLastMonth(context.Background())

	assert.Equal(t, domain.PeriodLastMonth, reporter.period.Kind)
	require.NotNil(t, service.LastReport())
	assert.Equal(t, 3, service.LastReport().Summary.Transactions)

	status := service.GetStatus()
	assert.Contains(t, status, "last_summary")
}

func TestMonthlyReportService_closeLastMonth_Erro(t *testing.T) {
	service := NewMonthlyReportService(&stubReporter{err: errors.New("falha")}, testConfig())

	service.closeLastMonth(context.Background())

	assert.Nil(t, service.LastReport())
	assert.NotContains(t, service.GetStatus(), "last_summary")
}
