package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/catalog"
)

type Service struct {
	sales    repository.SaleRepository
	loader   catalog.Loader
	location *time.Location
	now      func() time.Time
}

func NewService(sales repository.SaleRepository, loader catalog.Loader, location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}

	return &Service{
		sales:    sales,
		loader:   loader,
		location: location,
		now:      time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.location
}

func (s *Service) ProfitAndLoss(ctx context.Context, period domain.Period) (*domain.ProfitAndLossReport, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar vendas para o relatório")
		return nil, err
	}

	now := s.now().In(s.location)
	filtered := FilterSales(sales, period, now)

	report := &domain.ProfitAndLossReport{
		Period:             period,
		Summary:            Summarize(filtered),
		Monthly:            BucketByMonth(filtered, s.location),
		RecentTransactions: RecentTransactions(filtered, RecentTransactionsLimit),
		GeneratedAt:        now,
	}

	logrus.WithFields(logrus.Fields{
		"period":       period.Kind,
		"transactions": report.Summary.Transactions,
		"months":       len(report.Monthly),
	}).Debug("Relatório de resultados gerado")

	return report, nil
}

func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar dados do painel")
		return nil, err
	}

	revenue := decimal.Zero
	for _, sale := range snapshot.Sales {
		revenue = revenue.Add(sale.TotalAmount)
	}

	return &domain.DashboardStats{
		Customers: len(snapshot.Customers),
		Products:  len(snapshot.Products),
		Sales:     len(snapshot.Sales),
		Revenue:   revenue,
	}, nil
}
