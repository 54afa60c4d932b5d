package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/catalog"
)

func newTestService(t *testing.T, sales ...*domain.Sale) (*Service, repository.EntityStore) {
	t.Helper()

	store := repository.NewMemoryStore()
	repo := repository.NewSaleRepository(store)
	for _, sale := range sales {
		sale.ID = ""
		_, err := repo.Create(context.Background(), sale)
		require.NoError(t, err)
	}

	service := NewService(repo, catalog.NewLoader(store), time.UTC)
	service.now = func() time.Time { return day(2024, time.March, 15, 12) }
	return service, store
}

func TestService_ProfitAndLoss(t *testing.T) {
	service, _ := newTestService(t,
		saleAt("", day(2024, time.February, 10, 10), 250, 150),
		saleAt("", day(2024, time.March, 2, 10), 100, 60),
		saleAt("", day(2024, time.March, 5, 10), 50, 30),
	)

	report, err := service.ProfitAndLoss(context.Background(), domain.Period{Kind: domain.PeriodThisMonth})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.Transactions)
	assert.True(t, decimal.NewFromInt(150).Equal(report.Summary.TotalSales))
	assert.True(t, decimal.NewFromInt(60).Equal(report.Summary.TotalProfit))
	assert.True(t, decimal.NewFromInt(40).Equal(report.Summary.ProfitMargin))

	require.Len(t, report.Monthly, 1)
	assert.Equal(t, "2024-03", report.Monthly[0].Period)

	require.Len(t, report.RecentTransactions, 2)
	assert.Equal(t, day(2024, time.March, 5, 10), report.RecentTransactions[0].Date)

	report, err = service.ProfitAndLoss(context.Background(), domain.Period{Kind: domain.PeriodAll})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Summary.Transactions)
	assert.Len(t, report.Monthly, 2)
}

func TestService_Dashboard(t *testing.T) {
	service, store := newTestService(t,
		saleAt("", day(2024, time.February, 10, 10), 250, 150),
		saleAt("", day(2024, time.March, 2, 10), 100, 60),
	)

	_, err := repository.NewCustomerRepository(store).Create(context.Background(), &domain.Customer{Name: "Ayesha"})
	require.NoError(t, err)

	stats, err := service.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Customers)
	assert.Equal(t, 0, stats.Products)
	assert.Equal(t, 2, stats.Sales)
	assert.True(t, decimal.NewFromInt(350).Equal(stats.Revenue))
}
