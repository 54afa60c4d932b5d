package reporting

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/utils"
)

const RecentTransactionsLimit = 10

var hundred = decimal.NewFromInt(100)

// FilterSales aplica o período às vendas. As fronteiras de mês e ano são calculadas no fuso de now.
func FilterSales(sales []*domain.Sale, period domain.Period, now time.Time) []*domain.Sale {
	var from, until *time.Time

	switch period.Kind {
	case domain.PeriodThisMonth:
		start := utils.StartOfMonth(now)
		from = &start
	case domain.PeriodLastMonth:
		end := utils.StartOfMonth(now)
		start := end.AddDate(0, -1, 0)
		from, until = &start, &end
	case domain.PeriodThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		from = &start
	case domain.PeriodCustom:
		if period.Start == nil || period.End == nil {
			return sales
		}
		start := utils.StartOfDay(*period.Start)
		end := utils.StartOfDay(*period.End).AddDate(0, 0, 1)
		from, until = &start, &end
	default:
		return sales
	}

	filtered := make([]*domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if sale.Date.Before(*from) {
			continue
		}
		if until != nil && !sale.Date.Before(*until) {
			continue
		}
		filtered = append(filtered, sale)
	}

	return filtered
}

// BucketByMonth agrupa por mês do calendário em ordem cronológica.
// Com loc nil o mês é o do próprio horário da venda.
func BucketByMonth(sales []*domain.Sale, loc *time.Location) []domain.MonthlyBucket {
	buckets := make(map[domain.MonthKey]*domain.MonthlyBucket)

	for _, sale := range sales {
		date := sale.Date
		if loc != nil {
			date = date.In(loc)
		}

		key := domain.MonthKey{Year: date.Year(), Month: date.Month()}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.MonthlyBucket{
				Key:    key,
				Period: key.String(),
				Label:  key.Label(),
				Sales:  decimal.Zero,
				Cost:   decimal.Zero,
				Profit: decimal.Zero,
			}
			buckets[key] = bucket
		}

		bucket.Sales = bucket.Sales.Add(sale.TotalAmount)
		bucket.Cost = bucket.Cost.Add(sale.TotalCost)
		bucket.Profit = bucket.Profit.Add(sale.Profit)
		bucket.Transactions++
	}

	result := make([]domain.MonthlyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.Margin = margin(bucket.Profit, bucket.Sales)
		result = append(result, *bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key.Before(result[j].Key)
	})

	return result
}

func Summarize(sales []*domain.Sale) domain.Summary {
	summary := domain.Summary{
		TotalSales:   decimal.Zero,
		TotalCost:    decimal.Zero,
		TotalProfit:  decimal.Zero,
		Transactions: len(sales),
	}

	for _, sale := range sales {
		summary.TotalSales = summary.TotalSales.Add(sale.TotalAmount)
		summary.TotalCost = summary.TotalCost.Add(sale.TotalCost)
		summary.TotalProfit = summary.TotalProfit.Add(sale.Profit)
	}

	summary.ProfitMargin = margin(summary.TotalProfit, summary.TotalSales)
	return summary
}

// RecentTransactions devolve as vendas mais recentes primeiro, até limit
func RecentTransactions(sales []*domain.Sale, limit int) []*domain.Sale {
	sorted := make([]*domain.Sale, len(sales))
	copy(sorted, sales)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// margin em percentual, zero quando não há faturamento
func margin(profit, sales decimal.Decimal) decimal.Decimal {
	if !sales.IsPositive() {
		return decimal.Zero
	}
	return utils.RoundWithTwoDecimalPlace(profit.Div(sales).Mul(hundred))
}
