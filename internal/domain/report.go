package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodKind identifica o recorte de tempo do relatório de resultados
type PeriodKind string

const (
	PeriodAll       PeriodKind = "all"
	PeriodThisMonth PeriodKind = "thisMonth"
	PeriodLastMonth PeriodKind = "lastMonth"
	PeriodThisYear  PeriodKind = "thisYear"
	PeriodCustom    PeriodKind = "custom"
)

// Period é o filtro de período. Start e End só são usados em PeriodCustom e
// representam dias do calendário, ambos inclusivos.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// MonthKey identifica um mês do calendário
type MonthKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// Before ordena cronologicamente por ano e depois por mês
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// String retorna o período no formato yyyy-mm
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label retorna o nome do mês para exibição, ex: January 2024
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String(), k.Year)
}

// MonthlyBucket agrega as vendas de um mês
type MonthlyBucket struct {
	Key          MonthKey        `json:"-"`
	Period       string          `json:"period"`
	Label        string          `json:"label"`
	Sales        decimal.Decimal `json:"sales"`
	Cost         decimal.Decimal `json:"cost"`
	Profit       decimal.Decimal `json:"profit"`
	Transactions int             `json:"transactions"`
	Margin       decimal.Decimal `json:"margin"`
}

// Summary consolida os totais de um conjunto de vendas
type Summary struct {
	TotalSales   decimal.Decimal `json:"total_sales"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
	Transactions int             `json:"transactions"`
}

// ProfitAndLossReport é o relatório de resultados de um período
type ProfitAndLossReport struct {
	Period             Period          `json:"period"`
	Summary            Summary         `json:"summary"`
	Monthly            []MonthlyBucket `json:"monthly"`
	RecentTransactions []*Sale         `json:"recent_transactions"`
	GeneratedAt        time.Time       `json:"generated_at"`
}

// DashboardStats são os números exibidos na página inicial
type DashboardStats struct {
	Customers int             `json:"customers"`
	Products  int             `json:"products"`
	Sales     int             `json:"sales"`
	Revenue   decimal.Decimal `json:"revenue"`
}
