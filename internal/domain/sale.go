package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem é uma linha da venda. Nome, código e custo do produto são copiados
// no momento da venda e não acompanham alterações posteriores do produto.
type SaleItem struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ArticleNumber string          `json:"article_number"`
	Quantity      int             `json:"quantity"`
	SellPrice     decimal.Decimal `json:"sell_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	Total         decimal.Decimal `json:"total"`
}

// Sale representa uma venda concluída. Os totais são calculados uma única vez, na confirmação.
type Sale struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Items        []SaleItem      `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Profit       decimal.Decimal `json:"profit"`
	Date         time.Time       `json:"date"`
}

// SalesPage é uma página da listagem de vendas
type SalesPage struct {
	Sales      []*Sale `json:"sales"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
}
