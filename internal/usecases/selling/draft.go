package selling

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

// Draft é a venda em montagem: cliente selecionado e itens ainda não confirmados
type Draft struct {
	Customer *domain.Customer  `json:"customer"`
	Items    []domain.SaleItem `json:"items"`
}

func NewDraft() *Draft {
	return &Draft{Items: []domain.SaleItem{}}
}

func (d *Draft) SelectCustomer(customer *domain.Customer) {
	d.Customer = customer
}

// AddItem acrescenta uma linha copiando nome, código e custo atuais do produto.
// Devolve false sem alterar o rascunho quando falta produto, quantidade ou preço.
// O mesmo produto adicionado duas vezes gera duas linhas.
func (d *Draft) AddItem(product *domain.Product, quantity *int, sellPrice *decimal.Decimal) bool {
	if product == nil || product.ID == "" || quantity == nil || sellPrice == nil {
		return false
	}

	if *quantity <= 0 || sellPrice.IsNegative() {
		return false
	}

	d.Items = append(d.Items, domain.SaleItem{
		ProductID:     product.ID,
		ProductName:   product.Name,
		ArticleNumber: product.ArticleNumber,
		Quantity:      *quantity,
		SellPrice:     *sellPrice,
		CostPrice:     product.Cost,
		Total:         sellPrice.Mul(decimal.NewFromInt(int64(*quantity))),
	})

	return true
}

// RemoveItem ignora índices fora do intervalo
func (d *Draft) RemoveItem(index int) bool {
	if index < 0 || index >= len(d.Items) {
		return false
	}

	d.Items = append(d.Items[:index:index], d.Items[index+1:]...)
	return true
}

// Total é a soma dos totais das linhas
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Total)
	}
	return total
}

// Totals calcula valor total, custo total e lucro do rascunho
func (d *Draft) Totals() (amount, cost, profit decimal.Decimal) {
	amount = d.Total()
	cost = decimal.Zero
	for _, item := range d.Items {
		cost = cost.Add(item.CostPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return amount, cost, amount.Sub(cost)
}

// Ready indica se o rascunho pode ser confirmado
func (d *Draft) Ready() bool {
	return d.Customer != nil && len(d.Items) > 0
}

func (d *Draft) Reset() {
	d.Customer = nil
	d.Items = []domain.SaleItem{}
}

// BuildSale congela os totais e as cópias de cliente e produtos em uma nova venda
func (d *Draft) BuildSale(now time.Time) *domain.Sale {
	amount, cost, profit := d.Totals()

	items := make([]domain.SaleItem, len(d.Items))
	copy(items, d.Items)

	return &domain.Sale{
		CustomerID:   d.Customer.ID,
		CustomerName: d.Customer.Name,
		Items:        items,
		TotalAmount:  amount,
		TotalCost:    cost,
		Profit:       profit,
		Date:         now,
	}
}
