package stocking

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

// StockAdjuster aplica movimentações de estoque
type StockAdjuster interface {
	// AdjustStock soma delta à quantidade persistida do produto e devolve o produto atualizado
	AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error)
}

// Ledger controla o saldo de estoque dos produtos
type Ledger struct {
	products           repository.ProductRepository
	allowNegativeStock bool
}

func NewLedger(products repository.ProductRepository, allowNegativeStock bool) *Ledger {
	return &Ledger{
		products:           products,
		allowNegativeStock: allowNegativeStock,
	}
}

// AdjustStock lê o produto persistido e grava apenas o novo campo quantity
func (l *Ledger) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	product, err := l.products.Get(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar produto %s: %w", productID, err)
	}

	if product == nil {
		return nil, NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, productID, "")
	}

	quantity := product.Quantity + delta
	if quantity < 0 && delta < 0 {
		if !l.allowNegativeStock {
			return nil, NewStockError(ErrInsufficientStock, apiErrors.ErrInsufficientStock, productID,
				fmt.Sprintf("saldo %d, solicitado %d", product.Quantity, -delta))
		}

		logrus.WithFields(logrus.Fields{
			"product_id":       productID,
			"article_number":   product.ArticleNumber,
			"current_quantity": product.Quantity,
			"delta":            delta,
		}).Warn("Estoque do produto ficará negativo")
	}

	if err := l.products.UpdateQuantity(ctx, productID, quantity); err != nil {
		return nil, fmt.Errorf("erro ao atualizar estoque do produto %s: %w", productID, err)
	}

	product.Quantity = quantity
	return product, nil
}

// CheckAvailability verifica se os itens cabem no estoque atual, somando linhas repetidas do mesmo produto.
// Só bloqueia quando o saldo negativo não é permitido.
func (l *Ledger) CheckAvailability(ctx context.Context, items []domain.SaleItem) error {
	if l.allowNegativeStock {
		return nil
	}

	requested := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := requested[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}

	for _, productID := range order {
		product, err := l.products.Get(ctx, productID)
		if err != nil {
			return fmt.Errorf("erro ao buscar produto %s: %w", productID, err)
		}

		if product == nil {
			return NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, productID, "")
		}

		if product.Quantity < requested[productID] {
			return NewStockError(ErrInsufficientStock, apiErrors.ErrInsufficientStock, productID,
				fmt.Sprintf("saldo %d, solicitado %d", product.Quantity, requested[productID]))
		}
	}

	return nil
}

// SaleCandidates devolve os produtos que podem ser oferecidos em uma nova venda (quantidade maior que zero)
func (l *Ledger) SaleCandidates(ctx context.Context) ([]*domain.Product, error) {
	products, err := l.products.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		if product.Quantity > 0 {
			candidates = append(candidates, product)
		}
	}

	return candidates, nil
}
