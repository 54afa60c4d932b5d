package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

// SaleRepository não tem operação de edição: vendas são histórico imutável
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
	Get(ctx context.Context, id string) (*domain.Sale, error)
	List(ctx context.Context) ([]*domain.Sale, error)
	Delete(ctx context.Context, id string) error
}

type saleRepository struct {
	store EntityStore
}

func NewSaleRepository(store EntityStore) SaleRepository {
	return &saleRepository{
		store: store,
	}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	record, err := encodeRecord(sale)
	if err != nil {
		return nil, err
	}
	delete(record, "id")

	id, err := r.store.Create(ctx, SalesCollection, record)
	if err != nil {
		return nil, err
	}

	sale.ID = id
	return sale, nil
}

// Get devolve nil, nil quando a venda não existe
func (r *saleRepository) Get(ctx context.Context, id string) (*domain.Sale, error) {
	record, err := r.store.Get(ctx, SalesCollection, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sale domain.Sale
	if err := decodeRecord(record, &sale); err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	records, err := r.store.ListAll(ctx, SalesCollection)
	if err != nil {
		return nil, err
	}

	sales := make([]*domain.Sale, 0, len(records))
	for _, record := range records {
		var sale domain.Sale
		if err := decodeRecord(record, &sale); err != nil {
			return nil, err
		}
		sales = append(sales, &sale)
	}

	return sales, nil
}

func (r *saleRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, SalesCollection, id)
}
