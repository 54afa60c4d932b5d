package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, input *domain.ProductInput) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	store EntityStore
}

func NewProductRepository(store EntityStore) ProductRepository {
	return &productRepository{
		store: store,
	}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	record, err := encodeRecord(product)
	if err != nil {
		return nil, err
	}
	delete(record, "id")

	id, err := r.store.Create(ctx, ProductsCollection, record)
	if err != nil {
		return nil, err
	}

	product.ID = id
	return product, nil
}

// Get devolve nil, nil quando o produto não existe
func (r *productRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	record, err := r.store.Get(ctx, ProductsCollection, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product domain.Product
	if err := decodeRecord(record, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	records, err := r.store.ListAll(ctx, ProductsCollection)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(records))
	for _, record := range records {
		var product domain.Product
		if err := decodeRecord(record, &product); err != nil {
			return nil, err
		}
		products = append(products, &product)
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, id string, input *domain.ProductInput) error {
	fields := Record{}

	if input.ArticleNumber != nil {
		fields["article_number"] = *input.ArticleNumber
	}

	if input.Name != nil {
		fields["name"] = *input.Name
	}

	if input.Cost != nil {
		fields["cost"] = input.Cost.String()
	}

	if input.Quantity != nil {
		fields["quantity"] = *input.Quantity
	}

	if len(fields) == 0 {
		return nil
	}

	return r.store.UpdatePartial(ctx, ProductsCollection, id, fields)
}

// UpdateQuantity altera somente o campo de estoque
func (r *productRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return r.store.UpdatePartial(ctx, ProductsCollection, id, Record{"quantity": quantity})
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, ProductsCollection, id)
}
