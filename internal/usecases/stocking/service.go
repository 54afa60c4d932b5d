package stocking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

const DefaultLowStockThreshold = 5

type ProductService interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input *domain.ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, search string) ([]*domain.ProductListing, error)
	SaleCandidates(ctx context.Context) ([]*domain.Product, error)
	LowStock(ctx context.Context) ([]*domain.Product, error)
	AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error)
}

type Service struct {
	products          repository.ProductRepository
	ledger            *Ledger
	lowStockThreshold int
	now               func() time.Time
}

func NewService(products repository.ProductRepository, ledger *Ledger, lowStockThreshold int) *Service {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}

	return &Service{
		products:          products,
		ledger:            ledger,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return nil, NewStockError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "", "nome do produto é obrigatório")
	}

	product.ID = ""
	product.CreatedAt = s.now()

	created, err := s.products.Create(ctx, product)
	if err != nil {
		logrus.WithError(err).WithField("article_number", product.ArticleNumber).Error("Erro ao criar produto")
		return nil, err
	}

	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, input *domain.ProductInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return NewStockError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, id, "nome do produto é obrigatório")
	}

	err := s.products.Update(ctx, id, input)
	if err != nil {
		if isNotFound(err) {
			return NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, id, "")
		}
		logrus.WithError(err).WithField("product_id", id).Error("Erro ao atualizar produto")
		return err
	}

	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	err := s.products.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return NewStockError(ErrProductNotFound, apiErrors.ErrProductNotFound, id, "")
		}
		logrus.WithError(err).WithField("product_id", id).Error("Erro ao remover produto")
		return err
	}

	return nil
}

// ListProducts filtra por nome ou código do artigo, sem diferenciar maiúsculas
func (s *Service) ListProducts(ctx context.Context, search string) ([]*domain.ProductListing, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar produtos")
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(search))

	listings := make([]*domain.ProductListing, 0, len(products))
	for _, product := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(product.Name), term) &&
			!strings.Contains(strings.ToLower(product.ArticleNumber), term) {
			continue
		}

		listings = append(listings, &domain.ProductListing{
			Product:    product,
			LowStock:   s.isLowStock(product),
			OutOfStock: product.Quantity == 0,
		})
	}

	return listings, nil
}

func (s *Service) SaleCandidates(ctx context.Context) ([]*domain.Product, error) {
	candidates, err := s.ledger.SaleCandidates(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar produtos disponíveis para venda")
		return nil, err
	}

	return candidates, nil
}

// LowStock devolve os produtos com estoque positivo até o limite configurado
func (s *Service) LowStock(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar produtos")
		return nil, err
	}

	low := make([]*domain.Product, 0)
	for _, product := range products {
		if s.isLowStock(product) {
			low = append(low, product)
		}
	}

	return low, nil
}

func (s *Service) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	product, err := s.ledger.AdjustStock(ctx, productID, delta)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"product_id": productID,
			"delta":      delta,
		}).Error("Erro ao ajustar estoque")
		return nil, err
	}

	return product, nil
}

func (s *Service) LowStockThreshold() int {
	return s.lowStockThreshold
}

func (s *Service) isLowStock(product *domain.Product) bool {
	return product.Quantity > 0 && product.Quantity <= s.lowStockThreshold
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrRecordNotFound)
}
