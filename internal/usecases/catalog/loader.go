package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

// Snapshot é a fotografia das três coleções carregadas juntas
type Snapshot struct {
	Customers []*domain.Customer `json:"customers"`
	Products  []*domain.Product  `json:"products"`
	Sales     []*domain.Sale     `json:"sales"`
}

type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

type loader struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	sales     repository.SaleRepository
}

func NewLoader(store repository.EntityStore) Loader {
	return &loader{
		customers: repository.NewCustomerRepository(store),
		products:  repository.NewProductRepository(store),
		sales:     repository.NewSaleRepository(store),
	}
}

// Load busca clientes, produtos e vendas em paralelo e só devolve depois das três respostas
func (l *loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		wg       sync.WaitGroup
		snapshot Snapshot
		errs     [3]error
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		customers, err := l.customers.List(ctx)
		if err != nil {
			errs[0] = fmt.Errorf("erro ao carregar clientes: %w", err)
			return
		}
		snapshot.Customers = customers
	}()

	go func() {
		defer wg.Done()
		products, err := l.products.List(ctx)
		if err != nil {
			errs[1] = fmt.Errorf("erro ao carregar produtos: %w", err)
			return
		}
		snapshot.Products = products
	}()

	go func() {
		defer wg.Done()
		sales, err := l.sales.List(ctx)
		if err != nil {
			errs[2] = fmt.Errorf("erro ao carregar vendas: %w", err)
			return
		}
		snapshot.Sales = sales
	}()

	wg.Wait()

	if err := errors.Join(errs[:]...); err != nil {
		return nil, err
	}

	return &snapshot, nil
}
