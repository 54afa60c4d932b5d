package selling

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/boutique-manager-api/infrastructure/cache"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/catalog"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

const session = "user-1"

var errStoreDown = errors.New("armazenamento indisponível")

// flakyStore falha ao atualizar um produto específico
type flakyStore struct {
	repository.EntityStore
	failOn string
}

func (s *flakyStore) UpdatePartial(ctx context.Context, collection repository.Collection, id string, fields repository.Record) error {
	if collection == repository.ProductsCollection && id == s.failOn {
		return errStoreDown
	}
	return s.EntityStore.UpdatePartial(ctx, collection, id, fields)
}

type flakyTxStore struct {
	*flakyStore
	mem *repository.MemoryStore
}

func (s *flakyTxStore) RunInTransaction(ctx context.Context, fn func(store repository.EntityStore) error) error {
	return s.mem.RunInTransaction(ctx, func(tx repository.EntityStore) error {
		return fn(&flakyStore{EntityStore: tx, failOn: s.failOn})
	})
}

type fixture struct {
	store     repository.EntityStore
	service   *Service
	customers repository.CustomerRepository
	products  repository.ProductRepository
	sales     repository.SaleRepository
}

func newFixture(store repository.EntityStore, options Options) *fixture {
	service := NewService(store, NewDraftStore(cache.NewMemoryCache(), time.Hour), catalog.NewLoader(store), options)
	service.now = func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		store:     store,
		service:   service,
		customers: repository.NewCustomerRepository(store),
		products:  repository.NewProductRepository(store),
		sales:     repository.NewSaleRepository(store),
	}
}

func (f *fixture) seedCustomer(t *testing.T, name string) *domain.Customer {
	t.Helper()
	customer, err := f.customers.Create(context.Background(), &domain.Customer{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@mail.com",
		Phone: "0300-1234567",
	})
	require.NoError(t, err)
	return customer
}

func (f *fixture) seedProduct(t *testing.T, name string, cost int64, quantity int) *domain.Product {
	t.Helper()
	product, err := f.products.Create(context.Background(), &domain.Product{
		ArticleNumber: "ART-" + name,
		Name:          name,
		Cost:          decimal.NewFromInt(cost),
		Quantity:      quantity,
	})
	require.NoError(t, err)
	return product
}

func (f *fixture) quantityOf(t *testing.T, id string) int {
	t.Helper()
	product, err := f.products.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, product)
	return product.Quantity
}

func (f *fixture) compose(t *testing.T, customer *domain.Customer, lines ...ItemInput) {
	t.Helper()
	ctx := context.Background()

	_, err := f.service.SelectCustomer(ctx, session, customer.ID)
	require.NoError(t, err)

	for _, line := range lines {
		_, added, err := f.service.AddItem(ctx, session, line)
		require.NoError(t, err)
		require.True(t, added)
	}
}

func TestService_CommitSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{AllowNegativeStock: true})

	customer := f.seedCustomer(t, "Ayesha Khan")
	shirt := f.seedProduct(t, "Camisa", 60, 10)
	scarf := f.seedProduct(t, "Lenço", 30, 4)

	f.compose(t, customer,
		ItemInput{ProductID: shirt.ID, Quantity: intPtr(3), SellPrice: pricePtr(100)},
		ItemInput{ProductID: scarf.ID, Quantity: intPtr(1), SellPrice: pricePtr(50)},
	)

	result, err := f.service.CommitSale(ctx, session)
	require.NoError(t, err)
	require.True(t, result.Committed)

	sale := result.Sale
	assert.NotEmpty(t, sale.ID)
	assert.Equal(t, "Ayesha Khan", sale.CustomerName)
	assert.True(t, decimal.NewFromInt(350).Equal(sale.TotalAmount))
	assert.True(t, decimal.NewFromInt(210).Equal(sale.TotalCost))
	assert.True(t, decimal.NewFromInt(140).Equal(sale.Profit))

	assert.Equal(t, 7, f.quantityOf(t, shirt.ID))
	assert.Equal(t, 3, f.quantityOf(t, scarf.ID))

	stored, err := f.sales.Get(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, sale.TotalAmount.Equal(stored.TotalAmount))
	assert.Len(t, stored.Items, 2)

	require.NotNil(t, result.Snapshot)
	assert.Len(t, result.Snapshot.Sales, 1)
	assert.Len(t, result.Snapshot.Products, 2)

	draft, err := f.service.GetDraft(ctx, session)
	require.NoError(t, err)
	assert.Nil(t, draft.Customer)
	assert.Empty(t, draft.Items)
}

func TestService_CommitSale_RascunhoIncompletoNaoTocaNoArmazenamento(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, service *Service)
	}{
		{
			name:  "Rascunho vazio",
			setup: func(t *testing.T, service *Service) {},
		},
		{
			name: "Itens sem cliente",
			setup: func(t *testing.T, service *Service) {
				draft := NewDraft()
				draft.AddItem(testProduct("p1", 10), intPtr(1), pricePtr(20))
				require.NoError(t, service.drafts.Save(context.Background(), session, draft))
			},
		},
		{
			name: "Cliente sem itens",
			setup: func(t *testing.T, service *Service) {
				draft := NewDraft()
				draft.SelectCustomer(&domain.Customer{ID: "c1", Name: "Ayesha"})
				require.NoError(t, service.drafts.Save(context.Background(), session, draft))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// Sem EXPECT: qualquer chamada ao armazenamento falha o teste
			store := mocks.NewMockEntityStore(ctrl)

			service := NewService(store, NewDraftStore(cache.NewMemoryCache(), time.Hour), catalog.NewLoader(store), Options{})
			tt.setup(t, service)

			result, err := service.CommitSale(context.Background(), session)

			require.NoError(t, err)
			assert.False(t, result.Committed)
			assert.Nil(t, result.Sale)
		})
	}
}

func TestService_CommitSale_FalhaParcial(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryStore()
	f := newFixture(mem, Options{AllowNegativeStock: true})

	customer := f.seedCustomer(t, "Ayesha Khan")
	first := f.seedProduct(t, "Camisa", 60, 10)
	second := f.seedProduct(t, "Lenço", 30, 10)
	third := f.seedProduct(t, "Bolsa", 80, 10)

	flaky := &flakyStore{EntityStore: mem, failOn: second.ID}
	f.service = NewService(flaky, f.service.drafts, catalog.NewLoader(flaky), Options{AllowNegativeStock: true})

	f.compose(t, customer,
		ItemInput{ProductID: first.ID, Quantity: intPtr(1), SellPrice: pricePtr(100)},
		ItemInput{ProductID: second.ID, Quantity: intPtr(2), SellPrice: pricePtr(50)},
		ItemInput{ProductID: third.ID, Quantity: intPtr(3), SellPrice: pricePtr(120)},
	)

	result, err := f.service.CommitSale(ctx, session)
	require.Error(t, err)
	assert.Nil(t, result)

	var partial *PartialCommitError
	require.True(t, errors.As(err, &partial))
	assert.True(t, errors.Is(err, ErrPartialCommit))
	assert.True(t, errors.Is(err, errStoreDown))
	assert.NotEmpty(t, partial.SaleID)
	require.Len(t, partial.Applied, 1)
	assert.Equal(t, first.ID, partial.Applied[0].ProductID)
	assert.Equal(t, second.ID, partial.Failed.ProductID)
	require.Len(t, partial.Pending, 1)
	assert.Equal(t, third.ID, partial.Pending[0].ProductID)

	// A venda já foi gravada e só o primeiro item teve baixa
	stored, err := f.sales.Get(ctx, partial.SaleID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, 9, f.quantityOf(t, first.ID))
	assert.Equal(t, 10, f.quantityOf(t, second.ID))
	assert.Equal(t, 10, f.quantityOf(t, third.ID))

	// A venda gravada encerra o rascunho
	draft, err := f.service.GetDraft(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, draft.Items)
	assert.Nil(t, draft.Customer)
}

func TestService_CommitSale_FalhaParcialNaoDuplicaVenda(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryStore()
	f := newFixture(mem, Options{AllowNegativeStock: true})

	customer := f.seedCustomer(t, "Ayesha Khan")
	first := f.seedProduct(t, "Camisa", 60, 10)
	second := f.seedProduct(t, "Lenço", 30, 10)

	drafts := f.service.drafts
	flaky := &flakyStore{EntityStore: mem, failOn: second.ID}
	f.service = NewService(flaky, drafts, catalog.NewLoader(flaky), Options{AllowNegativeStock: true})

	f.compose(t, customer,
		ItemInput{ProductID: first.ID, Quantity: intPtr(1), SellPrice: pricePtr(100)},
		ItemInput{ProductID: second.ID, Quantity: intPtr(1), SellPrice: pricePtr(50)},
	)

	_, err := f.service.CommitSale(ctx, session)
	var partial *PartialCommitError
	require.True(t, errors.As(err, &partial))

	// armazenamento recuperado: nova confirmação não encontra nada pronto
	f.service = NewService(mem, drafts, catalog.NewLoader(mem), Options{AllowNegativeStock: true})

	result, err := f.service.CommitSale(ctx, session)
	require.NoError(t, err)
	assert.False(t, result.Committed)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
	assert.Equal(t, 9, f.quantityOf(t, first.ID))
	assert.Equal(t, 10, f.quantityOf(t, second.ID))
}

func TestService_CommitSale_AtomicaDesfazTudo(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryStore()
	f := newFixture(mem, Options{})

	customer := f.seedCustomer(t, "Ayesha Khan")
	first := f.seedProduct(t, "Camisa", 60, 10)
	second := f.seedProduct(t, "Lenço", 30, 10)

	store := &flakyTxStore{flakyStore: &flakyStore{EntityStore: mem, failOn: second.ID}, mem: mem}
	options := Options{AtomicCommit: true, AllowNegativeStock: true}
	f.service = NewService(store, f.service.drafts, catalog.NewLoader(store), options)

	f.compose(t, customer,
		ItemInput{ProductID: first.ID, Quantity: intPtr(1), SellPrice: pricePtr(100)},
		ItemInput{ProductID: second.ID, Quantity: intPtr(2), SellPrice: pricePtr(50)},
	)

	_, err := f.service.CommitSale(ctx, session)
	require.Error(t, err)

	var saleErr *SaleError
	require.True(t, errors.As(err, &saleErr))
	assert.Equal(t, apiErrors.ErrCommitFailed, saleErr.Code)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Equal(t, 10, f.quantityOf(t, first.ID))
	assert.Equal(t, 10, f.quantityOf(t, second.ID))
}

func TestService_CommitSale_BloqueiaEstoqueInsuficiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{AllowNegativeStock: false})

	customer := f.seedCustomer(t, "Ayesha Khan")
	first := f.seedProduct(t, "Camisa", 60, 10)
	second := f.seedProduct(t, "Lenço", 30, 2)

	f.compose(t, customer,
		ItemInput{ProductID: first.ID, Quantity: intPtr(1), SellPrice: pricePtr(100)},
		ItemInput{ProductID: second.ID, Quantity: intPtr(2), SellPrice: pricePtr(50)},
		ItemInput{ProductID: second.ID, Quantity: intPtr(1), SellPrice: pricePtr(50)},
	)

	_, err := f.service.CommitSale(ctx, session)
	require.Error(t, err)

	var stockErr *stocking.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, apiErrors.ErrInsufficientStock, stockErr.Code)
	assert.Equal(t, second.ID, stockErr.ProductID)

	sales, err := f.sales.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Equal(t, 10, f.quantityOf(t, first.ID))
	assert.Equal(t, 2, f.quantityOf(t, second.ID))
}

func TestService_CommitSale_EstoqueNegativoPermitido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{AllowNegativeStock: true})

	customer := f.seedCustomer(t, "Ayesha Khan")
	product := f.seedProduct(t, "Camisa", 60, 1)

	f.compose(t, customer, ItemInput{ProductID: product.ID, Quantity: intPtr(3), SellPrice: pricePtr(100)})

	result, err := f.service.CommitSale(ctx, session)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, -2, f.quantityOf(t, product.ID))
}

func TestService_CommitSale_ProdutoExcluidoEIgnorado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{AllowNegativeStock: true})

	customer := f.seedCustomer(t, "Ayesha Khan")
	removed := f.seedProduct(t, "Camisa", 60, 10)
	kept := f.seedProduct(t, "Lenço", 30, 10)

	f.compose(t, customer,
		ItemInput{ProductID: removed.ID, Quantity: intPtr(1), SellPrice: pricePtr(100)},
		ItemInput{ProductID: kept.ID, Quantity: intPtr(4), SellPrice: pricePtr(50)},
	)
	require.NoError(t, f.products.Delete(ctx, removed.ID))

	result, err := f.service.CommitSale(ctx, session)
	require.NoError(t, err)
	assert.True(t, result.Committed)
	assert.Equal(t, 6, f.quantityOf(t, kept.ID))
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{})
	product := f.seedProduct(t, "Camisa", 60, 10)

	tests := []struct {
		name  string
		input ItemInput
		added bool
	}{
		{
			name:  "Produto existente é adicionado",
			input: ItemInput{ProductID: product.ID, Quantity: intPtr(2), SellPrice: pricePtr(100)},
			added: true,
		},
		{
			name:  "Produto inexistente é ignorado",
			input: ItemInput{ProductID: "nao-existe", Quantity: intPtr(2), SellPrice: pricePtr(100)},
		},
		{
			name:  "Sem produto selecionado",
			input: ItemInput{Quantity: intPtr(2), SellPrice: pricePtr(100)},
		},
		{
			name:  "Sem preço",
			input: ItemInput{ProductID: product.ID, Quantity: intPtr(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.service.CancelDraft(ctx, session))

			draft, added, err := f.service.AddItem(ctx, session, tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.added, added)
			if tt.added {
				assert.Len(t, draft.Items, 1)
			} else {
				assert.Empty(t, draft.Items)
			}
		})
	}
}

func TestService_SelectCustomer_Inexistente(t *testing.T) {
	f := newFixture(repository.NewMemoryStore(), Options{})

	_, err := f.service.SelectCustomer(context.Background(), session, "nao-existe")

	var saleErr *SaleError
	require.True(t, errors.As(err, &saleErr))
	assert.Equal(t, apiErrors.ErrCustomerNotFound, saleErr.Code)
}

func TestService_ListSales(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{PageSize: 2})

	base := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	names := []string{"Ayesha Khan", "Bilal Ahmed", "Ayesha Malik"}
	for i, name := range names {
		_, err := f.sales.Create(ctx, &domain.Sale{
			CustomerID:   "c" + name,
			CustomerName: name,
			TotalAmount:  decimal.NewFromInt(100),
			Date:         base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	page, err := f.service.ListSales(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Sales, 2)
	assert.Equal(t, "Ayesha Malik", page.Sales[0].CustomerName)
	assert.Equal(t, "Bilal Ahmed", page.Sales[1].CustomerName)

	page, err = f.service.ListSales(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, page.Sales, 1)
	assert.Equal(t, "Ayesha Khan", page.Sales[0].CustomerName)

	page, err = f.service.ListSales(ctx, "", 9)
	require.NoError(t, err)
	assert.Empty(t, page.Sales)

	page, err = f.service.ListSales(ctx, "ayesha", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}

func TestService_DeleteSale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{})

	sale, err := f.sales.Create(ctx, &domain.Sale{CustomerName: "Ayesha", Date: time.Now()})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteSale(ctx, sale.ID))

	err = f.service.DeleteSale(ctx, sale.ID)
	assert.True(t, errors.Is(err, ErrSaleNotFound))
}

func TestService_Invoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(repository.NewMemoryStore(), Options{AllowNegativeStock: true})

	customer := f.seedCustomer(t, "Ayesha <Khan>")
	product := f.seedProduct(t, "Camisa", 60, 10)
	f.compose(t, customer, ItemInput{ProductID: product.ID, Quantity: intPtr(2), SellPrice: pricePtr(1250)})

	result, err := f.service.CommitSale(ctx, session)
	require.NoError(t, err)

	html, err := f.service.Invoice(ctx, result.Sale.ID)
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "Boutique Manager")
	assert.Contains(t, page, "SALES INVOICE")
	assert.Contains(t, page, "ART-Camisa")
	assert.Contains(t, page, "PKR 1250.00")
	assert.Contains(t, page, "Total Amount: PKR 2500.00")
	assert.Contains(t, page, "Ayesha &lt;Khan&gt;")
	assert.Contains(t, page, "10/03/2024")

	require.NoError(t, f.customers.Delete(ctx, customer.ID))
	_, err = f.service.Invoice(ctx, result.Sale.ID)
	assert.True(t, errors.Is(err, ErrCustomerNotFound))
}
