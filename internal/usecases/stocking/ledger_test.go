package stocking

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func seedProduct(t *testing.T, repo repository.ProductRepository, name string, quantity int) *domain.Product {
	t.Helper()

	product, err := repo.Create(context.Background(), &domain.Product{
		ArticleNumber: "ART-" + name,
		Name:          name,
		Cost:          decimal.NewFromInt(50),
		Quantity:      quantity,
	})
	require.NoError(t, err)
	return product
}

func TestLedger_AdjustStock(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		initial       int
		delta         int
		allowNegative bool
		expectedQty   int
		expectedErr   error
	}{
		{
			name:          "Baixa de 3 unidades sobre 10 deixa 7",
			initial:       10,
			delta:         -3,
			allowNegative: true,
			expectedQty:   7,
		},
		{
			name:          "Entrada de estoque soma ao saldo",
			initial:       2,
			delta:         5,
			allowNegative: true,
			expectedQty:   7,
		},
		{
			name:          "Saldo negativo permitido por configuração",
			initial:       1,
			delta:         -3,
			allowNegative: true,
			expectedQty:   -2,
		},
		{
			name:          "Saldo negativo bloqueado mantém o estoque",
			initial:       1,
			delta:         -3,
			allowNegative: false,
			expectedQty:   1,
			expectedErr:   ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewProductRepository(repository.NewMemoryStore())
			product := seedProduct(t, repo, "Kurta", tt.initial)
			ledger := NewLedger(repo, tt.allowNegative)

			updated, err := ledger.AdjustStock(ctx, product.ID, tt.delta)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				var stockErr *StockError
				require.True(t, errors.As(err, &stockErr))
				assert.Equal(t, apiErrors.ErrInsufficientStock, stockErr.Code)
				assert.Equal(t, product.ID, stockErr.ProductID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedQty, updated.Quantity)
			}

			stored, err := repo.Get(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedQty, stored.Quantity)
		})
	}
}

func TestLedger_AdjustStockUnknownProduct(t *testing.T) {
	ledger := NewLedger(repository.NewProductRepository(repository.NewMemoryStore()), true)

	_, err := ledger.AdjustStock(context.Background(), "inexistente", -1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestLedger_AdjustStockWritesOnlyQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockStore := mocks.NewMockEntityStore(ctrl)

	mockStore.EXPECT().
		Get(gomock.Any(), repository.ProductsCollection, "p1").
		Return(repository.Record{"id": "p1", "name": "Kurta", "cost": "50", "quantity": float64(10)}, nil)

	mockStore.EXPECT().
		UpdatePartial(gomock.Any(), repository.ProductsCollection, "p1", repository.Record{"quantity": 7}).
		Return(nil)

	ledger := NewLedger(repository.NewProductRepository(mockStore), true)

	product, err := ledger.AdjustStock(ctx, "p1", -3)
	require.NoError(t, err)
	assert.Equal(t, 7, product.Quantity)
}

func TestLedger_AdjustStockStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockEntityStore(ctrl)
	storeErr := errors.New("conexão perdida")

	mockStore.EXPECT().
		Get(gomock.Any(), repository.ProductsCollection, "p1").
		Return(repository.Record{"id": "p1", "quantity": float64(10)}, nil)

	mockStore.EXPECT().
		UpdatePartial(gomock.Any(), repository.ProductsCollection, "p1", gomock.Any()).
		Return(storeErr)

	ledger := NewLedger(repository.NewProductRepository(mockStore), true)

	_, err := ledger.AdjustStock(context.Background(), "p1", -3)
	assert.ErrorIs(t, err, storeErr)
}

func TestLedger_SaleCandidates(t *testing.T) {
	repo := repository.NewProductRepository(repository.NewMemoryStore())
	inStock := seedProduct(t, repo, "Kurta", 4)
	seedProduct(t, repo, "Dupatta", 0)
	seedProduct(t, repo, "Shalwar", -1)

	candidates, err := NewLedger(repo, true).SaleCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, inStock.ID, candidates[0].ID)
}

func TestLedger_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProductRepository(repository.NewMemoryStore())
	product := seedProduct(t, repo, "Kurta", 3)

	items := []domain.SaleItem{
		{ProductID: product.ID, Quantity: 2},
		{ProductID: product.ID, Quantity: 2},
	}

	assert.NoError(t, NewLedger(repo, true).CheckAvailability(ctx, items))

	err := NewLedger(repo, false).CheckAvailability(ctx, items)
	assert.ErrorIs(t, err, ErrInsufficientStock, "linhas repetidas do mesmo produto somam a quantidade")

	assert.NoError(t, NewLedger(repo, false).CheckAvailability(ctx, items[:1]))
}
