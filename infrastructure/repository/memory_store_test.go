package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx, CustomersCollection, Record{"name": "Ayesha", "phone": "0300"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	record, err := store.Get(ctx, CustomersCollection, id)
	require.NoError(t, err)
	assert.Equal(t, id, record["id"])
	assert.Equal(t, "Ayesha", record["name"])

	err = store.UpdatePartial(ctx, CustomersCollection, id, Record{"phone": "0311", "id": "outro"})
	require.NoError(t, err)

	record, err = store.Get(ctx, CustomersCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "Ayesha", record["name"], "campos não informados devem ser preservados")
	assert.Equal(t, "0311", record["phone"])
	assert.Equal(t, id, record["id"], "o identificador não pode ser alterado")

	require.NoError(t, store.Delete(ctx, CustomersCollection, id))

	_, err = store.Get(ctx, CustomersCollection, id)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.ErrorIs(t, store.Delete(ctx, CustomersCollection, id), ErrRecordNotFound)
	assert.ErrorIs(t, store.UpdatePartial(ctx, CustomersCollection, id, Record{"name": "x"}), ErrRecordNotFound)
}

func TestMemoryStore_ListAllIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, name := range []string{"A", "B", "C"} {
		_, err := store.Create(ctx, ProductsCollection, Record{"name": name, "quantity": 1})
		require.NoError(t, err)
	}

	first, err := store.ListAll(ctx, ProductsCollection)
	require.NoError(t, err)

	second, err := store.ListAll(ctx, ProductsCollection)
	require.NoError(t, err)

	assert.Len(t, first, 3)
	assert.ElementsMatch(t, first, second)
}

func TestMemoryStore_ListAllEmptyCollection(t *testing.T) {
	records, err := NewMemoryStore().ListAll(context.Background(), SalesCollection)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestMemoryStore_ReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id, err := store.Create(ctx, ProductsCollection, Record{"name": "Lawn"})
	require.NoError(t, err)

	record, err := store.Get(ctx, ProductsCollection, id)
	require.NoError(t, err)
	record["name"] = "alterado"

	again, err := store.Get(ctx, ProductsCollection, id)
	require.NoError(t, err)
	assert.Equal(t, "Lawn", again["name"])
}

func TestMemoryStore_RunInTransaction(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		fnErr    error
		expected float64
	}{
		{
			name:     "Transação confirmada mantém as alterações",
			expected: 7,
		},
		{
			name:     "Transação com erro restaura o estado anterior",
			fnErr:    errors.New("falha no meio da transação"),
			expected: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			id, err := store.Create(ctx, ProductsCollection, Record{"name": "Chiffon", "quantity": 10})
			require.NoError(t, err)

			err = store.RunInTransaction(ctx, func(tx EntityStore) error {
				if err := tx.UpdatePartial(ctx, ProductsCollection, id, Record{"quantity": 7}); err != nil {
					return err
				}
				if _, err := tx.Create(ctx, SalesCollection, Record{"total_amount": "30"}); err != nil {
					return err
				}
				return tt.fnErr
			})
			if tt.fnErr != nil {
				assert.ErrorIs(t, err, tt.fnErr)
			} else {
				require.NoError(t, err)
			}

			record, err := store.Get(ctx, ProductsCollection, id)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, record["quantity"])

			sales, err := store.ListAll(ctx, SalesCollection)
			require.NoError(t, err)
			if tt.fnErr != nil {
				assert.Empty(t, sales)
			} else {
				assert.Len(t, sales, 1)
			}
		})
	}
}
