//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

package repository

import (
	"context"
	"errors"
)

// Collection identifica uma coleção do armazenamento de documentos
type Collection string

const (
	CustomersCollection Collection = "customers"
	ProductsCollection  Collection = "products"
	SalesCollection     Collection = "sales"
	UsersCollection     Collection = "users"
)

// Record é um documento de uma coleção. O campo "id" é preenchido pelo armazenamento.
type Record map[string]any

var ErrRecordNotFound = errors.New("registro não encontrado")

// EntityStore é o contrato mínimo de persistência usado pelo domínio
type EntityStore interface {
	// Create grava o registro e devolve o identificador gerado
	Create(ctx context.Context, collection Collection, record Record) (string, error)
	// Get devolve ErrRecordNotFound quando o registro não existe
	Get(ctx context.Context, collection Collection, id string) (Record, error)
	// ListAll devolve todos os registros da coleção, sem ordem garantida
	ListAll(ctx context.Context, collection Collection) ([]Record, error)
	// UpdatePartial mescla os campos informados no registro existente
	UpdatePartial(ctx context.Context, collection Collection, id string, fields Record) error
	// Delete remove o registro sem cascata
	Delete(ctx context.Context, collection Collection, id string) error
}

// Transactor é implementado pelos armazenamentos que suportam escrita atômica de vários registros
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(store EntityStore) error) error
}

// TransactionalStore reúne as duas capacidades
type TransactionalStore interface {
	EntityStore
	Transactor
}
