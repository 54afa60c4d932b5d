package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, id string, input *domain.CustomerInput) error
	Delete(ctx context.Context, id string) error
}

type customerRepository struct {
	store EntityStore
}

func NewCustomerRepository(store EntityStore) CustomerRepository {
	return &customerRepository{
		store: store,
	}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	record, err := encodeRecord(customer)
	if err != nil {
		return nil, err
	}
	delete(record, "id")

	id, err := r.store.Create(ctx, CustomersCollection, record)
	if err != nil {
		return nil, err
	}

	customer.ID = id
	return customer, nil
}

// Get devolve nil, nil quando o cliente não existe
func (r *customerRepository) Get(ctx context.Context, id string) (*domain.Customer, error) {
	record, err := r.store.Get(ctx, CustomersCollection, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var customer domain.Customer
	if err := decodeRecord(record, &customer); err != nil {
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	records, err := r.store.ListAll(ctx, CustomersCollection)
	if err != nil {
		return nil, err
	}

	customers := make([]*domain.Customer, 0, len(records))
	for _, record := range records {
		var customer domain.Customer
		if err := decodeRecord(record, &customer); err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}

	return customers, nil
}

func (r *customerRepository) Update(ctx context.Context, id string, input *domain.CustomerInput) error {
	fields := Record{}

	if input.Name != nil {
		fields["name"] = *input.Name
	}

	if input.Email != nil {
		fields["email"] = *input.Email
	}

	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}

	if input.Address != nil {
		fields["address"] = *input.Address
	}

	if len(fields) == 0 {
		return nil
	}

	return r.store.UpdatePartial(ctx, CustomersCollection, id, fields)
}

func (r *customerRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, CustomersCollection, id)
}
