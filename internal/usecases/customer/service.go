package customer

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

type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, id string, input *domain.CustomerInput) error
	DeleteCustomer(ctx context.Context, id string) error
	ListCustomers(ctx context.Context, search string) ([]*domain.Customer, error)
}

type Service struct {
	customers repository.CustomerRepository
	now       func() time.Time
}

func NewService(customers repository.CustomerRepository) CustomerService {
	return &Service{
		customers: customers,
		now:       time.Now,
	}
}

func (s *Service) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return nil, NewCustomerError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "", "nome do cliente é obrigatório")
	}

	customer.ID = ""
	customer.CreatedAt = s.now()

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar cliente")
		return nil, err
	}

	return created, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.Get(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("customer_id", id).Error("Erro ao buscar cliente")
		return nil, err
	}

	if customer == nil {
		return nil, NewCustomerError(ErrCustomerNotFound, apiErrors.ErrCustomerNotFound, id, "")
	}

	return customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, input *domain.CustomerInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return NewCustomerError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, id, "nome do cliente é obrigatório")
	}

	err := s.customers.Update(ctx, id, input)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return NewCustomerError(ErrCustomerNotFound, apiErrors.ErrCustomerNotFound, id, "")
	}
	if err != nil {
		logrus.WithError(err).WithField("customer_id", id).Error("Erro ao atualizar cliente")
		return err
	}

	return nil
}

// DeleteCustomer não remove as vendas do cliente; elas mantêm o nome copiado na venda
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	err := s.customers.Delete(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return NewCustomerError(ErrCustomerNotFound, apiErrors.ErrCustomerNotFound, id, "")
	}
	if err != nil {
		logrus.WithError(err).WithField("customer_id", id).Error("Erro ao remover cliente")
		return err
	}

	return nil
}

// ListCustomers busca por nome ou email sem diferenciar maiúsculas, ou por trecho do telefone
func (s *Service) ListCustomers(ctx context.Context, search string) ([]*domain.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar clientes")
		return nil, err
	}

	term := strings.TrimSpace(search)
	if term == "" {
		return customers, nil
	}

	lowered := strings.ToLower(term)
	filtered := make([]*domain.Customer, 0, len(customers))
	for _, customer := range customers {
		if strings.Contains(strings.ToLower(customer.Name), lowered) ||
			strings.Contains(strings.ToLower(customer.Email), lowered) ||
			strings.Contains(customer.Phone, term) {
			filtered = append(filtered, customer)
		}
	}

	return filtered, nil
}
