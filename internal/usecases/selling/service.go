package selling

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/catalog"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

const DefaultPageSize = 10

type SaleService interface {
	GetDraft(ctx context.Context, sessionID string) (*Draft, error)
	SelectCustomer(ctx context.Context, sessionID string, customerID string) (*Draft, error)
	AddItem(ctx context.Context, sessionID string, input ItemInput) (*Draft, bool, error)
	RemoveItem(ctx context.Context, sessionID string, index int) (*Draft, bool, error)
	CancelDraft(ctx context.Context, sessionID string) error
	CommitSale(ctx context.Context, sessionID string) (*CommitResult, error)
	ListSales(ctx context.Context, search string, page int) (*domain.SalesPage, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
	Invoice(ctx context.Context, id string) ([]byte, error)
}

// ItemInput são os campos do formulário de item. Campos nulos deixam o item incompleto.
type ItemInput struct {
	ProductID string           `json:"product_id"`
	Quantity  *int             `json:"quantity"`
	SellPrice *decimal.Decimal `json:"sell_price"`
}

// CommitResult é a resposta da confirmação. Committed é false quando o rascunho não estava pronto.
type CommitResult struct {
	Committed bool              `json:"committed"`
	Sale      *domain.Sale      `json:"sale,omitempty"`
	Snapshot  *catalog.Snapshot `json:"snapshot,omitempty"`
	Draft     *Draft            `json:"draft"`
}

type Options struct {
	AtomicCommit       bool
	AllowNegativeStock bool
	PageSize           int
}

type Service struct {
	store     repository.EntityStore
	customers repository.CustomerRepository
	products  repository.ProductRepository
	sales     repository.SaleRepository
	ledger    *stocking.Ledger
	loader    catalog.Loader
	drafts    DraftStore
	options   Options
	now       func() time.Time
}

func NewService(store repository.EntityStore, drafts DraftStore, loader catalog.Loader, options Options) *Service {
	if options.PageSize <= 0 {
		options.PageSize = DefaultPageSize
	}

	products := repository.NewProductRepository(store)

	return &Service{
		store:     store,
		customers: repository.NewCustomerRepository(store),
		products:  products,
		sales:     repository.NewSaleRepository(store),
		ledger:    stocking.NewLedger(products, options.AllowNegativeStock),
		loader:    loader,
		drafts:    drafts,
		options:   options,
		now:       time.Now,
	}
}

func (s *Service) GetDraft(ctx context.Context, sessionID string) (*Draft, error) {
	return s.drafts.Load(ctx, sessionID)
}

func (s *Service) SelectCustomer(ctx context.Context, sessionID string, customerID string) (*Draft, error) {
	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.Get(ctx, customerID)
	if err != nil {
		logrus.WithError(err).WithField("customer_id", customerID).Error("Erro ao buscar cliente da venda")
		return nil, err
	}

	if customer == nil {
		return nil, NewSaleError(ErrCustomerNotFound, apiErrors.ErrCustomerNotFound, customerID)
	}

	draft.SelectCustomer(customer)
	if err := s.drafts.Save(ctx, sessionID, draft); err != nil {
		return nil, err
	}

	return draft, nil
}

// AddItem devolve added=false com o rascunho inalterado quando o item está incompleto
// ou o produto não existe. Nenhum dos dois casos é tratado como erro.
func (s *Service) AddItem(ctx context.Context, sessionID string, input ItemInput) (*Draft, bool, error) {
	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if input.ProductID == "" || input.Quantity == nil || input.SellPrice == nil {
		return draft, false, nil
	}

	product, err := s.products.Get(ctx, input.ProductID)
	if err != nil {
		return nil, false, err
	}

	if !draft.AddItem(product, input.Quantity, input.SellPrice) {
		return draft, false, nil
	}

	if err := s.drafts.Save(ctx, sessionID, draft); err != nil {
		return nil, false, err
	}

	return draft, true, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, index int) (*Draft, bool, error) {
	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if !draft.RemoveItem(index) {
		return draft, false, nil
	}

	if err := s.drafts.Save(ctx, sessionID, draft); err != nil {
		return nil, false, err
	}

	return draft, true, nil
}

func (s *Service) CancelDraft(ctx context.Context, sessionID string) error {
	return s.drafts.Discard(ctx, sessionID)
}

// CommitSale grava a venda do rascunho e dá baixa no estoque item a item, na ordem do rascunho.
// Rascunho sem cliente ou sem itens não toca no armazenamento.
func (s *Service) CommitSale(ctx context.Context, sessionID string) (*CommitResult, error) {
	// A confirmação segue até o fim mesmo se o cliente HTTP desconectar
	ctx = context.WithoutCancel(ctx)

	draft, err := s.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !draft.Ready() {
		return &CommitResult{Committed: false, Draft: draft}, nil
	}

	if err := s.ledger.CheckAvailability(ctx, draft.Items); err != nil {
		return nil, err
	}

	sale := draft.BuildSale(s.now())

	if err := s.persist(ctx, sale); err != nil {
		var partial *PartialCommitError
		if errors.As(err, &partial) {
			// a venda já está gravada: repetir o rascunho duplicaria venda e baixas
			draft.Reset()
			if saveErr := s.drafts.Save(ctx, sessionID, draft); saveErr != nil {
				logrus.WithError(saveErr).WithField("sale_id", partial.SaleID).Error("Erro ao limpar rascunho após venda incompleta")
			}
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sale_id":      sale.ID,
		"customer_id":  sale.CustomerID,
		"items":        len(sale.Items),
		"total_amount": sale.TotalAmount.String(),
	}).Info("Venda registrada")

	draft.Reset()
	if err := s.drafts.Save(ctx, sessionID, draft); err != nil {
		logrus.WithError(err).WithField("sale_id", sale.ID).Warn("Erro ao limpar rascunho após a venda")
	}

	snapshot, err := s.loader.Load(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao recarregar dados após a venda")
	}

	return &CommitResult{
		Committed: true,
		Sale:      sale,
		Snapshot:  snapshot,
		Draft:     draft,
	}, nil
}

func (s *Service) persist(ctx context.Context, sale *domain.Sale) error {
	if s.options.AtomicCommit {
		if transactor, ok := s.store.(repository.Transactor); ok {
			return s.persistAtomic(ctx, transactor, sale)
		}
		logrus.Warn("Armazenamento sem suporte a transação, confirmando venda sem atomicidade")
	}

	if _, err := s.sales.Create(ctx, sale); err != nil {
		logrus.WithError(err).WithField("customer_id", sale.CustomerID).Error("Erro ao gravar venda")
		return NewSaleError(ErrCommitFailed, apiErrors.ErrCommitFailed, err.Error())
	}

	applied, err := decrementStock(ctx, s.ledger, sale)
	if err == nil {
		return nil
	}

	partial := &PartialCommitError{
		SaleID:  sale.ID,
		Applied: applied,
		Failed:  sale.Items[len(applied)],
		Pending: sale.Items[len(applied)+1:],
		Err:     err,
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"sale_id":         sale.ID,
		"applied_items":   productIDs(partial.Applied),
		"failed_product":  partial.Failed.ProductID,
		"failed_quantity": partial.Failed.Quantity,
		"pending_items":   productIDs(partial.Pending),
	}).Error("Venda gravada com baixa de estoque incompleta")

	return partial
}

// persistAtomic grava a venda e as baixas na mesma transação. Qualquer falha desfaz tudo.
func (s *Service) persistAtomic(ctx context.Context, transactor repository.Transactor, sale *domain.Sale) error {
	err := transactor.RunInTransaction(ctx, func(tx repository.EntityStore) error {
		if _, err := repository.NewSaleRepository(tx).Create(ctx, sale); err != nil {
			return err
		}

		ledger := stocking.NewLedger(repository.NewProductRepository(tx), s.options.AllowNegativeStock)
		_, err := decrementStock(ctx, ledger, sale)
		return err
	})
	if err == nil {
		return nil
	}

	sale.ID = ""
	logrus.WithError(err).WithField("customer_id", sale.CustomerID).Error("Venda desfeita, nenhuma alteração gravada")

	var stockErr *stocking.StockError
	if errors.As(err, &stockErr) {
		return stockErr
	}

	return NewSaleError(ErrCommitFailed, apiErrors.ErrCommitFailed, err.Error())
}

// decrementStock devolve os itens já descontados. Produto removido do cadastro é ignorado com aviso.
func decrementStock(ctx context.Context, ledger stocking.StockAdjuster, sale *domain.Sale) ([]domain.SaleItem, error) {
	applied := make([]domain.SaleItem, 0, len(sale.Items))

	for _, item := range sale.Items {
		_, err := ledger.AdjustStock(ctx, item.ProductID, -item.Quantity)
		if errors.Is(err, stocking.ErrProductNotFound) {
			logrus.WithFields(logrus.Fields{
				"sale_id":    sale.ID,
				"product_id": item.ProductID,
			}).Warn("Produto da venda não existe mais, baixa de estoque ignorada")
			applied = append(applied, item)
			continue
		}
		if err != nil {
			return applied, err
		}
		applied = append(applied, item)
	}

	return applied, nil
}

// ListSales filtra por nome do cliente ou id da venda e pagina a partir de 1, mais recentes primeiro
func (s *Service) ListSales(ctx context.Context, search string, page int) (*domain.SalesPage, error) {
	sales, err := s.sales.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar vendas")
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]*domain.Sale, 0, len(sales))
	for _, sale := range sales {
		if term == "" ||
			strings.Contains(strings.ToLower(sale.CustomerName), term) ||
			strings.Contains(strings.ToLower(sale.ID), term) {
			filtered = append(filtered, sale)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date)
	})

	if page < 1 {
		page = 1
	}

	size := s.options.PageSize
	total := len(filtered)
	start := min((page-1)*size, total)
	end := min(start+size, total)

	return &domain.SalesPage{
		Sales:      filtered[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.sales.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sale == nil {
		return nil, NewSaleError(ErrSaleNotFound, apiErrors.ErrSaleNotFound, id)
	}

	return sale, nil
}

// DeleteSale não devolve o estoque dos itens
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	err := s.sales.Delete(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return NewSaleError(ErrSaleNotFound, apiErrors.ErrSaleNotFound, id)
	}
	if err != nil {
		logrus.WithError(err).WithField("sale_id", id).Error("Erro ao excluir venda")
		return err
	}

	return nil
}

// Invoice exige que o cliente da venda ainda exista
func (s *Service) Invoice(ctx context.Context, id string) ([]byte, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.Get(ctx, sale.CustomerID)
	if err != nil {
		return nil, err
	}

	if customer == nil {
		return nil, NewSaleError(ErrCustomerNotFound, apiErrors.ErrCustomerNotFound, sale.CustomerID)
	}

	return RenderInvoice(sale, customer)
}
