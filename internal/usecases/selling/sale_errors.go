package selling

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

var (
	ErrCustomerNotFound = errors.New("cliente não encontrado")
	ErrSaleNotFound     = errors.New("venda não encontrada")
	ErrCommitFailed     = errors.New("não foi possível gravar a venda")
	ErrPartialCommit    = errors.New("venda gravada com baixa de estoque incompleta")
)

type SaleError struct {
	Err     error
	Code    string
	Details string
}

func (e *SaleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

func NewSaleError(baseErr error, code string, details string) *SaleError {
	return &SaleError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// PartialCommitError indica que a venda foi gravada mas a baixa de estoque parou no meio.
// Applied já foi descontado do estoque, Failed é o item que falhou e Pending não foi processado.
type PartialCommitError struct {
	SaleID  string
	Applied []domain.SaleItem
	Failed  domain.SaleItem
	Pending []domain.SaleItem
	Err     error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("%s: venda %s, falha no produto %s (%d aplicados, %d pendentes): %v",
		ErrPartialCommit.Error(), e.SaleID, e.Failed.ProductID, len(e.Applied), len(e.Pending), e.Err)
}

func (e *PartialCommitError) Unwrap() []error {
	return []error{ErrPartialCommit, e.Err}
}

func productIDs(items []domain.SaleItem) string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ProductID
	}
	return strings.Join(ids, ",")
}
