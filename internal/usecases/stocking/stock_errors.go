package stocking

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound     = errors.New("produto não encontrado")
	ErrInsufficientStock   = errors.New("estoque insuficiente")
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
)

// StockError carrega o produto envolvido e o código de erro da API
type StockError struct {
	Err       error
	Code      string
	ProductID string
	Details   string
}

func (e *StockError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *StockError) Unwrap() error {
	return e.Err
}

func NewStockError(baseErr error, code string, productID string, details string) *StockError {
	return &StockError{
		Err:       baseErr,
		Code:      code,
		ProductID: productID,
		Details:   details,
	}
}
