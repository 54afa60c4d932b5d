package customer

import (
	"errors"
	"fmt"
)

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrMissingRequiredData = errors.New("missing required data")
)

// CustomerError carries the API error code for customer failures
type CustomerError struct {
	Err        error
	Code       string
	CustomerID string
	Details    string
}

func (e *CustomerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *CustomerError) Unwrap() error {
	return e.Err
}

func NewCustomerError(baseErr error, code string, customerID string, details string) *CustomerError {
	return &CustomerError{
		Err:        baseErr,
		Code:       code,
		CustomerID: customerID,
		Details:    details,
	}
}
