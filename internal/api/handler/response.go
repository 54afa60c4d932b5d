package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/customer"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/selling"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
	"github.com/vfg2006/boutique-manager-api/pkg/log"
	"github.com/vfg2006/boutique-manager-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao codificar resposta")
	}
}

func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

// sessionID identifica o rascunho de venda do usuário autenticado
func sessionID(r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

// writeServiceError traduz os erros tipados dos serviços para a resposta padronizada
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	logger := log.ForContext(r.Context()).WithError(err)

	var partialErr *selling.PartialCommitError
	if errors.As(err, &partialErr) {
		logger.WithField("sale_id", partialErr.SaleID).Error("Venda com baixa de estoque incompleta")
		apiErrors.WriteError(w, apiErrors.ErrPartialCommit, partialErr.Error(), map[string]any{
			"sale_id": partialErr.SaleID,
			"applied": partialErr.Applied,
			"failed":  partialErr.Failed,
			"pending": partialErr.Pending,
		})
		return
	}

	var stockErr *stocking.StockError
	if errors.As(err, &stockErr) {
		logger.Warn(fallback)
		apiErrors.WriteError(w, stockErr.Code, stockErr.Error(), map[string]any{"product_id": stockErr.ProductID})
		return
	}

	var saleErr *selling.SaleError
	if errors.As(err, &saleErr) {
		logger.Warn(fallback)
		apiErrors.WriteError(w, saleErr.Code, saleErr.Error(), nil)
		return
	}

	var customerErr *customer.CustomerError
	if errors.As(err, &customerErr) {
		logger.Warn(fallback)
		apiErrors.WriteError(w, customerErr.Code, customerErr.Error(), nil)
		return
	}

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		logger.Warn(fallback)
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	logger.Error(fallback)
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}
