package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/selling"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

// ListSales aceita ?q= (cliente ou id da venda) e ?page= começando em 1
func ListSales(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "page deve ser um inteiro maior que zero", nil)
				return
			}
			page = parsed
		}

		result, err := service.ListSales(r.Context(), r.URL.Query().Get("q"), page)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar vendas")
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func GetSale(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		sale, err := service.GetSale(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar venda")
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

// DeleteSale remove apenas o registro. O estoque baixado não é devolvido.
func DeleteSale(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteSale(r.Context(), id); err != nil {
			writeServiceError(w, r, err, "Erro ao excluir venda")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func SaleInvoice(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		invoice, err := service.Invoice(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gerar recibo")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(invoice)
	}
}
