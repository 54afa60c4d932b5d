package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

type StockAdjustmentRequest struct {
	Delta *int `json:"delta"`
}

func ListProducts(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.ListProducts(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar produtos")
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

// ListSaleCandidates devolve apenas os produtos com estoque positivo
func ListSaleCandidates(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.SaleCandidates(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar produtos disponíveis")
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

func ListLowStock(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := service.LowStock(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar produtos com estoque baixo")
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

func CreateProduct(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.Product
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		created, err := service.CreateProduct(r.Context(), &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar produto")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateProduct(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.ProductInput
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := service.UpdateProduct(r.Context(), id, &req); err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar produto")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteProduct(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteProduct(r.Context(), id); err != nil {
			writeServiceError(w, r, err, "Erro ao excluir produto")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// AdjustStock aplica uma entrada (delta positivo) ou baixa manual (delta negativo)
func AdjustStock(service stocking.ProductService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req StockAdjustmentRequest
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if req.Delta == nil || *req.Delta == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "delta deve ser diferente de zero", nil)
			return
		}

		product, err := service.AdjustStock(r.Context(), id, *req.Delta)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao ajustar estoque")
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}
