package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/customer"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

// ListCustomers aceita o filtro opcional ?q= por nome, email ou telefone
func ListCustomers(service customer.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := service.ListCustomers(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar clientes")
			return
		}

		writeJSON(w, http.StatusOK, customers)
	}
}

func GetCustomer(service customer.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		found, err := service.GetCustomer(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar cliente")
			return
		}

		writeJSON(w, http.StatusOK, found)
	}
}

func CreateCustomer(service customer.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.Customer
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		created, err := service.CreateCustomer(r.Context(), &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar cliente")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateCustomer(service customer.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req domain.CustomerInput
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := service.UpdateCustomer(r.Context(), id, &req); err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar cliente")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteCustomer(service customer.CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.DeleteCustomer(r.Context(), id); err != nil {
			writeServiceError(w, r, err, "Erro ao excluir cliente")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
