package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/selling"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

type SelectCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

// DraftResponse acompanha o rascunho com o total corrente e se pode ser confirmado
type DraftResponse struct {
	*selling.Draft
	Total decimal.Decimal `json:"total"`
	Ready bool            `json:"ready"`
	// Changed é false quando a operação foi ignorada por dados incompletos
	Changed *bool `json:"changed,omitempty"`
}

func newDraftResponse(draft *selling.Draft) DraftResponse {
	return DraftResponse{
		Draft: draft,
		Total: draft.Total(),
		Ready: draft.Ready(),
	}
}

func GetDraft(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionID(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		draft, err := service.GetDraft(r.Context(), session)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao carregar rascunho")
			return
		}

		writeJSON(w, http.StatusOK, newDraftResponse(draft))
	}
}

func SelectDraftCustomer(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionID(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req SelectCustomerRequest
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		draft, err := service.SelectCustomer(r.Context(), session, req.CustomerID)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao selecionar cliente")
			return
		}

		writeJSON(w, http.StatusOK, newDraftResponse(draft))
	}
}

// AddDraftItem responde 200 mesmo quando o item é ignorado, com changed=false
func AddDraftItem(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionID(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		var req selling.ItemInput
		if err := decodeJSON(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		draft, added, err := service.AddItem(r.Context(), session, req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao adicionar item")
			return
		}

		response := newDraftResponse(draft)
		response.Changed = &added
		writeJSON(w, http.StatusOK, response)
	}
}

func RemoveDraftItem(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionID(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		index, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("index"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Índice do item inválido", nil)
			return
		}

		draft, removed, err := service.RemoveItem(r.Context(), session, index)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao remover item")
			return
		}

		response := newDraftResponse(draft)
		response.Changed = &removed
		writeJSON(w, http.StatusOK, response)
	}
}

func CancelDraft(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionID(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		if err := service.CancelDraft(r.Context(), session); err != nil {
			writeServiceError(w, r, err, "Erro ao cancelar rascunho")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// CommitDraft responde 201 com a venda gravada, ou 200 com committed=false
// quando o rascunho ainda não tem cliente e itens
func CommitDraft(service selling.SaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessionID(r)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		result, err := service.CommitSale(r.Context(), session)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao confirmar venda")
			return
		}

		status := http.StatusOK
		if result.Committed {
			status = http.StatusCreated
		}

		writeJSON(w, status, result)
	}
}
