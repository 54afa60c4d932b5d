package handler

import (
	"net/http"

	"github.com/vfg2006/boutique-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
	"github.com/vfg2006/boutique-manager-api/pkg/log"
)

// ProfitAndLoss recebe ?period=all|thisMonth|lastMonth|thisYear|custom e, no
// intervalo personalizado, ?start= e ?end= no formato 2006-01-02
func ProfitAndLoss(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		period, err := reporting.ParsePeriod(query.Get("period"), query.Get("start"), query.Get("end"), service.Location())
		if err != nil {
			log.ForContext(r.Context()).WithError(err).Warn("Período inválido no relatório")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		report, err := service.ProfitAndLoss(r.Context(), period)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao gerar relatório de resultados")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func Dashboard(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := service.Dashboard(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao carregar indicadores")
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}
