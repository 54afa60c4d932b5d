package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/apiErrors"
)

const (
	CronJobTypeLowStock      = "low-stock"
	CronJobTypeMonthlyReport = "monthly-report"
	CronJobTypeAll           = "all"
)

// CronJob é uma rotina agendada que também pode ser disparada manualmente
type CronJob interface {
	TriggerManualSync()
	GetStatus() map[string]any
}

// CronJobServices indexa as rotinas pelo tipo aceito na URL
type CronJobServices map[string]CronJob

func (s CronJobServices) types() []string {
	names := make([]string, 0, len(s)+1)
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(names, CronJobTypeAll)
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		if cronType == CronJobTypeAll {
			for _, job := range services {
				job.TriggerManualSync()
			}
		} else {
			job, exists := services[cronType]
			if !exists {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
					"Tipo de cron job inválido. Valores aceitos: "+strings.Join(services.types(), ", "), nil)
				return
			}
			job.TriggerManualSync()
		}

		logrus.WithField("type", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(services))
		for name, job := range services {
			status[name] = job.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	}
}

// MonthlyReportSource expõe o último fechamento mensal calculado pela rotina agendada
type MonthlyReportSource interface {
	LastReport() *domain.ProfitAndLossReport
}

func LastMonthlyReport(source MonthlyReportSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := source.LastReport()
		if report == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}
