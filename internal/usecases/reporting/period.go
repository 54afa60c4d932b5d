package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/boutique-manager-api/internal/domain"
	"github.com/vfg2006/boutique-manager-api/pkg/utils"
)

// ParsePeriod converte os parâmetros da consulta. Tipo vazio equivale a all.
func ParsePeriod(kind, start, end string, loc *time.Location) (domain.Period, error) {
	period := domain.Period{Kind: domain.PeriodKind(strings.TrimSpace(kind))}

	switch period.Kind {
	case "":
		period.Kind = domain.PeriodAll
	case domain.PeriodAll, domain.PeriodThisMonth, domain.PeriodLastMonth, domain.PeriodThisYear:
	case domain.PeriodCustom:
		startDate, err := utils.ParseDate(start, loc)
		if err != nil {
			return period, fmt.Errorf("data inicial inválida: %w", err)
		}

		endDate, err := utils.ParseDate(end, loc)
		if err != nil {
			return period, fmt.Errorf("data final inválida: %w", err)
		}

		period.Start = startDate
		period.End = endDate
	default:
		return period, fmt.Errorf("período desconhecido: %s", kind)
	}

	return period, nil
}
