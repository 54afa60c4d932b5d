package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/internal/config"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

// ProfitAndLossReporter gera o relatório de resultados de um período
type ProfitAndLossReporter interface {
	ProfitAndLoss(ctx context.Context, period domain.Period) (*domain.ProfitAndLossReport, error)
}

type MonthlyReportConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// MonthlyReportService fecha o resultado do mês anterior e guarda o último fechamento
type MonthlyReportService struct {
	scheduler          *gocron.Scheduler
	config             MonthlyReportConfig
	reporter           ProfitAndLossReporter
	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastReport         *domain.ProfitAndLossReport
}

func NewMonthlyReportService(reporter ProfitAndLossReporter, appConfig *config.Config) *MonthlyReportService {
	reportConfig := MonthlyReportConfig{
		CronSchedule: appConfig.MonthlyReport.CronSchedule,
		SyncEnabled:  appConfig.MonthlyReport.Enabled,
	}

	location := appConfig.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": reportConfig.CronSchedule,
		"sync_enabled":  reportConfig.SyncEnabled,
	}).Info("Configuração do fechamento mensal carregada")

	return &MonthlyReportService{
		scheduler: gocron.NewScheduler(location),
		config:    reportConfig,
		reporter:  reporter,
	}
}

func (s *MonthlyReportService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Fechamento mensal desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do fechamento mensal")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.closeLastMonth(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar fechamento mensal: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do fechamento mensal")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *MonthlyReportService) closeLastMonth(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Fechamento mensal já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastRunStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	report, err := s.reporter.ProfitAndLoss(ctx, domain.Period{Kind: domain.PeriodLastMonth})
	if err != nil {
		logrus.WithError(err).Error("Erro ao gerar fechamento mensal")
		return
	}

	logrus.WithFields(logrus.Fields{
		"transactions":  report.Summary.Transactions,
		"total_sales":   report.Summary.TotalSales.StringFixed(2),
		"total_cost":    report.Summary.TotalCost.StringFixed(2),
		"total_profit":  report.Summary.TotalProfit.StringFixed(2),
		"profit_margin": report.Summary.ProfitMargin.StringFixed(2),
	}).Info("Fechamento do mês anterior concluído")

	s.syncMutex.Lock()
	s.lastRunCompletedAt = time.Now()
	s.lastReport = report
	s.syncMutex.Unlock()
}

func (s *MonthlyReportService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Fechamento mensal já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando fechamento mensal manual")
	go s.closeLastMonth(context.Background())
}

// LastReport devolve o último fechamento gerado, ou nil
func (s *MonthlyReportService) LastReport() *domain.ProfitAndLossReport {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	return s.lastReport
}

func (s *MonthlyReportService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_running":          s.syncRunning,
		"sync_cron":             s.config.CronSchedule,
		"sync_enabled":          s.config.SyncEnabled,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
	}

	if s.lastReport != nil {
		status["last_summary"] = s.lastReport.Summary
	}

	return status
}
