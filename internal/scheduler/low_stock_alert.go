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

// LowStockLister devolve os produtos com estoque no limite ou abaixo dele
type LowStockLister interface {
	LowStock(ctx context.Context) ([]*domain.Product, error)
}

type LowStockAlertConfig struct {
	CronSchedule string
	Threshold    int
	SyncEnabled  bool
}

// LowStockAlertService verifica periodicamente os produtos com estoque baixo e registra um alerta
type LowStockAlertService struct {
	scheduler          *gocron.Scheduler
	config             LowStockAlertConfig
	products           LowStockLister
	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastAlertCount     int
	lastAlert          []*domain.Product
}

func NewLowStockAlertService(products LowStockLister, appConfig *config.Config) *LowStockAlertService {
	alertConfig := LowStockAlertConfig{
		CronSchedule: appConfig.LowStockAlert.CronSchedule,
		Threshold:    appConfig.Inventory.LowStockThreshold,
		SyncEnabled:  appConfig.LowStockAlert.Enabled,
	}

	location := appConfig.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": alertConfig.CronSchedule,
		"threshold":     alertConfig.Threshold,
		"sync_enabled":  alertConfig.SyncEnabled,
	}).Info("Configuração do alerta de estoque baixo carregada")

	return &LowStockAlertService{
		scheduler: gocron.NewScheduler(location),
		config:    alertConfig,
		products:  products,
	}
}

// Start agenda o alerta. Com o job desabilitado nada é agendado.
func (s *LowStockAlertService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Alerta de estoque baixo desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do alerta de estoque baixo")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.checkLowStock(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar alerta de estoque baixo: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do alerta de estoque baixo")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *LowStockAlertService) checkLowStock(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Verificação de estoque baixo já em andamento, ignorando")
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

	products, err := s.products.LowStock(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar produtos com estoque baixo")
		return
	}

	for _, product := range products {
		logrus.WithFields(logrus.Fields{
			"product_id":     product.ID,
			"article_number": product.ArticleNumber,
			"product_name":   product.Name,
			"quantity":       product.Quantity,
		}).Warn("Produto com estoque baixo")
	}

	logrus.WithFields(logrus.Fields{
		"products":  len(products),
		"threshold": s.config.Threshold,
	}).Info("Verificação de estoque baixo concluída")

	s.syncMutex.Lock()
	s.lastRunCompletedAt = time.Now()
	s.lastAlertCount = len(products)
	s.lastAlert = products
	s.syncMutex.Unlock()
}

// TriggerManualSync executa a verificação imediatamente, em segundo plano
func (s *LowStockAlertService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Verificação de estoque baixo já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando verificação manual de estoque baixo")
	go s.checkLowStock(context.Background())
}

func (s *LowStockAlertService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_running":          s.syncRunning,
		"sync_cron":             s.config.CronSchedule,
		"sync_enabled":          s.config.SyncEnabled,
		"threshold":             s.config.Threshold,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_alert_count":      s.lastAlertCount,
		"last_alert":            s.lastAlert,
	}
}
