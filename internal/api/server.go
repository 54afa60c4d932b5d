package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/internal/api/handler"
	"github.com/vfg2006/boutique-manager-api/internal/api/handler/router"
	"github.com/vfg2006/boutique-manager-api/internal/config"
	"github.com/vfg2006/boutique-manager-api/internal/scheduler"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/customer"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/selling"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/boutique-manager-api/pkg/middleware"
)

// Services reúne os casos de uso expostos pela API
type Services struct {
	Customers     customer.CustomerService
	Products      stocking.ProductService
	Sales         selling.SaleService
	Reports       reporting.Reporter
	Authenticator authenticating.Authenticator
	LowStockAlert *scheduler.LowStockAlertService
	MonthlyReport *scheduler.MonthlyReportService
	// Dependências verificadas no healthcheck, por nome
	Dependencies map[string]handler.Pinger
}

type Server struct {
	httpServer *http.Server
	onShutdown []func()
}

func New(config *config.Config, services Services, onShutdown ...func()) (*Server, error) {
	cronServices := handler.CronJobServices{
		handler.CronJobTypeLowStock:      services.LowStockAlert,
		handler.CronJobTypeMonthlyReport: services.MonthlyReport,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Dependencies)...),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.Customers(services.Customers)...),
		router.WithRoutes(handler.Products(services.Products)...),
		router.WithRoutes(handler.Sales(services.Sales)...),
		router.WithRoutes(handler.Draft(services.Sales)...),
		router.WithRoutes(handler.Reports(services.Reports, services.MonthlyReport)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
		onShutdown: onShutdown,
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

// Shutdown encerra o HTTP primeiro e depois libera agendador, cache e banco
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	for _, cleanup := range s.onShutdown {
		cleanup()
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
