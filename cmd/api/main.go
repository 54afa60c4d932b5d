package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/infrastructure/cache"
	"github.com/vfg2006/boutique-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/api"
	"github.com/vfg2006/boutique-manager-api/internal/api/handler"
	"github.com/vfg2006/boutique-manager-api/internal/config"
	"github.com/vfg2006/boutique-manager-api/internal/scheduler"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/catalog"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/customer"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/selling"
	"github.com/vfg2006/boutique-manager-api/internal/usecases/stocking"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := cfg.ValidateAuth(); err != nil {
		logrus.WithError(err).Fatal("Configuração de autenticação inválida")
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dependencies := map[string]handler.Pinger{}
	var cleanups []func()

	store := entityStore(ctx, cfg, dependencies, &cleanups)
	drafts := draftCache(ctx, cfg, dependencies, &cleanups)

	loader := catalog.NewLoader(store)
	products := repository.NewProductRepository(store)

	authenticator := authenticating.NewService(repository.NewUserRepository(store), cfg)
	if err := authenticator.EnsureAdmin(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao garantir usuário administrador")
	}

	customerService := customer.NewService(repository.NewCustomerRepository(store))
	productService := stocking.NewService(
		products,
		stocking.NewLedger(products, cfg.Inventory.AllowNegativeStock),
		cfg.Inventory.LowStockThreshold,
	)
	saleService := selling.NewService(
		store,
		selling.NewDraftStore(drafts, cfg.Redis.DraftTTL),
		loader,
		selling.Options{
			AtomicCommit:       cfg.Sales.AtomicCommit,
			AllowNegativeStock: cfg.Inventory.AllowNegativeStock,
			PageSize:           cfg.Sales.PageSize,
		},
	)
	reportService := reporting.NewService(repository.NewSaleRepository(store), loader, cfg.Location)

	lowStockAlertService := scheduler.NewLowStockAlertService(productService, cfg)
	monthlyReportService := scheduler.NewMonthlyReportService(reportService, cfg)

	if err := lowStockAlertService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de alerta de estoque baixo")
	} else {
		logrus.Info("Agendador de alerta de estoque baixo iniciado com sucesso")
	}

	if err := monthlyReportService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de fechamento mensal")
	} else {
		logrus.Info("Agendador de fechamento mensal iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Customers:     customerService,
		Products:      productService,
		Sales:         saleService,
		Reports:       reportService,
		Authenticator: authenticator,
		LowStockAlert: lowStockAlertService,
		MonthlyReport: monthlyReportService,
		Dependencies:  dependencies,
	}, cleanups...)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// entityStore escolhe o armazenamento pelo STORE_BACKEND. O backend em memória
// não persiste nada e serve para desenvolvimento local.
func entityStore(ctx context.Context, cfg *config.Config, dependencies map[string]handler.Pinger, cleanups *[]func()) repository.TransactionalStore {
	if cfg.Database.StoreBackend == config.StoreBackendMemory {
		logrus.Warn("Usando armazenamento em memória, os dados serão perdidos ao reiniciar")
		return repository.NewMemoryStore()
	}

	conn := pgconn(ctx, cfg.Database)
	dependencies["postgres"] = conn
	*cleanups = append(*cleanups, func() {
		if err := conn.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com PostgreSQL")
		}
	})

	if err := repository.EnsureSchema(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar as tabelas do banco de dados")
	}

	return repository.NewDocumentStore(conn)
}

// draftCache usa o Redis quando REDIS_ADDR está configurado e responde, senão a memória local
func draftCache(ctx context.Context, cfg *config.Config, dependencies map[string]handler.Pinger, cleanups *[]func()) cache.Cache {
	if cfg.Redis.Addr == "" {
		logrus.Info("REDIS_ADDR não configurado, rascunhos de venda ficarão em memória")
		return cache.NewMemoryCache()
	}

	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := redisCache.Ping(pingCtx); err != nil {
		logrus.WithError(err).WithField("address", cfg.Redis.Addr).Warn("Redis indisponível, rascunhos de venda ficarão em memória")
		_ = redisCache.Close()
		return cache.NewMemoryCache()
	}

	logrus.WithField("address", cfg.Redis.Addr).Info("Conexão com Redis estabelecida com sucesso")
	dependencies["redis"] = redisCache
	*cleanups = append(*cleanups, func() {
		if err := redisCache.Close(); err != nil {
			logrus.WithError(err).Warn("Erro ao fechar conexão com Redis")
		}
	})

	return redisCache
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
