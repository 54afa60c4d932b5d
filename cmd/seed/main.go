package main

import (
	"context"
	"flag"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/boutique-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/boutique-manager-api/infrastructure/repository"
	"github.com/vfg2006/boutique-manager-api/internal/config"
	"github.com/vfg2006/boutique-manager-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SeedFile é o formato do arquivo de carga inicial
type SeedFile struct {
	Customers []*domain.Customer `json:"customers"`
	Products  []*domain.Product  `json:"products"`
}

func main() {
	file := flag.String("file", "seed.json", "arquivo JSON com clientes e produtos")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	logrus.Info("Iniciando carga inicial...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	seed, err := readSeedFile(*file)
	if err != nil {
		logrus.WithError(err).WithField("file", *file).Fatal("Erro ao ler arquivo de carga")
	}

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	if err := repository.EnsureSchema(ctx, conn); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar as tabelas do banco de dados")
	}

	store := repository.NewDocumentStore(conn)
	startTime := time.Now()

	// tudo ou nada: um registro inválido desfaz a carga inteira
	err = store.RunInTransaction(ctx, func(tx repository.EntityStore) error {
		if err := insertCustomers(ctx, repository.NewCustomerRepository(tx), seed.Customers); err != nil {
			return err
		}
		return insertProducts(ctx, repository.NewProductRepository(tx), seed.Products)
	})
	if err != nil {
		logrus.WithError(err).Fatal("Carga inicial desfeita")
	}

	logrus.WithFields(logrus.Fields{
		"customers": len(seed.Customers),
		"products":  len(seed.Products),
		"elapsed":   time.Since(startTime).String(),
	}).Info("Carga inicial concluída")
}

func readSeedFile(path string) (*SeedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed SeedFile
	if err := json.Unmarshal(content, &seed); err != nil {
		return nil, err
	}

	return &seed, nil
}

func insertCustomers(ctx context.Context, customers repository.CustomerRepository, list []*domain.Customer) error {
	now := time.Now()
	for i, customer := range list {
		customer.ID = ""
		if customer.CreatedAt.IsZero() {
			customer.CreatedAt = now
		}

		if _, err := customers.Create(ctx, customer); err != nil {
			logrus.WithError(err).WithField("customer_name", customer.Name).Errorf("Erro ao inserir cliente [%d/%d]", i+1, len(list))
			return err
		}

		if i > 0 && i%10 == 0 {
			logrus.Infof("Progresso: %d/%d clientes processados", i+1, len(list))
		}
	}
	return nil
}

func insertProducts(ctx context.Context, products repository.ProductRepository, list []*domain.Product) error {
	now := time.Now()
	for i, product := range list {
		product.ID = ""
		if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}

		if _, err := products.Create(ctx, product); err != nil {
			logrus.WithError(err).WithField("article_number", product.ArticleNumber).Errorf("Erro ao inserir produto [%d/%d]", i+1, len(list))
			return err
		}

		if i > 0 && i%10 == 0 {
			logrus.Infof("Progresso: %d/%d produtos processados", i+1, len(list))
		}
	}
	return nil
}
