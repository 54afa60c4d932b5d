package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	Redis          Redis          `mapstructure:",squash"`
	Auth           Auth           `mapstructure:",squash"`
	Inventory      Inventory      `mapstructure:",squash"`
	Sales          Sales          `mapstructure:",squash"`
	LowStockAlert  LowStockAlert  `mapstructure:",squash"`
	MonthlyReport  MonthlyReport  `mapstructure:",squash"`
	SecretKey      string         `mapstructure:"secret_key"`
	Location       *time.Location `mapstructure:"-"`
	AllowedOrigins []string       `mapstructure:"cors_allowed_origins"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
	Timezone string `mapstructure:"timezone"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	StoreBackend string `mapstructure:"store_backend"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
}

type Redis struct {
	Addr     string        `mapstructure:"redis_addr"`
	Password string        `mapstructure:"redis_password"`
	DB       int           `mapstructure:"redis_db"`
	DraftTTL time.Duration `mapstructure:"draft_ttl"`
}

type Auth struct {
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
	AdminName     string        `mapstructure:"admin_name"`
}

type Inventory struct {
	AllowNegativeStock bool `mapstructure:"inventory_allow_negative_stock"`
	LowStockThreshold  int  `mapstructure:"inventory_low_stock_threshold"`
}

type Sales struct {
	AtomicCommit bool `mapstructure:"sales_atomic_commit"`
	PageSize     int  `mapstructure:"sales_page_size"`
}

type LowStockAlert struct {
	CronSchedule string `mapstructure:"low_stock_alert_cron"`
	Enabled      bool   `mapstructure:"low_stock_alert_enabled"`
}

type MonthlyReport struct {
	CronSchedule string `mapstructure:"monthly_report_cron"`
	Enabled      bool   `mapstructure:"monthly_report_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("TIMEZONE", "Local")

	viper.SetDefault("STORE_BACKEND", StoreBackendPostgres)
	viper.SetDefault("DATABASE_DRIVER", "postgres") // postgres (lib/pq) ou pgx
	viper.SetDefault("DATABASE_URL", "localhost:5432/boutique?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	// Sem REDIS_ADDR os rascunhos ficam apenas em memória
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DRAFT_TTL", "12h")

	// Sem valor padrão: a API não sobe sem SECRET_KEY
	viper.SetDefault("SECRET_KEY", "")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("ADMIN_NAME", "Administrador")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("INVENTORY_ALLOW_NEGATIVE_STOCK", true)
	viper.SetDefault("INVENTORY_LOW_STOCK_THRESHOLD", 5)

	viper.SetDefault("SALES_ATOMIC_COMMIT", false)
	viper.SetDefault("SALES_PAGE_SIZE", 10)

	viper.SetDefault("LOW_STOCK_ALERT_CRON", "0 8 * * *") // Todos os dias às 8h da manhã
	viper.SetDefault("LOW_STOCK_ALERT_ENABLED", false)

	viper.SetDefault("MONTHLY_REPORT_CRON", "0 5 1 * *") // No primeiro dia de cada mês às 5h da manhã
	viper.SetDefault("MONTHLY_REPORT_ENABLED", false)
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	location, err := loadLocation(config.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("fuso horário inválido %q: %w", config.App.Timezone, err)
	}
	config.Location = location

	if config.Sales.PageSize <= 0 {
		config.Sales.PageSize = 10
	}

	// pgx e lib/pq aceitam a mesma URL postgres://
	config.Database.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s",
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// ErrMissingSecretKey impede assinar tokens com uma chave vazia ou conhecida
var ErrMissingSecretKey = errors.New("SECRET_KEY não configurada")

const minSecretKeyLength = 16

// ValidateAuth é chamado na subida da API. O comando de carga não assina tokens e não precisa dele.
func (c *Config) ValidateAuth() error {
	secret := strings.TrimSpace(c.SecretKey)
	if secret == "" {
		return ErrMissingSecretKey
	}

	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("%w: use pelo menos %d caracteres", ErrMissingSecretKey, minSecretKeyLength)
	}

	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}

	return time.LoadLocation(name)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
