package app

import "time"

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса заказов.
type Config struct {
	ServiceName string
	GRPCAddr    string
	MetricsAddr string
	LogLevel    string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// CatalogAddr: адрес gRPC-каталога. Пустой адрес допустим только вместе с AllowMockIntegrations.
	CatalogAddr           string
	CatalogTimeout        time.Duration
	CatalogMaxAttempts    int
	CatalogRetryDelay     time.Duration
	AllowMockIntegrations bool

	KafkaBrokers       string
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	JaegerEndpoint string
}

// DefaultConfig возвращает значения по умолчанию.
func DefaultConfig() Config {
	return Config{
		ServiceName:         "orders-service",
		GRPCAddr:            ":4001",
		MetricsAddr:         ":9090",
		LogLevel:            "info",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		CatalogTimeout:      2 * time.Second,
		CatalogMaxAttempts:  3,
		CatalogRetryDelay:   100 * time.Millisecond,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
	}
}
