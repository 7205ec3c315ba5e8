package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-service/internal/app"
	"github.com/vladislavdragonenkov/orders-service/internal/version"
)

const (
	envPort                  = "PORT"
	envGRPCAddr              = "ORDERS_GRPC_ADDR"
	envMetricsAddr           = "ORDERS_METRICS_ADDR"
	envStorageDriver         = "ORDERS_STORAGE_DRIVER"
	envPostgresDSN           = "ORDERS_POSTGRES_DSN"
	envPostgresAutoMigrate   = "ORDERS_POSTGRES_AUTO_MIGRATE"
	envCatalogAddr           = "ORDERS_CATALOG_ADDR"
	envCatalogTimeout        = "ORDERS_CATALOG_TIMEOUT"
	envCatalogMaxAttempts    = "ORDERS_CATALOG_MAX_ATTEMPTS"
	envCatalogRetryDelay     = "ORDERS_CATALOG_RETRY_DELAY"
	envAllowMockIntegrations = "ORDERS_ALLOW_MOCK_INTEGRATIONS"
	envKafkaBrokers          = "KAFKA_BROKERS"
	envOutboxPollInterval    = "ORDERS_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize       = "ORDERS_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts     = "ORDERS_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay      = "ORDERS_OUTBOX_RETRY_DELAY"
	envJaegerEndpoint        = "ORDERS_JAEGER_ENDPOINT"
	envLogLevel              = "ORDERS_LOG_LEVEL"
)

type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level string) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, using info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

// readConfigFromEnv собирает конфигурацию из окружения.
// Некорректные значения не прерывают запуск: остаётся значение по умолчанию, а в ответ попадает предупреждение.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	warn := func(key, raw string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, raw, err))
	}

	stringValue := func(key string, apply func(string)) {
		if raw, ok := lookup(key); ok {
			if value := strings.TrimSpace(raw); value != "" {
				apply(value)
			}
		}
	}
	boolValue := func(key string, apply func(bool)) {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return
		}
		value, err := parseBool(raw)
		if err != nil {
			warn(key, raw, err)
			return
		}
		apply(value)
	}
	intValue := func(key string, valid func(int) bool, rule string, apply func(int)) {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return
		}
		value, err := parseInt(raw, valid, rule)
		if err != nil {
			warn(key, raw, err)
			return
		}
		apply(value)
	}
	durationValue := func(key string, valid func(time.Duration) bool, rule string, apply func(time.Duration)) {
		raw, ok := lookup(key)
		if !ok || strings.TrimSpace(raw) == "" {
			return
		}
		value, err := parseDuration(raw, valid, rule)
		if err != nil {
			warn(key, raw, err)
			return
		}
		apply(value)
	}

	positive := func(v int) bool { return v > 0 }
	positiveDuration := func(v time.Duration) bool { return v > 0 }
	nonNegativeDuration := func(v time.Duration) bool { return v >= 0 }

	intValue(envPort, func(v int) bool { return v > 0 && v <= 65535 }, "must be in 1..65535", func(v int) {
		cfg.GRPCAddr = fmt.Sprintf(":%d", v)
	})
	stringValue(envGRPCAddr, func(v string) { cfg.GRPCAddr = v })
	stringValue(envMetricsAddr, func(v string) { cfg.MetricsAddr = v })
	stringValue(envStorageDriver, func(v string) { cfg.StorageDriver = strings.ToLower(v) })
	stringValue(envPostgresDSN, func(v string) { cfg.PostgresDSN = v })
	boolValue(envPostgresAutoMigrate, func(v bool) { cfg.PostgresAutoMigrate = v })

	stringValue(envCatalogAddr, func(v string) { cfg.CatalogAddr = v })
	durationValue(envCatalogTimeout, positiveDuration, "must be > 0", func(v time.Duration) { cfg.CatalogTimeout = v })
	intValue(envCatalogMaxAttempts, positive, "must be > 0", func(v int) { cfg.CatalogMaxAttempts = v })
	durationValue(envCatalogRetryDelay, nonNegativeDuration, "must be >= 0", func(v time.Duration) { cfg.CatalogRetryDelay = v })
	boolValue(envAllowMockIntegrations, func(v bool) { cfg.AllowMockIntegrations = v })

	stringValue(envKafkaBrokers, func(v string) { cfg.KafkaBrokers = v })
	durationValue(envOutboxPollInterval, positiveDuration, "must be > 0", func(v time.Duration) { cfg.OutboxPollInterval = v })
	intValue(envOutboxBatchSize, positive, "must be > 0", func(v int) { cfg.OutboxBatchSize = v })
	intValue(envOutboxMaxAttempts, positive, "must be > 0", func(v int) { cfg.OutboxMaxAttempts = v })
	durationValue(envOutboxRetryDelay, nonNegativeDuration, "must be >= 0", func(v time.Duration) { cfg.OutboxRetryDelay = v })

	stringValue(envJaegerEndpoint, func(v string) { cfg.JaegerEndpoint = v })
	stringValue(envLogLevel, func(v string) { cfg.LogLevel = strings.ToLower(v) })

	return cfg, warnings
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}

func parseInt(raw string, valid func(int) bool, rule string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

func parseDuration(raw string, valid func(time.Duration) bool, rule string) (time.Duration, error) {
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if !valid(value) {
		return 0, errors.New(rule)
	}
	return value, nil
}

func main() {
	// .env необязателен.
	_ = godotenv.Load()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	setupLogger(cfg.LogLevel)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(version.Fields()).WithFields(log.Fields{
		"grpc_addr":      cfg.GRPCAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"storage_driver": cfg.StorageDriver,
		"catalog_addr":   cfg.CatalogAddr,
	}).Info("запускаем OrderService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("OrderService остановлен")
}
