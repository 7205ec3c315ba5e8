package app

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders-service/internal/catalog"
	"github.com/vladislavdragonenkov/orders-service/internal/domain"
	"github.com/vladislavdragonenkov/orders-service/internal/metrics"
)

type catalogDependencies struct {
	client       domain.CatalogClient
	circuitState func() string
	closeFn      func() error
}

// initCatalog подключает gRPC-каталог или, если разрешено, статический каталог с демо-товарами.
func initCatalog(cfg Config, orderMetrics *metrics.OrderMetrics, logger *log.Entry) (catalogDependencies, error) {
	if cfg.CatalogAddr == "" {
		if !cfg.AllowMockIntegrations {
			return catalogDependencies{}, errors.New("catalog address is required (set ORDERS_ALLOW_MOCK_INTEGRATIONS=true to use the static catalog)")
		}
		logger.Warn("catalog address is not set, using static demo catalog")
		return catalogDependencies{
			client:       catalog.NewStaticCatalog(catalog.DemoProducts()...),
			circuitState: catalog.CircuitClosed.String,
		}, nil
	}

	conn, err := catalog.Dial(cfg.CatalogAddr)
	if err != nil {
		return catalogDependencies{}, err
	}

	retry := catalog.DefaultRetryConfig()
	if cfg.CatalogMaxAttempts > 0 {
		retry.MaxAttempts = cfg.CatalogMaxAttempts
	}
	if cfg.CatalogRetryDelay > 0 {
		retry.InitialDelay = cfg.CatalogRetryDelay
	}

	options := []catalog.Option{
		catalog.WithLogger(logger.WithField("component", "catalog-client")),
		catalog.WithTimeout(cfg.CatalogTimeout),
		catalog.WithRetry(retry),
	}
	if orderMetrics != nil {
		options = append(options, catalog.WithObserver(orderMetrics))
	}
	client := catalog.NewGRPCClient(conn, options...)

	logger.WithField("addr", cfg.CatalogAddr).Info("catalog client initialized")
	return catalogDependencies{
		client:       client,
		circuitState: func() string { return client.CircuitState().String() },
		closeFn:      conn.Close,
	}, nil
}
