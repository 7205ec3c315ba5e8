// Команда catalog-stub поднимает gRPC-каталог товаров для локальной разработки.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	catalogv1 "github.com/vladislavdragonenkov/orders-service/api/catalog/v1"
	_ "github.com/vladislavdragonenkov/orders-service/api/codec"
	"github.com/vladislavdragonenkov/orders-service/internal/catalog"
	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

const envProductsFile = "CATALOG_PRODUCTS_FILE"

func main() {
	var (
		addr         string
		productsFile string
	)

	flag.StringVar(&addr, "addr", ":5001", "gRPC listen address")
	flag.StringVar(&productsFile, "products", "", "YAML file with products (fallback: "+envProductsFile+", demo set if empty)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	logger := log.WithField("component", "catalog-stub")

	if strings.TrimSpace(productsFile) == "" {
		productsFile = os.Getenv(envProductsFile)
	}
	products, err := loadProducts(productsFile)
	if err != nil {
		logger.WithError(err).Fatal("failed to load products")
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.WithError(err).Fatal("failed to listen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{"addr": lis.Addr().String(), "products": len(products)}).Info("catalog stub started")
	if err := serve(ctx, lis, catalog.NewStaticCatalog(products...), logger); err != nil {
		logger.WithError(err).Fatal("catalog stub stopped with error")
	}
	logger.Info("catalog stub stopped")
}

func loadProducts(path string) ([]domain.Product, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return catalog.DemoProducts(), nil
	}

	products, err := catalog.LoadProductsFile(path)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("products file %s is empty", path)
	}
	return products, nil
}

// serve обслуживает ProductService до отмены ctx.
func serve(ctx context.Context, lis net.Listener, source domain.CatalogClient, logger *log.Entry) error {
	srv := grpc.NewServer()
	catalogv1.RegisterProductServiceServer(srv, catalog.NewServer(source, logger))

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
