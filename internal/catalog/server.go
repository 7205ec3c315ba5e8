package catalog

import (
	"context"
	"errors"
	"sort"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	catalogv1 "github.com/vladislavdragonenkov/orders-service/api/catalog/v1"
	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// Server отдаёт domain.CatalogClient по gRPC (используется catalog-stub и тестами).
type Server struct {
	catalogv1.UnimplementedProductServiceServer

	catalog domain.CatalogClient
	logger  *log.Entry
}

// NewServer создаёт gRPC-обёртку над каталогом.
func NewServer(catalog domain.CatalogClient, logger *log.Entry) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "catalog-server")
	}
	return &Server{catalog: catalog, logger: logger}
}

// ValidateProducts возвращает найденные товары, сортированные по ID. Неизвестные ID пропускаются.
func (s *Server) ValidateProducts(ctx context.Context, req *catalogv1.ValidateProductsRequest) (*catalogv1.ValidateProductsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := s.catalog.Resolve(ctx, req.IDs)
	if err != nil {
		s.logger.WithError(err).WithField("ids", len(req.IDs)).Warn("catalog lookup failed")
		if errors.Is(err, context.Canceled) {
			return nil, status.Error(codes.Canceled, "request canceled")
		}
		return nil, status.Error(codes.Unavailable, "catalog lookup failed")
	}

	resp := &catalogv1.ValidateProductsResponse{Products: make([]catalogv1.Product, 0, len(found))}
	for _, p := range found {
		resp.Products = append(resp.Products, catalogv1.Product{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	sort.Slice(resp.Products, func(i, j int) bool { return resp.Products[i].ID < resp.Products[j].ID })

	return resp, nil
}
