// Package grpcsvc публикует операции над заказами как gRPC-сервис orders.v1.OrderService.
package grpcsvc

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	ordersv1 "github.com/vladislavdragonenkov/orders-service/api/orders/v1"
	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// OrderCreator создаёт заказы.
type OrderCreator interface {
	Create(ctx context.Context, items []domain.RequestedItem) (domain.Order, error)
}

// OrderFinder читает заказы.
type OrderFinder interface {
	FindAll(ctx context.Context, query domain.ListQuery) (domain.OrderPage, error)
	FindOne(ctx context.Context, id string) (domain.Order, error)
}

// StatusChanger меняет статус заказа.
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id, status string) (domain.Order, error)
}

// OrderService реализует gRPC API поверх сервисов заказов.
type OrderService struct {
	ordersv1.UnimplementedOrderServiceServer

	creator  OrderCreator
	finder   OrderFinder
	statuses StatusChanger
	catalog  domain.CatalogClient
	logger   *log.Entry
}

// NewOrderService конструирует сервис с зависимостями.
// catalog подставляет названия товаров в FindOneOrder и ChangeOrderStatus; nil отключает подстановку.
func NewOrderService(creator OrderCreator, finder OrderFinder, statuses StatusChanger, catalog domain.CatalogClient, logger *log.Entry) *OrderService {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &OrderService{
		creator:  creator,
		finder:   finder,
		statuses: statuses,
		catalog:  catalog,
		logger:   logger,
	}
}

// CreateOrder создаёт заказ по списку позиций.
func (s *OrderService) CreateOrder(ctx context.Context, req *ordersv1.CreateOrderRequest) (*ordersv1.Order, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	items := make([]domain.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.RequestedItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := s.creator.Create(ctx, items)
	if err != nil {
		return nil, s.toStatus("CreateOrder", err)
	}

	resp := toAPIOrder(order)
	return &resp, nil
}

// FindAllOrders возвращает страницу заказов; page=1 и limit=10 по умолчанию.
func (s *OrderService) FindAllOrders(ctx context.Context, req *ordersv1.FindAllOrdersRequest) (*ordersv1.FindAllOrdersResponse, error) {
	if req == nil {
		req = &ordersv1.FindAllOrdersRequest{}
	}

	query := domain.ListQuery{
		Page:  int(req.Page),
		Limit: int(req.Limit),
	}
	if req.Page == 0 {
		query.Page = domain.DefaultPage
	}
	if req.Limit == 0 {
		query.Limit = domain.DefaultLimit
	}
	if req.Status != "" {
		parsed, err := domain.ParseOrderStatus(req.Status)
		if err != nil {
			return nil, s.toStatus("FindAllOrders", err)
		}
		query.Status = parsed
	}

	page, err := s.finder.FindAll(ctx, query)
	if err != nil {
		return nil, s.toStatus("FindAllOrders", err)
	}

	resp := &ordersv1.FindAllOrdersResponse{
		Data: make([]ordersv1.Order, 0, len(page.Data)),
		Meta: ordersv1.PageMeta{
			Total:    int64(page.Meta.Total),
			Page:     int32(page.Meta.Page),     //nolint:gosec // page is bounded by the request value.
			LastPage: int32(page.Meta.LastPage), //nolint:gosec // lastPage <= total/1.
		},
	}
	for _, order := range page.Data {
		resp.Data = append(resp.Data, toAPIOrder(order))
	}
	return resp, nil
}

// FindOneOrder возвращает заказ с позициями.
func (s *OrderService) FindOneOrder(ctx context.Context, req *ordersv1.FindOneOrderRequest) (*ordersv1.Order, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, domain.ErrOrderIDRequired.Error())
	}

	order, err := s.finder.FindOne(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus("FindOneOrder", err)
	}

	resp := toAPIOrder(s.withProductNames(ctx, order))
	return &resp, nil
}

// ChangeOrderStatus перезаписывает статус заказа.
func (s *OrderService) ChangeOrderStatus(ctx context.Context, req *ordersv1.ChangeOrderStatusRequest) (*ordersv1.Order, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, domain.ErrOrderIDRequired.Error())
	}

	order, err := s.statuses.ChangeStatus(ctx, req.ID, req.Status)
	if err != nil {
		return nil, s.toStatus("ChangeOrderStatus", err)
	}

	resp := toAPIOrder(s.withProductNames(ctx, order))
	return &resp, nil
}

// withProductNames заполняет названия позиций из каталога.
// Названия не хранятся, поэтому при сбое каталога заказ отдаётся без них.
func (s *OrderService) withProductNames(ctx context.Context, order domain.Order) domain.Order {
	if s.catalog == nil || len(order.Items) == 0 {
		return order
	}

	ids := make([]string, 0, len(order.Items))
	seen := make(map[string]struct{}, len(order.Items))
	for _, item := range order.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.Resolve(ctx, ids)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("product names unavailable, returning order without names")
		return order
	}

	order = order.Clone()
	for i := range order.Items {
		if product, ok := products[order.Items[i].ProductID]; ok {
			order.Items[i].Name = product.Name
		}
	}
	return order
}

// toStatus переводит доменные ошибки в gRPC-коды. Внутренние детали наружу не отдаются.
func (s *OrderService) toStatus(method string, err error) error {
	entry := s.logger.WithError(err).WithField("method", method)

	var notFound *domain.ProductNotFoundError
	switch {
	case domain.IsValidation(err):
		return status.Error(codes.InvalidArgument, validationMessage(err))
	case errors.As(err, &notFound):
		return status.Error(codes.InvalidArgument, notFound.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.InvalidArgument, domain.ErrProductNotFound.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		return status.Error(codes.NotFound, domain.ErrOrderNotFound.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, domain.ErrCatalogUnavailable):
		entry.Warn("catalog unavailable")
		return status.Error(codes.Unavailable, domain.ErrCatalogUnavailable.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, domain.ErrOrderAlreadyExists):
		return status.Error(codes.AlreadyExists, domain.ErrOrderAlreadyExists.Error())
	default:
		entry.Error("request failed")
		return status.Error(codes.Internal, "internal error")
	}
}

func validationMessage(err error) string {
	for _, target := range []error{
		domain.ErrItemsRequired,
		domain.ErrProductIDRequired,
		domain.ErrItemQtyInvalid,
		domain.ErrStatusInvalid,
		domain.ErrOrderIDRequired,
		domain.ErrPageInvalid,
		domain.ErrLimitInvalid,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func toAPIOrder(order domain.Order) ordersv1.Order {
	resp := ordersv1.Order{
		ID:          order.ID,
		TotalAmount: order.TotalAmount,
		TotalItems:  order.TotalItems,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if len(order.Items) > 0 {
		resp.Items = make([]ordersv1.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			resp.Items = append(resp.Items, ordersv1.OrderItem{
				ID:        item.ID,
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
	}
	return resp
}

var _ ordersv1.OrderServiceServer = (*OrderService)(nil)
