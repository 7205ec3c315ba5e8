package catalogv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/orders-service/api/codec"
)

const (
	// ServiceName: полное имя gRPC-сервиса каталога.
	ServiceName = "catalog.v1.ProductService"

	ProductService_ValidateProducts_FullMethodName = "/catalog.v1.ProductService/ValidateProducts"
)

// ProductServiceClient: клиентский API сервиса каталога.
type ProductServiceClient interface {
	ValidateProducts(ctx context.Context, in *ValidateProductsRequest, opts ...grpc.CallOption) (*ValidateProductsResponse, error)
}

type productServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProductServiceClient создаёт клиента поверх соединения.
func NewProductServiceClient(cc grpc.ClientConnInterface) ProductServiceClient {
	return &productServiceClient{cc: cc}
}

func (c *productServiceClient) ValidateProducts(ctx context.Context, in *ValidateProductsRequest, opts ...grpc.CallOption) (*ValidateProductsResponse, error) {
	out := new(ValidateProductsResponse)
	opts = append([]grpc.CallOption{codec.CallOption()}, opts...)
	if err := c.cc.Invoke(ctx, ProductService_ValidateProducts_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductServiceServer: серверный API сервиса каталога.
type ProductServiceServer interface {
	ValidateProducts(context.Context, *ValidateProductsRequest) (*ValidateProductsResponse, error)
}

// UnimplementedProductServiceServer возвращает codes.Unimplemented для всех методов.
type UnimplementedProductServiceServer struct{}

func (UnimplementedProductServiceServer) ValidateProducts(context.Context, *ValidateProductsRequest) (*ValidateProductsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ValidateProducts not implemented")
}

// RegisterProductServiceServer регистрирует реализацию на gRPC-сервере.
func RegisterProductServiceServer(s grpc.ServiceRegistrar, srv ProductServiceServer) {
	s.RegisterService(&ProductService_ServiceDesc, srv)
}

func _ProductService_ValidateProducts_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ValidateProductsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProductServiceServer).ValidateProducts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ProductService_ValidateProducts_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProductServiceServer).ValidateProducts(ctx, req.(*ValidateProductsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ProductService_ServiceDesc: описание сервиса для grpc.Server.
var ProductService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateProducts",
			Handler:    _ProductService_ValidateProducts_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.json",
}
