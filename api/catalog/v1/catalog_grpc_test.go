package catalogv1

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeClientConn struct {
	invoke func(context.Context, string, any, any, ...grpc.CallOption) error
}

func (f *fakeClientConn) Invoke(ctx context.Context, method string, args any, reply any, opts ...grpc.CallOption) error {
	return f.invoke(ctx, method, args, reply, opts...)
}

func (f *fakeClientConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, errors.New("not implemented")
}

type echoCatalog struct {
	UnimplementedProductServiceServer
}

func (echoCatalog) ValidateProducts(_ context.Context, req *ValidateProductsRequest) (*ValidateProductsResponse, error) {
	out := &ValidateProductsResponse{}
	for _, id := range req.IDs {
		out.Products = append(out.Products, Product{ID: id, Name: id, Price: decimal.NewFromInt(1)})
	}
	return out, nil
}

func TestProductServiceClient(t *testing.T) {
	var gotMethod string
	conn := &fakeClientConn{
		invoke: func(_ context.Context, method string, args any, reply any, _ ...grpc.CallOption) error {
			gotMethod = method
			req := args.(*ValidateProductsRequest)
			out := reply.(*ValidateProductsResponse)
			out.Products = []Product{{ID: req.IDs[0], Name: "Apple", Price: decimal.RequireFromString("5.00")}}
			return nil
		},
	}

	resp, err := NewProductServiceClient(conn).ValidateProducts(context.Background(), &ValidateProductsRequest{IDs: []string{"A"}})
	require.NoError(t, err)
	require.Equal(t, ProductService_ValidateProducts_FullMethodName, gotMethod)
	require.Len(t, resp.Products, 1)

	conn.invoke = func(context.Context, string, any, any, ...grpc.CallOption) error {
		return status.Error(codes.Unavailable, "down")
	}
	_, err = NewProductServiceClient(conn).ValidateProducts(context.Background(), &ValidateProductsRequest{})
	require.Equal(t, codes.Unavailable, status.Code(err))
}

func TestProductServiceHandler(t *testing.T) {
	decode := func(v interface{}) error {
		v.(*ValidateProductsRequest).IDs = []string{"A", "B"}
		return nil
	}

	resp, err := _ProductService_ValidateProducts_Handler(echoCatalog{}, context.Background(), decode, nil)
	require.NoError(t, err)
	require.Len(t, resp.(*ValidateProductsResponse).Products, 2)

	_, err = UnimplementedProductServiceServer{}.ValidateProducts(context.Background(), &ValidateProductsRequest{})
	require.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestProductPriceWireFormat(t *testing.T) {
	data, err := json.Marshal(Product{ID: "A", Name: "Apple", Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"A","name":"Apple","price":"19.99"}`, string(data))
}
