// Package catalogv1 описывает gRPC-контракт сервиса каталога товаров.
package catalogv1

import "github.com/shopspring/decimal"

// ValidateProductsRequest: список идентификаторов для проверки.
type ValidateProductsRequest struct {
	IDs []string `json:"ids"`
}

// Product: запись каталога. Price передаётся строкой, чтобы не терять точность.
type Product struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ValidateProductsResponse содержит только известные каталогу товары.
type ValidateProductsResponse struct {
	Products []Product `json:"products"`
}
