// Package pricing сводит запрошенные позиции с ответом каталога и считает итоги заказа.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/orders-service/internal/domain"
)

// Line: позиция заказа с ценой из каталога.
type Line struct {
	ProductID string
	Name      string
	Quantity  int32
	UnitPrice decimal.Decimal
	Position  int
}

// Subtotal возвращает UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Result: итог сведения запроса с каталогом.
type Result struct {
	Lines       []Line
	TotalAmount decimal.Decimal
	TotalItems  int64
}

// Aggregate сопоставляет каждую запрошенную позицию с записью каталога.
// Дубликаты product_id остаются отдельными строками в порядке запроса.
// Если хотя бы одного товара нет в каталоге, возвращается *domain.ProductNotFoundError
// со всеми отсутствующими идентификаторами.
func Aggregate(requested []domain.RequestedItem, catalog map[string]domain.Product) (Result, error) {
	var (
		missing     []string
		seenMissing = make(map[string]struct{})
		lines       = make([]Line, 0, len(requested))
		total       = decimal.Zero
		count       int64
	)

	for i, item := range requested {
		product, ok := catalog[item.ProductID]
		if !ok {
			if _, dup := seenMissing[item.ProductID]; !dup {
				seenMissing[item.ProductID] = struct{}{}
				missing = append(missing, item.ProductID)
			}
			continue
		}

		line := Line{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Position:  i,
		}
		lines = append(lines, line)
		total = total.Add(line.Subtotal())
		count += int64(item.Quantity)
	}

	if len(missing) > 0 {
		return Result{}, &domain.ProductNotFoundError{ProductIDs: missing}
	}

	return Result{
		Lines:       lines,
		TotalAmount: total,
		TotalItems:  count,
	}, nil
}
