package domain

import (
	"errors"
	"strings"
)

var (
	// ErrItemsRequired — в заказе нет ни одной позиции.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// ErrProductIDRequired — у позиции не указан product_id.
	ErrProductIDRequired = errors.New("item product_id is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQtyInvalid = errors.New("item quantity must be greater than zero")
	// ErrStatusInvalid — статус не входит в поддерживаемый набор.
	ErrStatusInvalid = errors.New("order status is invalid")
	// ErrOrderIDRequired — не передан идентификатор заказа.
	ErrOrderIDRequired = errors.New("order id is required")
	// ErrPageInvalid — номер страницы меньше единицы.
	ErrPageInvalid = errors.New("page must be greater than zero")
	// ErrLimitInvalid — размер страницы вне допустимого диапазона.
	ErrLimitInvalid = errors.New("limit must be between 1 and 100")

	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrAmountMismatch = errors.New("order total amount does not match items sum")
	// ErrTotalItemsMismatch — total_items не равен сумме количеств.
	ErrTotalItemsMismatch = errors.New("order total items does not match items quantity")

	// ErrCatalogUnavailable — каталог не ответил (сеть, таймаут, открытый circuit breaker).
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrProductNotFound — каталог не вернул запрошенный товар.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists — заказ с таким ID уже сохранён.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrStoreFailure — хранилище не смогло выполнить операцию, изменения откатаны.
	ErrStoreFailure = errors.New("order store failure")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

var validationErrors = []error{
	ErrItemsRequired,
	ErrProductIDRequired,
	ErrItemQtyInvalid,
	ErrStatusInvalid,
	ErrOrderIDRequired,
	ErrPageInvalid,
	ErrLimitInvalid,
}

// IsValidation сообщает, что ошибка вызвана некорректным входом и запрос не дошёл до каталога/хранилища.
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ProductNotFoundError перечисляет товары, которых нет в ответе каталога.
type ProductNotFoundError struct {
	ProductIDs []string
}

func (e *ProductNotFoundError) Error() string {
	return ErrProductNotFound.Error() + ": " + strings.Join(e.ProductIDs, ", ")
}

// Is позволяет сравнивать ошибку с ErrProductNotFound через errors.Is.
func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}
