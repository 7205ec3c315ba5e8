package domain

const (
	// DefaultPage: номер страницы, если клиент его не указал.
	DefaultPage = 1
	// DefaultLimit: размер страницы по умолчанию.
	DefaultLimit = 10
	// MaxLimit ограничивает размер страницы сверху.
	MaxLimit = 100
)

// ListQuery описывает запрос постраничной выборки заказов.
type ListQuery struct {
	// Status фильтрует заказы; пустое значение отключает фильтр.
	Status OrderStatus
	Page   int
	Limit  int
}

// Validate проверяет параметры пагинации и фильтра.
func (q ListQuery) Validate() error {
	if q.Page < 1 {
		return ErrPageInvalid
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return ErrLimitInvalid
	}
	if q.Status != "" && !q.Status.Valid() {
		return ErrStatusInvalid
	}
	return nil
}

// Offset возвращает количество записей, пропускаемых перед страницей.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta: метаданные страницы.
type PageMeta struct {
	Total    int
	Page     int
	LastPage int
}

// OrderPage: страница заказов вместе с метаданными.
type OrderPage struct {
	Data []Order
	Meta PageMeta
}

// LastPage возвращает ceil(total/limit). Для пустой выборки это 0.
func LastPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
