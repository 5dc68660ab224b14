package paymentprovider

// Step шаг создания платежной сессии у провайдера.
type Step string

const (
	StepProduct Step = "product"
	StepPrice   Step = "price"
	StepSession Step = "session"
)

// Product товар у провайдера.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Price цена товара в минимальных единицах валюты (центах).
type Price struct {
	ID         string `json:"id"`
	Product    string `json:"product"`
	Currency   string `json:"currency"`
	UnitAmount int64  `json:"unit_amount"`
}

// CheckoutSession платежная сессия с адресом страницы оплаты.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// apiError тело ошибки провайдера.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
