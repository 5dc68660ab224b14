package paymentprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Provider три шага создания платежной сессии.
type Provider interface {
	CreateProduct(ctx context.Context, name string) (*Product, error)
	CreatePrice(ctx context.Context, productID, currency string, unitAmount int64) (*Price, error)
	CreateCheckoutSession(ctx context.Context, priceID, successURL string) (*CheckoutSession, error)
}

// Session результат сборки: идентификатор сессии и адрес оплаты.
type Session struct {
	ID  string
	URL string
}

// Builder последовательно выполняет product -> price -> session.
// Первый неудачный шаг прерывает сборку, повторов нет.
type Builder struct {
	provider   Provider
	currency   string
	successURL string
}

// NewBuilder создает сборщик сессий.
func NewBuilder(provider Provider, currency, successURL string) *Builder {
	if currency == "" {
		currency = "usd"
	}
	return &Builder{provider: provider, currency: currency, successURL: successURL}
}

// Build создает товар с именем productName, цену amount (в валюте провайдера)
// и платежную сессию на одну единицу.
func (b *Builder) Build(ctx context.Context, productName string, amount decimal.Decimal) (*Session, error) {
	const op = "paymentprovider.Build"

	product, err := b.provider.CreateProduct(ctx, productName)
	if err == nil && (product == nil || product.ID == "") {
		err = errors.New("empty product id")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, stepError(StepProduct, err))
	}

	unitAmount := UnitAmount(amount)
	if unitAmount <= 0 {
		return nil, fmt.Errorf("%s: %w", op, stepError(StepPrice, fmt.Errorf("non-positive unit amount %d", unitAmount)))
	}
	price, err := b.provider.CreatePrice(ctx, product.ID, b.currency, unitAmount)
	if err == nil && (price == nil || price.ID == "") {
		err = errors.New("empty price id")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, stepError(StepPrice, err))
	}

	session, err := b.provider.CreateCheckoutSession(ctx, price.ID, b.successURL)
	if err == nil && (session == nil || session.ID == "" || session.URL == "") {
		err = errors.New("session without id or url")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, stepError(StepSession, err))
	}

	return &Session{ID: session.ID, URL: session.URL}, nil
}

// UnitAmount переводит сумму в центы с отбрасыванием дробной части.
func UnitAmount(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}
