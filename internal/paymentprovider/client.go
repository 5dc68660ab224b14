// Package paymentprovider реализует клиент платежного провайдера
// (Stripe-совместимый API) и сборку платежной сессии.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/metrics"
)

const defaultAPIURL = "https://api.stripe.com/v1"

// Client клиент провайдера, запросы отправляются в form-encoded виде.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера
func NewClient(apiURL, secretKey string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateProduct создает товар с указанным названием.
func (c *Client) CreateProduct(ctx context.Context, name string) (*Product, error) {
	form := url.Values{}
	form.Set("name", name)

	var product Product
	if err := c.post(ctx, StepProduct, "/products", form, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreatePrice создает цену для товара. unitAmount в центах.
func (c *Client) CreatePrice(ctx context.Context, productID, currency string, unitAmount int64) (*Price, error) {
	form := url.Values{}
	form.Set("currency", currency)
	form.Set("unit_amount", strconv.FormatInt(unitAmount, 10))
	form.Set("product", productID)

	var price Price
	if err := c.post(ctx, StepPrice, "/prices", form, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

// CreateCheckoutSession создает сессию оплаты одной единицы цены.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID, successURL string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("success_url", successURL)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("mode", "payment")

	var session CheckoutSession
	if err := c.post(ctx, StepSession, "/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, step Step, path string, form url.Values, out any) (err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metrics.PaymentProviderRequestsTotal.WithLabelValues(string(step), result).Inc()
		metrics.PaymentProviderRequestDuration.WithLabelValues(string(step)).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("unexpected status %s: %s", resp.Status, apiErr.Error.Message)
		}
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
