package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"storefront/domain"
	"storefront/pkg/money"
)

type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	Currency     string
}

// PayPalRepository talks to the PayPal Orders v2 API. The OAuth access token
// is cached until shortly before it expires.
type PayPalRepository struct {
	paypalConfig PayPalConfig
	client       *http.Client
	now          func() time.Time

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalRepository(cfg PayPalConfig) *PayPalRepository {
	return &PayPalRepository{
		paypalConfig: cfg,
		client:       &http.Client{Timeout: 15 * time.Second},
		now:          time.Now,
	}
}

// APIError is a non 2xx response from PayPal.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
	DebugID    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paypal %d %s: %s (debug_id %s)", e.StatusCode, e.Name, e.Message, e.DebugID)
}

// CreateOrder opens a CAPTURE intent order for total and returns its id.
func (r *PayPalRepository) CreateOrder(ctx context.Context, total money.Money, referenceID string) (string, error) {
	payload := domain.PayPalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []domain.PayPalPurchaseUnit{{
			ReferenceID: referenceID,
			Amount: domain.PayPalAmount{
				CurrencyCode: r.paypalConfig.Currency,
				Value:        total.String(),
			},
		}},
	}

	var resp domain.PayPalOrderResponse
	if _, err := r.do(ctx, http.MethodPost, "/v2/checkout/orders", payload, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("paypal returned an order without id")
	}

	return resp.ID, nil
}

// CaptureOrder captures an approved order.
func (r *PayPalRepository) CaptureOrder(ctx context.Context, providerOrderID string) (domain.PaymentCapture, error) {
	var resp domain.PayPalOrderResponse
	raw, err := r.do(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(providerOrderID)+"/capture", struct{}{}, &resp)
	if err != nil {
		return domain.PaymentCapture{}, err
	}

	capture := domain.PaymentCapture{
		ProviderOrderID: resp.ID,
		Status:          resp.Status,
		Raw:             raw,
	}
	for _, unit := range resp.PurchaseUnits {
		if unit.Payments != nil && len(unit.Payments.Captures) > 0 {
			capture.CaptureID = unit.Payments.Captures[0].ID
			break
		}
	}

	return capture, nil
}

func (r *PayPalRepository) do(ctx context.Context, method, path string, body, out interface{}) ([]byte, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}

	payloadByte, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.paypalConfig.BaseURL+path, bytes.NewReader(payloadByte))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, apiError(res.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("failed to decode paypal response: %w", err)
	}

	return raw, nil
}

func (r *PayPalRepository) token(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accessToken != "" && r.now().Before(r.tokenExpiry) {
		return r.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.paypalConfig.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(r.paypalConfig.ClientID, r.paypalConfig.ClientSecret)

	res, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", apiError(res.StatusCode, raw)
	}

	var tokenResp domain.PayPalTokenResponse
	if err := json.Unmarshal(raw, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode paypal token: %w", err)
	}

	r.accessToken = tokenResp.AccessToken
	// Renew a minute early so a request never carries a token that expires
	// in flight.
	r.tokenExpiry = r.now().Add(time.Duration(tokenResp.ExpiresIn)*time.Second - time.Minute)

	return r.accessToken, nil
}

func apiError(status int, raw []byte) error {
	var body domain.PayPalErrorResponse
	_ = json.Unmarshal(raw, &body)
	return &APIError{
		StatusCode: status,
		Name:       body.Name,
		Message:    body.Message,
		DebugID:    body.DebugID,
	}
}
