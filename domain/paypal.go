package domain

type PayPalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type PayPalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id,omitempty"`
	Amount      PayPalAmount `json:"amount"`
	Payments    *struct {
		Captures []PayPalCapture `json:"captures"`
	} `json:"payments,omitempty"`
}

type PayPalCapture struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Amount PayPalAmount `json:"amount"`
}

type PayPalOrderRequest struct {
	Intent        string               `json:"intent"`
	PurchaseUnits []PayPalPurchaseUnit `json:"purchase_units"`
}

type PayPalOrderResponse struct {
	ID            string               `json:"id"`
	Status        string               `json:"status"`
	PurchaseUnits []PayPalPurchaseUnit `json:"purchase_units"`
}

type PayPalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type PayPalErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
}

// PaymentCapture is the provider-neutral result of a successful capture.
type PaymentCapture struct {
	ProviderOrderID string
	CaptureID       string
	Status          string
	Raw             []byte
}
