package model

// Payer is the buyer block PayPal returns on an order and the client
// forwards after approval.
type Payer struct {
	PayerID string `json:"payer_id"`
	Email   string `json:"email_address"`
}

type Amount struct {
	Currency string `json:"currency_code"`
	Value    string `json:"value"`
}

type Capture struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	CreateTime string `json:"create_time"`
	Amount     Amount `json:"amount"`
}

type Payments struct {
	Captures []Capture `json:"captures"`
}

type PurchaseUnit struct {
	ReferenceID string   `json:"reference_id"`
	Amount      Amount   `json:"amount"`
	Payments    Payments `json:"payments"`
}

// PaypalOrder is the subset of GET /v2/checkout/orders/{id} we read.
type PaypalOrder struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	UpdateTime    string         `json:"update_time"`
	Payer         Payer          `json:"payer"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units"`
}

// PaypalPaymentDetails is what the storefront posts after the PayPal
// buttons report an approved capture.
type PaypalPaymentDetails struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      Payer  `json:"payer"`
}
