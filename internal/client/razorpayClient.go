package client

import (
	"context"
	"fmt"

	"plan-marketplace/internal/config"

	razorpay "github.com/razorpay/razorpay-go"
)

type RazorpayOrder struct {
	ID       string
	Amount   int64
	Currency string
}

type RazorpayClient interface {
	// CreateOrder registers an order for amount (in paise) and returns
	// the Razorpay order id the checkout widget needs.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error)
	KeyID() string
}

type razorpayClientImpl struct {
	client *razorpay.Client
	keyID  string
}

func NewRazorpayClient(cfg *config.Razorpay) RazorpayClient {
	return &razorpayClientImpl{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:  cfg.KeyID,
	}
}

func (c *razorpayClientImpl) KeyID() string {
	return c.keyID
}

func (c *razorpayClientImpl) CreateOrder(_ context.Context, amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("razorpay create order: response has no id")
	}
	return &RazorpayOrder{
		ID:       id,
		Amount:   amount,
		Currency: currency,
	}, nil
}
