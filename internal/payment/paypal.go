package payment

import (
	"context"
	"fmt"
	"time"

	"plan-marketplace/internal/model"

	"github.com/shopspring/decimal"
)

// PaypalOrderLookup fetches an order from the PayPal REST API.
type PaypalOrderLookup interface {
	GetOrder(ctx context.Context, paypalOrderID string) (*model.PaypalOrder, error)
}

type PaypalSignal struct {
	OrderID string
	// ReferenceID and Amount describe our order; a looked-up PayPal order
	// must agree with them.
	ReferenceID string
	Amount      float64
	Details     model.PaypalPaymentDetails
}

// PaypalVerifier accepts the payment details the storefront posts after
// PayPal approval. Unless capture verification is enabled the details
// are trusted as sent; the Verified result is then flagged Trusted.
type PaypalVerifier struct {
	lookup        PaypalOrderLookup
	verifyCapture bool
	now           func() time.Time
}

func NewPaypalVerifier(lookup PaypalOrderLookup, verifyCapture bool) *PaypalVerifier {
	return &PaypalVerifier{lookup: lookup, verifyCapture: verifyCapture && lookup != nil, now: time.Now}
}

func (v *PaypalVerifier) Verify(ctx context.Context, s PaypalSignal) (*Verified, error) {
	if s.Details.ID == "" {
		return nil, ErrMalformedPayload
	}

	if !v.verifyCapture {
		updated := s.Details.UpdateTime
		if updated == "" {
			updated = timestamp(v.now())
		}
		return &Verified{
			Provider:  ProviderPaypal,
			OrderID:   s.OrderID,
			Succeeded: true,
			Trusted:   true,
			Result: model.PaymentResult{
				ID:           s.Details.ID,
				Status:       s.Details.Status,
				UpdateTime:   updated,
				EmailAddress: s.Details.Payer.Email,
			},
		}, nil
	}

	order, err := v.lookup.GetOrder(ctx, s.Details.ID)
	if err != nil {
		return nil, fmt.Errorf("paypal get order: %w", err)
	}
	if order.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: paypal order %s is %s", ErrNotCompleted, order.ID, order.Status)
	}
	if err := matchPurchaseUnit(order, s); err != nil {
		return nil, err
	}

	updated := order.UpdateTime
	if updated == "" {
		updated = timestamp(v.now())
	}
	return &Verified{
		Provider:  ProviderPaypal,
		OrderID:   s.OrderID,
		Succeeded: true,
		Result: model.PaymentResult{
			ID:           order.ID,
			Status:       order.Status,
			UpdateTime:   updated,
			EmailAddress: order.Payer.Email,
		},
	}, nil
}

// matchPurchaseUnit ties the first purchase unit to our order: the
// amount must equal the order total and a reference id, when PayPal
// carries one, must be our public order id.
func matchPurchaseUnit(order *model.PaypalOrder, s PaypalSignal) error {
	if len(order.PurchaseUnits) == 0 {
		return fmt.Errorf("%w: paypal order %s has no purchase units", ErrOrderMismatch, order.ID)
	}
	unit := order.PurchaseUnits[0]

	if unit.ReferenceID != "" && unit.ReferenceID != s.ReferenceID {
		return fmt.Errorf("%w: paypal reference %q", ErrOrderMismatch, unit.ReferenceID)
	}

	paid, err := decimal.NewFromString(unit.Amount.Value)
	if err != nil {
		return fmt.Errorf("%w: paypal amount %q", ErrMalformedPayload, unit.Amount.Value)
	}
	if !paid.Equal(decimal.NewFromFloat(s.Amount).Round(2)) {
		return fmt.Errorf("%w: paid %s, order total %.2f", ErrOrderMismatch, paid, s.Amount)
	}
	return nil
}
