// Package payment turns provider-specific "payment succeeded" signals
// into a single verified result. Each provider has its own verifier;
// none of them touch the order store.
package payment

import (
	"context"
	"errors"
	"time"

	"plan-marketplace/internal/model"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderPaypal   = "paypal"
	ProviderPhonePe  = "phonepe"
	ProviderManual   = "manual"

	StatusCompleted = "COMPLETED"
)

var (
	ErrSignatureMismatch = errors.New("payment signature verification failed")
	ErrNotCompleted      = errors.New("payment is not completed at the provider")
	ErrMalformedPayload  = errors.New("malformed provider payload")
	ErrOrderMismatch     = errors.New("provider payment does not match the order")
)

// Verified is a provider signal that passed verification.
type Verified struct {
	Provider string
	// OrderID is set when the signal names our order directly.
	OrderID string
	// MerchantTransactionID is set when the order must be located by the
	// correlation id stored at payment initiation.
	MerchantTransactionID string
	// Succeeded is false when the provider reported a non-success outcome.
	Succeeded bool
	Code      string
	// Trusted is true when the result was accepted without any
	// server-side check.
	Trusted bool
	Result  model.PaymentResult
}

// Verifier checks one provider's raw signal.
type Verifier[S any] interface {
	Verify(ctx context.Context, signal S) (*Verified, error)
}

func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
