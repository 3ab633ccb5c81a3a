package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"plan-marketplace/internal/model"
)

type RazorpaySignal struct {
	OrderID           string
	RazorpayOrderID   string
	RazorpayPaymentID string
	Signature         string
	PayerEmail        string
}

type RazorpayVerifier struct {
	keySecret string
	now       func() time.Time
}

func NewRazorpayVerifier(keySecret string) *RazorpayVerifier {
	return &RazorpayVerifier{keySecret: keySecret, now: time.Now}
}

// Verify recomputes hex(HMAC-SHA256(secret, order_id|payment_id)) and
// compares it with the signature the checkout widget handed the client.
func (v *RazorpayVerifier) Verify(_ context.Context, s RazorpaySignal) (*Verified, error) {
	if s.RazorpayOrderID == "" || s.RazorpayPaymentID == "" || s.Signature == "" {
		return nil, ErrMalformedPayload
	}

	expected := RazorpaySignature(v.keySecret, s.RazorpayOrderID, s.RazorpayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(s.Signature)) {
		return nil, ErrSignatureMismatch
	}

	return &Verified{
		Provider:  ProviderRazorpay,
		OrderID:   s.OrderID,
		Succeeded: true,
		Result: model.PaymentResult{
			ID:           s.RazorpayPaymentID,
			Status:       StatusCompleted,
			UpdateTime:   timestamp(v.now()),
			EmailAddress: s.PayerEmail,
		},
	}, nil
}

func RazorpaySignature(secret, razorpayOrderID, razorpayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(razorpayOrderID + "|" + razorpayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
