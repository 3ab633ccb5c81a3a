package payment

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"plan-marketplace/internal/model"
)

const (
	PhonePePayPath    = "/pg/v1/pay"
	PhonePeStatusPath = "/pg/v1/status"
)

// PhonePeSigner computes the X-VERIFY header:
// sha256hex(payload + saltKey) + "###" + saltIndex.
// Outbound calls sign the base64 body followed by the API path; inbound
// callbacks sign the base64 body alone.
type PhonePeSigner struct {
	saltKey   string
	saltIndex string
}

func NewPhonePeSigner(saltKey, saltIndex string) PhonePeSigner {
	return PhonePeSigner{saltKey: saltKey, saltIndex: saltIndex}
}

func (s PhonePeSigner) XVerify(payload ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(payload, "") + s.saltKey))
	return hex.EncodeToString(sum[:]) + "###" + s.saltIndex
}

// Matches reports whether header is the X-VERIFY value for payload.
func (s PhonePeSigner) Matches(header string, payload ...string) bool {
	expected := s.XVerify(payload...)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(header)) == 1
}

type PhonePeSignal struct {
	// Response is the base64 JSON the provider posts in the "response" field.
	Response string
	XVerify  string
}

type PhonePeVerifier struct {
	signer PhonePeSigner
	now    func() time.Time
}

func NewPhonePeVerifier(signer PhonePeSigner) *PhonePeVerifier {
	return &PhonePeVerifier{signer: signer, now: time.Now}
}

// Verify checks the callback signature and decodes the result. A
// verified callback with a failure code yields Succeeded=false, not an
// error.
func (v *PhonePeVerifier) Verify(_ context.Context, s PhonePeSignal) (*Verified, error) {
	if s.Response == "" || s.XVerify == "" {
		return nil, ErrMalformedPayload
	}
	if !v.signer.Matches(s.XVerify, s.Response) {
		return nil, ErrSignatureMismatch
	}

	raw, err := base64.StdEncoding.DecodeString(s.Response)
	if err != nil {
		return nil, ErrMalformedPayload
	}
	var resp model.PhonePeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, ErrMalformedPayload
	}
	if resp.Data.MerchantTransactionID == "" {
		return nil, ErrMalformedPayload
	}

	succeeded := resp.Code == model.PhonePeSuccessCode
	status := resp.Code
	if succeeded {
		status = StatusCompleted
	}

	return &Verified{
		Provider:              ProviderPhonePe,
		MerchantTransactionID: resp.Data.MerchantTransactionID,
		Succeeded:             succeeded,
		Code:                  resp.Code,
		Result: model.PaymentResult{
			ID:         resp.Data.TransactionID,
			Status:     status,
			UpdateTime: timestamp(v.now()),
		},
	}, nil
}
