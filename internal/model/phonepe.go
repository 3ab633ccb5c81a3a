package model

const PhonePeSuccessCode = "PAYMENT_SUCCESS"

// PhonePePayRequest is base64-encoded into the "request" field of the
// pay API body.
type PhonePePayRequest struct {
	MerchantID            string                   `json:"merchantId"`
	MerchantTransactionID string                   `json:"merchantTransactionId"`
	MerchantUserID        string                   `json:"merchantUserId"`
	Amount                int64                    `json:"amount"` // paise
	RedirectURL           string                   `json:"redirectUrl"`
	RedirectMode          string                   `json:"redirectMode"`
	CallbackURL           string                   `json:"callbackUrl"`
	MobileNumber          string                   `json:"mobileNumber,omitempty"`
	PaymentInstrument     PhonePePaymentInstrument `json:"paymentInstrument"`
}

type PhonePePaymentInstrument struct {
	Type string `json:"type"`
}

// PhonePeResponse is the envelope used by pay, status and callback
// payloads.
type PhonePeResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    PhonePeData `json:"data"`
}

type PhonePeData struct {
	MerchantID            string                `json:"merchantId"`
	MerchantTransactionID string                `json:"merchantTransactionId"`
	TransactionID         string                `json:"transactionId"`
	Amount                int64                 `json:"amount"`
	State                 string                `json:"state"`
	ResponseCode          string                `json:"responseCode"`
	InstrumentResponse    PhonePeInstrumentResp `json:"instrumentResponse"`
}

type PhonePeInstrumentResp struct {
	Type         string              `json:"type"`
	RedirectInfo PhonePeRedirectInfo `json:"redirectInfo"`
}

type PhonePeRedirectInfo struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}
