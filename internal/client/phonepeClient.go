package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"plan-marketplace/internal/config"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/payment"
)

type PhonePeClient interface {
	Pay(ctx context.Context, req *model.PhonePePayRequest) (*model.PhonePeResponse, error)
	CheckStatus(ctx context.Context, merchantTransactionID string) (*model.PhonePeResponse, error)
	MerchantID() string
}

type phonePeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	merchantID string
	signer     payment.PhonePeSigner
}

func NewPhonePeClient(cfg *config.PhonePe, signer payment.PhonePeSigner) PhonePeClient {
	return &phonePeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		merchantID: cfg.MerchantID,
		signer:     signer,
	}
}

func (c *phonePeClientImpl) MerchantID() string {
	return c.merchantID
}

func (c *phonePeClientImpl) Pay(ctx context.Context, payReq *model.PhonePePayRequest) (*model.PhonePeResponse, error) {
	raw, err := json.Marshal(payReq)
	if err != nil {
		return nil, fmt.Errorf("marshal pay request: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return nil, fmt.Errorf("marshal pay body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+payment.PhonePePayPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", c.signer.XVerify(encoded, payment.PhonePePayPath))

	return c.do(req)
}

func (c *phonePeClientImpl) CheckStatus(ctx context.Context, merchantTransactionID string) (*model.PhonePeResponse, error) {
	path := fmt.Sprintf("%s/%s/%s", payment.PhonePeStatusPath, c.merchantID, merchantTransactionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseApiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", c.signer.XVerify(path))
	req.Header.Set("X-MERCHANT-ID", c.merchantID)

	return c.do(req)
}

func (c *phonePeClientImpl) do(req *http.Request) (*model.PhonePeResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("phonepe request failed: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read phonepe response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("phonepe error %d: %s", resp.StatusCode, string(b))
	}

	var out model.PhonePeResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode phonepe response: %w", err)
	}
	return &out, nil
}
