package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"plan-marketplace/internal/client"
	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/payment"
	"plan-marketplace/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const currencyINR = "INR"

type PaymentService interface {
	CreateRazorpayOrder(ctx context.Context, orderID string) (*dto.RazorpayOrderResponse, error)
	VerifyRazorpay(ctx context.Context, req *dto.RazorpayVerifyRequest) (*model.Order, error)
	ConfirmPaypal(ctx context.Context, orderID string, details model.PaypalPaymentDetails) (*model.Order, error)
	InitiatePhonePe(ctx context.Context, orderID string) (*dto.PhonePeInitiateResponse, error)
	// HandlePhonePeCallback returns the order the callback refers to. A
	// non-success code leaves the order unpaid and is not an error.
	HandlePhonePeCallback(ctx context.Context, response, xVerify string) (*model.Order, error)
	PhonePeStatus(ctx context.Context, merchantTransactionID string) (*dto.PhonePeStatusResponse, error)
	MarkPaidManually(ctx context.Context, orderID string, admin *model.User) (*model.Order, error)
	// PaymentHistory lists the audit ledger entries of an order, oldest first.
	PaymentHistory(ctx context.Context, orderID string) ([]*model.PaymentEvent, error)
}

// Verifiers bundles one verifier per provider.
type Verifiers struct {
	Razorpay payment.Verifier[payment.RazorpaySignal]
	Paypal   payment.Verifier[payment.PaypalSignal]
	PhonePe  payment.Verifier[payment.PhonePeSignal]
	Manual   payment.Verifier[payment.ManualSignal]
}

// PhonePeURLs are the buyer redirect and the server callback handed to
// PhonePe on payment initiation. RedirectURL may contain "{orderId}".
type PhonePeURLs struct {
	RedirectURL string
	CallbackURL string
}

type paymentServiceImpl struct {
	orderService   OrderService
	orderRepo      repository.OrderRepository
	eventRepo      repository.PaymentEventRepository
	verifiers      Verifiers
	razorpayClient client.RazorpayClient
	phonePeClient  client.PhonePeClient
	phonePeURLs    PhonePeURLs
	logger         *slog.Logger
	now            func() time.Time
}

func NewPaymentService(
	orderService OrderService,
	orderRepo repository.OrderRepository,
	eventRepo repository.PaymentEventRepository,
	verifiers Verifiers,
	razorpayClient client.RazorpayClient,
	phonePeClient client.PhonePeClient,
	phonePeURLs PhonePeURLs,
	logger *slog.Logger,
) PaymentService {
	return &paymentServiceImpl{
		orderService:   orderService,
		orderRepo:      orderRepo,
		eventRepo:      eventRepo,
		verifiers:      verifiers,
		razorpayClient: razorpayClient,
		phonePeClient:  phonePeClient,
		phonePeURLs:    phonePeURLs,
		logger:         logger,
		now:            time.Now,
	}
}

// toPaise converts a rupee amount to the integer minor unit the
// providers expect.
func toPaise(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

func (s *paymentServiceImpl) unpaidOrder(ctx context.Context, orderID string) (*model.Order, error) {
	oid, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.IsPaid {
		return nil, fmt.Errorf("%w: order is already paid", ErrConflict)
	}
	return order, nil
}

func (s *paymentServiceImpl) CreateRazorpayOrder(ctx context.Context, orderID string) (*dto.RazorpayOrderResponse, error) {
	order, err := s.unpaidOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	amount := toPaise(order.TotalPrice)
	rzpOrder, err := s.razorpayClient.CreateOrder(ctx, amount, currencyINR, order.PublicID, map[string]string{
		"orderId": order.ID.Hex(),
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay api create order: %w", err)
	}

	if err := s.orderRepo.AddRazorpayOrderID(ctx, order.ID, rzpOrder.ID); err != nil {
		return nil, fmt.Errorf("store razorpay order id: %w", err)
	}

	return &dto.RazorpayOrderResponse{
		KeyID:           s.razorpayClient.KeyID(),
		OrderID:         order.ID.Hex(),
		RazorpayOrderID: rzpOrder.ID,
		Amount:          rzpOrder.Amount,
		Currency:        rzpOrder.Currency,
	}, nil
}

func (s *paymentServiceImpl) VerifyRazorpay(ctx context.Context, req *dto.RazorpayVerifyRequest) (*model.Order, error) {
	verified, err := s.verifiers.Razorpay.Verify(ctx, payment.RazorpaySignal{
		OrderID:           req.OrderID,
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
		Signature:         req.RazorpaySignature,
		PayerEmail:        req.Email,
	})
	if err != nil {
		s.record(ctx, payment.ProviderRazorpay, req.OrderID, model.OutcomeRejected, req.RazorpayPaymentID, err.Error())
		return nil, err
	}

	oid, err := parseID(verified.OrderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	// The signature only proves the payment belongs to some Razorpay
	// order; it must be one issued for this order.
	if !order.IssuedRazorpayOrder(req.RazorpayOrderID) {
		s.record(ctx, payment.ProviderRazorpay, req.OrderID, model.OutcomeRejected, req.RazorpayPaymentID, "razorpay order id mismatch")
		return nil, fmt.Errorf("%w: razorpay order does not belong to this order", ErrSignatureMismatch)
	}

	return s.apply(ctx, verified, order.ID.Hex())
}

func (s *paymentServiceImpl) ConfirmPaypal(ctx context.Context, orderID string, details model.PaypalPaymentDetails) (*model.Order, error) {
	oid, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	verified, err := s.verifiers.Paypal.Verify(ctx, payment.PaypalSignal{
		OrderID:     orderID,
		ReferenceID: order.PublicID,
		Amount:      order.TotalPrice,
		Details:     details,
	})
	if err != nil {
		s.record(ctx, payment.ProviderPaypal, orderID, model.OutcomeRejected, details.ID, err.Error())
		return nil, err
	}
	if verified.Trusted {
		s.logger.WarnContext(ctx, "accepting client-reported paypal payment without server verification",
			slog.String("order_id", orderID),
			slog.String("paypal_id", details.ID),
		)
	}
	return s.apply(ctx, verified, orderID)
}

func (s *paymentServiceImpl) InitiatePhonePe(ctx context.Context, orderID string) (*dto.PhonePeInitiateResponse, error) {
	order, err := s.unpaidOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	merchantTxID := "MT" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.orderRepo.AddMerchantTransactionID(ctx, order.ID, merchantTxID); err != nil {
		return nil, fmt.Errorf("store merchant transaction id: %w", err)
	}

	merchantUserID := "GUEST"
	if order.User != nil {
		merchantUserID = order.User.Hex()
	}

	resp, err := s.phonePeClient.Pay(ctx, &model.PhonePePayRequest{
		MerchantID:            s.phonePeClient.MerchantID(),
		MerchantTransactionID: merchantTxID,
		MerchantUserID:        merchantUserID,
		Amount:                toPaise(order.TotalPrice),
		RedirectURL:           strings.ReplaceAll(s.phonePeURLs.RedirectURL, "{orderId}", order.ID.Hex()),
		RedirectMode:          "REDIRECT",
		CallbackURL:           s.phonePeURLs.CallbackURL,
		MobileNumber:          order.ShippingAddress.Phone,
		PaymentInstrument:     model.PhonePePaymentInstrument{Type: "PAY_PAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("phonepe api pay: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("phonepe api pay: %s: %s", resp.Code, resp.Message)
	}

	return &dto.PhonePeInitiateResponse{
		OrderID:               order.ID.Hex(),
		MerchantTransactionID: merchantTxID,
		RedirectURL:           resp.Data.InstrumentResponse.RedirectInfo.URL,
	}, nil
}

func (s *paymentServiceImpl) HandlePhonePeCallback(ctx context.Context, response, xVerify string) (*model.Order, error) {
	verified, err := s.verifiers.PhonePe.Verify(ctx, payment.PhonePeSignal{
		Response: response,
		XVerify:  xVerify,
	})
	if err != nil {
		s.record(ctx, payment.ProviderPhonePe, "", model.OutcomeRejected, "", err.Error())
		return nil, err
	}

	order, err := s.orderRepo.FindByMerchantTransactionID(ctx, verified.MerchantTransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.record(ctx, payment.ProviderPhonePe, "", model.OutcomeIgnored, verified.MerchantTransactionID, "unknown merchant transaction id")
		}
		return nil, fmt.Errorf("find order by merchant transaction id: %w", err)
	}

	if !verified.Succeeded {
		s.logger.InfoContext(ctx, "phonepe reported unsuccessful payment",
			slog.String("order_id", order.ID.Hex()),
			slog.String("merchant_transaction_id", verified.MerchantTransactionID),
			slog.String("code", verified.Code),
		)
		s.record(ctx, payment.ProviderPhonePe, order.ID.Hex(), model.OutcomeIgnored, verified.MerchantTransactionID, verified.Code)
		return order, nil
	}

	return s.apply(ctx, verified, order.ID.Hex())
}

func (s *paymentServiceImpl) PhonePeStatus(ctx context.Context, merchantTxID string) (*dto.PhonePeStatusResponse, error) {
	order, err := s.orderRepo.FindByMerchantTransactionID(ctx, merchantTxID)
	if err != nil {
		return nil, fmt.Errorf("find order by merchant transaction id: %w", err)
	}

	resp, err := s.phonePeClient.CheckStatus(ctx, merchantTxID)
	if err != nil {
		return nil, fmt.Errorf("phonepe api check status: %w", err)
	}

	if resp.Code == model.PhonePeSuccessCode && !order.IsPaid {
		// The status API is called by us over TLS, so its answer is
		// authoritative without a callback signature.
		order, err = s.apply(ctx, &payment.Verified{
			Provider:              payment.ProviderPhonePe,
			MerchantTransactionID: merchantTxID,
			Succeeded:             true,
			Code:                  resp.Code,
			Result: model.PaymentResult{
				ID:     resp.Data.TransactionID,
				Status: payment.StatusCompleted,
			},
		}, order.ID.Hex())
		if err != nil {
			return nil, err
		}
	}

	return &dto.PhonePeStatusResponse{
		OrderID:               order.ID.Hex(),
		MerchantTransactionID: merchantTxID,
		Code:                  resp.Code,
		State:                 resp.Data.State,
		IsPaid:                order.IsPaid,
	}, nil
}

func (s *paymentServiceImpl) MarkPaidManually(ctx context.Context, orderID string, admin *model.User) (*model.Order, error) {
	verified, err := s.verifiers.Manual.Verify(ctx, payment.ManualSignal{
		OrderID:    orderID,
		AdminEmail: admin.Email,
	})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, verified, orderID)
}

func (s *paymentServiceImpl) PaymentHistory(ctx context.Context, orderID string) ([]*model.PaymentEvent, error) {
	oid, err := parseID(orderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.orderRepo.FindByID(ctx, oid); err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	events, err := s.eventRepo.ListByOrder(ctx, oid.Hex())
	if err != nil {
		return nil, fmt.Errorf("list payment events: %w", err)
	}
	if events == nil {
		events = []*model.PaymentEvent{}
	}
	return events, nil
}

// apply hands a verified success to the shared reconciliation and
// writes the outcome to the audit ledger.
func (s *paymentServiceImpl) apply(ctx context.Context, verified *payment.Verified, orderID string) (*model.Order, error) {
	oid, err := parseID(orderID)
	if err != nil {
		return nil, err
	}

	result := verified.Result
	if result.UpdateTime == "" {
		result.UpdateTime = s.now().UTC().Format(time.RFC3339)
	}

	order, updated, err := s.orderService.ConfirmPayment(ctx, oid, result)
	if err != nil {
		return nil, err
	}

	outcome := model.OutcomeApplied
	switch {
	case !updated:
		outcome = model.OutcomeDuplicate
	case verified.Trusted:
		outcome = model.OutcomeUnverified
	}
	s.record(ctx, verified.Provider, orderID, outcome, result.ID, verified.Code)
	return order, nil
}

// record is best effort: a ledger failure never fails a payment.
func (s *paymentServiceImpl) record(ctx context.Context, provider, orderID string, outcome model.PaymentOutcome, ref, detail string) {
	if len(detail) > 512 {
		detail = detail[:512]
	}
	err := s.eventRepo.Record(ctx, &model.PaymentEvent{
		OrderID:     orderID,
		Provider:    provider,
		Outcome:     outcome,
		ProviderRef: ref,
		Detail:      detail,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "record payment event",
			slog.String("provider", provider),
			slog.String("order_id", orderID),
			slog.Any("error", err),
		)
	}
}
