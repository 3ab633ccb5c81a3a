package handler

import (
	"net/http"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/middleware"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreateRazorpayOrder(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.paymentService.CreateRazorpayOrder(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) VerifyRazorpay(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RazorpayVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.OrderID == "" {
		req.OrderID = c.Param("id")
	}

	order, err := h.paymentService.VerifyRazorpay(ctx, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// ConfirmPaypal takes the payment details the PayPal buttons return.
func (h *PaymentHandler) ConfirmPaypal(c echo.Context) error {
	ctx := c.Request().Context()

	var details model.PaypalPaymentDetails
	if err := c.Bind(&details); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.paymentService.ConfirmPaypal(ctx, c.Param("id"), details)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *PaymentHandler) InitiatePhonePe(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.paymentService.InitiatePhonePe(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// PhonePeCallback is called by PhonePe, not by the storefront. A
// verified failure is acknowledged with 200 so the provider stops
// retrying.
func (h *PaymentHandler) PhonePeCallback(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PhonePeCallback
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.paymentService.HandlePhonePeCallback(ctx, req.Response, c.Request().Header.Get("X-VERIFY"))
	if err != nil {
		return err
	}

	msg := "payment recorded"
	if !order.IsPaid {
		msg = "payment not successful"
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

func (h *PaymentHandler) PhonePeStatus(c echo.Context) error {
	ctx := c.Request().Context()

	resp, err := h.paymentService.PhonePeStatus(ctx, c.Param("merchantTransactionId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) History(c echo.Context) error {
	ctx := c.Request().Context()

	events, err := h.paymentService.PaymentHistory(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.paymentService.MarkPaidManually(ctx, c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
