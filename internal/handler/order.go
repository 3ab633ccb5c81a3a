package handler

import (
	"net/http"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/middleware"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// Create accepts both signed-in and guest checkouts.
func (h *OrderHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.orderService.Create(ctx, middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.Get(ctx, middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GuestLookup(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.QueryParam("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	order, err := h.orderService.GetByPublicID(ctx, c.Param("publicId"), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Mine(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListMine(ctx, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Downloads(c echo.Context) error {
	ctx := c.Request().Context()

	files, err := h.orderService.Downloads(ctx, middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, files)
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pagination(c)
	if err != nil {
		return err
	}

	orders, err := h.orderService.List(ctx, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "order removed"})
}
