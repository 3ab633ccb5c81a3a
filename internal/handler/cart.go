package handler

import (
	"net/http"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/middleware"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService     service.CartService
	wishlistService service.WishlistService
}

func NewCartHandler(cartService service.CartService, wishlistService service.WishlistService) *CartHandler {
	return &CartHandler{
		cartService:     cartService,
		wishlistService: wishlistService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.Get(ctx, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.cartService.AddItem(ctx, middleware.CurrentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.QuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	cart, err := h.cartService.UpdateQuantity(ctx, middleware.CurrentUser(c), c.Param("productId"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.RemoveItem(ctx, middleware.CurrentUser(c), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cartService.Clear(ctx, middleware.CurrentUser(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.wishlistService.Get(ctx, middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	products, err := h.wishlistService.Add(ctx, middleware.CurrentUser(c), req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (h *CartHandler) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.wishlistService.Remove(ctx, middleware.CurrentUser(c), c.Param("productId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}
