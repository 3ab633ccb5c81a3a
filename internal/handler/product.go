package handler

import (
	"net/http"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/middleware"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	catalogService service.CatalogService
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	q, err := productQuery(c)
	if err != nil {
		return err
	}

	page, err := h.catalogService.Search(ctx, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// AdminList is the catalog listing without the storefront status filter;
// ?status= narrows it.
func (h *ProductHandler) AdminList(c echo.Context) error {
	ctx := c.Request().Context()

	q, err := productQuery(c)
	if err != nil {
		return err
	}
	q.Status = model.ApprovalStatus(c.QueryParam("status"))

	page, err := h.catalogService.AdminSearch(ctx, q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.Create(ctx, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.catalogService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "product removed"})
}

func (h *ProductHandler) Review(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.Review(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.catalogService.Submit(ctx, middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pagination(c)
	if err != nil {
		return err
	}

	products, err := h.catalogService.ListMine(ctx, middleware.CurrentUser(c), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Uploaded echoes what the Upload middleware stored so the client can
// put the URLs into a product request.
func (h *ProductHandler) Uploaded(c echo.Context) error {
	uploads := middleware.Uploads(c)
	if len(uploads) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files uploaded")
	}
	return c.JSON(http.StatusCreated, uploads)
}
