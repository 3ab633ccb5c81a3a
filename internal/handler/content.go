package handler

import (
	"net/http"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/middleware"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

type ContentHandler struct {
	inquiryService service.InquiryService
	blogService    service.BlogService
	galleryService service.GalleryService
	reportService  service.ReportService
}

func NewContentHandler(
	inquiryService service.InquiryService,
	blogService service.BlogService,
	galleryService service.GalleryService,
	reportService service.ReportService,
) *ContentHandler {
	return &ContentHandler{
		inquiryService: inquiryService,
		blogService:    blogService,
		galleryService: galleryService,
		reportService:  reportService,
	}
}

// -------- inquiries --------

func (h *ContentHandler) CreateInquiry(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.InquiryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	inquiry, err := h.inquiryService.Create(ctx, middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, inquiry)
}

func (h *ContentHandler) ListInquiries(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pagination(c)
	if err != nil {
		return err
	}

	inquiries, err := h.inquiryService.List(ctx, model.InquiryStatus(c.QueryParam("status")), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, inquiries)
}

func (h *ContentHandler) UpdateInquiry(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.InquiryStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.inquiryService.UpdateStatus(ctx, c.Param("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "inquiry updated"})
}

func (h *ContentHandler) DeleteInquiry(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.inquiryService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "inquiry removed"})
}

// -------- blog --------

func (h *ContentHandler) ListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pagination(c)
	if err != nil {
		return err
	}

	posts, err := h.blogService.List(ctx, true, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *ContentHandler) AdminListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	page, err := pagination(c)
	if err != nil {
		return err
	}

	posts, err := h.blogService.List(ctx, false, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

func (h *ContentHandler) GetPost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := h.blogService.GetBySlug(ctx, c.Param("slug"), middleware.CurrentUser(c).IsAdmin())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	post, err := h.blogService.Create(ctx, middleware.CurrentUser(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

func (h *ContentHandler) UpdatePost(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.BlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	post, err := h.blogService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (h *ContentHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.blogService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "post removed"})
}

// -------- gallery --------

func (h *ContentHandler) ListGallery(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.galleryService.List(ctx, c.QueryParam("category"))
	if err != nil {
		return err
	}
	if items == nil {
		items = []*model.GalleryItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// CreateGalleryItem runs behind Upload("image").
func (h *ContentHandler) CreateGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()

	images := middleware.Uploads(c)["image"]
	if len(images) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "image is required")
	}

	item, err := h.galleryService.Create(ctx, &model.GalleryItem{
		Title:    c.FormValue("title"),
		Category: c.FormValue("category"),
		ImageURL: images[0].URL,
		ImageKey: images[0].Key,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *ContentHandler) DeleteGalleryItem(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.galleryService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "gallery item removed"})
}

// -------- admin --------

func (h *ContentHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.reportService.Dashboard(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboard)
}
