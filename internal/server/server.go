package server

import (
	"context"
	"log/slog"
	"net/http"

	"plan-marketplace/internal/client"
	"plan-marketplace/internal/handler"
	mw "plan-marketplace/internal/middleware"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Services groups everything the HTTP layer calls into.
type Services struct {
	User     service.UserService
	Catalog  service.CatalogService
	Order    service.OrderService
	Payment  service.PaymentService
	Cart     service.CartService
	Wishlist service.WishlistService
	Inquiry  service.InquiryService
	Blog     service.BlogService
	Gallery  service.GalleryService
	Report   service.ReportService
}

type Server struct {
	echo   *echo.Echo
	tokens mw.TokenParser
	users  mw.UserLoader
	store  client.ObjectStore
	logger *slog.Logger

	userHandler    *handler.UserHandler
	productHandler *handler.ProductHandler
	orderHandler   *handler.OrderHandler
	paymentHandler *handler.PaymentHandler
	cartHandler    *handler.CartHandler
	contentHandler *handler.ContentHandler
}

func NewServer(svc Services, tokens mw.TokenParser, store client.ObjectStore, allowOrigins []string, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		echo:   e,
		tokens: tokens,
		users:  svc.User,
		store:  store,
		logger: logger,

		userHandler:    handler.NewUserHandler(svc.User),
		productHandler: handler.NewProductHandler(svc.Catalog),
		orderHandler:   handler.NewOrderHandler(svc.Order),
		paymentHandler: handler.NewPaymentHandler(svc.Payment),
		cartHandler:    handler.NewCartHandler(svc.Cart, svc.Wishlist),
		contentHandler: handler.NewContentHandler(svc.Inquiry, svc.Blog, svc.Gallery, svc.Report),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	protect := mw.Authenticate(s.tokens, s.users)
	optional := mw.OptionalAuthenticate(s.tokens, s.users)

	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- users --------
	users := api.Group("/users")
	users.POST("/register", s.userHandler.Register)
	users.POST("/login", s.userHandler.Login)
	users.GET("/profile", s.userHandler.Profile, protect)
	users.PUT("/profile", s.userHandler.UpdateProfile, protect)
	users.POST("/request-role", s.userHandler.RequestRole, protect)

	// -------- catalog --------
	products := api.Group("/products")
	products.GET("", s.productHandler.List)
	products.GET("/:id", s.productHandler.Get)

	professional := api.Group("/professional", protect, mw.Authorize(mw.AnyOf(
		mw.HasRole(model.RoleAdmin),
		mw.AllOf(
			mw.HasRole(model.RoleProfessional, model.RoleSeller, model.RoleContractor),
			mw.Approved(),
		),
	)))
	professional.POST("/plans", s.productHandler.Submit)
	professional.GET("/plans", s.productHandler.ListMine)
	professional.POST("/uploads", s.productHandler.Uploaded, mw.Upload(s.store, "images", "planFiles"))

	// -------- cart / wishlist --------
	cart := api.Group("/cart", protect)
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("", s.cartHandler.AddItem)
	cart.PUT("/:productId", s.cartHandler.UpdateItem)
	cart.DELETE("/:productId", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.Clear)

	wishlist := api.Group("/wishlist", protect)
	wishlist.GET("", s.cartHandler.GetWishlist)
	wishlist.POST("", s.cartHandler.AddToWishlist)
	wishlist.DELETE("/:productId", s.cartHandler.RemoveFromWishlist)

	// -------- orders --------
	orders := api.Group("/orders")
	orders.POST("", s.orderHandler.Create, optional)
	orders.GET("/guest/:publicId", s.orderHandler.GuestLookup)
	orders.GET("/mine", s.orderHandler.Mine, protect)
	orders.GET("/:id", s.orderHandler.Get, protect)
	orders.GET("/:id/downloads", s.orderHandler.Downloads, protect)

	// -------- payments --------
	payments := api.Group("/payments")
	payments.POST("/orders/:id/razorpay", s.paymentHandler.CreateRazorpayOrder, optional)
	payments.POST("/razorpay/verify", s.paymentHandler.VerifyRazorpay, optional)
	payments.POST("/orders/:id/paypal", s.paymentHandler.ConfirmPaypal, optional)
	payments.POST("/orders/:id/phonepe", s.paymentHandler.InitiatePhonePe, optional)
	payments.GET("/phonepe/status/:merchantTransactionId", s.paymentHandler.PhonePeStatus, optional)

	// called by PhonePe
	payments.POST("/phonepe/callback", s.paymentHandler.PhonePeCallback)

	// -------- content --------
	api.POST("/inquiries", s.contentHandler.CreateInquiry, optional)
	api.GET("/blogs", s.contentHandler.ListPosts)
	api.GET("/blogs/:slug", s.contentHandler.GetPost, optional)
	api.GET("/gallery", s.contentHandler.ListGallery)

	// -------- admin --------
	admin := api.Group("/admin", protect, mw.AdminOnly())
	admin.GET("/dashboard", s.contentHandler.Dashboard)

	admin.GET("/users", s.userHandler.List)
	admin.PUT("/users/:id/role", s.userHandler.SetRole)
	admin.DELETE("/users/:id", s.userHandler.Delete)

	admin.GET("/products", s.productHandler.AdminList)
	admin.POST("/products", s.productHandler.Create)
	admin.PUT("/products/:id", s.productHandler.Update)
	admin.DELETE("/products/:id", s.productHandler.Delete)
	admin.PUT("/products/:id/review", s.productHandler.Review)
	admin.POST("/uploads", s.productHandler.Uploaded, mw.Upload(s.store, "images", "planFiles"))

	admin.GET("/orders", s.orderHandler.List)
	admin.DELETE("/orders/:id", s.orderHandler.Delete)
	admin.PUT("/orders/:id/pay", s.paymentHandler.MarkPaid)
	admin.GET("/orders/:id/payments", s.paymentHandler.History)

	admin.GET("/inquiries", s.contentHandler.ListInquiries)
	admin.PUT("/inquiries/:id", s.contentHandler.UpdateInquiry)
	admin.DELETE("/inquiries/:id", s.contentHandler.DeleteInquiry)

	admin.GET("/blogs", s.contentHandler.AdminListPosts)
	admin.POST("/blogs", s.contentHandler.CreatePost)
	admin.PUT("/blogs/:id", s.contentHandler.UpdatePost)
	admin.DELETE("/blogs/:id", s.contentHandler.DeletePost)

	admin.POST("/gallery", s.contentHandler.CreateGalleryItem, mw.Upload(s.store, "image"))
	admin.DELETE("/gallery/:id", s.contentHandler.DeleteGalleryItem)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
