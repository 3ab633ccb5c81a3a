package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/payment"
	"plan-marketplace/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderService interface {
	Create(ctx context.Context, user *model.User, req *dto.CreateOrderRequest) (*model.Order, error)
	Get(ctx context.Context, viewer *model.User, id string) (*model.Order, error)
	// GetByPublicID is the guest lookup; email must match the checkout email.
	GetByPublicID(ctx context.Context, publicID, email string) (*model.Order, error)
	ListMine(ctx context.Context, user *model.User) ([]*model.Order, error)
	List(ctx context.Context, page repository.Pagination) (*dto.Page[*model.Order], error)
	Delete(ctx context.Context, id string) error
	Downloads(ctx context.Context, viewer *model.User, id string) ([]model.DownloadableFile, error)
	// ConfirmPayment is the one reconciliation path every provider goes
	// through. updated is false when the order was already paid.
	ConfirmPayment(ctx context.Context, id primitive.ObjectID, result model.PaymentResult) (order *model.Order, updated bool, err error)
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *orderServiceImpl) Create(ctx context.Context, user *model.User, req *dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, invalid("no order items")
	}
	if !req.PaymentMethod.Valid() || req.PaymentMethod == model.PaymentManual {
		return nil, invalid("unsupported payment method %q", req.PaymentMethod)
	}
	if err := validateAddress(req.ShippingAddress); err != nil {
		return nil, err
	}
	if req.TotalPrice <= 0 {
		return nil, invalid("total price must be positive")
	}

	items := make([]model.OrderItem, len(req.OrderItems))
	for i, item := range req.OrderItems {
		productID, err := parseID(item.Product)
		if err != nil {
			return nil, err
		}
		if item.Quantity <= 0 {
			return nil, invalid("item quantity must be positive")
		}
		if item.Price < 0 {
			return nil, invalid("item price must not be negative")
		}
		items[i] = model.OrderItem{
			Product:  productID,
			Name:     item.Name,
			Image:    item.Image,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	order := &model.Order{
		PublicID:        uuid.NewString(),
		OrderItems:      items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
	}
	if user != nil {
		order.User = &user.ID
	} else {
		email := strings.ToLower(strings.TrimSpace(req.GuestEmail))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, invalid("guest checkout needs a valid email")
		}
		order.GuestEmail = email
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID.Hex()),
		slog.String("payment_method", string(order.PaymentMethod)),
		slog.Bool("guest", order.User == nil),
	)
	return order, nil
}

func validateAddress(a model.ShippingAddress) error {
	switch {
	case strings.TrimSpace(a.Address) == "":
		return invalid("shipping address is required")
	case strings.TrimSpace(a.City) == "":
		return invalid("shipping city is required")
	case strings.TrimSpace(a.Country) == "":
		return invalid("shipping country is required")
	}
	return nil
}

func (s *orderServiceImpl) Get(ctx context.Context, viewer *model.User, id string) (*model.Order, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if !canView(viewer, order) {
		return nil, fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	}
	return order, nil
}

func canView(viewer *model.User, order *model.Order) bool {
	if viewer == nil {
		return false
	}
	return viewer.IsAdmin() || order.OwnedBy(viewer.ID)
}

func (s *orderServiceImpl) GetByPublicID(ctx context.Context, publicID, email string) (*model.Order, error) {
	order, err := s.orderRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.GuestEmail == "" || !strings.EqualFold(order.GuestEmail, strings.TrimSpace(email)) {
		// don't reveal that the public id exists
		return nil, ErrNotFound
	}
	return order, nil
}

func (s *orderServiceImpl) ListMine(ctx context.Context, user *model.User) ([]*model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) List(ctx context.Context, page repository.Pagination) (*dto.Page[*model.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return pageOf(orders, total, page), nil
}

func (s *orderServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (s *orderServiceImpl) Downloads(ctx context.Context, viewer *model.User, id string) ([]model.DownloadableFile, error) {
	order, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if !order.IsPaid {
		return nil, fmt.Errorf("%w: order is not paid", ErrForbidden)
	}
	if order.DownloadableFiles == nil {
		return []model.DownloadableFile{}, nil
	}
	return order.DownloadableFiles, nil
}

func (s *orderServiceImpl) ConfirmPayment(ctx context.Context, id primitive.ObjectID, result model.PaymentResult) (*model.Order, bool, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("find order: %w", err)
	}
	if order.IsPaid {
		return order, false, nil
	}

	products, err := s.productRepo.FindMany(ctx, order.ProductIDs())
	if err != nil {
		return nil, false, fmt.Errorf("load ordered products: %w", err)
	}
	files := payment.FilesFor(order.OrderItems, products)

	paid, updated, err := s.orderRepo.MarkPaid(ctx, id, repository.PaidUpdate{
		Result: result,
		Files:  files,
		PaidAt: s.now().UTC(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("mark order paid: %w", err)
	}

	if updated {
		s.logger.InfoContext(ctx, "order paid",
			slog.String("order_id", id.Hex()),
			slog.String("payment_id", result.ID),
			slog.Int("files", len(files)),
		)
	}
	return paid, updated, nil
}
