package service

import (
	"context"
	"errors"
	"fmt"

	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxCartQuantity = 10

type CartService interface {
	Get(ctx context.Context, user *model.User) (*model.Cart, error)
	AddItem(ctx context.Context, user *model.User, productID string, quantity int) (*model.Cart, error)
	UpdateQuantity(ctx context.Context, user *model.User, productID string, quantity int) (*model.Cart, error)
	RemoveItem(ctx context.Context, user *model.User, productID string) (*model.Cart, error)
	Clear(ctx context.Context, user *model.User) error
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, user *model.User) (*model.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.Cart{User: user.ID, Items: []model.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

func validQuantity(quantity int) error {
	if quantity <= 0 || quantity > maxCartQuantity {
		return invalid("quantity must be between 1 and %d", maxCartQuantity)
	}
	return nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, user *model.User, productID string, quantity int) (*model.Cart, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product.Status != model.StatusApproved {
		return nil, fmt.Errorf("find product: %w", ErrNotFound)
	}

	item := model.CartItem{
		Product:  product.ID,
		Name:     product.Name,
		Price:    effectivePrice(product),
		Quantity: quantity,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}

	if err := s.cartRepo.AddItem(ctx, user.ID, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return s.Get(ctx, user)
}

func effectivePrice(p *model.Product) float64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, user *model.User, productID string, quantity int) (*model.Cart, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(ctx, user.ID, pid, quantity); err != nil {
		return nil, cartErr("update cart item", err)
	}
	return s.Get(ctx, user)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, user *model.User, productID string) (*model.Cart, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(ctx, user.ID, pid); err != nil {
		return nil, cartErr("remove cart item", err)
	}
	return s.Get(ctx, user)
}

func (s *cartServiceImpl) Clear(ctx context.Context, user *model.User) error {
	if err := s.cartRepo.DeleteCart(ctx, user.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func cartErr(op string, err error) error {
	if errors.Is(err, repository.ErrItemNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type WishlistService interface {
	Get(ctx context.Context, user *model.User) ([]*model.Product, error)
	Add(ctx context.Context, user *model.User, productID string) ([]*model.Product, error)
	Remove(ctx context.Context, user *model.User, productID string) ([]*model.Product, error)
}

type wishlistServiceImpl struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistServiceImpl{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// Get resolves the saved product ids; products removed from the catalog
// since they were saved are dropped silently.
func (s *wishlistServiceImpl) Get(ctx context.Context, user *model.User) ([]*model.Product, error) {
	wishlist, err := s.wishlistRepo.Get(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return []*model.Product{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist: %w", err)
	}
	if len(wishlist.Products) == 0 {
		return []*model.Product{}, nil
	}

	products, err := s.productRepo.FindMany(ctx, wishlist.Products)
	if err != nil {
		return nil, fmt.Errorf("load wishlist products: %w", err)
	}
	return orderedLike(wishlist.Products, products), nil
}

func orderedLike(ids []primitive.ObjectID, products []*model.Product) []*model.Product {
	byID := make(map[primitive.ObjectID]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]*model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *wishlistServiceImpl) Add(ctx context.Context, user *model.User, productID string) ([]*model.Product, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, pid); err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if err := s.wishlistRepo.Add(ctx, user.ID, pid); err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	return s.Get(ctx, user)
}

func (s *wishlistServiceImpl) Remove(ctx context.Context, user *model.User, productID string) ([]*model.Product, error) {
	pid, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Remove(ctx, user.ID, pid); err != nil {
		return nil, fmt.Errorf("remove from wishlist: %w", err)
	}
	return s.Get(ctx, user)
}
