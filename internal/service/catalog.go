package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"plan-marketplace/internal/cache"
	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"golang.org/x/sync/singleflight"
)

type CatalogService interface {
	// Search is the public storefront listing; only approved plans.
	Search(ctx context.Context, q repository.ProductQuery) (*dto.Page[*model.Product], error)
	// AdminSearch honours whatever status the query asks for.
	AdminSearch(ctx context.Context, q repository.ProductQuery) (*dto.Page[*model.Product], error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id string, req *dto.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
	Submit(ctx context.Context, author *model.User, req *dto.ProductRequest) (*model.Product, error)
	ListMine(ctx context.Context, author *model.User, page repository.Pagination) (*dto.Page[*model.Product], error)
	Review(ctx context.Context, id string, req *dto.ReviewRequest) (*model.Product, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	cache       cache.ProductCache
	sfGroup     singleflight.Group
	logger      *slog.Logger
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	productCache cache.ProductCache,
	logger *slog.Logger,
) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger,
	}
}

func (s *catalogServiceImpl) Search(ctx context.Context, q repository.ProductQuery) (*dto.Page[*model.Product], error) {
	q.Status = model.StatusApproved
	q.Author = nil
	return s.AdminSearch(ctx, q)
}

func (s *catalogServiceImpl) AdminSearch(ctx context.Context, q repository.ProductQuery) (*dto.Page[*model.Product], error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, invalid("unknown status %q", q.Status)
	}
	products, total, err := s.productRepo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return pageOf(products, total, q.Pagination), nil
}

func (s *catalogServiceImpl) Get(ctx context.Context, id string) (*model.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	key := oid.Hex()

	product, err := s.cache.Get(ctx, key)
	if err == nil {
		return visible(product)
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WarnContext(ctx, "product cache get", slog.String("product_id", key), slog.Any("error", err))
	}

	v, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		p, err := s.productRepo.FindByID(ctx, oid)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, p); err != nil {
			s.logger.WarnContext(ctx, "product cache set", slog.String("product_id", key), slog.Any("error", err))
		}
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return visible(v.(*model.Product))
}

// visible hides plans that are not approved from the storefront.
func visible(p *model.Product) (*model.Product, error) {
	if p.Status != model.StatusApproved {
		return nil, ErrNotFound
	}
	return p, nil
}

func validateProduct(req *dto.ProductRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return invalid("name is required")
	case strings.TrimSpace(req.Category) == "":
		return invalid("category is required")
	case req.Price < 0 || req.SalePrice < 0:
		return invalid("price must not be negative")
	case req.Plot.Area < 0:
		return invalid("plot area must not be negative")
	}
	return nil
}

func applyProduct(p *model.Product, req *dto.ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.ProductNo = req.ProductNo
	p.Description = req.Description
	p.Category = req.Category
	p.PlanType = req.PlanType
	p.PropertyType = req.PropertyType
	p.Country = req.Country
	p.Direction = req.Direction
	p.Plot = req.Plot
	if p.Plot.Area == 0 {
		p.Plot.Area = p.Plot.Width * p.Plot.Length
	}
	p.Rooms = req.Rooms
	p.Price = req.Price
	p.SalePrice = req.SalePrice
	p.Images = req.Images
	if p.Images == nil {
		p.Images = []string{}
	}
	p.PlanFiles = req.PlanFiles
	if p.PlanFiles == nil {
		p.PlanFiles = []string{}
	}
}

func (s *catalogServiceImpl) Create(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	product := &model.Product{Status: model.StatusApproved}
	applyProduct(product, req)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) Update(ctx context.Context, id string, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	applyProduct(product, req)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, oid.Hex())
	return product, nil
}

func (s *catalogServiceImpl) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, oid); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx, oid.Hex())
	return nil
}

func (s *catalogServiceImpl) Submit(ctx context.Context, author *model.User, req *dto.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	product := &model.Product{
		Author: &author.ID,
		Status: model.StatusPending,
	}
	applyProduct(product, req)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store submitted plan: %w", err)
	}
	s.logger.InfoContext(ctx, "plan submitted for review",
		slog.String("product_id", product.ID.Hex()),
		slog.String("author_id", author.ID.Hex()),
	)
	return product, nil
}

func (s *catalogServiceImpl) ListMine(ctx context.Context, author *model.User, page repository.Pagination) (*dto.Page[*model.Product], error) {
	return s.AdminSearch(ctx, repository.ProductQuery{
		Author:     &author.ID,
		Pagination: page,
	})
}

func (s *catalogServiceImpl) Review(ctx context.Context, id string, req *dto.ReviewRequest) (*model.Product, error) {
	if req.Status != model.StatusApproved && req.Status != model.StatusRejected {
		return nil, invalid("review status must be approved or rejected")
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.SetReview(ctx, oid, req.Status, req.Note); err != nil {
		return nil, fmt.Errorf("review product: %w", err)
	}
	s.invalidate(ctx, oid.Hex())

	product, err := s.productRepo.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "product cache delete", slog.String("product_id", key), slog.Any("error", err))
	}
}
