package service

import (
	"context"
	"fmt"

	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"golang.org/x/sync/errgroup"
)

type ReportService interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
}

type reportServiceImpl struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	inquiryRepo repository.InquiryRepository
}

func NewReportService(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	inquiryRepo repository.InquiryRepository,
) ReportService {
	return &reportServiceImpl{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		inquiryRepo: inquiryRepo,
	}
}

func (s *reportServiceImpl) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	var d model.Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byRole, err := s.userRepo.CountByRole(ctx)
		if err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		d.UsersByRole = byRole
		for _, n := range byRole {
			d.Users += n
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.productRepo.CountByStatus(ctx, "")
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		d.Products = n
		return nil
	})
	g.Go(func() error {
		n, err := s.productRepo.CountByStatus(ctx, model.StatusPending)
		if err != nil {
			return fmt.Errorf("count pending plans: %w", err)
		}
		d.PendingPlans = n
		return nil
	})
	g.Go(func() error {
		n, err := s.inquiryRepo.CountByStatus(ctx, model.InquiryNew)
		if err != nil {
			return fmt.Errorf("count inquiries: %w", err)
		}
		d.Inquiries = n
		return nil
	})
	g.Go(func() error {
		sales, err := s.orderRepo.SalesSummary(ctx)
		if err != nil {
			return fmt.Errorf("sales summary: %w", err)
		}
		d.Sales = sales
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
