package service

import (
	"context"
	"strings"
	"testing"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/model"
	"plan-marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "10-vastu-tips-for-your-new-home", Slugify("10 Vastu Tips for Your New Home!"))
	assert.Equal(t, "duplex-vs-bungalow", Slugify("  Duplex vs. Bungalow  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestBlogCreate_DuplicateSlugGetsSuffix(t *testing.T) {
	repo := &MockBlogRepository{}
	svc := NewBlogService(repo)
	author := &model.User{ID: primitive.NewObjectID()}
	ctx := context.Background()

	first, err := svc.Create(ctx, author, &dto.BlogRequest{Title: "Plot Sizes", Content: "..."})
	require.NoError(t, err)
	assert.Equal(t, "plot-sizes", first.Slug)

	second, err := svc.Create(ctx, author, &dto.BlogRequest{Title: "Plot sizes", Content: "..."})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Slug, "plot-sizes-"))
	assert.NotEqual(t, first.Slug, second.Slug)
}

func TestBlogGetBySlug_HidesDrafts(t *testing.T) {
	repo := &MockBlogRepository{}
	svc := NewBlogService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.User{}, &dto.BlogRequest{Title: "Draft", Content: "..."})
	require.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "draft", false)
	assert.ErrorIs(t, err, ErrNotFound)

	post, err := svc.GetBySlug(ctx, "draft", true)
	require.NoError(t, err)
	assert.False(t, post.Published)
}

func TestInquiryCreate(t *testing.T) {
	repo := &MockInquiryRepository{}
	svc := NewInquiryService(repo, discardLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, &dto.InquiryRequest{Name: "A", Email: "bad", Message: "hi"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, nil, &dto.InquiryRequest{Name: "A", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	user := &model.User{ID: primitive.NewObjectID(), Name: "Ravi", Email: "ravi@example.com"}
	inq, err := svc.Create(ctx, user, &dto.InquiryRequest{Message: "Need a custom plan"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", inq.Name)
	assert.Equal(t, "ravi@example.com", inq.Email)
	assert.Equal(t, model.InquiryNew, inq.Status)
	assert.Equal(t, user.ID, *inq.User)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, inq.ID.Hex(), "archived"), ErrValidation)
	assert.NoError(t, svc.UpdateStatus(ctx, inq.ID.Hex(), model.InquiryClosed))

	page, err := svc.List(ctx, "", repository.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestGalleryDelete_RemovesObject(t *testing.T) {
	repo := &MockGalleryRepository{}
	store := &MockObjectStore{DeleteErr: errBoom}
	svc := NewGalleryService(repo, store, discardLogger())
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.GalleryItem{Title: "Facade"})
	assert.ErrorIs(t, err, ErrValidation)

	item, err := svc.Create(ctx, &model.GalleryItem{Title: "Facade", ImageURL: "https://cdn.test/k", ImageKey: "uploads/image/k.jpg"})
	require.NoError(t, err)

	// a failed object delete is logged, not returned
	require.NoError(t, svc.Delete(ctx, item.ID.Hex()))
	assert.Equal(t, []string{"uploads/image/k.jpg"}, store.Deleted)
	assert.ErrorIs(t, svc.Delete(ctx, item.ID.Hex()), ErrNotFound)
}

func TestDashboard(t *testing.T) {
	users := newMockUserRepository(
		&model.User{Role: model.RoleBuyer},
		&model.User{Role: model.RoleBuyer},
		&model.User{Role: model.RoleAdmin},
	)
	products := newMockProductRepository(
		&model.Product{Status: model.StatusApproved},
		&model.Product{Status: model.StatusPending},
	)
	orders := newMockOrderRepository(
		&model.Order{TotalPrice: 100, IsPaid: true},
		&model.Order{TotalPrice: 50},
	)
	svc := NewReportService(users, products, orders, &MockInquiryRepository{Open: 4})

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.Users)
	assert.Equal(t, int64(2), d.UsersByRole[model.RoleBuyer])
	assert.Equal(t, int64(2), d.Products)
	assert.Equal(t, int64(1), d.PendingPlans)
	assert.Equal(t, int64(4), d.Inquiries)
	assert.Equal(t, int64(2), d.Sales.Orders)
	assert.Equal(t, int64(1), d.Sales.PaidOrders)
	assert.Equal(t, 100.0, d.Sales.Revenue)
}
