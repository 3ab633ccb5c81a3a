package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"plan-marketplace/internal/client"
	"plan-marketplace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongodb container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := client.ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(ctx) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestOrderRepository_MarkPaidOnce(t *testing.T) {
	db := setupMongo(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{PublicID: "ORD-1", PaymentMethod: model.PaymentRazorpay, TotalPrice: 1500}
	require.NoError(t, repo.Create(ctx, order))

	firstPaidAt := time.Now().UTC().Truncate(time.Millisecond)
	paid, updated, err := repo.MarkPaid(ctx, order.ID, PaidUpdate{
		Result: model.PaymentResult{ID: "pay_1", Status: "COMPLETED"},
		Files:  []model.DownloadableFile{{ProductName: "Villa", FileURL: "https://cdn/plan.pdf"}},
		PaidAt: firstPaidAt,
	})
	require.NoError(t, err)
	assert.True(t, updated)
	assert.True(t, paid.IsPaid)
	assert.Len(t, paid.DownloadableFiles, 1)

	again, updated, err := repo.MarkPaid(ctx, order.ID, PaidUpdate{
		Result: model.PaymentResult{ID: "pay_2", Status: "COMPLETED"},
		PaidAt: firstPaidAt.Add(time.Hour),
	})
	require.NoError(t, err)
	assert.False(t, updated)
	assert.Equal(t, "pay_1", again.PaymentResult.ID)
	assert.True(t, firstPaidAt.Equal(*again.PaidAt))
}

func TestOrderRepository_MarkPaidConcurrent(t *testing.T) {
	db := setupMongo(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{PublicID: "ORD-2", PaymentMethod: model.PaymentPhonePe, TotalPrice: 900}
	require.NoError(t, repo.Create(ctx, order))

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, updated, err := repo.MarkPaid(ctx, order.ID, PaidUpdate{
				Result: model.PaymentResult{ID: "T1", Status: "COMPLETED"},
				PaidAt: time.Now(),
			})
			assert.NoError(t, err)
			if updated {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, applied)
}

func TestOrderRepository_MarkPaidMissing(t *testing.T) {
	db := setupMongo(t)

	_, _, err := NewOrderRepository(db).MarkPaid(context.Background(), primitive.NewObjectID(), PaidUpdate{PaidAt: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_CheckoutAttemptIDs(t *testing.T) {
	db := setupMongo(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	order := &model.Order{PublicID: "ORD-4", PaymentMethod: model.PaymentPhonePe, TotalPrice: 700}
	require.NoError(t, repo.Create(ctx, order))

	for _, id := range []string{"MT-A", "MT-B", "MT-A"} {
		require.NoError(t, repo.AddMerchantTransactionID(ctx, order.ID, id))
	}
	require.NoError(t, repo.AddRazorpayOrderID(ctx, order.ID, "order_A"))
	require.NoError(t, repo.AddRazorpayOrderID(ctx, order.ID, "order_B"))

	found, err := repo.FindByMerchantTransactionID(ctx, "MT-A")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, []string{"MT-A", "MT-B"}, found.MerchantTransactionIDs)
	assert.Equal(t, []string{"order_A", "order_B"}, found.RazorpayOrderIDs)

	_, err = repo.FindByMerchantTransactionID(ctx, "MT-C")
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.AddMerchantTransactionID(ctx, primitive.NewObjectID(), "MT-D")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderRepository_DuplicatePublicID(t *testing.T) {
	db := setupMongo(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Order{PublicID: "ORD-3"}))
	err := repo.Create(ctx, &model.Order{PublicID: "ORD-3"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestProductRepository_Search(t *testing.T) {
	db := setupMongo(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	products := []*model.Product{
		{Name: "East Facing Villa", Category: "Villa", Price: 4000, Status: model.StatusApproved, Plot: model.Plot{Area: 2400}},
		{Name: "Compact Duplex", Category: "Duplex", Price: 2500, Status: model.StatusApproved, Plot: model.Plot{Area: 1200}},
		{Name: "Corner Shop", Category: "Shop", Price: 1500, Status: model.StatusApproved, Plot: model.Plot{Area: 600}},
		{Name: "Draft Villa", Category: "Villa", Price: 3000, Status: model.StatusPending, Plot: model.Plot{Area: 2000}},
	}
	for _, p := range products {
		require.NoError(t, repo.Create(ctx, p))
	}

	got, total, err := repo.Search(ctx, ProductQuery{
		Status:   model.StatusApproved,
		Category: "residential",
		Sort:     SortPriceAsc,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "Compact Duplex", got[0].Name)
	assert.Equal(t, "East Facing Villa", got[1].Name)

	got, total, err = repo.Search(ctx, ProductQuery{
		Status:    model.StatusApproved,
		MaxBudget: ptr(2000),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Corner Shop", got[0].Name)

	got, total, err = repo.Search(ctx, ProductQuery{Search: "villa", Pagination: Pagination{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, got, 1)
}

func TestCartRepository_AddItem(t *testing.T) {
	db := setupMongo(t)
	repo := NewCartRepository(db)
	ctx := context.Background()
	userID := primitive.NewObjectID()
	productID := primitive.NewObjectID()

	_, err := repo.GetCart(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.AddItem(ctx, userID, model.CartItem{Product: productID, Name: "Villa", Price: 4000, Quantity: 1}))
	require.NoError(t, repo.AddItem(ctx, userID, model.CartItem{Product: productID, Name: "Villa", Price: 3500, Quantity: 3}))
	require.NoError(t, repo.AddItem(ctx, userID, model.CartItem{Product: primitive.NewObjectID(), Name: "Duplex", Price: 2500, Quantity: 1}))

	cart, err := repo.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, productID, cart.Items[0].Product)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 3500.0, cart.Items[0].Price)

	err = repo.UpdateItemQuantity(ctx, userID, primitive.NewObjectID(), 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
