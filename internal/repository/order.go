package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plan-marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	FindByPublicID(ctx context.Context, publicID string) (*model.Order, error)
	FindByMerchantTransactionID(ctx context.Context, merchantTxID string) (*model.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Order, error)
	List(ctx context.Context, page Pagination) ([]*model.Order, int64, error)
	AddRazorpayOrderID(ctx context.Context, id primitive.ObjectID, razorpayOrderID string) error
	AddMerchantTransactionID(ctx context.Context, id primitive.ObjectID, merchantTxID string) error
	// MarkPaid moves an unpaid order to paid in a single conditional
	// write. updated is false when the order was already paid; the
	// stored order is returned untouched in that case.
	MarkPaid(ctx context.Context, id primitive.ObjectID, paid PaidUpdate) (order *model.Order, updated bool, err error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SalesSummary(ctx context.Context) (*model.SalesSummary, error)
}

type PaidUpdate struct {
	Result model.PaymentResult
	Files  []model.DownloadableFile
	PaidAt time.Time
}

type orderRepoImpl struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepoImpl{
		collection: db.Collection(ordersCollection),
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, order *model.Order) error {
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", translateErr(err))
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *orderRepoImpl) findOne(ctx context.Context, filter bson.M) (*model.Order, error) {
	var order model.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&order); err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *orderRepoImpl) FindByPublicID(ctx context.Context, publicID string) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"publicId": publicID})
}

func (r *orderRepoImpl) FindByMerchantTransactionID(ctx context.Context, merchantTxID string) (*model.Order, error) {
	return r.findOne(ctx, bson.M{"merchantTransactionIds": merchantTxID})
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find user orders: %w", err)
	}

	orders := make([]*model.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepoImpl) List(ctx context.Context, page Pagination) ([]*model.Order, int64, error) {
	page = page.Normalize()

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}

	orders := make([]*model.Order, 0, page.Limit)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

func (r *orderRepoImpl) addToSet(ctx context.Context, id primitive.ObjectID, field string, value any) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$addToSet": bson.M{field: value},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("update order %s: %w", field, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepoImpl) AddRazorpayOrderID(ctx context.Context, id primitive.ObjectID, razorpayOrderID string) error {
	return r.addToSet(ctx, id, "razorpayOrderIds", razorpayOrderID)
}

func (r *orderRepoImpl) AddMerchantTransactionID(ctx context.Context, id primitive.ObjectID, merchantTxID string) error {
	return r.addToSet(ctx, id, "merchantTransactionIds", merchantTxID)
}

func (r *orderRepoImpl) MarkPaid(ctx context.Context, id primitive.ObjectID, paid PaidUpdate) (*model.Order, bool, error) {
	files := paid.Files
	if files == nil {
		files = []model.DownloadableFile{}
	}

	filter := bson.M{"_id": id, "isPaid": bson.M{"$ne": true}}
	update := bson.M{"$set": bson.M{
		"isPaid":            true,
		"paidAt":            paid.PaidAt,
		"paymentResult":     paid.Result,
		"downloadableFiles": files,
		"updatedAt":         paid.PaidAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order model.Order
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err == nil {
		return &order, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("mark order paid: %w", err)
	}

	// Either the order does not exist or someone else already paid it.
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *orderRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepoImpl) SalesSummary(ctx context.Context) (*model.SalesSummary, error) {
	summary := &model.SalesSummary{Monthly: []model.MonthlySales{}}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	summary.Orders = total

	totals := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPaid": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalPrice"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, totals)
	if err != nil {
		return nil, fmt.Errorf("aggregate paid totals: %w", err)
	}
	var rows []struct {
		Count   int64   `bson:"count"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode paid totals: %w", err)
	}
	if len(rows) > 0 {
		summary.PaidOrders = rows[0].Count
		summary.Revenue = rows[0].Revenue
	}

	monthly := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isPaid": true}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$paidAt"},
				"month": bson.M{"$month": "$paidAt"},
			},
			"orders":  bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$totalPrice"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: 1}, {Key: "_id.month", Value: 1}}}},
	}
	cursor, err = r.collection.Aggregate(ctx, monthly)
	if err != nil {
		return nil, fmt.Errorf("aggregate monthly sales: %w", err)
	}
	var months []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Orders  int64   `bson:"orders"`
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &months); err != nil {
		return nil, fmt.Errorf("decode monthly sales: %w", err)
	}
	for _, m := range months {
		summary.Monthly = append(summary.Monthly, model.MonthlySales{
			Year:    m.ID.Year,
			Month:   m.ID.Month,
			Orders:  m.Orders,
			Revenue: m.Revenue,
		})
	}

	return summary, nil
}
