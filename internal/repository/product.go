package repository

import (
	"context"
	"fmt"
	"time"

	"plan-marketplace/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*model.Product, error)
	Search(ctx context.Context, q ProductQuery) ([]*model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	SetReview(ctx context.Context, id primitive.ObjectID, status model.ApprovalStatus, note string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByStatus(ctx context.Context, status model.ApprovalStatus) (int64, error)
}

type productRepoImpl struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepoImpl{
		collection: db.Collection(productsCollection),
	}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", translateErr(err))
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, translateErr(err)
	}
	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []primitive.ObjectID) ([]*model.Product, error) {
	products := make([]*model.Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *productRepoImpl) Search(ctx context.Context, q ProductQuery) ([]*model.Product, int64, error) {
	filter := BuildProductFilter(q)
	page := q.Pagination.Normalize()

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := options.Find().
		SetSort(ProductSort(q.Sort)).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}

	products := make([]*model.Product, 0, page.Limit)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("replace product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepoImpl) SetReview(ctx context.Context, id primitive.ObjectID, status model.ApprovalStatus, note string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     status,
			"reviewNote": note,
			"updatedAt":  time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("review product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepoImpl) CountByStatus(ctx context.Context, status model.ApprovalStatus) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.collection.CountDocuments(ctx, filter)
}
