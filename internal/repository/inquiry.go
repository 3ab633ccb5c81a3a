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

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *model.Inquiry) error
	List(ctx context.Context, status model.InquiryStatus, page Pagination) ([]*model.Inquiry, int64, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.InquiryStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByStatus(ctx context.Context, status model.InquiryStatus) (int64, error)
}

type inquiryRepoImpl struct {
	collection *mongo.Collection
}

func NewInquiryRepository(db *mongo.Database) InquiryRepository {
	return &inquiryRepoImpl{
		collection: db.Collection(inquiriesCollection),
	}
}

func (r *inquiryRepoImpl) Create(ctx context.Context, inquiry *model.Inquiry) error {
	inquiry.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, inquiry)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	inquiry.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *inquiryRepoImpl) List(ctx context.Context, status model.InquiryStatus, page Pagination) ([]*model.Inquiry, int64, error) {
	page = page.Normalize()
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find inquiries: %w", err)
	}

	inquiries := make([]*model.Inquiry, 0, page.Limit)
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, 0, fmt.Errorf("decode inquiries: %w", err)
	}
	return inquiries, total, nil
}

func (r *inquiryRepoImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.InquiryStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update inquiry status: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inquiryRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inquiryRepoImpl) CountByStatus(ctx context.Context, status model.InquiryStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}
