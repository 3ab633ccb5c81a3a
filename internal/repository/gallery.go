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

type GalleryRepository interface {
	Create(ctx context.Context, item *model.GalleryItem) error
	List(ctx context.Context, category string) ([]*model.GalleryItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.GalleryItem, error)
}

type galleryRepoImpl struct {
	collection *mongo.Collection
}

func NewGalleryRepository(db *mongo.Database) GalleryRepository {
	return &galleryRepoImpl{
		collection: db.Collection(galleryCollection),
	}
}

func (r *galleryRepoImpl) Create(ctx context.Context, item *model.GalleryItem) error {
	item.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, item)
	if err != nil {
		return fmt.Errorf("insert gallery item: %w", err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *galleryRepoImpl) List(ctx context.Context, category string) ([]*model.GalleryItem, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find gallery items: %w", err)
	}

	items := make([]*model.GalleryItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode gallery items: %w", err)
	}
	return items, nil
}

// Delete removes the item and returns it so the caller can clean up the
// stored image.
func (r *galleryRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) (*model.GalleryItem, error) {
	var item model.GalleryItem
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}
