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

type BlogRepository interface {
	Create(ctx context.Context, post *model.BlogPost) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*model.BlogPost, error)
	List(ctx context.Context, publishedOnly bool, page Pagination) ([]*model.BlogPost, int64, error)
	Update(ctx context.Context, post *model.BlogPost) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type blogRepoImpl struct {
	collection *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) BlogRepository {
	return &blogRepoImpl{
		collection: db.Collection(blogsCollection),
	}
}

func (r *blogRepoImpl) Create(ctx context.Context, post *model.BlogPost) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert blog post: %w", translateErr(err))
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *blogRepoImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translateErr(err)
	}
	return &post, nil
}

func (r *blogRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&post); err != nil {
		return nil, translateErr(err)
	}
	return &post, nil
}

func (r *blogRepoImpl) List(ctx context.Context, publishedOnly bool, page Pagination) ([]*model.BlogPost, int64, error) {
	page = page.Normalize()
	filter := bson.M{}
	if publishedOnly {
		filter["published"] = true
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blog posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit)).
		SetProjection(bson.M{"content": 0})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find blog posts: %w", err)
	}

	posts := make([]*model.BlogPost, 0, page.Limit)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("decode blog posts: %w", err)
	}
	return posts, total, nil
}

func (r *blogRepoImpl) Update(ctx context.Context, post *model.BlogPost) error {
	post.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": post.ID}, post)
	if err != nil {
		return fmt.Errorf("replace blog post: %w", translateErr(err))
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *blogRepoImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
