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

type WishlistRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*model.Wishlist, error)
	Add(ctx context.Context, userID, productID primitive.ObjectID) error
	Remove(ctx context.Context, userID, productID primitive.ObjectID) error
}

type wishlistRepoImpl struct {
	collection *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) WishlistRepository {
	return &wishlistRepoImpl{
		collection: db.Collection(wishlistsCollection),
	}
}

func (r *wishlistRepoImpl) Get(ctx context.Context, userID primitive.ObjectID) (*model.Wishlist, error) {
	var wishlist model.Wishlist
	if err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&wishlist); err != nil {
		return nil, translateErr(err)
	}
	return &wishlist, nil
}

func (r *wishlistRepoImpl) Add(ctx context.Context, userID, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{
			"$addToSet": bson.M{"products": productID},
			"$set":      bson.M{"updatedAt": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

func (r *wishlistRepoImpl) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{
			"$pull": bson.M{"products": productID},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}
