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

var ErrItemNotFound = errors.New("item not found in cart")

type CartRepository interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error)
	AddItem(ctx context.Context, userID primitive.ObjectID, item model.CartItem) error
	UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error
	DeleteCart(ctx context.Context, userID primitive.ObjectID) error
}

type cartRepoImpl struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &cartRepoImpl{
		collection: db.Collection(cartsCollection),
	}
}

func (r *cartRepoImpl) GetCart(ctx context.Context, userID primitive.ObjectID) (*model.Cart, error) {
	var cart model.Cart
	if err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
		return nil, translateErr(err)
	}
	return &cart, nil
}

// AddItem sets the quantity when the product is already in the cart and
// appends it otherwise. The cart document is created on first use.
func (r *cartRepoImpl) AddItem(ctx context.Context, userID primitive.ObjectID, item model.CartItem) error {
	now := time.Now()
	item.AddedAt = now

	filter := bson.M{"user": userID, "items.product": item.Product}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": item.Quantity,
			"items.$[elem].price":    item.Price,
			"items.$[elem].addedAt":  now,
			"updatedAt":              now,
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.product": item.Product}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("update existing cart item: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{
			"$push":        bson.M{"items": item},
			"$set":         bson.M{"updatedAt": now},
			"$setOnInsert": bson.M{"createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("push cart item: %w", err)
	}
	return nil
}

func (r *cartRepoImpl) UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	filter := bson.M{"user": userID, "items.product": productID}
	update := bson.M{
		"$set": bson.M{
			"items.$[elem].quantity": quantity,
			"updatedAt":              time.Now(),
		},
	}
	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"elem.product": productID}},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("update item quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *cartRepoImpl) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"product": productID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cartRepoImpl) DeleteCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user": userID})
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
