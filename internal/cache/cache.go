package cache

import (
	"context"
	"errors"

	"plan-marketplace/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

// ProductCache holds product detail documents keyed by id.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*model.Product, error)
	Set(ctx context.Context, productID string, product *model.Product) error
	Delete(ctx context.Context, productID string) error
}
