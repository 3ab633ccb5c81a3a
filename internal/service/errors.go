package service

import (
	"errors"
	"fmt"
	"strings"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/payment"
	"plan-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = repository.ErrNotFound
	ErrConflict          = repository.ErrDuplicate
	ErrSignatureMismatch = payment.ErrSignatureMismatch
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, invalid("invalid id %q", id)
	}
	return oid, nil
}

func pageOf[T any](items []T, total int64, page repository.Pagination) *dto.Page[T] {
	if items == nil {
		items = []T{}
	}
	n := page.Normalize()
	return &dto.Page[T]{
		Items: items,
		Page:  n.Page,
		Pages: n.Pages(total),
		Total: total,
	}
}
