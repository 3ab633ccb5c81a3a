package repository

import (
	"context"

	"plan-marketplace/internal/model"

	"gorm.io/gorm"
)

// PaymentEventRepository is the relational audit ledger of payment
// confirmation attempts.
type PaymentEventRepository interface {
	Record(ctx context.Context, event *model.PaymentEvent) error
	ListByOrder(ctx context.Context, orderID string) ([]*model.PaymentEvent, error)
}

type paymentEventRepoImpl struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepoImpl{db: db}
}

func (r *paymentEventRepoImpl) Record(ctx context.Context, event *model.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *paymentEventRepoImpl) ListByOrder(ctx context.Context, orderID string) ([]*model.PaymentEvent, error) {
	var events []*model.PaymentEvent
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}
