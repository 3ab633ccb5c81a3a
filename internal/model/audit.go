package model

import "time"

type PaymentOutcome string

const (
	OutcomeApplied    PaymentOutcome = "applied"
	OutcomeDuplicate  PaymentOutcome = "duplicate"
	OutcomeRejected   PaymentOutcome = "rejected"
	OutcomeIgnored    PaymentOutcome = "ignored"
	OutcomeUnverified PaymentOutcome = "unverified"
)

// PaymentEvent is one row of the payment audit ledger kept in the
// relational store.
type PaymentEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderID     string         `gorm:"size:64;index" json:"orderId"`
	Provider    string         `gorm:"size:32;index;not null" json:"provider"`
	Outcome     PaymentOutcome `gorm:"size:32;not null" json:"outcome"`
	ProviderRef string         `gorm:"size:128" json:"providerRef,omitempty"`
	Detail      string         `gorm:"size:512" json:"detail,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
