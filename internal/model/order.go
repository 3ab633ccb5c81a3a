package model

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentMethod string

const (
	PaymentRazorpay PaymentMethod = "razorpay"
	PaymentPaypal   PaymentMethod = "paypal"
	PaymentPhonePe  PaymentMethod = "phonepe"
	PaymentManual   PaymentMethod = "manual"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentRazorpay, PaymentPaypal, PaymentPhonePe, PaymentManual:
		return true
	}
	return false
}

// Order is created unpaid and moves to paid exactly once.
// Totals are taken from the client as submitted.
type Order struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PublicID          string              `bson:"publicId" json:"publicId"`
	User              *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	GuestEmail        string              `bson:"guestEmail,omitempty" json:"guestEmail,omitempty"`
	OrderItems        []OrderItem         `bson:"orderItems" json:"orderItems"`
	ShippingAddress   ShippingAddress     `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod     PaymentMethod       `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult     *PaymentResult      `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice        float64             `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice          float64             `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice     float64             `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice        float64             `bson:"totalPrice" json:"totalPrice"`
	IsPaid            bool                `bson:"isPaid" json:"isPaid"`
	PaidAt            *time.Time          `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	DownloadableFiles []DownloadableFile  `bson:"downloadableFiles,omitempty" json:"downloadableFiles,omitempty"`
	// Every checkout attempt adds an id; a payment for any of them
	// confirms the order.
	RazorpayOrderIDs       []string  `bson:"razorpayOrderIds,omitempty" json:"razorpayOrderIds,omitempty"`
	MerchantTransactionIDs []string  `bson:"merchantTransactionIds,omitempty" json:"merchantTransactionIds,omitempty"`
	CreatedAt              time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time `bson:"updatedAt" json:"updatedAt"`
}

type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type ShippingAddress struct {
	FullName   string `bson:"fullName" json:"fullName"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// PaymentResult is the normalized record a provider leaves on a paid order.
type PaymentResult struct {
	ID           string `bson:"id" json:"id"`
	Status       string `bson:"status" json:"status"`
	UpdateTime   string `bson:"updateTime" json:"update_time"`
	EmailAddress string `bson:"emailAddress,omitempty" json:"email_address,omitempty"`
}

type DownloadableFile struct {
	ProductName string `bson:"productName" json:"productName"`
	FileURL     string `bson:"fileUrl" json:"fileUrl"`
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID primitive.ObjectID) bool {
	return o.User != nil && *o.User == userID
}

// IssuedRazorpayOrder reports whether rzpOrderID was created for this
// order.
func (o *Order) IssuedRazorpayOrder(rzpOrderID string) bool {
	return rzpOrderID != "" && slices.Contains(o.RazorpayOrderIDs, rzpOrderID)
}

// ProductIDs returns the distinct product references of the order lines.
func (o *Order) ProductIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(o.OrderItems))
	ids := make([]primitive.ObjectID, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		if _, ok := seen[item.Product]; ok {
			continue
		}
		seen[item.Product] = struct{}{}
		ids = append(ids, item.Product)
	}
	return ids
}
