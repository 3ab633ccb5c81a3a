package dto

import "plan-marketplace/internal/model"

// Page is the envelope for paginated listings.
type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

type RegisterRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	Phone       string     `json:"phone"`
	Role        model.Role `json:"role"`
	CompanyName string     `json:"companyName"`
	Profession  string     `json:"profession"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Profession  string `json:"profession"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

type RoleRequest struct {
	Role model.Role `json:"role"`
}

type SetRoleRequest struct {
	Role   model.Role           `json:"role"`
	Status model.ApprovalStatus `json:"status"`
}

type ProductRequest struct {
	Name         string      `json:"name"`
	ProductNo    string      `json:"productNo"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	PlanType     string      `json:"planType"`
	PropertyType string      `json:"propertyType"`
	Country      []string    `json:"country"`
	Direction    string      `json:"direction"`
	Plot         model.Plot  `json:"plot"`
	Rooms        model.Rooms `json:"rooms"`
	Price        float64     `json:"price"`
	SalePrice    float64     `json:"salePrice"`
	Images       []string    `json:"images"`
	PlanFiles    []string    `json:"planFiles"`
}

type ReviewRequest struct {
	Status model.ApprovalStatus `json:"status"`
	Note   string               `json:"note"`
}

type OrderItemRequest struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest    `json:"orderItems"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   model.PaymentMethod   `json:"paymentMethod"`
	ItemsPrice      float64               `json:"itemsPrice"`
	TaxPrice        float64               `json:"taxPrice"`
	ShippingPrice   float64               `json:"shippingPrice"`
	TotalPrice      float64               `json:"totalPrice"`
	GuestEmail      string                `json:"guestEmail"`
}

type RazorpayOrderResponse struct {
	KeyID           string `json:"keyId"`
	OrderID         string `json:"orderId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

type RazorpayVerifyRequest struct {
	OrderID           string `json:"orderId"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	Email             string `json:"email"`
}

type PhonePeInitiateResponse struct {
	OrderID               string `json:"orderId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	RedirectURL           string `json:"redirectUrl"`
}

// PhonePeCallback is the server-to-server notification body.
type PhonePeCallback struct {
	Response string `json:"response"`
}

type PhonePeStatusResponse struct {
	OrderID               string `json:"orderId"`
	MerchantTransactionID string `json:"merchantTransactionId"`
	Code                  string `json:"code"`
	State                 string `json:"state"`
	IsPaid                bool   `json:"isPaid"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type WishlistRequest struct {
	ProductID string `json:"productId"`
}

type InquiryRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

type InquiryStatusRequest struct {
	Status model.InquiryStatus `json:"status"`
}

type BlogRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
