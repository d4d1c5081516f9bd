package models

import "time"

type CartItem struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ProductID int64      `json:"product_id"`
	Quantity  int        `json:"quantity"`
	Product   Product    `json:"product"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total Money      `json:"total"`
}

// OrderStatus is the server-side lifecycle of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     Money   `json:"price"`
	Product   Product `json:"product"`
}

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	TotalAmount     Money       `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	Items           []OrderItem `json:"order_items"`
	CreatedAt       *time.Time  `json:"created_at,omitempty"`
}

// OrderRequest places an order for the current cart contents.
type OrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type Review struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ProductID int64      `json:"product_id"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type ReviewInput struct {
	ProductID int64   `json:"product_id,omitempty"`
	Rating    int     `json:"rating,omitempty"`
	Comment   *string `json:"comment,omitempty"`
}
