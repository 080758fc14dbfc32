package orders

import "time"

// Status is the server-owned order lifecycle state. The storefront only ever
// reads it; the single transition it may request is cancellation.
type Status string

const (
	StatusPendiente  Status = "pendiente"
	StatusConfirmado Status = "confirmado"
	StatusEnProceso  Status = "en_proceso"
	StatusEnviado    Status = "enviado"
	StatusEntregado  Status = "entregado"
	StatusCancelado  Status = "cancelado"
)

type PaymentMethod string

const (
	PaymentStore PaymentMethod = "store"
	PaymentCard  PaymentMethod = "card"
)

// OrderItem is a line of a placed order: a snapshot taken at submission time,
// decoupled from the live cart.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentInfo never holds more than a truncated card-number proxy.
type PaymentInfo struct {
	CardLastDigits string `json:"cardLastDigits"`
}

// Order is the canonical record as returned by the backend, which owns the
// id, status and timestamp.
type Order struct {
	ID              string          `json:"_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalPrice      float64         `json:"totalPrice"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentInfo     *PaymentInfo    `json:"paymentInfo"`
	Status          Status          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Cancellable reports whether the shopper may still request cancellation.
// The backend applies the same gate; this is only for hiding the action.
func (o Order) Cancellable() bool {
	return o.Status == StatusPendiente || o.Status == StatusConfirmado
}

// CreateOrderInput is the POST /orders payload assembled at checkout.
type CreateOrderInput struct {
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	TotalPrice      float64         `json:"totalPrice"`
	Notes           string          `json:"notes,omitempty"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentInfo     *PaymentInfo    `json:"paymentInfo"`
}
