package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodStripe         PaymentMethod = "stripe"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodStripe || m == PaymentMethodCashOnDelivery
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type Address struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
}

type Order struct {
	ID               string         `json:"id"`
	OrderNumber      string         `json:"orderNumber"`
	UserID           string         `json:"-"`
	Items            []OrderItem    `json:"items"`
	DeliveryAddress  Address        `json:"deliveryAddress"`
	SubtotalCents    int64          `json:"subtotalCents"`
	TaxCents         int64          `json:"taxCents"`
	DeliveryFeeCents int64          `json:"deliveryFeeCents"`
	TotalCents       int64          `json:"totalCents"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus"`
	OrderStatus      OrderStatus    `json:"orderStatus"`
	PaymentReference string         `json:"-"`
	StatusHistory    []StatusChange `json:"statusHistory,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type OrderItem struct {
	ID             string       `json:"id"`
	OrderID        string       `json:"orderId"`
	MenuItemID     string       `json:"menuItemId"`
	Name           string       `json:"name"`
	Quantity       int          `json:"quantity"`
	UnitPriceCents int64        `json:"unitPriceCents"`
	TotalCents     int64        `json:"totalCents"`
	Snapshot       ItemSnapshot `json:"snapshot"`
}

// StatusChange is one append-only entry in an order's status history.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	Note      string      `json:"note,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
