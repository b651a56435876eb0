package domain

import (
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type OrderResolution string

const (
	OrderResolutionSuccess OrderResolution = "success"
	OrderResolutionRefund  OrderResolution = "refund"
	OrderResolutionRefusal OrderResolution = "refusal"
)

// Order is a customer purchase request. After creation only status and
// resolution may change.
type Order struct {
	ID              int64           `db:"id" json:"id"`
	ClientPhone     string          `db:"client_phone" json:"clientPhone"`
	DeliveryAddress string          `db:"delivery_address" json:"deliveryAddress"`
	DeliveryComment string          `db:"delivery_comment" json:"deliveryComment"`
	DeliveryDate    string          `db:"delivery_date" json:"deliveryDate"`
	Status          OrderStatus     `db:"status" json:"status"`
	Resolution      OrderResolution `db:"resolution" json:"resolution"`
	Data            types.JSONText  `db:"data" json:"data"`
	CreatedAt       string          `db:"created_at" json:"createdAt"`
	UpdatedAt       string          `db:"updated_at" json:"updatedAt"`
}

// OrderPosition is one line item of an order. Data holds the frozen snapshot
// of the catalog/storage state at order time and is never rewritten.
type OrderPosition struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"orderId"`
	Cost      decimal.Decimal `db:"cost" json:"cost"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	Data      types.JSONText  `db:"data" json:"data"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
	UpdatedAt string          `db:"updated_at" json:"updatedAt"`
}
