package core

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices, weights, and totals are emitted as JSON numbers, matching the
	// wire format the frontend already consumes.
	decimal.MarshalJSONWithoutQuotes = true
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

// Product is a cut of meat in the catalog. Name is free text and doubles as
// the matching key during bulk imports (normalized, case-insensitive).
// HasStock is a denormalized cache of "at least one unconsumed box exists".
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
	Active    bool            `json:"active"`
	HasStock  bool            `json:"hasStock"`
	CreatedAt time.Time       `json:"createdAt"`
	Prices    []ProductPrice  `json:"prices,omitempty"`
	Boxes     []Box           `json:"boxes,omitempty"`
}

// ProductPrice is one entry in a product's append-only price history.
type ProductPrice struct {
	ID         int             `json:"id"`
	ProductID  int             `json:"productId"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	ValidFrom  time.Time       `json:"validFrom"`
}

// Box is one physical unit of stock. OrderItemID, when set, marks the box as
// consumed by an order line; consumed boxes are excluded from available stock
// and from bulk clears.
type Box struct {
	ID          int             `json:"id"`
	ProductID   int             `json:"productId"`
	Kg          decimal.Decimal `json:"kg"`
	IsFrozen    bool            `json:"isFrozen"`
	EntryDate   *time.Time      `json:"entryDate,omitempty"`
	OrderItemID *int            `json:"orderItemId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Client struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	CUIT         string    `json:"cuit"`
	Direccion    *string   `json:"direccion,omitempty"`
	Localidad    *string   `json:"localidad,omitempty"`
	Telefono     *string   `json:"telefono,omitempty"`
	CondicionIVA string    `json:"condicionIVA"`
	Email        *string   `json:"email,omitempty"`
	Notas        *string   `json:"notas,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Order struct {
	ID        int         `json:"id"`
	ClientID  int         `json:"clientId"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `json:"items,omitempty"`
	Client    *Client     `json:"client,omitempty"`
}

// OrderItem is one order line. TotalKg and Subtotal are always derived
// server-side (boxes × box weight, totalKg × unit price) and never accepted
// from the caller.
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"orderId"`
	ProductID int             `json:"productId"`
	Boxes     int             `json:"boxes"`
	TotalKg   decimal.Decimal `json:"totalKg"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Invoice struct {
	ID            int             `json:"id"`
	OrderID       int             `json:"orderId"`
	Total         decimal.Decimal `json:"total"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	Order         *Order          `json:"order,omitempty"`
}
