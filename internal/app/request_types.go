package app

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"basePrice"`
}

// UpdateProductRequest patches a product; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name      *string          `json:"name"`
	BasePrice *decimal.Decimal `json:"basePrice"`
	Active    *bool            `json:"active"`
}

type CreateClientRequest struct {
	Name         string  `json:"name"`
	CUIT         string  `json:"cuit"`
	Direccion    *string `json:"direccion"`
	Localidad    *string `json:"localidad"`
	Telefono     *string `json:"telefono"`
	CondicionIVA string  `json:"condicionIVA"`
	Email        *string `json:"email"`
	Notas        *string `json:"notas"`
}

type AddBoxRequest struct {
	Kg       decimal.Decimal `json:"kg"`
	IsFrozen bool            `json:"isFrozen"`
}

type UpdateBoxRequest struct {
	Kg       *decimal.Decimal `json:"kg"`
	IsFrozen *bool            `json:"isFrozen"`
}

type CreateOrderRequest struct {
	ClientID int                `json:"clientId"`
	Items    []OrderItemRequest `json:"items"`
}

// OrderItemRequest carries only raw inputs; totalKg and subtotal are always
// recomputed server-side.
type OrderItemRequest struct {
	ProductID int             `json:"productId"`
	Boxes     int             `json:"boxes"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}
