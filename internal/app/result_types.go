package app

import "carniceria-backend/internal/core"

type ProductListResult struct {
	Products []core.Product `json:"products"`
}

type ProductResult struct {
	Product *core.Product `json:"product"`
}

type ClientListResult struct {
	Clients []core.Client `json:"clients"`
}

type ClientResult struct {
	Client *core.Client `json:"client"`
}

type StockResult struct {
	Products []core.Product `json:"products"`
}

type BoxResult struct {
	Box *core.Box `json:"box"`
}

type ClearStockResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

type OrderResult struct {
	Order   *core.Order   `json:"order"`
	Invoice *core.Invoice `json:"invoice"`
}

type InvoiceListResult struct {
	Invoices []core.Invoice `json:"invoices"`
}
