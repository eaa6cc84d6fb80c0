package app

import (
	"context"
	"encoding/json"

	"carniceria-backend/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples HTTP handling from business logic; implementations contain no
// response formatting of any kind.
type ApplicationService interface {
	// ListProducts returns the catalog with price history.
	ListProducts(ctx context.Context) (*ProductListResult, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error)
	UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*ProductResult, error)
	DeleteProduct(ctx context.Context, id int) error
	DeleteAllProducts(ctx context.Context) error

	ListClients(ctx context.Context) (*ClientListResult, error)
	// CreateClient returns core.ErrDuplicateClient when the CUIT is taken.
	CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResult, error)
	DeleteClient(ctx context.Context, id int) error

	// GetStock returns products with their available boxes and refreshes the
	// has_stock cache as a side effect.
	GetStock(ctx context.Context) (*StockResult, error)
	AddBox(ctx context.Context, productID int, req AddBoxRequest) (*BoxResult, error)
	UpdateBox(ctx context.Context, id int, req UpdateBoxRequest) (*BoxResult, error)
	DeleteBox(ctx context.Context, id int) error
	// ClearStock deletes all unconsumed boxes and reports how many went.
	ClearStock(ctx context.Context) (*ClearStockResult, error)

	// CreateOrder persists an order with derived totals plus its PENDING invoice.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error)
	ListInvoices(ctx context.Context) (*InvoiceListResult, error)

	// PreviewUpload dry-runs a bulk upload dataset against the catalog.
	PreviewUpload(ctx context.Context, data []json.RawMessage) (*core.UploadResult, error)
	// ConfirmUpload applies a bulk upload dataset. Partial failures are
	// recorded in the result, not returned as an error.
	ConfirmUpload(ctx context.Context, data []json.RawMessage) (*core.UploadResult, error)
}
