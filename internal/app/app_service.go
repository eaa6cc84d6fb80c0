package app

import (
	"context"
	"encoding/json"

	"carniceria-backend/internal/core"
)

type appService struct {
	catalog  core.CatalogService
	stock    core.StockService
	clients  core.ClientService
	orders   core.OrderService
	importer core.ImportService
}

func NewAppService(
	catalog core.CatalogService,
	stock core.StockService,
	clients core.ClientService,
	orders core.OrderService,
	importer core.ImportService,
) ApplicationService {
	return &appService{
		catalog:  catalog,
		stock:    stock,
		clients:  clients,
		orders:   orders,
		importer: importer,
	}
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	products, err := s.catalog.GetProducts(ctx)
	if err != nil {
		return nil, err
	}
	return &ProductListResult{Products: products}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResult, error) {
	product, err := s.catalog.CreateProduct(ctx, req.Name, req.BasePrice)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, id int, req UpdateProductRequest) (*ProductResult, error) {
	product, err := s.catalog.UpdateProduct(ctx, id, core.ProductUpdate{
		Name:      req.Name,
		BasePrice: req.BasePrice,
		Active:    req.Active,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: product}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, id int) error {
	return s.catalog.DeleteProduct(ctx, id)
}

func (s *appService) DeleteAllProducts(ctx context.Context) error {
	return s.catalog.DeleteAllProducts(ctx)
}

// ── Clients ───────────────────────────────────────────────────────────────────

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.clients.GetClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResult, error) {
	client, err := s.clients.CreateClient(ctx, core.ClientInput{
		Name:         req.Name,
		CUIT:         req.CUIT,
		Direccion:    req.Direccion,
		Localidad:    req.Localidad,
		Telefono:     req.Telefono,
		CondicionIVA: req.CondicionIVA,
		Email:        req.Email,
		Notas:        req.Notas,
	})
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: client}, nil
}

func (s *appService) DeleteClient(ctx context.Context, id int) error {
	return s.clients.DeleteClient(ctx, id)
}

// ── Stock ─────────────────────────────────────────────────────────────────────

func (s *appService) GetStock(ctx context.Context) (*StockResult, error) {
	products, err := s.stock.GetStock(ctx)
	if err != nil {
		return nil, err
	}
	return &StockResult{Products: products}, nil
}

func (s *appService) AddBox(ctx context.Context, productID int, req AddBoxRequest) (*BoxResult, error) {
	box, err := s.stock.AddBox(ctx, productID, req.Kg, req.IsFrozen)
	if err != nil {
		return nil, err
	}
	return &BoxResult{Box: box}, nil
}

func (s *appService) UpdateBox(ctx context.Context, id int, req UpdateBoxRequest) (*BoxResult, error) {
	box, err := s.stock.UpdateBox(ctx, id, core.BoxUpdate{Kg: req.Kg, IsFrozen: req.IsFrozen})
	if err != nil {
		return nil, err
	}
	return &BoxResult{Box: box}, nil
}

func (s *appService) DeleteBox(ctx context.Context, id int) error {
	return s.stock.DeleteBox(ctx, id)
}

func (s *appService) ClearStock(ctx context.Context) (*ClearStockResult, error) {
	deleted, err := s.stock.ClearStock(ctx)
	if err != nil {
		return nil, err
	}
	return &ClearStockResult{DeletedCount: deleted}, nil
}

// ── Orders & invoices ─────────────────────────────────────────────────────────

func (s *appService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	items := make([]core.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, core.OrderItemInput{
			ProductID: it.ProductID,
			Boxes:     it.Boxes,
			UnitPrice: it.UnitPrice,
		})
	}

	order, invoice, err := s.orders.CreateOrder(ctx, req.ClientID, items)
	if err != nil {
		return nil, err
	}
	return &OrderResult{Order: order, Invoice: invoice}, nil
}

func (s *appService) ListInvoices(ctx context.Context) (*InvoiceListResult, error) {
	invoices, err := s.orders.GetInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices}, nil
}

// ── Bulk upload ───────────────────────────────────────────────────────────────

func (s *appService) PreviewUpload(ctx context.Context, data []json.RawMessage) (*core.UploadResult, error) {
	return s.importer.Preview(ctx, data)
}

func (s *appService) ConfirmUpload(ctx context.Context, data []json.RawMessage) (*core.UploadResult, error) {
	return s.importer.Commit(ctx, data)
}
