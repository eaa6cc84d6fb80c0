package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CatalogService manages the product catalog.
type CatalogService interface {
	// GetProducts returns all products with their price history.
	GetProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, name string, basePrice decimal.Decimal) (*Product, error)
	// UpdateProduct patches only the fields set in upd.
	UpdateProduct(ctx context.Context, id int, upd ProductUpdate) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
	DeleteAllProducts(ctx context.Context) error
}

// ProductUpdate carries optional patch fields; nil means "leave unchanged".
type ProductUpdate struct {
	Name      *string
	BasePrice *decimal.Decimal
	Active    *bool
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) GetProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, base_price, active, has_stock, created_at
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	index := make(map[int]int)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BasePrice, &p.Active, &p.HasStock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	priceRows, err := s.pool.Query(ctx, `
		SELECT id, product_id, final_price, valid_from
		FROM product_prices
		ORDER BY product_id, valid_from DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var pp ProductPrice
		if err := priceRows.Scan(&pp.ID, &pp.ProductID, &pp.FinalPrice, &pp.ValidFrom); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		if i, ok := index[pp.ProductID]; ok {
			products[i].Prices = append(products[i].Prices, pp)
		}
	}
	if err := priceRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return products, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, name string, basePrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, NewValidationError("el nombre del producto es obligatorio")
	}

	var p Product
	err := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, base_price)
		VALUES ($1, $2)
		RETURNING id, name, base_price, active, has_stock, created_at
	`, name, basePrice).Scan(&p.ID, &p.Name, &p.BasePrice, &p.Active, &p.HasStock, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id int, upd ProductUpdate) (*Product, error) {
	var p Product
	err := s.pool.QueryRow(ctx, `
		UPDATE products
		SET name       = COALESCE($2, name),
		    base_price = COALESCE($3, base_price),
		    active     = COALESCE($4, active)
		WHERE id = $1
		RETURNING id, name, base_price, active, has_stock, created_at
	`, id, upd.Name, upd.BasePrice, upd.Active).Scan(
		&p.ID, &p.Name, &p.BasePrice, &p.Active, &p.HasStock, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return &p, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *catalogService) DeleteAllProducts(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	return nil
}
