package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockService manages the physical box inventory. "Available" always means
// boxes not yet consumed by an order line (order_item_id IS NULL).
type StockService interface {
	// GetStock returns all products with their available boxes, products with
	// stock first. The denormalized has_stock flag is refreshed inline
	// whenever it disagrees with the actual box population.
	GetStock(ctx context.Context) ([]Product, error)
	// AddBox creates a box for a product and marks the product as having stock.
	AddBox(ctx context.Context, productID int, kg decimal.Decimal, isFrozen bool) (*Box, error)
	UpdateBox(ctx context.Context, id int, upd BoxUpdate) (*Box, error)
	DeleteBox(ctx context.Context, id int) error
	// ClearStock deletes every available box and resets has_stock everywhere.
	// Consumed boxes are never touched. Returns the number of boxes deleted.
	ClearStock(ctx context.Context) (int64, error)
}

// BoxUpdate carries optional patch fields; nil means "leave unchanged".
type BoxUpdate struct {
	Kg       *decimal.Decimal
	IsFrozen *bool
}

type stockService struct {
	pool *pgxpool.Pool
}

func NewStockService(pool *pgxpool.Pool) StockService {
	return &stockService{pool: pool}
}

func (s *stockService) GetStock(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, base_price, active, has_stock, created_at
		FROM products
		ORDER BY has_stock DESC, name ASC
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
		p.Boxes = []Box{}
		index[p.ID] = len(products)
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	boxRows, err := s.pool.Query(ctx, `
		SELECT id, product_id, kg, is_frozen, entry_date, order_item_id, created_at
		FROM boxes
		WHERE order_item_id IS NULL
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query boxes: %w", err)
	}
	defer boxRows.Close()

	for boxRows.Next() {
		var b Box
		if err := boxRows.Scan(&b.ID, &b.ProductID, &b.Kg, &b.IsFrozen, &b.EntryDate, &b.OrderItemID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan box: %w", err)
		}
		if i, ok := index[b.ProductID]; ok {
			products[i].Boxes = append(products[i].Boxes, b)
		}
	}
	if err := boxRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boxes: %w", err)
	}

	// Refresh the has_stock cache where it drifted from reality.
	for i := range products {
		hasBoxes := len(products[i].Boxes) > 0
		if products[i].HasStock == hasBoxes {
			continue
		}
		if _, err := s.pool.Exec(ctx,
			"UPDATE products SET has_stock = $1 WHERE id = $2",
			hasBoxes, products[i].ID,
		); err != nil {
			return nil, fmt.Errorf("failed to refresh has_stock for product %d: %w", products[i].ID, err)
		}
		products[i].HasStock = hasBoxes
	}

	return products, nil
}

func (s *stockService) AddBox(ctx context.Context, productID int, kg decimal.Decimal, isFrozen bool) (*Box, error) {
	var b Box
	err := s.pool.QueryRow(ctx, `
		INSERT INTO boxes (product_id, kg, is_frozen)
		VALUES ($1, $2, $3)
		RETURNING id, product_id, kg, is_frozen, entry_date, order_item_id, created_at
	`, productID, kg, isFrozen).Scan(
		&b.ID, &b.ProductID, &b.Kg, &b.IsFrozen, &b.EntryDate, &b.OrderItemID, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create box for product %d: %w", productID, err)
	}

	if _, err := s.pool.Exec(ctx,
		"UPDATE products SET has_stock = true WHERE id = $1", productID,
	); err != nil {
		return nil, fmt.Errorf("failed to mark product %d as stocked: %w", productID, err)
	}
	return &b, nil
}

func (s *stockService) UpdateBox(ctx context.Context, id int, upd BoxUpdate) (*Box, error) {
	var b Box
	err := s.pool.QueryRow(ctx, `
		UPDATE boxes
		SET kg        = COALESCE($2, kg),
		    is_frozen = COALESCE($3, is_frozen)
		WHERE id = $1
		RETURNING id, product_id, kg, is_frozen, entry_date, order_item_id, created_at
	`, id, upd.Kg, upd.IsFrozen).Scan(
		&b.ID, &b.ProductID, &b.Kg, &b.IsFrozen, &b.EntryDate, &b.OrderItemID, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update box %d: %w", id, err)
	}
	return &b, nil
}

func (s *stockService) DeleteBox(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM boxes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete box %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *stockService) ClearStock(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM boxes WHERE order_item_id IS NULL")
	if err != nil {
		return 0, fmt.Errorf("failed to clear stock: %w", err)
	}

	if _, err := s.pool.Exec(ctx, "UPDATE products SET has_stock = false"); err != nil {
		return 0, fmt.Errorf("failed to reset has_stock: %w", err)
	}
	return tag.RowsAffected(), nil
}
