package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ImportService reconciles a bulk-uploaded dataset (price table + box rows)
// against the catalog.
//
// Preview computes what a commit would change without touching storage.
// Commit applies the dataset and returns the same result structure, computed
// identically. Commit is not atomic: per-item failures are recorded in the
// result and do not roll back work already done.
type ImportService interface {
	Preview(ctx context.Context, data []json.RawMessage) (*UploadResult, error)
	Commit(ctx context.Context, data []json.RawMessage) (*UploadResult, error)
}

type importService struct {
	pool *pgxpool.Pool
}

func NewImportService(pool *pgxpool.Pool) ImportService {
	return &importService{pool: pool}
}

// lookupByName returns the lowest-id product whose normalized name matches,
// along with how many catalog products share that normalized name. A nil
// product with nil error means no match.
func (s *importService) lookupByName(ctx context.Context, name string) (*Product, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, base_price, active, has_stock, created_at
		FROM products
		WHERE regexp_replace(lower(btrim(name)), '\s+', ' ', 'g') = $1
		ORDER BY id
	`, NormalizeName(name))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query product by name: %w", err)
	}
	defer rows.Close()

	var first *Product
	matches := 0
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BasePrice, &p.Active, &p.HasStock, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		if first == nil {
			first = &p
		}
		matches++
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}
	return first, matches, nil
}

// ── Preview ───────────────────────────────────────────────────────────────────

func (s *importService) Preview(ctx context.Context, data []json.RawMessage) (*UploadResult, error) {
	ds, err := ParseUploadDataset(data)
	if err != nil {
		return nil, err
	}

	res := newUploadResult(len(ds.Prices), len(ds.Rows))
	counts := countBoxesByProduct(ds.Rows)

	for _, name := range sortedNames(ds.Prices) {
		newPrice := ds.Prices[name]
		loaded := counts[NormalizeName(name)]

		product, matches, err := s.lookupByName(ctx, name)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("error validando producto %s: %v", name, err))
			continue
		}
		if matches > 1 {
			res.Warnings = append(res.Warnings, duplicateNameWarning(name, product, matches))
		}

		var previous *decimal.Decimal
		if product == nil {
			res.ProductsCreated++
		} else {
			res.ProductsUpdated++
			p := product.BasePrice
			previous = &p
		}

		res.Products = append(res.Products, UploadProduct{
			Name:          name,
			BasePrice:     newPrice,
			PreviousPrice: previous,
			BoxesLoaded:   loaded,
		})
		res.ProductSummary = append(res.ProductSummary, ProductSummary{
			Name:          name,
			PreviousPrice: previous,
			NewPrice:      newPrice,
			BoxesLoaded:   loaded,
		})
	}

	for _, raw := range ds.Rows {
		row, err := parseBoxRow(raw)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.BoxesCreated++
		res.Boxes = append(res.Boxes, *row)
	}

	return res, nil
}

// ── Commit ────────────────────────────────────────────────────────────────────

func (s *importService) Commit(ctx context.Context, data []json.RawMessage) (*UploadResult, error) {
	ds, err := ParseUploadDataset(data)
	if err != nil {
		return nil, err
	}

	res := newUploadResult(len(ds.Prices), len(ds.Rows))
	counts := countBoxesByProduct(ds.Rows)

	// Products are processed before boxes so that every box row can attach
	// to a product created or matched within this same call.
	for _, name := range sortedNames(ds.Prices) {
		newPrice := ds.Prices[name]
		loaded := counts[NormalizeName(name)]

		previous, created, warning, err := s.commitProduct(ctx, name, newPrice, loaded)
		if err != nil {
			log.Printf("import: producto %s: %v", name, err)
			res.Errors = append(res.Errors, fmt.Sprintf("producto %s: %v", name, err))
			continue
		}
		if warning != "" {
			res.Warnings = append(res.Warnings, warning)
		}
		if created {
			res.ProductsCreated++
		} else {
			res.ProductsUpdated++
		}

		res.Products = append(res.Products, UploadProduct{
			Name:          name,
			BasePrice:     newPrice,
			PreviousPrice: previous,
			BoxesLoaded:   loaded,
		})
		res.ProductSummary = append(res.ProductSummary, ProductSummary{
			Name:          name,
			PreviousPrice: previous,
			NewPrice:      newPrice,
			BoxesLoaded:   loaded,
		})
	}

	for _, raw := range ds.Rows {
		row, err := parseBoxRow(raw)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}

		if err := s.commitBox(ctx, row); err != nil {
			log.Printf("import: caja %s: %v", compactJSON(raw), err)
			res.Errors = append(res.Errors, fmt.Sprintf("caja %s: %v", compactJSON(raw), err))
			continue
		}
		res.BoxesCreated++
		res.Boxes = append(res.Boxes, *row)
	}

	return res, nil
}

// commitProduct upserts one price-table entry: creates the product when no
// normalized match exists, otherwise updates its base price. In both branches
// a price-history record is appended, even when the price did not change.
func (s *importService) commitProduct(ctx context.Context, name string, newPrice decimal.Decimal, boxesLoaded int) (previous *decimal.Decimal, created bool, warning string, err error) {
	product, matches, err := s.lookupByName(ctx, name)
	if err != nil {
		return nil, false, "", err
	}
	if matches > 1 {
		warning = duplicateNameWarning(name, product, matches)
	}

	var productID int
	if product == nil {
		created = true
		err = s.pool.QueryRow(ctx, `
			INSERT INTO products (name, base_price, active, has_stock)
			VALUES ($1, $2, true, $3)
			RETURNING id
		`, name, newPrice, boxesLoaded > 0).Scan(&productID)
		if err != nil {
			return nil, false, warning, fmt.Errorf("failed to create product: %w", err)
		}
	} else {
		productID = product.ID
		p := product.BasePrice
		previous = &p
		// has_stock is deliberately left alone on the update branch.
		if _, err = s.pool.Exec(ctx,
			"UPDATE products SET base_price = $1 WHERE id = $2",
			newPrice, productID,
		); err != nil {
			return nil, false, warning, fmt.Errorf("failed to update product price: %w", err)
		}
	}

	if _, err = s.pool.Exec(ctx, `
		INSERT INTO product_prices (product_id, final_price, valid_from)
		VALUES ($1, $2, now())
	`, productID, newPrice); err != nil {
		return previous, created, warning, fmt.Errorf("failed to append price history: %w", err)
	}

	return previous, created, warning, nil
}

// commitBox creates one box attached to the product matching the row's name.
func (s *importService) commitBox(ctx context.Context, row *BoxRow) error {
	product, _, err := s.lookupByName(ctx, row.ProductName)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto no encontrado: %s", row.ProductName)
	}

	if _, err := s.pool.Exec(ctx, `
		INSERT INTO boxes (product_id, kg, is_frozen, entry_date)
		VALUES ($1, $2, $3, $4)
	`, product.ID, row.Kg, row.IsFrozen, parseEntryDate(row.EntryDate)); err != nil {
		return fmt.Errorf("failed to create box: %w", err)
	}
	return nil
}

func duplicateNameWarning(name string, chosen *Product, matches int) string {
	return fmt.Sprintf("el nombre %q coincide con %d productos; se usa el id %d", name, matches, chosen.ID)
}
