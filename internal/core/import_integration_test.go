package core_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"carniceria-backend/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// setupTestDB connects to the dedicated test database, applies the schema,
// and truncates every table. Set TEST_DATABASE_URL to run integration tests;
// they are skipped otherwise to protect the live database.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	if err != nil {
		t.Fatalf("Failed to read schema file: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE boxes, invoices, order_items, orders, product_prices, products, clients
		RESTART IDENTITY CASCADE;
	`)
	if err != nil {
		t.Fatalf("Failed to clean test database: %v", err)
	}

	return pool
}

func dataset(elems ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(elems))
	for _, e := range elems {
		out = append(out, json.RawMessage(e))
	}
	return out
}

// countRows is a helper for asserting on raw table state.
func countRows(t *testing.T, ctx context.Context, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

// ── Preview ───────────────────────────────────────────────────────────────────

func TestImport_PreviewNewProduct(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewImportService(pool)

	res, err := svc.Preview(ctx, dataset(
		`{"Asado": 1200}`,
		`{"productName":"Asado","kg":23,"isFrozen":false}`,
	))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if res.ProductsCreated != 1 {
		t.Errorf("Expected productsCreated=1, got %d", res.ProductsCreated)
	}
	if res.ProductsUpdated != 0 {
		t.Errorf("Expected productsUpdated=0, got %d", res.ProductsUpdated)
	}
	if res.BoxesCreated != 1 {
		t.Errorf("Expected boxesCreated=1, got %d", res.BoxesCreated)
	}
	if len(res.ProductSummary) != 1 {
		t.Fatalf("Expected 1 summary row, got %d", len(res.ProductSummary))
	}
	summary := res.ProductSummary[0]
	if summary.PreviousPrice != nil {
		t.Errorf("Expected previousPrice=nil for new product, got %s", summary.PreviousPrice)
	}
	if !summary.NewPrice.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected newPrice=1200, got %s", summary.NewPrice)
	}
	if summary.BoxesLoaded != 1 {
		t.Errorf("Expected boxesLoaded=1, got %d", summary.BoxesLoaded)
	}
	if res.TotalProducts != 1 || res.TotalBoxes != 1 {
		t.Errorf("Expected totals 1/1, got %d/%d", res.TotalProducts, res.TotalBoxes)
	}

	// Preview must not mutate anything.
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM products"); n != 0 {
		t.Errorf("Preview created %d products", n)
	}
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM boxes"); n != 0 {
		t.Errorf("Preview created %d boxes", n)
	}
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM product_prices"); n != 0 {
		t.Errorf("Preview appended %d price-history rows", n)
	}
}

func TestImport_PreviewMatchesCaseInsensitive(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewImportService(pool)

	_, err := pool.Exec(ctx,
		"INSERT INTO products (name, base_price) VALUES ('asado', 1000)")
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	res, err := svc.Preview(ctx, dataset(
		`{"Asado": 1200}`,
		`{"productName":"Asado","kg":23,"isFrozen":false}`,
	))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if res.ProductsUpdated != 1 || res.ProductsCreated != 0 {
		t.Errorf("Expected updated=1 created=0, got %d/%d", res.ProductsUpdated, res.ProductsCreated)
	}
	summary := res.ProductSummary[0]
	if summary.PreviousPrice == nil || !summary.PreviousPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected previousPrice=1000, got %v", summary.PreviousPrice)
	}
	if !summary.NewPrice.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected newPrice=1200, got %s", summary.NewPrice)
	}
}

func TestImport_PreviewRecordsInvalidRows(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewImportService(pool)

	res, err := svc.Preview(context.Background(), dataset(
		`{"Asado": 1200}`,
		`{"productName":"","kg":5,"isFrozen":true}`,
		`{"productName":"Asado","kg":"mucho","isFrozen":true}`,
		`{"productName":"Asado","kg":23,"isFrozen":false}`,
	))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}

	if len(res.Errors) != 2 {
		t.Fatalf("Expected 2 row errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if res.BoxesCreated != 1 {
		t.Errorf("Expected boxesCreated=1, got %d", res.BoxesCreated)
	}
	if len(res.Boxes) != 1 {
		t.Errorf("Expected 1 previewed box, got %d", len(res.Boxes))
	}
	// Bad-kg row still counts toward boxesLoaded (productName present),
	// empty-name row does not.
	if res.ProductSummary[0].BoxesLoaded != 2 {
		t.Errorf("Expected boxesLoaded=2, got %d", res.ProductSummary[0].BoxesLoaded)
	}
}

func TestImport_PreviewRejectsBadDataset(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	svc := core.NewImportService(pool)

	for name, data := range map[string][]json.RawMessage{
		"nil":       nil,
		"empty":     {},
		"bad first": dataset(`42`),
	} {
		if _, err := svc.Preview(context.Background(), data); !core.IsValidation(err) {
			t.Errorf("%s: expected ValidationError, got %v", name, err)
		}
	}
}

// ── Commit ────────────────────────────────────────────────────────────────────

func TestImport_CommitCreatesAndUpdates(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewImportService(pool)

	_, err := pool.Exec(ctx,
		"INSERT INTO products (name, base_price) VALUES ('asado', 1000)")
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	res, err := svc.Commit(ctx, dataset(
		`{"Asado": 1200, "Vacio": 900}`,
		`{"productName":"Asado","kg":23,"isFrozen":false}`,
		`{"productName":"Vacio","kg":21,"isFrozen":true,"entryDate":"2026-08-01"}`,
		`{"productName":"Vacio","kg":20,"isFrozen":true}`,
	))
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if res.ProductsUpdated != 1 || res.ProductsCreated != 1 {
		t.Errorf("Expected updated=1 created=1, got %d/%d", res.ProductsUpdated, res.ProductsCreated)
	}
	if res.BoxesCreated != 3 {
		t.Errorf("Expected boxesCreated=3, got %d", res.BoxesCreated)
	}
	if len(res.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", res.Errors)
	}

	// The seeded 'asado' row itself was updated — no duplicate created.
	var price decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT base_price FROM products WHERE name = 'asado'").Scan(&price); err != nil {
		t.Fatalf("Failed to read updated product: %v", err)
	}
	if !price.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected updated price 1200, got %s", price)
	}

	// New product carries has_stock since it came with boxes.
	var hasStock, active bool
	if err := pool.QueryRow(ctx, "SELECT has_stock, active FROM products WHERE name = 'Vacio'").Scan(&hasStock, &active); err != nil {
		t.Fatalf("Failed to read created product: %v", err)
	}
	if !hasStock || !active {
		t.Errorf("Expected created product active with stock, got has_stock=%v active=%v", hasStock, active)
	}

	if n := countRows(t, ctx, pool, "SELECT count(*) FROM product_prices"); n != 2 {
		t.Errorf("Expected 2 price-history rows, got %d", n)
	}
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM boxes"); n != 3 {
		t.Errorf("Expected 3 boxes, got %d", n)
	}
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM boxes WHERE entry_date IS NOT NULL"); n != 1 {
		t.Errorf("Expected 1 box with entry date, got %d", n)
	}
}

func TestImport_CommitAppendsHistoryEvenWhenPriceUnchanged(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewImportService(pool)

	data := dataset(`{"Asado": 1200}`)
	for i := 0; i < 2; i++ {
		if _, err := svc.Commit(ctx, data); err != nil {
			t.Fatalf("Commit %d failed: %v", i+1, err)
		}
	}

	if n := countRows(t, ctx, pool, "SELECT count(*) FROM products"); n != 1 {
		t.Errorf("Expected a single product after two commits, got %d", n)
	}
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM product_prices"); n != 2 {
		t.Errorf("Expected 2 price-history rows after two commits, got %d", n)
	}
}

func TestImport_CommitSkipsInvalidAndOrphanRows(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewImportService(pool)

	res, err := svc.Commit(ctx, dataset(
		`{"Asado": 1200}`,
		`{"productName":"","kg":5,"isFrozen":true}`,
		`{"productName":"Matambre","kg":18,"isFrozen":false}`,
		`{"productName":"Asado","kg":23,"isFrozen":false}`,
	))
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// Empty-name row is invalid; Matambre has no price-table entry so its
	// box has no product to attach to. Both are recorded, not fatal.
	if len(res.Errors) != 2 {
		t.Fatalf("Expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if res.BoxesCreated != 1 {
		t.Errorf("Expected boxesCreated=1, got %d", res.BoxesCreated)
	}
	if n := countRows(t, ctx, pool, "SELECT count(*) FROM boxes"); n != 1 {
		t.Errorf("Expected 1 box persisted, got %d", n)
	}
}

func TestImport_DuplicateNamesWarnAndUseLowestID(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()
	svc := core.NewImportService(pool)

	_, err := pool.Exec(ctx, `
		INSERT INTO products (name, base_price) VALUES ('Asado', 1000), ('asado ', 1100)`)
	if err != nil {
		t.Fatalf("Failed to seed duplicates: %v", err)
	}

	res, err := svc.Preview(ctx, dataset(`{"ASADO": 1200}`))
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Expected 1 duplicate warning, got %d: %v", len(res.Warnings), res.Warnings)
	}
	if res.ProductSummary[0].PreviousPrice == nil || !res.ProductSummary[0].PreviousPrice.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected lowest-id match (price 1000), got %v", res.ProductSummary[0].PreviousPrice)
	}

	if _, err := svc.Commit(ctx, dataset(`{"ASADO": 1200}`)); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	var p1, p2 decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT base_price FROM products WHERE id = 1").Scan(&p1); err != nil {
		t.Fatalf("read product 1: %v", err)
	}
	if err := pool.QueryRow(ctx, "SELECT base_price FROM products WHERE id = 2").Scan(&p2); err != nil {
		t.Fatalf("read product 2: %v", err)
	}
	if !p1.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected lowest-id product updated to 1200, got %s", p1)
	}
	if !p2.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("Expected other duplicate untouched at 1100, got %s", p2)
	}
}
