package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// DefaultBoxWeightKg is the weight of one standard box. Overridable via the
// BOX_WEIGHT_KG environment variable at startup.
var DefaultBoxWeightKg = decimal.NewFromInt(23)

// OrderService creates orders with server-derived line totals and their
// invoices, and lists issued invoices.
type OrderService interface {
	// CreateOrder persists the order, its computed line items, and a PENDING
	// invoice for the summed total, all in one transaction.
	CreateOrder(ctx context.Context, clientID int, items []OrderItemInput) (*Order, *Invoice, error)
	// GetInvoices returns all invoices with their order and client, newest first.
	GetInvoices(ctx context.Context) ([]Invoice, error)
}

type OrderItemInput struct {
	ProductID int
	Boxes     int
	UnitPrice decimal.Decimal
}

type orderService struct {
	pool        *pgxpool.Pool
	boxWeightKg decimal.Decimal
}

func NewOrderService(pool *pgxpool.Pool, boxWeightKg decimal.Decimal) OrderService {
	if boxWeightKg.IsZero() {
		boxWeightKg = DefaultBoxWeightKg
	}
	return &orderService{pool: pool, boxWeightKg: boxWeightKg}
}

// ComputeOrderLine derives the weight and subtotal of one order line:
// totalKg = boxes × boxWeightKg, subtotal = totalKg × unitPrice.
func ComputeOrderLine(boxes int, unitPrice, boxWeightKg decimal.Decimal) (totalKg, subtotal decimal.Decimal) {
	totalKg = decimal.NewFromInt(int64(boxes)).Mul(boxWeightKg)
	subtotal = totalKg.Mul(unitPrice)
	return totalKg, subtotal
}

func (s *orderService) CreateOrder(ctx context.Context, clientID int, items []OrderItemInput) (*Order, *Invoice, error) {
	if clientID == 0 || len(items) == 0 {
		return nil, nil, NewValidationError("faltan datos: clientId e items son obligatorios")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists int
	if err := tx.QueryRow(ctx, "SELECT id FROM clients WHERE id = $1", clientID).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("client %d not found", clientID)
		}
		return nil, nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	order := &Order{ClientID: clientID}
	err = tx.QueryRow(ctx,
		"INSERT INTO orders (client_id) VALUES ($1) RETURNING id, created_at",
		clientID,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	var total decimal.Decimal
	for i, input := range items {
		if err := tx.QueryRow(ctx, "SELECT id FROM products WHERE id = $1", input.ProductID).Scan(&exists); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, nil, fmt.Errorf("line %d: product %d not found", i+1, input.ProductID)
			}
			return nil, nil, fmt.Errorf("line %d: failed to resolve product: %w", i+1, err)
		}

		totalKg, subtotal := ComputeOrderLine(input.Boxes, input.UnitPrice, s.boxWeightKg)
		total = total.Add(subtotal)

		item := OrderItem{
			OrderID:   order.ID,
			ProductID: input.ProductID,
			Boxes:     input.Boxes,
			TotalKg:   totalKg,
			UnitPrice: input.UnitPrice,
			Subtotal:  subtotal,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, boxes, total_kg, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, item.OrderID, item.ProductID, item.Boxes, item.TotalKg, item.UnitPrice, item.Subtotal).Scan(&item.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: failed to create order item: %w", i+1, err)
		}
		order.Items = append(order.Items, item)
	}

	invoice := &Invoice{OrderID: order.ID, Total: total, PaymentStatus: PaymentPending}
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (order_id, total, payment_status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, invoice.OrderID, invoice.Total, invoice.PaymentStatus).Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit order: %w", err)
	}
	return order, invoice, nil
}

func (s *orderService) GetInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.order_id, i.total, i.payment_status, i.created_at,
		       o.id, o.client_id, o.created_at,
		       c.id, c.name, c.cuit, c.direccion, c.localidad, c.telefono,
		       c.condicion_iva, c.email, c.notas, c.created_at
		FROM invoices i
		JOIN orders  o ON o.id = i.order_id
		JOIN clients c ON c.id = o.client_id
		ORDER BY i.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var o Order
		var c Client
		if err := rows.Scan(
			&inv.ID, &inv.OrderID, &inv.Total, &inv.PaymentStatus, &inv.CreatedAt,
			&o.ID, &o.ClientID, &o.CreatedAt,
			&c.ID, &c.Name, &c.CUIT, &c.Direccion, &c.Localidad, &c.Telefono,
			&c.CondicionIVA, &c.Email, &c.Notas, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		o.Client = &c
		inv.Order = &o
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
