package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientService manages clients. CUIT uniqueness is enforced by
// lookup-before-insert rather than a storage constraint.
type ClientService interface {
	GetClients(ctx context.Context) ([]Client, error)
	CreateClient(ctx context.Context, input ClientInput) (*Client, error)
	DeleteClient(ctx context.Context, id int) error
}

type ClientInput struct {
	Name         string
	CUIT         string
	Direccion    *string
	Localidad    *string
	Telefono     *string
	CondicionIVA string
	Email        *string
	Notas        *string
}

type clientService struct {
	pool *pgxpool.Pool
}

func NewClientService(pool *pgxpool.Pool) ClientService {
	return &clientService{pool: pool}
}

func (s *clientService) GetClients(ctx context.Context) ([]Client, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, cuit, direccion, localidad, telefono, condicion_iva, email, notas, created_at
		FROM clients
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CUIT, &c.Direccion, &c.Localidad,
			&c.Telefono, &c.CondicionIVA, &c.Email, &c.Notas, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *clientService) CreateClient(ctx context.Context, input ClientInput) (*Client, error) {
	if input.Name == "" || input.CUIT == "" || input.CondicionIVA == "" {
		return nil, NewValidationError("faltan datos requeridos: nombre, CUIT y condición frente al IVA son obligatorios")
	}

	var existingID int
	err := s.pool.QueryRow(ctx, "SELECT id FROM clients WHERE cuit = $1", input.CUIT).Scan(&existingID)
	if err == nil {
		return nil, ErrDuplicateClient
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to check CUIT: %w", err)
	}

	var c Client
	err = s.pool.QueryRow(ctx, `
		INSERT INTO clients (name, cuit, direccion, localidad, telefono, condicion_iva, email, notas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, cuit, direccion, localidad, telefono, condicion_iva, email, notas, created_at
	`, input.Name, input.CUIT, input.Direccion, input.Localidad, input.Telefono,
		input.CondicionIVA, input.Email, input.Notas).Scan(
		&c.ID, &c.Name, &c.CUIT, &c.Direccion, &c.Localidad,
		&c.Telefono, &c.CondicionIVA, &c.Email, &c.Notas, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &c, nil
}

func (s *clientService) DeleteClient(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete client %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
