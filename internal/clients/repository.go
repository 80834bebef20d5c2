package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mrp_backend/platform/apperr"
)

const clientNotFoundMessage = "client not found"

// Client is a customer record referenced by orders.
type Client struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
}

// Repository provides data access for clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new clients repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a client record.
func (r *Repository) Create(ctx context.Context, name string, email *string) (Client, error) {
	query := `
		INSERT INTO clients (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email, created_at`

	var client Client
	if err := r.pool.QueryRow(ctx, query, name, email).Scan(
		&client.ID, &client.Name, &client.Email, &client.CreatedAt,
	); err != nil {
		return Client{}, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// GetByID retrieves a client by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Client, error) {
	query := `SELECT id, name, email, created_at FROM clients WHERE id = $1`

	var client Client
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&client.ID, &client.Name, &client.Email, &client.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, apperr.NotFound(clientNotFoundMessage)
		}
		return Client{}, fmt.Errorf("get client: %w", err)
	}
	return client, nil
}

// List returns all clients ordered by name.
func (r *Repository) List(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, created_at FROM clients ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clientList []Client
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clientList = append(clientList, client)
	}
	return clientList, rows.Err()
}

// Exists reports whether a client with the given ID exists.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("client exists: %w", err)
	}
	return exists, nil
}
