package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mrp_backend/platform/apperr"
)

const orderNotFoundMessage = "order not found"

// Order is a persisted customer order row.
type Order struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	ClientID  uuid.UUID
	Quantity  int64
	Deadline  *time.Time
	Status    string
	CreatedAt string
	UpdatedAt string
}

// CreateParams carries the fields for a new order.
type CreateParams struct {
	ProductID uuid.UUID
	ClientID  uuid.UUID
	Quantity  int64
	Deadline  *time.Time
}

// UpdateParams carries a partial order update. Nil fields are unchanged.
// Status is deliberately absent; it is only mutated through UpdateStatus.
type UpdateParams struct {
	ID       uuid.UUID
	Quantity *int64
	Deadline *time.Time
}

// ListParams controls order listing.
type ListParams struct {
	ProductID *uuid.UUID
	ClientID  *uuid.UUID
	Status    string
	Offset    int
	Limit     int
}

// Repository defines data access for orders.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (Order, error)
	List(ctx context.Context, params ListParams) ([]Order, int, error)
	Update(ctx context.Context, params UpdateParams) (Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByProduct(ctx context.Context, productID uuid.UUID) (int, error)
}

// Repo implements the orders repository on pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new orders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const orderColumns = "id, product_id, client_id, quantity, deadline, status, created_at, updated_at"

// Create inserts an order. Status always starts as Pending.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Order, error) {
	query := fmt.Sprintf(`
		INSERT INTO orders (product_id, client_id, quantity, deadline)
		VALUES ($1, $2, $3, $4)
		RETURNING %s`, orderColumns)

	order, err := r.scanRow(r.pool.QueryRow(ctx, query,
		params.ProductID, params.ClientID, params.Quantity, params.Deadline))
	if err != nil {
		return Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// GetByID retrieves an order by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// List lists orders with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Order, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.ProductID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("product_id = $%d", argIdx))
		args = append(args, *params.ProductID)
		argIdx++
	}
	if params.ClientID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("client_id = $%d", argIdx))
		args = append(args, *params.ClientID)
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, orderColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

// Update applies a partial update to quantity and/or deadline.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET quantity = COALESCE($2, quantity),
			deadline = COALESCE($3, deadline),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, orderColumns)

	order, err := r.scanRow(r.pool.QueryRow(ctx, query, params.ID, params.Quantity, params.Deadline))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// UpdateStatus writes the order status as a single atomic record update.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, orderColumns)

	order, err := r.scanRow(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	return order, nil
}

// Delete removes an order. Orders are leaves in the reference graph, so a
// delete is always permitted.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(orderNotFoundMessage)
	}
	return nil
}

// CountByProduct reports how many orders reference the given product,
// regardless of status. Feeds the product delete guard.
func (r *Repo) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE product_id = $1`, productID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count orders by product: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repo) scanRow(row rowScanner) (Order, error) {
	var order Order
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&order.ID, &order.ProductID, &order.ClientID, &order.Quantity,
		&order.Deadline, &order.Status, &createdAt, &updatedAt,
	); err != nil {
		return Order{}, err
	}
	order.CreatedAt = createdAt.Format(time.RFC3339)
	order.UpdatedAt = updatedAt.Format(time.RFC3339)
	return order, nil
}
