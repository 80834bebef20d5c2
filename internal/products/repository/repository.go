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

const productNotFoundMessage = "product not found"

// Product is a persisted product row. Materials holds the bill of materials
// as the raw JSONB name->quantity object.
type Product struct {
	ID        uuid.UUID
	Name      string
	Materials []byte
	Status    string
	CreatedAt string
	UpdatedAt string
}

// ListParams controls product listing.
type ListParams struct {
	Search string
	Status string
	Offset int
	Limit  int
}

// UpdateParams carries a partial product update. Nil fields are unchanged.
// Status is deliberately absent: it is only mutated through UpdateStatus.
type UpdateParams struct {
	ID        uuid.UUID
	Name      *string
	Materials []byte
}

// Repository defines data access for products.
type Repository interface {
	Create(ctx context.Context, name string, materials []byte) (Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	Update(ctx context.Context, params UpdateParams) (Product, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements the products repository on pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new products repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const productColumns = "id, name, materials, status, created_at, updated_at"

// Create inserts a product. Status always starts as Pending.
func (r *Repo) Create(ctx context.Context, name string, materials []byte) (Product, error) {
	query := fmt.Sprintf(`
		INSERT INTO products (name, materials)
		VALUES ($1, $2)
		RETURNING %s`, productColumns)

	product, err := r.scanRow(r.pool.QueryRow(ctx, query, name, materials))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// GetByID retrieves a product by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	product, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List lists products with filters and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Product, int, error) {
	whereClauses := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("name ILIKE $%d", argIdx))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}
	if params.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM products
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, productColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		product, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, product)
	}
	return products, total, rows.Err()
}

// Update applies a partial update to name and/or materials.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET name = COALESCE($2, name),
			materials = COALESCE($3, materials),
			updated_at = now()
		WHERE id = $1
		RETURNING %s`, productColumns)

	product, err := r.scanRow(r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Materials))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

// UpdateStatus writes the product status as a single atomic record update.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s`, productColumns)

	product, err := r.scanRow(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product status: %w", err)
	}
	return product, nil
}

// Delete hard-removes a product row. The service consults the consistency
// guard before calling this.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(productNotFoundMessage)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repo) scanRow(row rowScanner) (Product, error) {
	var product Product
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&product.ID, &product.Name, &product.Materials, &product.Status, &createdAt, &updatedAt,
	); err != nil {
		return Product{}, err
	}
	product.CreatedAt = createdAt.Format(time.RFC3339)
	product.UpdatedAt = updatedAt.Format(time.RFC3339)
	return product, nil
}
