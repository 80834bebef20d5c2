package exports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductMaterials is one row of the snapshot artifact source data.
type ProductMaterials struct {
	ProductID   uuid.UUID
	ProductName string
	Materials   []byte
}

// Repository reads the snapshot source data. It deliberately bypasses the
// products service: the export is a full-table read with no business rules.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new exports repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListProductMaterials returns every product's bill of materials, ordered by
// name for a deterministic artifact.
func (r *Repository) ListProductMaterials(ctx context.Context) ([]ProductMaterials, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, materials FROM products ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list product materials: %w", err)
	}
	defer rows.Close()

	var out []ProductMaterials
	for rows.Next() {
		var row ProductMaterials
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Materials); err != nil {
			return nil, fmt.Errorf("scan product materials: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
