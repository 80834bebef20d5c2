package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mrp_backend/platform/apperr"
)

const materialNotFoundMessage = "raw material not found"

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// RawMaterial is a stock record for one material.
type RawMaterial struct {
	ID        uuid.UUID
	Name      string
	Volume    int64
	CreatedAt string
	UpdatedAt string
}

// Repository defines data access for raw material stock.
type Repository interface {
	Create(ctx context.Context, name string, volume int64) (RawMaterial, error)
	GetByID(ctx context.Context, id uuid.UUID) (RawMaterial, error)
	List(ctx context.Context, params ListParams) ([]RawMaterial, int, error)
	UpdateVolume(ctx context.Context, id uuid.UUID, volume int64) (RawMaterial, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Snapshot(ctx context.Context, names []string) (map[string]int64, error)
}

// ListParams controls raw material listing.
type ListParams struct {
	Search string
	Offset int
	Limit  int
}

// Repo implements the inventory repository on pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inventory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a raw material stock record.
func (r *Repo) Create(ctx context.Context, name string, volume int64) (RawMaterial, error) {
	query := `
		INSERT INTO raw_materials (name, volume)
		VALUES ($1, $2)
		RETURNING id, name, volume, created_at, updated_at`

	material, err := r.scanRow(r.pool.QueryRow(ctx, query, name, volume))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return RawMaterial{}, apperr.Conflict("raw material already exists")
		}
		return RawMaterial{}, fmt.Errorf("create raw material: %w", err)
	}
	return material, nil
}

// GetByID retrieves a raw material by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (RawMaterial, error) {
	query := `
		SELECT id, name, volume, created_at, updated_at
		FROM raw_materials
		WHERE id = $1`

	material, err := r.scanRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RawMaterial{}, apperr.NotFound(materialNotFoundMessage)
		}
		return RawMaterial{}, fmt.Errorf("get raw material: %w", err)
	}
	return material, nil
}

// List lists raw materials with optional name search and pagination.
func (r *Repo) List(ctx context.Context, params ListParams) ([]RawMaterial, int, error) {
	where := "TRUE"
	args := []interface{}{}
	if params.Search != "" {
		where = "name ILIKE $1"
		args = append(args, "%"+params.Search+"%")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM raw_materials WHERE %s", where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count raw materials: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, volume, created_at, updated_at
		FROM raw_materials
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()

	var materials []RawMaterial
	for rows.Next() {
		material, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan raw material: %w", err)
		}
		materials = append(materials, material)
	}
	return materials, total, rows.Err()
}

// UpdateVolume sets the available volume for a raw material.
func (r *Repo) UpdateVolume(ctx context.Context, id uuid.UUID, volume int64) (RawMaterial, error) {
	query := `
		UPDATE raw_materials
		SET volume = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, volume, created_at, updated_at`

	material, err := r.scanRow(r.pool.QueryRow(ctx, query, id, volume))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RawMaterial{}, apperr.NotFound(materialNotFoundMessage)
		}
		return RawMaterial{}, fmt.Errorf("update raw material volume: %w", err)
	}
	return material, nil
}

// Delete removes a raw material record.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete raw material: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(materialNotFoundMessage)
	}
	return nil
}

// Snapshot returns the available volume for each of the given material names.
// Names absent from stock are simply omitted; "not found" stays distinct from
// "found with zero volume".
func (r *Repo) Snapshot(ctx context.Context, names []string) (map[string]int64, error) {
	snapshot := make(map[string]int64, len(names))
	if len(names) == 0 {
		return snapshot, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT name, volume FROM raw_materials WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("inventory snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var volume int64
		if err := rows.Scan(&name, &volume); err != nil {
			return nil, fmt.Errorf("scan inventory snapshot: %w", err)
		}
		snapshot[name] = volume
	}
	return snapshot, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repo) scanRow(row rowScanner) (RawMaterial, error) {
	var material RawMaterial
	var createdAt, updatedAt time.Time
	if err := row.Scan(&material.ID, &material.Name, &material.Volume, &createdAt, &updatedAt); err != nil {
		return RawMaterial{}, err
	}
	material.CreatedAt = createdAt.Format(time.RFC3339)
	material.UpdatedAt = updatedAt.Format(time.RFC3339)
	material.Name = strings.TrimSpace(material.Name)
	return material, nil
}
