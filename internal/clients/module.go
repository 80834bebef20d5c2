// Package clients provides a minimal client registry; orders reference
// clients by ID.
package clients

import (
	apphttp "mrp_backend/internal/http"
	"mrp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the clients bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the clients module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := NewRepository(pool)
	return &Module{
		handler: NewHandler(repo, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "clients"
}

// Repository returns the repository for cross-module lookups.
func (m *Module) Repository() *Repository {
	return m.repo
}

// RegisterRoutes mounts client routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/clients")
	group.GET("", m.handler.HandleList)
	group.GET("/:id", m.handler.HandleGet)
	group.POST("", m.handler.HandleCreate)
}

var _ apphttp.Module = (*Module)(nil)
