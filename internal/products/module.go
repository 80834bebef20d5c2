// Package products provides the product definition and approval bounded
// context module.
package products

import (
	apphttp "mrp_backend/internal/http"
	"mrp_backend/internal/events"
	"mrp_backend/internal/products/handler"
	"mrp_backend/internal/products/repository"
	"mrp_backend/internal/products/service"
	"mrp_backend/platform/logger"
	"mrp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the products bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the products module. Inventory reads
// come in as a narrow interface so the module does not depend on the other
// contexts directly; the referencing-order counter is injected afterwards via
// SetOrderCounter because orders are constructed later.
func NewModule(
	pool *pgxpool.Pool,
	inventory service.InventoryReader,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, inventory, nil, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// SetOrderCounter injects the referencing-order counter used by the product
// delete guard.
func (m *Module) SetOrderCounter(orders service.OrderCounter) {
	m.service.SetOrderCounter(orders)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "products"
}

// Repository returns the repository for cross-module lookups.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts product routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/products")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.POST("", m.handler.Create)
	group.PUT("/:id", m.handler.Update)
	group.POST("/:id/approve", m.handler.Approve)
	group.POST("/:id/cancel", m.handler.Cancel)

	ctx.Admin.DELETE("/products/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
