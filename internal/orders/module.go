// Package orders provides the customer order bounded context module.
package orders

import (
	apphttp "mrp_backend/internal/http"
	"mrp_backend/internal/events"
	"mrp_backend/internal/orders/handler"
	"mrp_backend/internal/orders/repository"
	"mrp_backend/internal/orders/service"
	"mrp_backend/platform/logger"
	"mrp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the orders module. Product, client and
// inventory access come in as narrow interfaces.
func NewModule(
	pool *pgxpool.Pool,
	products service.ProductReader,
	clients service.ClientChecker,
	inventory service.InventoryReader,
	bus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, products, clients, inventory, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Repository returns the repository for cross-module lookups (the product
// delete guard counts referencing orders through it).
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/orders")
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.POST("", m.handler.Create)
	group.PUT("/:id", m.handler.Update)
	group.POST("/:id/approve", m.handler.Approve)
	group.POST("/:id/cancel", m.handler.Cancel)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
