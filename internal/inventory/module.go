// Package inventory provides the raw material stock bounded context module.
package inventory

import (
	"mrp_backend/internal/inventory/handler"
	"mrp_backend/internal/inventory/repository"
	"mrp_backend/internal/inventory/service"
	apphttp "mrp_backend/internal/http"
	"mrp_backend/platform/logger"
	"mrp_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the inventory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the inventory module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "inventory"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts inventory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/inventory/materials", m.handler.List)
	ctx.Protected.GET("/inventory/materials/:id", m.handler.GetByID)

	adminGroup := ctx.Admin.Group("/inventory")
	adminGroup.POST("/materials", m.handler.Create)
	adminGroup.PUT("/materials/:id", m.handler.UpdateVolume)
	adminGroup.DELETE("/materials/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
