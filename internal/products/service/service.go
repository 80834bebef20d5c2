package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"mrp_backend/internal/events"
	"mrp_backend/internal/planning"
	"mrp_backend/internal/products/repository"
	"mrp_backend/internal/products/transport"
	"mrp_backend/platform/apperr"
	"mrp_backend/platform/logger"
)

// InventoryReader provides the availability snapshot for the requested
// material names. Names absent from stock are omitted from the result.
type InventoryReader interface {
	Snapshot(ctx context.Context, names []string) (map[string]int64, error)
}

// OrderCounter reports how many orders reference a product. The consistency
// guard uses it before a delete.
type OrderCounter interface {
	CountReferencing(ctx context.Context, productID uuid.UUID) (int, error)
}

// Service implements product lifecycle use cases.
type Service struct {
	repo      repository.Repository
	inventory InventoryReader
	orders    OrderCounter
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new products service.
func New(repo repository.Repository, inventory InventoryReader, orders OrderCounter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		inventory: inventory,
		orders:    orders,
		bus:       bus,
		log:       log,
	}
}

// SetOrderCounter injects the referencing-order counter after construction.
// Products and orders reference each other, so one side is wired late.
func (s *Service) SetOrderCounter(orders OrderCounter) {
	s.orders = orders
}

// Create registers a product with its bill of materials. The bill may arrive
// as free-form text or as a pre-structured mapping; it must contain at least
// one material line either way. Parse warnings are returned to the caller,
// never swallowed.
func (s *Service) Create(ctx context.Context, req transport.CreateProductRequest) (transport.ProductResponse, error) {
	bom, warnings, err := resolveBill(req.Materials, req.MaterialsMap)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	if bom.Empty() {
		return transport.ProductResponse{}, apperr.Validation("at least one material is required")
	}

	data, err := bom.MarshalJSON()
	if err != nil {
		return transport.ProductResponse{}, fmt.Errorf("encode materials: %w", err)
	}

	product, err := s.repo.Create(ctx, strings.TrimSpace(req.Name), data)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.bus.Publish(ctx, events.ProductCreated{
		BaseEvent: events.NewBaseEvent(),
		ProductID: product.ID,
		Name:      product.Name,
	})

	resp, err := toResponse(product)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	resp.Warnings = transport.ToParseWarnings(warnings)
	return resp, nil
}

// GetByID retrieves a product.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toResponse(product)
}

// List returns a paginated product listing.
func (s *Service) List(ctx context.Context, req transport.ListProductsRequest) (transport.ListProductsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	products, total, err := s.repo.List(ctx, repository.ListParams{
		Search: strings.TrimSpace(req.Search),
		Status: req.Status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return transport.ListProductsResponse{}, err
	}

	items := make([]transport.ProductResponse, 0, len(products))
	for _, product := range products {
		resp, err := toResponse(product)
		if err != nil {
			return transport.ListProductsResponse{}, err
		}
		items = append(items, resp)
	}

	return transport.ListProductsResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// Update edits a product's name and/or bill of materials. The bill replaces
// the stored one wholesale; status is untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (transport.ProductResponse, error) {
	params := repository.UpdateParams{ID: id}
	var warnings []planning.Warning

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		params.Name = &name
	}

	materialsChanged := req.Materials != nil || req.MaterialsMap != nil
	if materialsChanged {
		bom, parseWarnings, err := resolveBill(req.Materials, req.MaterialsMap)
		if err != nil {
			return transport.ProductResponse{}, err
		}
		if bom.Empty() {
			return transport.ProductResponse{}, apperr.Validation("at least one material is required")
		}
		warnings = parseWarnings

		data, err := bom.MarshalJSON()
		if err != nil {
			return transport.ProductResponse{}, fmt.Errorf("encode materials: %w", err)
		}
		params.Materials = data
	}

	product, err := s.repo.Update(ctx, params)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	if materialsChanged {
		s.bus.Publish(ctx, events.ProductMaterialsChanged{
			BaseEvent: events.NewBaseEvent(),
			ProductID: product.ID,
		})
	}

	resp, err := toResponse(product)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	resp.Warnings = transport.ToParseWarnings(warnings)
	return resp, nil
}

// Approve runs the availability check for a single unit of the product and
// applies the resulting status. Shortfalls leave the product Pending and are
// returned as a conflict with the full shortfall list attached; a clean check
// moves it to Approved. Cancelled products cannot be approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (transport.ApprovalResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}

	current, err := planning.ParseStatus(product.Status)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}
	if !current.CanTransition(planning.StatusApproved) {
		return transport.ApprovalResponse{}, apperr.Conflict(
			fmt.Sprintf("product in status %s cannot be approved", current))
	}

	bom, err := planning.ParseBillOfMaterialsJSON(product.Materials)
	if err != nil {
		return transport.ApprovalResponse{}, apperr.Internal("stored materials are corrupt")
	}

	// Product approval checks feasibility of a single unit.
	reqs, err := planning.CalculateRequirements(bom, 1)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}

	snapshot, err := s.inventory.Snapshot(ctx, bom.Materials())
	if err != nil {
		return transport.ApprovalResponse{}, err
	}

	shortfalls := planning.CheckAvailability(reqs, planning.InventorySnapshot(snapshot))

	target := planning.StatusApproved
	if len(shortfalls) > 0 {
		target = planning.StatusPending
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(target))
	if err != nil {
		return transport.ApprovalResponse{}, err
	}
	s.publishStatusChange(ctx, updated.ID, current, target)
	s.log.ApprovalEvent("product", id.String(), string(target), len(shortfalls))

	if len(shortfalls) > 0 {
		return transport.ApprovalResponse{}, apperr.Conflict("insufficient materials").
			WithDetails(transport.ToShortfalls(shortfalls))
	}

	return transport.ApprovalResponse{
		ID:       updated.ID,
		Status:   updated.Status,
		Approved: true,
	}, nil
}

// Cancel moves a product to the terminal Cancelled status. Cancelling an
// already-cancelled product is a no-op, not an error.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}

	current, err := planning.ParseStatus(product.Status)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	if current == planning.StatusCancelled {
		return toResponse(product)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(planning.StatusCancelled))
	if err != nil {
		return transport.ProductResponse{}, err
	}
	s.publishStatusChange(ctx, updated.ID, current, planning.StatusCancelled)

	return toResponse(updated)
}

// Delete removes a product unless orders still reference it. The referencing
// order count is reported so the caller knows the size of the blocker.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if s.orders == nil {
		return apperr.Internal("order counter not configured")
	}
	count, err := s.orders.CountReferencing(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("product is referenced by existing orders").
			WithDetails(map[string]int{"orderCount": count})
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) publishStatusChange(ctx context.Context, id uuid.UUID, from, to planning.Status) {
	if from == to {
		return
	}
	s.bus.Publish(ctx, events.ProductStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		ProductID: id,
		OldStatus: string(from),
		NewStatus: string(to),
	})
}

// resolveBill builds the bill from whichever input form the request carried.
func resolveBill(spec *string, mapping map[string]int64) (planning.BillOfMaterials, []planning.Warning, error) {
	if spec != nil && mapping != nil {
		return nil, nil, apperr.Validation("provide either materials or materialsMap, not both")
	}

	if mapping != nil {
		bom := make(planning.BillOfMaterials, len(mapping))
		for name, qty := range mapping {
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, nil, apperr.Validation("material name must not be empty")
			}
			if qty < 0 {
				return nil, nil, apperr.Validation(fmt.Sprintf("material %q has negative quantity", name))
			}
			bom[name] = qty
		}
		return bom, nil, nil
	}

	if spec == nil {
		return nil, nil, apperr.Validation("materials specification is required")
	}
	bom, warnings := planning.ParseBillOfMaterials(*spec)
	return bom, warnings, nil
}

func toResponse(product repository.Product) (transport.ProductResponse, error) {
	bom, err := planning.ParseBillOfMaterialsJSON(product.Materials)
	if err != nil {
		return transport.ProductResponse{}, apperr.Internal("stored materials are corrupt")
	}
	return transport.ProductResponse{
		ID:        product.ID,
		Name:      product.Name,
		Materials: map[string]int64(bom),
		Status:    product.Status,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}, nil
}
