package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mrp_backend/internal/events"
	"mrp_backend/internal/orders/repository"
	"mrp_backend/internal/orders/transport"
	"mrp_backend/internal/planning"
	"mrp_backend/platform/apperr"
	"mrp_backend/platform/logger"
)

// ProductInfo is what order approval needs to know about the ordered
// product: its lifecycle status and its bill of materials.
type ProductInfo struct {
	Status    planning.Status
	Materials planning.BillOfMaterials
}

// ProductReader looks up the ordered product in the products context.
type ProductReader interface {
	ProductInfo(ctx context.Context, id uuid.UUID) (ProductInfo, error)
}

// ClientChecker verifies a client exists before an order may reference it.
type ClientChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// InventoryReader provides the availability snapshot for the requested
// material names.
type InventoryReader interface {
	Snapshot(ctx context.Context, names []string) (map[string]int64, error)
}

// Service implements order lifecycle use cases.
type Service struct {
	repo      repository.Repository
	products  ProductReader
	clients   ClientChecker
	inventory InventoryReader
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new orders service.
func New(
	repo repository.Repository,
	products ProductReader,
	clients ClientChecker,
	inventory InventoryReader,
	bus events.Bus,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		clients:   clients,
		inventory: inventory,
		bus:       bus,
		log:       log,
	}
}

// Create places an order for an existing product and client. The product and
// client references are verified up front; the order starts Pending.
func (s *Service) Create(ctx context.Context, req transport.CreateOrderRequest) (transport.OrderResponse, error) {
	if req.Quantity <= 0 {
		return transport.OrderResponse{}, apperr.Validation("order quantity must be a positive integer")
	}

	if _, err := s.products.ProductInfo(ctx, req.ProductID); err != nil {
		return transport.OrderResponse{}, err
	}

	exists, err := s.clients.Exists(ctx, req.ClientID)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if !exists {
		return transport.OrderResponse{}, apperr.NotFound("client not found")
	}

	order, err := s.repo.Create(ctx, repository.CreateParams{
		ProductID: req.ProductID,
		ClientID:  req.ClientID,
		Quantity:  req.Quantity,
		Deadline:  req.Deadline,
	})
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return toResponse(order), nil
}

// GetByID retrieves an order.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	return toResponse(order), nil
}

// List returns a paginated order listing.
func (s *Service) List(ctx context.Context, req transport.ListOrdersRequest) (transport.ListOrdersResponse, error) {
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

	orders, total, err := s.repo.List(ctx, repository.ListParams{
		ProductID: req.ProductID,
		ClientID:  req.ClientID,
		Status:    req.Status,
		Offset:    (page - 1) * limit,
		Limit:     limit,
	})
	if err != nil {
		return transport.ListOrdersResponse{}, err
	}

	items := make([]transport.OrderResponse, len(orders))
	for i, order := range orders {
		items[i] = toResponse(order)
	}

	return transport.ListOrdersResponse{
		Items:      items,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// Update edits an order's quantity and/or deadline. Cancelled orders are
// frozen. A quantity change on an approved order drops it back to Pending:
// the earlier availability check no longer covers the new demand.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateOrderRequest) (transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	current, err := planning.ParseStatus(order.Status)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if current == planning.StatusCancelled {
		return transport.OrderResponse{}, apperr.Conflict("cancelled orders cannot be updated")
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		return transport.OrderResponse{}, apperr.Validation("order quantity must be a positive integer")
	}

	updated, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:       id,
		Quantity: req.Quantity,
		Deadline: req.Deadline,
	})
	if err != nil {
		return transport.OrderResponse{}, err
	}

	quantityChanged := req.Quantity != nil && *req.Quantity != order.Quantity
	if quantityChanged && current == planning.StatusApproved {
		updated, err = s.repo.UpdateStatus(ctx, id, string(planning.StatusPending))
		if err != nil {
			return transport.OrderResponse{}, err
		}
		s.publishStatusChange(ctx, updated, current, planning.StatusPending)
	}

	return toResponse(updated), nil
}

// Approve attempts to approve an order. The outcome is subordinate to the
// product's status: a cancelled product blocks the order outright, a pending
// product defers the decision, and an approved product triggers the scaled
// availability check. Shortfalls keep the order Pending and surface as a
// conflict carrying the full shortfall list.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (transport.ApprovalResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}

	current, err := planning.ParseStatus(order.Status)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}
	if !current.CanTransition(planning.StatusApproved) {
		return transport.ApprovalResponse{}, apperr.Conflict(
			fmt.Sprintf("order in status %s cannot be approved", current))
	}

	product, err := s.products.ProductInfo(ctx, order.ProductID)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}

	switch product.Status {
	case planning.StatusCancelled:
		return transport.ApprovalResponse{}, apperr.Conflict("order is blocked: product is cancelled").
			WithDetails(map[string]string{"productStatus": string(product.Status)})

	case planning.StatusPending:
		// Not an error, but not a no-op either: the check could not be run,
		// so the order must not stay more approved than the last check
		// justifies. Write Pending even if the order was approved earlier.
		updated, err := s.repo.UpdateStatus(ctx, id, string(planning.StatusPending))
		if err != nil {
			return transport.ApprovalResponse{}, err
		}
		s.publishStatusChange(ctx, updated, current, planning.StatusPending)

		return transport.ApprovalResponse{
			ID:            updated.ID,
			Status:        updated.Status,
			Approved:      false,
			ProductStatus: string(product.Status),
			Message:       "product approval is pending; order set to pending",
		}, nil
	}

	reqs, err := planning.CalculateRequirements(product.Materials, order.Quantity)
	if err != nil {
		return transport.ApprovalResponse{}, err
	}

	snapshot, err := s.inventory.Snapshot(ctx, product.Materials.Materials())
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
	s.publishStatusChange(ctx, updated, current, target)
	s.log.ApprovalEvent("order", id.String(), string(target), len(shortfalls))

	if len(shortfalls) > 0 {
		return transport.ApprovalResponse{}, apperr.Conflict("insufficient materials").
			WithDetails(transport.ToShortfalls(shortfalls))
	}

	return transport.ApprovalResponse{
		ID:            updated.ID,
		Status:        updated.Status,
		Approved:      true,
		ProductStatus: string(product.Status),
	}, nil
}

// Cancel moves an order to the terminal Cancelled status. Cancelling an
// already-cancelled order is a no-op, not an error.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, err
	}

	current, err := planning.ParseStatus(order.Status)
	if err != nil {
		return transport.OrderResponse{}, err
	}
	if current == planning.StatusCancelled {
		return toResponse(order), nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(planning.StatusCancelled))
	if err != nil {
		return transport.OrderResponse{}, err
	}
	s.publishStatusChange(ctx, updated, current, planning.StatusCancelled)

	return toResponse(updated), nil
}

// Delete removes an order. Nothing references orders, so no guard applies.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) publishStatusChange(ctx context.Context, order repository.Order, from, to planning.Status) {
	if from == to {
		return
	}
	s.bus.Publish(ctx, events.OrderStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   order.ID,
		ProductID: order.ProductID,
		OldStatus: string(from),
		NewStatus: string(to),
	})
}

func toResponse(order repository.Order) transport.OrderResponse {
	resp := transport.OrderResponse{
		ID:        order.ID,
		ProductID: order.ProductID,
		ClientID:  order.ClientID,
		Quantity:  order.Quantity,
		Status:    order.Status,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	if order.Deadline != nil {
		deadline := order.Deadline.Format(time.RFC3339)
		resp.Deadline = &deadline
	}
	return resp
}
