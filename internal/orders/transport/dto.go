package transport

import (
	"time"

	"github.com/google/uuid"

	"mrp_backend/internal/planning"
)

// CreateOrderRequest places an order for a quantity of an existing product.
type CreateOrderRequest struct {
	ProductID uuid.UUID  `json:"productId" validate:"required"`
	ClientID  uuid.UUID  `json:"clientId" validate:"required"`
	Quantity  int64      `json:"quantity" validate:"required,min=1"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

// UpdateOrderRequest carries a partial order update. Absent fields are
// unchanged; product and client references are immutable after creation.
type UpdateOrderRequest struct {
	Quantity *int64     `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Deadline *time.Time `json:"deadline,omitempty"`
}

// ListOrdersRequest holds list filters.
type ListOrdersRequest struct {
	ProductID *uuid.UUID `form:"productId"`
	ClientID  *uuid.UUID `form:"clientId"`
	Status    string     `form:"status" validate:"omitempty,oneof=Pending Approved Cancelled"`
	Page      int        `form:"page" validate:"omitempty,min=1"`
	Limit     int        `form:"limit" validate:"omitempty,min=1,max=100"`
}

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"productId"`
	ClientID  uuid.UUID `json:"clientId"`
	Quantity  int64     `json:"quantity"`
	Deadline  *string   `json:"deadline,omitempty"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// ListOrdersResponse is the paginated order listing.
type ListOrdersResponse struct {
	Items      []OrderResponse `json:"items"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}

// ShortfallResponse describes one material that blocks an order approval.
type ShortfallResponse struct {
	Material  string `json:"material"`
	Needed    int64  `json:"needed"`
	Available *int64 `json:"available"`
	Reason    string `json:"reason"`
}

// ApprovalResponse is the outcome of an order approval attempt. When the
// product itself is still Pending the attempt neither approves nor errors;
// Message explains why.
type ApprovalResponse struct {
	ID            uuid.UUID           `json:"id"`
	Status        string              `json:"status"`
	Approved      bool                `json:"approved"`
	ProductStatus string              `json:"productStatus"`
	Shortfalls    []ShortfallResponse `json:"shortfalls,omitempty"`
	Message       string              `json:"message,omitempty"`
}

// ToShortfalls converts planning shortfalls into their API form.
func ToShortfalls(shortfalls []planning.Shortfall) []ShortfallResponse {
	if len(shortfalls) == 0 {
		return nil
	}
	out := make([]ShortfallResponse, len(shortfalls))
	for i, s := range shortfalls {
		out[i] = ShortfallResponse{
			Material:  s.Material,
			Needed:    s.Needed,
			Available: s.Available,
			Reason:    string(s.Reason),
		}
	}
	return out
}
