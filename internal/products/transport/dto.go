package transport

import (
	"github.com/google/uuid"

	"mrp_backend/internal/planning"
)

// CreateProductRequest creates a product together with its bill of
// materials. Materials is the free-form "Name - Qty; ..." text;
// MaterialsMap is the pre-structured alternative. Exactly one must be set.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	Materials    *string          `json:"materials,omitempty"`
	MaterialsMap map[string]int64 `json:"materialsMap,omitempty" validate:"omitempty,dive,min=0"`
}

// UpdateProductRequest carries a partial product update. Absent fields are
// unchanged. Status is not updatable here; use the status endpoints.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Materials    *string          `json:"materials,omitempty"`
	MaterialsMap map[string]int64 `json:"materialsMap,omitempty" validate:"omitempty,dive,min=0"`
}

// ListProductsRequest holds list filters.
type ListProductsRequest struct {
	Search string `form:"search" validate:"omitempty,max=200"`
	Status string `form:"status" validate:"omitempty,oneof=Pending Approved Cancelled"`
	Page   int    `form:"page" validate:"omitempty,min=1"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ParseWarningResponse reports a materials segment that did not parse into
// a name and quantity.
type ParseWarningResponse struct {
	Segment string `json:"segment"`
	Reason  string `json:"reason"`
}

// ProductResponse is the API representation of a product.
type ProductResponse struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	Materials map[string]int64       `json:"materials"`
	Status    string                 `json:"status"`
	CreatedAt string                 `json:"createdAt"`
	UpdatedAt string                 `json:"updatedAt"`
	Warnings  []ParseWarningResponse `json:"warnings,omitempty"`
}

// ListProductsResponse is the paginated product listing.
type ListProductsResponse struct {
	Items      []ProductResponse `json:"items"`
	TotalCount int               `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// ShortfallResponse describes one material that blocks an approval.
// Available is null when the material has no stock record at all.
type ShortfallResponse struct {
	Material  string `json:"material"`
	Needed    int64  `json:"needed"`
	Available *int64 `json:"available"`
	Reason    string `json:"reason"`
}

// ApprovalResponse is the outcome of a product approval attempt.
type ApprovalResponse struct {
	ID         uuid.UUID           `json:"id"`
	Status     string              `json:"status"`
	Approved   bool                `json:"approved"`
	Shortfalls []ShortfallResponse `json:"shortfalls,omitempty"`
}

// ToParseWarnings converts planning warnings into their API form.
func ToParseWarnings(warnings []planning.Warning) []ParseWarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]ParseWarningResponse, len(warnings))
	for i, w := range warnings {
		out[i] = ParseWarningResponse{Segment: w.Segment, Reason: w.Reason}
	}
	return out
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
