package adapters

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	ordrepo "mrp_backend/internal/orders/repository"
	prodsvc "mrp_backend/internal/products/service"
)

// ReferencingOrderCounter adapts the orders repository for the product delete
// guard: a product with referencing orders must not be removed.
type ReferencingOrderCounter struct {
	repo ordrepo.Repository
}

// NewReferencingOrderCounter creates a new order counter adapter.
func NewReferencingOrderCounter(repo ordrepo.Repository) *ReferencingOrderCounter {
	return &ReferencingOrderCounter{repo: repo}
}

// CountReferencing reports how many orders reference the product, in any
// status. Cancelled orders still count; they keep their product reference.
func (a *ReferencingOrderCounter) CountReferencing(ctx context.Context, productID uuid.UUID) (int, error) {
	count, err := a.repo.CountByProduct(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("orders adapter: count by product: %w", err)
	}
	return count, nil
}

// Compile-time check that ReferencingOrderCounter implements prodsvc.OrderCounter.
var _ prodsvc.OrderCounter = (*ReferencingOrderCounter)(nil)
