// Package adapters wires bounded contexts together behind the narrow
// interfaces each service declares, so no context imports another's service
// layer directly.
package adapters

import (
	"context"
	"fmt"

	invsvc "mrp_backend/internal/inventory/service"
	ordsvc "mrp_backend/internal/orders/service"
	prodsvc "mrp_backend/internal/products/service"
)

// InventorySnapshotReader adapts the inventory service for the approval
// checks in the products and orders domains. The snapshot is a point-in-time
// read; approvals never deduct stock through it.
type InventorySnapshotReader struct {
	inventory *invsvc.Service
}

// NewInventorySnapshotReader creates a new inventory reader adapter.
func NewInventorySnapshotReader(inventory *invsvc.Service) *InventorySnapshotReader {
	return &InventorySnapshotReader{inventory: inventory}
}

// Snapshot returns the available quantity for each requested material name.
// Names without a stock record are omitted rather than reported as zero.
func (a *InventorySnapshotReader) Snapshot(ctx context.Context, names []string) (map[string]int64, error) {
	snapshot, err := a.inventory.Snapshot(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("inventory adapter: snapshot: %w", err)
	}
	return snapshot, nil
}

// Compile-time checks against both consumer interfaces.
var (
	_ prodsvc.InventoryReader = (*InventorySnapshotReader)(nil)
	_ ordsvc.InventoryReader  = (*InventorySnapshotReader)(nil)
)
