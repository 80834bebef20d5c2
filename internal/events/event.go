// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"mrp_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Product Domain Events
// =============================================================================

// ProductCreated is published when a new product is created.
// The exports module listens to rebuild the materials snapshot artifact.
type ProductCreated struct {
	BaseEvent
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
}

func (e ProductCreated) EventName() string { return "products.product.created" }

// ProductMaterialsChanged is published when a product's bill of materials is
// edited. Triggers a snapshot rebuild like ProductCreated.
type ProductMaterialsChanged struct {
	BaseEvent
	ProductID uuid.UUID `json:"productId"`
}

func (e ProductMaterialsChanged) EventName() string { return "products.materials.changed" }

// ProductStatusChanged is published when a product transitions between
// lifecycle statuses (approve, re-check downgrade, cancel).
type ProductStatusChanged struct {
	BaseEvent
	ProductID uuid.UUID `json:"productId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e ProductStatusChanged) EventName() string { return "products.status.changed" }

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderStatusChanged is published when an order transitions between
// lifecycle statuses.
type OrderStatusChanged struct {
	BaseEvent
	OrderID   uuid.UUID `json:"orderId"`
	ProductID uuid.UUID `json:"productId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e OrderStatusChanged) EventName() string { return "orders.status.changed" }
