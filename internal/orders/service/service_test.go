package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"mrp_backend/internal/orders/repository"
	"mrp_backend/internal/orders/transport"
	"mrp_backend/internal/planning"
	"mrp_backend/platform/apperr"
	"mrp_backend/platform/events"
	"mrp_backend/platform/logger"
)

type fakeRepo struct {
	orders map[uuid.UUID]repository.Order
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[uuid.UUID]repository.Order)}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Order, error) {
	order := repository.Order{
		ID:        uuid.New(),
		ProductID: params.ProductID,
		ClientID:  params.ClientID,
		Quantity:  params.Quantity,
		Deadline:  params.Deadline,
		Status:    string(planning.StatusPending),
		CreatedAt: "2026-01-01T00:00:00Z",
		UpdatedAt: "2026-01-01T00:00:00Z",
	}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return repository.Order{}, apperr.NotFound("order not found")
	}
	return order, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Order, int, error) {
	var out []repository.Order
	for _, order := range f.orders {
		out = append(out, order)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.Order, error) {
	order, ok := f.orders[params.ID]
	if !ok {
		return repository.Order{}, apperr.NotFound("order not found")
	}
	if params.Quantity != nil {
		order.Quantity = *params.Quantity
	}
	if params.Deadline != nil {
		order.Deadline = params.Deadline
	}
	f.orders[params.ID] = order
	return order, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (repository.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return repository.Order{}, apperr.NotFound("order not found")
	}
	order.Status = status
	f.orders[id] = order
	return order, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.orders[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeRepo) CountByProduct(_ context.Context, productID uuid.UUID) (int, error) {
	count := 0
	for _, order := range f.orders {
		if order.ProductID == productID {
			count++
		}
	}
	return count, nil
}

type fakeProducts struct {
	infos map[uuid.UUID]ProductInfo
}

func (f *fakeProducts) ProductInfo(_ context.Context, id uuid.UUID) (ProductInfo, error) {
	info, ok := f.infos[id]
	if !ok {
		return ProductInfo{}, apperr.NotFound("product not found")
	}
	return info, nil
}

type fakeClients struct {
	ids map[uuid.UUID]bool
}

func (f *fakeClients) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}

type fakeInventory struct {
	stock map[string]int64
}

func (f *fakeInventory) Snapshot(_ context.Context, names []string) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, name := range names {
		if qty, ok := f.stock[name]; ok {
			out[name] = qty
		}
	}
	return out, nil
}

type testEnv struct {
	svc       *Service
	repo      *fakeRepo
	products  *fakeProducts
	productID uuid.UUID
	clientID  uuid.UUID
}

func newTestEnv(productStatus planning.Status, bom planning.BillOfMaterials, stock map[string]int64) testEnv {
	productID := uuid.New()
	clientID := uuid.New()
	repo := newFakeRepo()
	log := logger.New("test")

	products := &fakeProducts{infos: map[uuid.UUID]ProductInfo{
		productID: {Status: productStatus, Materials: bom},
	}}
	svc := New(
		repo,
		products,
		&fakeClients{ids: map[uuid.UUID]bool{clientID: true}},
		&fakeInventory{stock: stock},
		events.NewInMemoryBus(log),
		log,
	)
	return testEnv{svc: svc, repo: repo, products: products, productID: productID, clientID: clientID}
}

func (e testEnv) placeOrder(t *testing.T, qty int64) transport.OrderResponse {
	t.Helper()
	order, err := e.svc.Create(context.Background(), transport.CreateOrderRequest{
		ProductID: e.productID,
		ClientID:  e.clientID,
		Quantity:  qty,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return order
}

func TestCreateRejectsUnknownProduct(t *testing.T) {
	env := newTestEnv(planning.StatusApproved, planning.BillOfMaterials{"Wood": 4}, nil)

	_, err := env.svc.Create(context.Background(), transport.CreateOrderRequest{
		ProductID: uuid.New(),
		ClientID:  env.clientID,
		Quantity:  1,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Create() error = %v, want not found", err)
	}
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	env := newTestEnv(planning.StatusApproved, planning.BillOfMaterials{"Wood": 4}, nil)

	_, err := env.svc.Create(context.Background(), transport.CreateOrderRequest{
		ProductID: env.productID,
		ClientID:  uuid.New(),
		Quantity:  1,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("Create() error = %v, want not found", err)
	}
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(planning.StatusApproved, planning.BillOfMaterials{"Wood": 4}, nil)

	_, err := env.svc.Create(context.Background(), transport.CreateOrderRequest{
		ProductID: env.productID,
		ClientID:  env.clientID,
		Quantity:  0,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

func TestApproveScalesRequirementsByQuantity(t *testing.T) {
	// 3 units of Wood per product unit, order of 5 needs 15; only 14 in stock.
	env := newTestEnv(planning.StatusApproved,
		planning.BillOfMaterials{"Wood": 3},
		map[string]int64{"Wood": 14})

	order := env.placeOrder(t, 5)

	_, err := env.svc.Approve(context.Background(), order.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Approve() error = %v, want conflict", err)
	}

	shortfalls := err.(*apperr.Error).Details.([]transport.ShortfallResponse)
	if len(shortfalls) != 1 {
		t.Fatalf("shortfalls = %v, want one", shortfalls)
	}
	if shortfalls[0].Needed != 15 {
		t.Errorf("Needed = %d, want 15 (3 per unit x 5 units)", shortfalls[0].Needed)
	}
	if env.repo.orders[order.ID].Status != string(planning.StatusPending) {
		t.Errorf("status = %q, want Pending after shortfall", env.repo.orders[order.ID].Status)
	}
}

func TestApproveSucceedsWithExactStock(t *testing.T) {
	env := newTestEnv(planning.StatusApproved,
		planning.BillOfMaterials{"Wood": 3},
		map[string]int64{"Wood": 15})

	order := env.placeOrder(t, 5)

	resp, err := env.svc.Approve(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !resp.Approved || resp.Status != string(planning.StatusApproved) {
		t.Errorf("resp = %+v, want approved", resp)
	}
}

func TestApproveBlockedByCancelledProduct(t *testing.T) {
	env := newTestEnv(planning.StatusCancelled,
		planning.BillOfMaterials{"Wood": 3},
		map[string]int64{"Wood": 1000})

	order := env.placeOrder(t, 1)

	_, err := env.svc.Approve(context.Background(), order.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Approve() error = %v, want conflict for cancelled product", err)
	}
	if env.repo.orders[order.ID].Status != string(planning.StatusPending) {
		t.Errorf("order status changed to %q, want untouched Pending", env.repo.orders[order.ID].Status)
	}
}

func TestApproveDeferredByPendingProduct(t *testing.T) {
	env := newTestEnv(planning.StatusPending,
		planning.BillOfMaterials{"Wood": 3},
		map[string]int64{"Wood": 1000})

	order := env.placeOrder(t, 1)

	resp, err := env.svc.Approve(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Approve() error = %v, want informational response, not error", err)
	}
	if resp.Approved {
		t.Error("Approved = true, want false while product is pending")
	}
	if resp.ProductStatus != string(planning.StatusPending) {
		t.Errorf("ProductStatus = %q, want Pending", resp.ProductStatus)
	}
	if resp.Message == "" {
		t.Error("Message is empty, want an explanation")
	}
	if env.repo.orders[order.ID].Status != string(planning.StatusPending) {
		t.Errorf("order status = %q, want Pending", env.repo.orders[order.ID].Status)
	}
}

func TestApproveUnderPendingProductDowngradesApprovedOrder(t *testing.T) {
	env := newTestEnv(planning.StatusApproved,
		planning.BillOfMaterials{"Wood": 1},
		map[string]int64{"Wood": 1000})

	order := env.placeOrder(t, 1)
	if _, err := env.svc.Approve(context.Background(), order.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if env.repo.orders[order.ID].Status != string(planning.StatusApproved) {
		t.Fatalf("order status = %q, want Approved before the product downgrade", env.repo.orders[order.ID].Status)
	}

	// The product is re-checked down to Pending; a later approval attempt
	// must pull the order back with it, not leave the stale Approved status.
	env.products.infos[env.productID] = ProductInfo{
		Status:    planning.StatusPending,
		Materials: planning.BillOfMaterials{"Wood": 1},
	}

	resp, err := env.svc.Approve(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("Approve() error = %v, want informational response", err)
	}
	if resp.Approved {
		t.Error("Approved = true, want false while product is pending")
	}
	if resp.Status != string(planning.StatusPending) {
		t.Errorf("response status = %q, want Pending", resp.Status)
	}
	if env.repo.orders[order.ID].Status != string(planning.StatusPending) {
		t.Errorf("order status = %q, want Pending", env.repo.orders[order.ID].Status)
	}
}

func TestApproveRejectsCancelledOrder(t *testing.T) {
	env := newTestEnv(planning.StatusApproved,
		planning.BillOfMaterials{"Wood": 1},
		map[string]int64{"Wood": 1000})

	order := env.placeOrder(t, 1)
	if _, err := env.svc.Cancel(context.Background(), order.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	_, err := env.svc.Approve(context.Background(), order.ID)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Approve() on cancelled order error = %v, want conflict", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	env := newTestEnv(planning.StatusApproved, planning.BillOfMaterials{"Wood": 1}, nil)

	order := env.placeOrder(t, 1)

	if _, err := env.svc.Cancel(context.Background(), order.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	resp, err := env.svc.Cancel(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("second Cancel() error = %v", err)
	}
	if resp.Status != string(planning.StatusCancelled) {
		t.Errorf("Status = %q, want Cancelled", resp.Status)
	}
}

func TestUpdateQuantityDowngradesApprovedOrder(t *testing.T) {
	env := newTestEnv(planning.StatusApproved,
		planning.BillOfMaterials{"Wood": 1},
		map[string]int64{"Wood": 1000})

	order := env.placeOrder(t, 2)
	if _, err := env.svc.Approve(context.Background(), order.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	newQty := int64(5)
	resp, err := env.svc.Update(context.Background(), order.ID, transport.UpdateOrderRequest{
		Quantity: &newQty,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if resp.Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", resp.Quantity)
	}
	if resp.Status != string(planning.StatusPending) {
		t.Errorf("Status = %q, want Pending after quantity change", resp.Status)
	}
}

func TestUpdateRejectsCancelledOrder(t *testing.T) {
	env := newTestEnv(planning.StatusApproved, planning.BillOfMaterials{"Wood": 1}, nil)

	order := env.placeOrder(t, 1)
	if _, err := env.svc.Cancel(context.Background(), order.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	newQty := int64(2)
	_, err := env.svc.Update(context.Background(), order.ID, transport.UpdateOrderRequest{
		Quantity: &newQty,
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Update() on cancelled order error = %v, want conflict", err)
	}
}

func TestDeleteAlwaysAllowed(t *testing.T) {
	env := newTestEnv(planning.StatusApproved,
		planning.BillOfMaterials{"Wood": 1},
		map[string]int64{"Wood": 1000})

	order := env.placeOrder(t, 1)
	if _, err := env.svc.Approve(context.Background(), order.ID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if err := env.svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("Delete() error = %v; approved orders must still be deletable", err)
	}
	if _, ok := env.repo.orders[order.ID]; ok {
		t.Error("order still present after delete")
	}
}
