package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

type stubProductLoader struct {
	snapshots map[uuid.UUID]ProductSnapshot
}

func (s stubProductLoader) Snapshot(_ context.Context, productID uuid.UUID) (ProductSnapshot, error) {
	snapshot, ok := s.snapshots[productID]
	if !ok {
		return ProductSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return snapshot, nil
}

func newTestService(t *testing.T, snapshots ...ProductSnapshot) (Service, Store) {
	t.Helper()

	byID := map[uuid.UUID]ProductSnapshot{}
	for _, snapshot := range snapshots {
		byID[snapshot.ProductID] = snapshot
	}

	store := NewMemoryStore()
	svc, err := NewService(store, stubProductLoader{snapshots: byID}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestServiceAddItemPersists(t *testing.T) {
	t.Parallel()

	product := snapshotFor(uuid.New(), "22.00")
	svc, store := newTestService(t, product)
	customerID := uuid.New()

	state, err := svc.AddItem(context.Background(), customerID, product.ProductID, 2, false)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if state.ItemCount != 2 || state.Subtotal.String() != "44" {
		t.Fatalf("unexpected state: %+v", state)
	}

	saved, err := store.Load(context.Background(), customerID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if saved.ItemCount != 2 {
		t.Fatalf("expected persisted cart, got %+v", saved)
	}
}

func TestServiceAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1, false)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestServiceAddItemVendorConflict(t *testing.T) {
	t.Parallel()

	first := snapshotFor(uuid.New(), "10.00")
	second := snapshotFor(uuid.New(), "20.00")
	svc, _ := newTestService(t, first, second)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, first.ProductID, 1, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	_, err := svc.AddItem(context.Background(), customerID, second.ProductID, 1, false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected vendor details, got %T", typed.Details())
	}
	if details["new_vendor_name"] != second.VendorName {
		t.Fatalf("expected candidate vendor in details, got %v", details)
	}

	// The stored cart must be untouched by the rejection.
	state, err := svc.Get(context.Background(), customerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if state.ItemCount != 1 || !state.IsInCart(first.ProductID) {
		t.Fatalf("cart changed after rejected add: %+v", state)
	}
}

func TestServiceAddItemReplaceSwapsCart(t *testing.T) {
	t.Parallel()

	first := snapshotFor(uuid.New(), "10.00")
	second := snapshotFor(uuid.New(), "20.00")
	svc, _ := newTestService(t, first, second)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, first.ProductID, 3, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	state, err := svc.AddItem(context.Background(), customerID, second.ProductID, 1, true)
	if err != nil {
		t.Fatalf("replace add: %v", err)
	}
	if len(state.Items) != 1 || !state.IsInCart(second.ProductID) {
		t.Fatalf("expected swapped cart, got %+v", state)
	}
	if state.VendorID == nil || *state.VendorID != second.VendorID {
		t.Fatalf("expected new vendor, got %v", state.VendorID)
	}
}

func TestServiceAddItemReplaceSameVendorAccumulates(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	product := snapshotFor(vendorID, "10.00")
	svc, _ := newTestService(t, product)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, product.ProductID, 1, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	// replace=true against the same vendor must not wipe the cart.
	state, err := svc.AddItem(context.Background(), customerID, product.ProductID, 2, true)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := state.ItemQuantity(product.ProductID); got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}
}

func TestServiceUpdateQuantity(t *testing.T) {
	t.Parallel()

	product := snapshotFor(uuid.New(), "10.00")
	svc, _ := newTestService(t, product)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, product.ProductID, 1, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	state, err := svc.UpdateQuantity(context.Background(), customerID, product.ProductID, 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if state.ItemQuantity(product.ProductID) != 5 {
		t.Fatalf("unexpected quantity: %+v", state)
	}

	state, err = svc.UpdateQuantity(context.Background(), customerID, product.ProductID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if !state.IsEmpty() || state.VendorID != nil {
		t.Fatalf("expected emptied cart, got %+v", state)
	}
}

func TestServiceUpdateQuantityMissingProductIsNoOp(t *testing.T) {
	t.Parallel()

	product := snapshotFor(uuid.New(), "10.00")
	svc, _ := newTestService(t, product)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, product.ProductID, 2, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	state, err := svc.UpdateQuantity(context.Background(), customerID, uuid.New(), 2)
	if err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if state.ItemQuantity(product.ProductID) != 2 || len(state.Items) != 1 {
		t.Fatalf("expected cart untouched, got %+v", state)
	}
}

func TestServiceClear(t *testing.T) {
	t.Parallel()

	product := snapshotFor(uuid.New(), "10.00")
	svc, store := newTestService(t, product)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, product.ProductID, 1, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	state, err := svc.Clear(context.Background(), customerID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !state.IsEmpty() {
		t.Fatalf("expected empty state, got %+v", state)
	}

	saved, err := store.Load(context.Background(), customerID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !saved.IsEmpty() {
		t.Fatal("expected cart deleted from store")
	}
}

func TestServiceSetDeliveryDetails(t *testing.T) {
	t.Parallel()

	product := snapshotFor(uuid.New(), "10.00")
	svc, _ := newTestService(t, product)
	customerID := uuid.New()

	if _, err := svc.AddItem(context.Background(), customerID, product.ProductID, 1, false); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	address := "Rua Augusta 500"
	method := enums.PaymentMethodCreditCard
	state, err := svc.SetDeliveryDetails(context.Background(), customerID, DeliveryDetailsInput{
		DeliveryAddress: &address,
		PaymentMethod:   &method,
	})
	if err != nil {
		t.Fatalf("set details: %v", err)
	}
	if state.DeliveryAddress != address || state.PaymentMethod != method {
		t.Fatalf("details not applied: %+v", state)
	}
	if !state.CanCheckout() {
		t.Fatalf("expected checkout-ready cart, missing %v", state.MissingCheckoutFields())
	}

	bad := enums.PaymentMethod("check")
	if _, err := svc.SetDeliveryDetails(context.Background(), customerID, DeliveryDetailsInput{PaymentMethod: &bad}); err == nil {
		t.Fatal("expected invalid payment method to be rejected")
	}
}
