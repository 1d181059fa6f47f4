package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/joaoo737/deliveryfront/internal/checkout"
	"github.com/joaoo737/deliveryfront/pkg/db/models"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

type stubRepo struct {
	orders   map[uuid.UUID]*models.Order
	statuses map[uuid.UUID]string
}

func newStubRepo(orders ...*models.Order) *stubRepo {
	byID := map[uuid.UUID]*models.Order{}
	for _, order := range orders {
		byID[order.ID] = order
	}
	return &stubRepo{orders: byID, statuses: map[uuid.UUID]string{}}
}

func (s *stubRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _, _ int) ([]models.Order, error) {
	var result []models.Order
	for _, order := range s.orders {
		if order.CustomerID == customerID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *stubRepo) ListByVendor(_ context.Context, vendorID uuid.UUID, _, _ int) ([]models.Order, error) {
	var result []models.Order
	for _, order := range s.orders {
		if order.VendorID == vendorID {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = enums.OrderStatus(status)
	s.statuses[id] = status
	return nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testPayload(customerID, vendorID uuid.UUID) checkout.OrderPayload {
	subtotal := decimal.RequireFromString("40.00")
	return checkout.OrderPayload{
		CustomerID:      customerID,
		VendorID:        vendorID,
		DeliveryAddress: "Av. Atlantica 1702",
		PaymentMethod:   enums.PaymentMethodCash,
		Subtotal:        subtotal,
		Total:           subtotal,
		Items: []checkout.OrderItemPayload{
			{
				ProductID:   uuid.New(),
				ProductName: "Moqueca Baiana",
				UnitPrice:   decimal.RequireFromString("20.00"),
				Quantity:    2,
				Subtotal:    subtotal,
			},
		},
	}
}

func TestCreateFromCheckoutAppliesDeliveryFee(t *testing.T) {
	t.Parallel()

	repo := newStubRepo()
	svc, err := NewService(repo, passthroughTx{}, decimal.RequireFromString("7.50"))
	require.NoError(t, err)

	customerID := uuid.New()
	order, err := svc.CreateFromCheckout(context.Background(), testPayload(customerID, uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("40.00")))
	assert.True(t, order.DeliveryFee.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("47.50")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, customerID, order.CustomerID)
}

func TestCreateFromCheckoutRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubRepo(), passthroughTx{}, decimal.Zero)
	require.NoError(t, err)

	payload := testPayload(uuid.New(), uuid.New())
	payload.Items = nil

	_, err = svc.CreateFromCheckout(context.Background(), payload)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetForCustomerScopesOwnership(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	order := fixtureOrder(customerID, uuid.New())
	svc, err := NewService(newStubRepo(order), passthroughTx{}, decimal.Zero)
	require.NoError(t, err)

	found, err := svc.GetForCustomer(context.Background(), customerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = svc.GetForCustomer(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAdvanceStatusFollowsPipeline(t *testing.T) {
	t.Parallel()

	vendorID := uuid.New()
	order := fixtureOrder(uuid.New(), vendorID)
	repo := newStubRepo(order)
	svc, err := NewService(repo, passthroughTx{}, decimal.Zero)
	require.NoError(t, err)
	ctx := context.Background()

	updated, err := svc.AdvanceStatus(ctx, vendorID, order.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)

	// delivered straight from confirmed is not a legal hop
	_, err = svc.AdvanceStatus(ctx, vendorID, order.ID, enums.OrderStatusDelivered)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAdvanceStatusHidesForeignOrders(t *testing.T) {
	t.Parallel()

	order := fixtureOrder(uuid.New(), uuid.New())
	svc, err := NewService(newStubRepo(order), passthroughTx{}, decimal.Zero)
	require.NoError(t, err)

	_, err = svc.AdvanceStatus(context.Background(), uuid.New(), order.ID, enums.OrderStatusConfirmed)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCancelForCustomerOnlyWhilePending(t *testing.T) {
	t.Parallel()

	customerID := uuid.New()
	order := fixtureOrder(customerID, uuid.New())
	repo := newStubRepo(order)
	svc, err := NewService(repo, passthroughTx{}, decimal.Zero)
	require.NoError(t, err)
	ctx := context.Background()

	cancelled, err := svc.CancelForCustomer(ctx, customerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)

	_, err = svc.CancelForCustomer(ctx, customerID, order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}
